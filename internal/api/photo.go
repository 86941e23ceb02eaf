package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pbaille/kalorien/internal/analyzer"
	"github.com/pbaille/kalorien/internal/fetcher"
	"github.com/pbaille/kalorien/internal/photo"
)

// CaptureRequest references an image by URL.
type CaptureRequest struct {
	URL string `json:"url"`
}

// SavePhotoRequest is the request body for saving the analyzed draft.
type SavePhotoRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) photoState(c *gin.Context) {
	writeJSON(c, http.StatusOK, s.photo.State())
}

// capturePhoto accepts a multipart upload in field "image" or a JSON body
// with a URL.
func (s *Server) capturePhoto(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		s.captureUpload(c)
		return
	}

	var req CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		writeError(c, http.StatusBadRequest, "expected an 'image' upload or a JSON body with 'url'")
		return
	}
	state, err := s.photo.CaptureURL(c.Request.Context(), req.URL)
	if err != nil {
		s.failPhoto(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, state)
}

func (s *Server) captureUpload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		writeError(c, http.StatusBadRequest, "form field 'image' is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "cannot read upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, analyzer.MaxImageSize+1))
	if err != nil {
		writeError(c, http.StatusBadRequest, "cannot read upload")
		return
	}
	img, err := analyzer.NewImage(data, fh.Header.Get("Content-Type"))
	if err != nil {
		s.failPhoto(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, s.photo.Capture(img, fh.Filename))
}

func (s *Server) analyzePhoto(c *gin.Context) {
	est, err := s.photo.Analyze(c.Request.Context())
	if err != nil {
		s.failPhoto(c, err)
		return
	}
	writeJSON(c, http.StatusOK, est)
}

func (s *Server) savePhoto(c *gin.Context) {
	var req SavePhotoRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	entry, err := s.photo.Save(c.Request.Context(), req.Notes)
	if err != nil {
		s.failPhoto(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, entry)
}

func (s *Server) resetPhoto(c *gin.Context) {
	s.photo.Reset()
	c.Status(http.StatusNoContent)
}

// failPhoto maps draft-session errors. Errors from the analyzer or a remote
// image host are upstream failures; the draft is still there to retry.
func (s *Server) failPhoto(c *gin.Context, err error) {
	switch {
	case errors.Is(err, photo.ErrNoImage),
		errors.Is(err, photo.ErrNotAnalyzed),
		errors.Is(err, photo.ErrStale),
		errors.Is(err, photo.ErrBusy):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, analyzer.ErrImageTooLarge),
		errors.Is(err, fetcher.ErrTooLarge):
		writeError(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, analyzer.ErrEmptyImage),
		errors.Is(err, analyzer.ErrUnsupportedImage),
		errors.Is(err, fetcher.ErrInvalidURL),
		errors.Is(err, photo.ErrNoFetcher):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, fetcher.ErrNoImage),
		errors.Is(err, fetcher.ErrNotAnImage),
		errors.Is(err, fetcher.ErrUnsupported):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case len(fieldErrors(err)) > 0:
		s.fail(c, err)
	case errors.Is(err, photo.ErrAnalysis), errors.Is(err, photo.ErrFetch):
		s.log.WithError(err).Warn("photo upstream failure")
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		s.fail(c, err)
	}
}
