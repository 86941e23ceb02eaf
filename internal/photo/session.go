package photo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pbaille/kalorien/internal/analyzer"
	"github.com/pbaille/kalorien/internal/domain"
	"github.com/pbaille/kalorien/internal/entries"
	"github.com/pbaille/kalorien/internal/fetcher"
	"github.com/pbaille/kalorien/internal/logging"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoImage     = errors.New("no image captured")
	ErrNotAnalyzed = errors.New("image has not been analyzed")
	ErrNoFetcher   = errors.New("image URLs are not supported")
	ErrStale       = errors.New("draft changed during analysis")
	ErrBusy        = errors.New("analysis already in progress")

	// ErrAnalysis and ErrFetch wrap failures of the analyzer and of the
	// remote image host.
	ErrAnalysis = errors.New("image analysis failed")
	ErrFetch    = errors.New("image download failed")
)

// ImageFetcher downloads an image referenced by URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, rawURL string) (*fetcher.Result, error)
}

// FoodSaver persists a food entry.
type FoodSaver interface {
	SaveFoodEntry(ctx context.Context, entry domain.FoodEntry) error
}

// State is a snapshot of the draft.
type State struct {
	HasImage  bool                      `json:"has_image"`
	MediaType string                    `json:"media_type,omitempty"`
	Size      int                       `json:"size,omitempty"`
	Source    string                    `json:"source,omitempty"`
	Analyzing bool                      `json:"analyzing"`
	Estimate  *domain.NutritionEstimate `json:"estimate,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

// Session holds the single photo draft: capture, analyze, then save as a
// food entry. A failed analysis keeps the captured image so that it can be
// retried or the entry typed in by hand.
type Session struct {
	analyzer analyzer.Analyzer
	fetcher  ImageFetcher
	saver    FoodSaver
	now      func() time.Time
	log      logrus.FieldLogger

	mu        sync.Mutex
	gen       uint64
	image     *analyzer.Image
	source    string
	analyzing bool
	estimate  *domain.NutritionEstimate
	lastErr   string
}

// NewSession creates an empty session. f may be nil when URL capture is not
// wanted; now and log default to time.Now and a discarding logger.
func NewSession(a analyzer.Analyzer, f ImageFetcher, saver FoodSaver, now func() time.Time, log logrus.FieldLogger) *Session {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Session{analyzer: a, fetcher: f, saver: saver, now: now, log: log}
}

// Capture replaces the draft with img.
func (s *Session) Capture(img analyzer.Image, source string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.image = &img
	s.source = source
	s.analyzing = false
	s.estimate = nil
	s.lastErr = ""
	s.log.WithFields(logrus.Fields{"source": source, "media_type": img.MediaType, "size": len(img.Data)}).Info("photo captured")
	return s.stateLocked()
}

// CaptureURL downloads the image at rawURL and captures it.
func (s *Session) CaptureURL(ctx context.Context, rawURL string) (State, error) {
	if s.fetcher == nil {
		return s.State(), ErrNoFetcher
	}
	res, err := s.fetcher.FetchImage(ctx, rawURL)
	if err != nil {
		return s.State(), fmt.Errorf("%w: %w", ErrFetch, err)
	}
	img, err := analyzer.NewImage(res.Data, res.MediaType)
	if err != nil {
		return s.State(), err
	}
	return s.Capture(img, res.URL), nil
}

// Analyze runs the analyzer on the captured image and stores the estimate in
// the draft. On failure the image stays captured and the error is recorded.
func (s *Session) Analyze(ctx context.Context) (domain.NutritionEstimate, error) {
	s.mu.Lock()
	if s.image == nil {
		s.mu.Unlock()
		return domain.NutritionEstimate{}, ErrNoImage
	}
	if s.analyzing {
		s.mu.Unlock()
		return domain.NutritionEstimate{}, ErrBusy
	}
	img := *s.image
	gen := s.gen
	s.analyzing = true
	s.lastErr = ""
	s.mu.Unlock()

	est, err := s.analyzer.Analyze(ctx, img)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return domain.NutritionEstimate{}, ErrStale
	}
	s.analyzing = false
	if err != nil {
		s.lastErr = err.Error()
		s.log.WithError(err).Warn("photo analysis failed, draft kept")
		return domain.NutritionEstimate{}, fmt.Errorf("%w: %w", ErrAnalysis, err)
	}
	s.estimate = &est
	s.log.WithFields(logrus.Fields{"name": est.Name, "calories": est.Calories}).Info("photo analyzed")
	return est, nil
}

// Save stores the analyzed draft as today's food entry and clears the draft.
func (s *Session) Save(ctx context.Context, notes string) (domain.FoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.image == nil {
		return domain.FoodEntry{}, ErrNoImage
	}
	if s.estimate == nil {
		return domain.FoodEntry{}, ErrNotAnalyzed
	}

	entry, err := entries.FoodEntryFromEstimate(*s.estimate, notes, s.now())
	if err != nil {
		return domain.FoodEntry{}, err
	}
	if err := s.saver.SaveFoodEntry(ctx, entry); err != nil {
		return domain.FoodEntry{}, err
	}

	s.resetLocked()
	return entry, nil
}

// Reset discards the draft.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// State returns a snapshot of the draft.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) resetLocked() {
	s.gen++
	s.image = nil
	s.source = ""
	s.analyzing = false
	s.estimate = nil
	s.lastErr = ""
}

func (s *Session) stateLocked() State {
	st := State{Analyzing: s.analyzing, Error: s.lastErr}
	if s.image != nil {
		st.HasImage = true
		st.MediaType = s.image.MediaType
		st.Size = len(s.image.Data)
		st.Source = s.source
	}
	if s.estimate != nil {
		est := *s.estimate
		st.Estimate = &est
	}
	return st
}
