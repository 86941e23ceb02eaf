package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pbaille/kalorien/internal/export"
	"github.com/xuri/excelize/v2"
)

func (s *Server) export(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		f        *excelize.File
		filename string
		err      error
	)
	switch c.Param("kind") {
	case "food":
		f, err = export.Food(s.store.FoodEntries(ctx))
		filename = export.FoodFile
	case "weight":
		f, err = export.Weight(s.store.WeightEntries(ctx))
		filename = export.WeightFile
	case "all":
		f, err = export.All(s.store.FoodEntries(ctx), s.store.WeightEntries(ctx))
		filename = export.AllFile
	default:
		writeError(c, http.StatusNotFound, "unknown export "+c.Param("kind"))
		return
	}
	if errors.Is(err, export.ErrNoFoodEntries) || errors.Is(err, export.ErrNoWeightEntries) || errors.Is(err, export.ErrNoData) {
		writeError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	// Rendered before any header is written.
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.fail(c, fmt.Errorf("write workbook: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
