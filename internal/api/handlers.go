package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pbaille/kalorien/internal/domain"
	"github.com/pbaille/kalorien/internal/entries"
	"github.com/pbaille/kalorien/internal/nutrition"
)

func (s *Server) dashboard(c *gin.Context) {
	writeJSON(c, http.StatusOK, s.dash.Summary(c.Request.Context()))
}

// healthScore previews the score of a macro split without saving anything.
func (s *Server) healthScore(c *gin.Context) {
	var macros [3]float64
	for i, name := range []string{"protein", "carbs", "fat"} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			writeError(c, http.StatusBadRequest, "query parameter '"+name+"' must be a non-negative number")
			return
		}
		macros[i] = v
	}
	writeJSON(c, http.StatusOK, gin.H{
		"protein":     macros[0],
		"carbs":       macros[1],
		"fat":         macros[2],
		"healthScore": nutrition.HealthScore(macros[0], macros[1], macros[2]),
	})
}

func (s *Server) listFood(c *gin.Context) {
	list := s.store.FoodEntries(c.Request.Context())
	writeJSON(c, http.StatusOK, gin.H{"entries": list, "count": len(list)})
}

func (s *Server) addFood(c *gin.Context) {
	var in entries.FoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := entries.NewFoodEntry(in, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.store.SaveFoodEntry(c.Request.Context(), entry); err != nil {
		s.fail(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, entry)
}

func (s *Server) deleteFood(c *gin.Context) {
	removed, err := s.store.DeleteFoodEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if !removed {
		writeError(c, http.StatusNotFound, "entry not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listWeight(c *gin.Context) {
	list := s.store.WeightEntries(c.Request.Context())
	writeJSON(c, http.StatusOK, gin.H{"entries": list, "count": len(list)})
}

func (s *Server) addWeight(c *gin.Context) {
	var in entries.WeightInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := entries.NewWeightEntry(in, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.store.SaveWeightEntry(c.Request.Context(), entry); err != nil {
		s.fail(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, entry)
}

func (s *Server) deleteWeight(c *gin.Context) {
	removed, err := s.store.DeleteWeightEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if !removed {
		writeError(c, http.StatusNotFound, "entry not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps store and validation errors to a response. Anything unknown is
// a server-side failure and gets logged.
func (s *Server) fail(c *gin.Context, err error) {
	if fields := fieldErrors(err); len(fields) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": fields})
		return
	}
	switch {
	case errors.Is(err, entries.ErrDuplicateID):
		writeError(c, http.StatusConflict, err.Error())
	default:
		s.log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		writeError(c, http.StatusInternalServerError, err.Error())
	}
}

// fieldErrors flattens joined validation errors into field -> message.
func fieldErrors(err error) map[string]string {
	fields := map[string]string{}
	var walk func(error)
	walk = func(err error) {
		var fe *domain.FieldError
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		if errors.As(err, &fe) {
			if _, seen := fields[fe.Field]; !seen {
				fields[fe.Field] = fe.Message
			}
		}
	}
	walk(err)
	return fields
}
