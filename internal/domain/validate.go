package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// FieldError reports one invalid field of an entry or estimate.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateDate checks that s is a YYYY-MM-DD calendar day.
func ValidateDate(s string) error {
	if s == "" {
		return errors.New("date is empty")
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

func checkAmount(errs []error, field string, v float64) []error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(errs, fieldErr(field, "must be a finite number"))
	}
	if v < 0 {
		return append(errs, fieldErr(field, "must not be negative, got %g", v))
	}
	return errs
}

// Validate checks the structural invariants of a food entry.
func (e FoodEntry) Validate() error {
	var errs []error
	if strings.TrimSpace(e.ID) == "" {
		errs = append(errs, fieldErr("id", "is required"))
	}
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, fieldErr("name", "is required"))
	}
	if err := ValidateDate(e.Date); err != nil {
		errs = append(errs, fieldErr("date", "%v", err))
	}
	errs = checkAmount(errs, "calories", e.Calories)
	errs = checkAmount(errs, "protein", e.Protein)
	errs = checkAmount(errs, "carbs", e.Carbs)
	errs = checkAmount(errs, "fat", e.Fat)
	if math.IsNaN(e.HealthScore) || e.HealthScore < 0 || e.HealthScore > 10 {
		errs = append(errs, fieldErr("healthScore", "must be within [0, 10], got %g", e.HealthScore))
	}
	return errors.Join(errs...)
}

// Validate checks the structural invariants of a weight entry.
func (e WeightEntry) Validate() error {
	var errs []error
	if strings.TrimSpace(e.ID) == "" {
		errs = append(errs, fieldErr("id", "is required"))
	}
	if err := ValidateDate(e.Date); err != nil {
		errs = append(errs, fieldErr("date", "%v", err))
	}
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight <= 0 {
		errs = append(errs, fieldErr("weight", "must be a positive number, got %g", e.Weight))
	}
	return errors.Join(errs...)
}

// Validate checks an analysis result before it may become a food entry.
// Plausibility of the numbers is not judged, only their shape.
func (n NutritionEstimate) Validate() error {
	var errs []error
	if strings.TrimSpace(n.Name) == "" {
		errs = append(errs, fieldErr("name", "is required"))
	}
	errs = checkAmount(errs, "calories", n.Calories)
	errs = checkAmount(errs, "protein", n.Protein)
	errs = checkAmount(errs, "carbs", n.Carbs)
	errs = checkAmount(errs, "fat", n.Fat)
	return errors.Join(errs...)
}
