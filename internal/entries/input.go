package entries

import (
	"errors"
	"strings"
	"time"

	"github.com/pbaille/kalorien/internal/domain"
	"github.com/pbaille/kalorien/internal/nutrition"
)

// FoodInput is a food form submission. Calories is a pointer so that a
// missing value can be told apart from 0.
type FoodInput struct {
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Calories    *float64 `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	HealthScore *float64 `json:"healthScore"`
	Notes       string   `json:"notes"`
}

// WeightInput is a weight form submission.
type WeightInput struct {
	Date   string   `json:"date"`
	Weight *float64 `json:"weight"`
	Notes  string   `json:"notes"`
}

// NewFoodEntry turns a form submission into a new entry. Name and calories are
// required, the date defaults to today and may not lie in the future, and the
// health score is computed from the macros unless one was given.
func NewFoodEntry(in FoodInput, now time.Time) (domain.FoodEntry, error) {
	var errs []error
	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs = append(errs, &domain.FieldError{Field: "name", Message: "is required"})
	}
	if in.Calories == nil {
		errs = append(errs, &domain.FieldError{Field: "calories", Message: "is required"})
	}
	date, err := entryDate(in.Date, now)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return domain.FoodEntry{}, errors.Join(errs...)
	}

	score := nutrition.HealthScore(in.Protein, in.Carbs, in.Fat)
	if in.HealthScore != nil {
		score = *in.HealthScore
	}

	entry := domain.FoodEntry{
		ID:          domain.NewID(),
		Name:        name,
		Date:        date,
		Calories:    *in.Calories,
		Protein:     in.Protein,
		Carbs:       in.Carbs,
		Fat:         in.Fat,
		HealthScore: score,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := entry.Validate(); err != nil {
		return domain.FoodEntry{}, err
	}
	return entry, nil
}

// FoodEntryFromEstimate builds today's entry from an image analysis result.
func FoodEntryFromEstimate(est domain.NutritionEstimate, notes string, now time.Time) (domain.FoodEntry, error) {
	if err := est.Validate(); err != nil {
		return domain.FoodEntry{}, err
	}
	calories := est.Calories
	return NewFoodEntry(FoodInput{
		Name:     est.Name,
		Calories: &calories,
		Protein:  est.Protein,
		Carbs:    est.Carbs,
		Fat:      est.Fat,
		Notes:    notes,
	}, now)
}

// NewWeightEntry turns a form submission into a new entry.
func NewWeightEntry(in WeightInput, now time.Time) (domain.WeightEntry, error) {
	if in.Weight == nil {
		return domain.WeightEntry{}, &domain.FieldError{Field: "weight", Message: "is required"}
	}
	date, err := entryDate(in.Date, now)
	if err != nil {
		return domain.WeightEntry{}, err
	}

	entry := domain.WeightEntry{
		ID:     domain.NewID(),
		Date:   date,
		Weight: *in.Weight,
		Notes:  strings.TrimSpace(in.Notes),
	}
	if err := entry.Validate(); err != nil {
		return domain.WeightEntry{}, err
	}
	return entry, nil
}

func entryDate(date string, now time.Time) (string, error) {
	today := domain.FormatDate(now)
	date = strings.TrimSpace(date)
	if date == "" {
		return today, nil
	}
	if err := domain.ValidateDate(date); err != nil {
		return "", &domain.FieldError{Field: "date", Message: err.Error()}
	}
	if date > today {
		return "", &domain.FieldError{Field: "date", Message: "must not be later than today"}
	}
	return date, nil
}
