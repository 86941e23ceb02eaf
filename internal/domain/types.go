package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used for every entry date.
const DateLayout = "2006-01-02"

// FoodEntry is a single recorded meal or food item
type FoodEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	HealthScore float64 `json:"healthScore"`
	Notes       string  `json:"notes"`
}

// WeightEntry is a single body weight measurement in kilograms
type WeightEntry struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Notes  string  `json:"notes,omitempty"`
}

// DayCalories is the calorie total of one calendar day
type DayCalories struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
}

// NutritionEstimate is what an image analysis returns for a photographed meal
type NutritionEstimate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// NewID returns a fresh opaque entry identifier
func NewID() string {
	return uuid.New().String()
}

// FormatDate renders t as a calendar day in t's own location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
