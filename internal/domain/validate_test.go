package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func validFood() FoodEntry {
	return FoodEntry{
		ID:          "f-1",
		Name:        "Müsli mit Joghurt",
		Date:        "2024-05-01",
		Calories:    350,
		Protein:     12,
		Carbs:       48,
		Fat:         9,
		HealthScore: 7.5,
	}
}

func TestFoodEntry_Validate_OK(t *testing.T) {
	if err := validFood().Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestFoodEntry_Validate_Invalid(t *testing.T) {
	cases := map[string]func(*FoodEntry){
		"id":          func(e *FoodEntry) { e.ID = " " },
		"name":        func(e *FoodEntry) { e.Name = "" },
		"date":        func(e *FoodEntry) { e.Date = "01.05.2024" },
		"calories":    func(e *FoodEntry) { e.Calories = -1 },
		"protein":     func(e *FoodEntry) { e.Protein = math.NaN() },
		"carbs":       func(e *FoodEntry) { e.Carbs = math.Inf(1) },
		"fat":         func(e *FoodEntry) { e.Fat = -0.5 },
		"healthScore": func(e *FoodEntry) { e.HealthScore = 10.1 },
	}
	for field, mutate := range cases {
		e := validFood()
		mutate(&e)
		err := e.Validate()
		if err == nil {
			t.Errorf("%s: Validate() error = nil, want error", field)
			continue
		}
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Errorf("%s: error %v is not a *FieldError", field, err)
			continue
		}
		if fe.Field != field {
			t.Errorf("%s: FieldError.Field = %q", field, fe.Field)
		}
	}
}

func TestFoodEntry_Validate_ReportsAllFields(t *testing.T) {
	err := FoodEntry{}.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want error")
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 3 {
		t.Errorf("got %d problems (%v), want 3 (id, name, date)", n, err)
	}
}

func TestWeightEntry_Validate(t *testing.T) {
	ok := WeightEntry{ID: "w-1", Date: "2024-05-01", Weight: 72.4}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	for _, w := range []float64{0, -70, math.NaN()} {
		e := ok
		e.Weight = w
		if err := e.Validate(); err == nil {
			t.Errorf("Validate() with weight %g error = nil, want error", w)
		}
	}
}

func TestNutritionEstimate_Validate(t *testing.T) {
	ok := NutritionEstimate{Name: "Salat", Calories: 350, Protein: 25, Carbs: 15, Fat: 20}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	bad := ok
	bad.Name = ""
	if err := bad.Validate(); err == nil {
		t.Error("Validate() without name error = nil, want error")
	}

	bad = ok
	bad.Fat = -3
	if err := bad.Validate(); err == nil {
		t.Error("Validate() with negative fat error = nil, want error")
	}
}

func TestValidateDate(t *testing.T) {
	for _, d := range []string{"2024-01-01", "2024-02-29", "2025-12-31"} {
		if err := ValidateDate(d); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", d, err)
		}
	}
	for _, d := range []string{"", "2024/01/01", "2024-1-1", "2023-02-29", "2024-13-01"} {
		if err := ValidateDate(d); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", d)
		}
	}
}

func TestFormatDate_UsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC).In(loc)
	if got := FormatDate(ts); got != "2024-03-10" {
		t.Errorf("FormatDate() = %q, want 2024-03-10", got)
	}
}

func TestNewID_Unique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("NewID() returned the same id twice")
	}
}
