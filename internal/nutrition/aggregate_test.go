package nutrition

import (
	"context"
	"testing"
	"time"

	"github.com/pbaille/kalorien/internal/domain"
)

var now = time.Date(2024, 3, 15, 18, 30, 0, 0, time.Local)

func day(offset int) string {
	return domain.FormatDate(now.AddDate(0, 0, offset))
}

func TestTodaysCalories(t *testing.T) {
	if got := TodaysCalories(nil, now); got != 0 {
		t.Errorf("TodaysCalories(nil) = %v, want 0", got)
	}

	entries := []domain.FoodEntry{
		{ID: "a", Date: day(0), Calories: 200},
		{ID: "b", Date: day(0), Calories: 150},
		{ID: "c", Date: day(-1), Calories: 999},
	}
	if got := TodaysCalories(entries, now); got != 350 {
		t.Errorf("TodaysCalories() = %v, want 350", got)
	}
	if got := TodaysFoodEntries(entries, now); len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("TodaysFoodEntries() = %+v, want a, b", got)
	}
}

func TestTodaysFoodEntries_EmptyIsNotNil(t *testing.T) {
	got := TodaysFoodEntries(nil, now)
	if got == nil || len(got) != 0 {
		t.Errorf("TodaysFoodEntries(nil) = %#v, want empty slice", got)
	}
}

func TestLastWeightEntry(t *testing.T) {
	if _, ok := LastWeightEntry(nil); ok {
		t.Error("LastWeightEntry(nil) ok = true, want false")
	}

	entries := []domain.WeightEntry{
		{ID: "old", Date: "2024-03-01", Weight: 80},
		{ID: "new", Date: "2024-03-14", Weight: 78},
		{ID: "mid", Date: "2024-03-07", Weight: 79},
	}
	last, ok := LastWeightEntry(entries)
	if !ok || last.ID != "new" {
		t.Errorf("LastWeightEntry() = %+v, %v, want new", last, ok)
	}
}

func TestLastWeightEntry_TieGoesToLastSaved(t *testing.T) {
	entries := []domain.WeightEntry{
		{ID: "morning", Date: "2024-03-14", Weight: 78.4},
		{ID: "older", Date: "2024-03-10", Weight: 79},
		{ID: "evening", Date: "2024-03-14", Weight: 78.9},
	}
	last, _ := LastWeightEntry(entries)
	if last.ID != "evening" {
		t.Errorf("LastWeightEntry() = %s, want evening", last.ID)
	}
}

func TestLastWeekFoodEntries(t *testing.T) {
	entries := []domain.FoodEntry{
		{ID: "1", Date: day(0), Calories: 500},
		{ID: "2", Date: day(0), Calories: 250},
		{ID: "3", Date: day(-3), Calories: 800},
		{ID: "4", Date: day(-6), Calories: 100},
		{ID: "5", Date: day(-7), Calories: 9999},
		{ID: "6", Date: day(1), Calories: 9999},
	}

	got := LastWeekFoodEntries(entries, now)
	if len(got) != 7 {
		t.Fatalf("got %d days, want 7", len(got))
	}

	want := []float64{100, 0, 0, 800, 0, 0, 750}
	for i, d := range got {
		if d.Date != day(i-6) {
			t.Errorf("day %d date = %s, want %s", i, d.Date, day(i-6))
		}
		if d.Calories != want[i] {
			t.Errorf("day %d (%s) calories = %v, want %v", i, d.Date, d.Calories, want[i])
		}
	}
}

func TestLastWeekFoodEntries_Empty(t *testing.T) {
	got := LastWeekFoodEntries(nil, now)
	if len(got) != 7 {
		t.Fatalf("got %d days, want 7", len(got))
	}
	for _, d := range got {
		if d.Calories != 0 {
			t.Errorf("%s calories = %v, want 0", d.Date, d.Calories)
		}
	}
	if got[0].Date >= got[6].Date {
		t.Errorf("series not oldest first: %s .. %s", got[0].Date, got[6].Date)
	}
}

func TestLastMonthWeightEntries(t *testing.T) {
	entries := []domain.WeightEntry{
		{ID: "today", Date: day(0), Weight: 77},
		{ID: "31", Date: day(-31), Weight: 81},
		{ID: "30", Date: day(-30), Weight: 80},
		{ID: "10", Date: day(-10), Weight: 79},
		{ID: "future", Date: day(2), Weight: 70},
	}

	got := LastMonthWeightEntries(entries, now)
	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	want := []string{"30", "10", "today"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("got %v, want %v", ids, want)
			break
		}
	}
}

func TestLastMonthWeightEntries_DoesNotReorderInput(t *testing.T) {
	entries := []domain.WeightEntry{
		{ID: "b", Date: day(-1), Weight: 78},
		{ID: "a", Date: day(-5), Weight: 79},
	}
	_ = LastMonthWeightEntries(entries, now)
	if entries[0].ID != "b" {
		t.Error("input slice was reordered")
	}
}

type fakeSource struct {
	food    []domain.FoodEntry
	weights []domain.WeightEntry
}

func (f fakeSource) FoodEntries(context.Context) []domain.FoodEntry     { return f.food }
func (f fakeSource) WeightEntries(context.Context) []domain.WeightEntry { return f.weights }

func TestDashboard_Summary(t *testing.T) {
	src := fakeSource{
		food: []domain.FoodEntry{
			{ID: "1", Date: day(0), Calories: 400},
			{ID: "2", Date: day(0), Calories: 300},
			{ID: "3", Date: day(-2), Calories: 900},
		},
		weights: []domain.WeightEntry{
			{ID: "w1", Date: day(-3), Weight: 80.2},
			{ID: "w2", Date: day(-1), Weight: 79.8},
		},
	}
	d := NewDashboard(src, func() time.Time { return now })

	s := d.Summary(context.Background())
	if s.Date != day(0) {
		t.Errorf("Date = %s, want %s", s.Date, day(0))
	}
	if s.TodaysCalories != 700 || s.TodaysEntries != 2 {
		t.Errorf("today = %v kcal / %d entries, want 700 / 2", s.TodaysCalories, s.TodaysEntries)
	}
	if s.LastWeight == nil || s.LastWeight.ID != "w2" {
		t.Errorf("LastWeight = %+v, want w2", s.LastWeight)
	}
	if len(s.Week) != 7 || s.Week[4].Calories != 900 {
		t.Errorf("Week = %+v", s.Week)
	}
	if len(s.Month) != 2 || s.Month[0].ID != "w1" {
		t.Errorf("Month = %+v", s.Month)
	}

	if got := d.TodaysCalories(context.Background()); got != 700 {
		t.Errorf("TodaysCalories() = %v, want 700", got)
	}
}

func TestDashboard_EmptySource(t *testing.T) {
	d := NewDashboard(fakeSource{}, func() time.Time { return now })
	s := d.Summary(context.Background())
	if s.TodaysCalories != 0 || s.TodaysEntries != 0 || s.LastWeight != nil {
		t.Errorf("unexpected summary for empty source: %+v", s)
	}
	if len(s.Week) != 7 || len(s.Month) != 0 {
		t.Errorf("Week/Month = %d/%d, want 7/0", len(s.Week), len(s.Month))
	}
	if _, ok := d.LastWeightEntry(context.Background()); ok {
		t.Error("LastWeightEntry ok = true on empty source")
	}
}
