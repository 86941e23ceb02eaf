package nutrition

import (
	"context"
	"time"

	"github.com/pbaille/kalorien/internal/domain"
)

// Source supplies the raw collections. Reads never fail; an unreadable
// collection comes back empty.
type Source interface {
	FoodEntries(ctx context.Context) []domain.FoodEntry
	WeightEntries(ctx context.Context) []domain.WeightEntry
}

// Summary is everything the dashboard shows at once.
type Summary struct {
	Date           string               `json:"date"`
	TodaysCalories float64              `json:"todays_calories"`
	TodaysEntries  int                  `json:"todays_entries"`
	LastWeight     *domain.WeightEntry  `json:"last_weight"`
	Week           []domain.DayCalories `json:"week"`
	Month          []domain.WeightEntry `json:"month"`
}

// Dashboard applies the aggregation functions to the current collections
// using an injectable clock.
type Dashboard struct {
	src Source
	now func() time.Time
}

// NewDashboard creates a Dashboard. A nil clock means time.Now.
func NewDashboard(src Source, now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{src: src, now: now}
}

// Today returns the dashboard's current calendar day.
func (d *Dashboard) Today() string {
	return domain.FormatDate(d.now())
}

func (d *Dashboard) TodaysFoodEntries(ctx context.Context) []domain.FoodEntry {
	return TodaysFoodEntries(d.src.FoodEntries(ctx), d.now())
}

func (d *Dashboard) TodaysCalories(ctx context.Context) float64 {
	return TodaysCalories(d.src.FoodEntries(ctx), d.now())
}

func (d *Dashboard) LastWeightEntry(ctx context.Context) (domain.WeightEntry, bool) {
	return LastWeightEntry(d.src.WeightEntries(ctx))
}

func (d *Dashboard) LastWeekFoodEntries(ctx context.Context) []domain.DayCalories {
	return LastWeekFoodEntries(d.src.FoodEntries(ctx), d.now())
}

func (d *Dashboard) LastMonthWeightEntries(ctx context.Context) []domain.WeightEntry {
	return LastMonthWeightEntries(d.src.WeightEntries(ctx), d.now())
}

// Summary reads each collection once and builds the full dashboard.
func (d *Dashboard) Summary(ctx context.Context) Summary {
	now := d.now()
	food := d.src.FoodEntries(ctx)
	weights := d.src.WeightEntries(ctx)

	today := TodaysFoodEntries(food, now)
	s := Summary{
		Date:           domain.FormatDate(now),
		TodaysCalories: sumCalories(today),
		TodaysEntries:  len(today),
		Week:           LastWeekFoodEntries(food, now),
		Month:          LastMonthWeightEntries(weights, now),
	}
	if last, ok := LastWeightEntry(weights); ok {
		s.LastWeight = &last
	}
	return s
}
