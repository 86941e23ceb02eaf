package nutrition

import (
	"sort"
	"time"

	"github.com/pbaille/kalorien/internal/domain"
)

// Aggregation windows, in calendar days.
const (
	WeekDays  = 7
	MonthDays = 30
)

// TodaysFoodEntries returns the entries dated on now's calendar day.
func TodaysFoodEntries(entries []domain.FoodEntry, now time.Time) []domain.FoodEntry {
	return foodOn(entries, domain.FormatDate(now))
}

// TodaysCalories sums the calories of today's entries.
func TodaysCalories(entries []domain.FoodEntry, now time.Time) float64 {
	return sumCalories(TodaysFoodEntries(entries, now))
}

// LastWeightEntry returns the entry with the latest date. Among entries sharing
// that date the one saved last wins. ok is false for an empty collection.
func LastWeightEntry(entries []domain.WeightEntry) (last domain.WeightEntry, ok bool) {
	for _, e := range entries {
		// >= lets later appends win ties
		if !ok || e.Date >= last.Date {
			last, ok = e, true
		}
	}
	return last, ok
}

// LastWeekFoodEntries returns one calorie total per day for the seven days
// ending today, oldest first. Days without entries count as 0.
func LastWeekFoodEntries(entries []domain.FoodEntry, now time.Time) []domain.DayCalories {
	totals := make(map[string]float64)
	for _, e := range entries {
		totals[e.Date] += e.Calories
	}

	days := make([]domain.DayCalories, 0, WeekDays)
	for i := WeekDays - 1; i >= 0; i-- {
		date := domain.FormatDate(now.AddDate(0, 0, -i))
		days = append(days, domain.DayCalories{Date: date, Calories: totals[date]})
	}
	return days
}

// LastMonthWeightEntries returns the weight entries dated between 30 days ago
// and today inclusive, sorted by date. Equal dates keep their saved order.
func LastMonthWeightEntries(entries []domain.WeightEntry, now time.Time) []domain.WeightEntry {
	from := domain.FormatDate(now.AddDate(0, 0, -MonthDays))
	to := domain.FormatDate(now)

	out := make([]domain.WeightEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func foodOn(entries []domain.FoodEntry, date string) []domain.FoodEntry {
	out := make([]domain.FoodEntry, 0)
	for _, e := range entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

func sumCalories(entries []domain.FoodEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Calories
	}
	return total
}
