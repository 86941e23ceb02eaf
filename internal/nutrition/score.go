package nutrition

import "math"

// Ideal shares of total macronutrient grams.
const (
	IdealProteinShare = 0.30
	IdealCarbsShare   = 0.45
	IdealFatShare     = 0.25
)

// NeutralScore is returned when there is nothing to judge.
const NeutralScore = 5.0

// HealthScore rates the macronutrient balance of a meal on a 0..10 scale.
//
// Each nutrient's share of the total grams is compared with its ideal share and
// scored as 10 - |share - ideal| * 20; the result is the mean of the three scores
// clamped to [0, 10]. It is a rough heuristic, not a dietary assessment.
// Non-finite amounts score neutral.
func HealthScore(protein, carbs, fat float64) float64 {
	for _, v := range []float64{protein, carbs, fat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NeutralScore
		}
	}
	total := protein + carbs + fat
	if math.IsInf(total, 0) {
		// shares only depend on ratios
		m := math.Max(protein, math.Max(carbs, fat))
		protein, carbs, fat = protein/m, carbs/m, fat/m
		total = protein + carbs + fat
	}
	if total == 0 {
		return NeutralScore
	}

	proteinScore := 10 - math.Abs(protein/total-IdealProteinShare)*20
	carbsScore := 10 - math.Abs(carbs/total-IdealCarbsShare)*20
	fatScore := 10 - math.Abs(fat/total-IdealFatShare)*20

	return Clamp((proteinScore + carbsScore + fatScore) / 3)
}

// Clamp bounds a score to [0, 10]. NaN maps to 0.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(10, score))
}
