package analyzer

import (
	"context"
	"time"

	"github.com/pbaille/kalorien/internal/domain"
)

// MockEstimate is what Mock answers for every image.
var MockEstimate = domain.NutritionEstimate{
	Name:     "Salat mit Hähnchen",
	Calories: 350,
	Protein:  25,
	Carbs:    15,
	Fat:      20,
}

// Mock returns MockEstimate after an optional delay.
type Mock struct {
	Delay time.Duration
}

// Analyze ignores the image contents.
func (m *Mock) Analyze(ctx context.Context, img Image) (domain.NutritionEstimate, error) {
	if len(img.Data) == 0 {
		return domain.NutritionEstimate{}, ErrEmptyImage
	}
	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return domain.NutritionEstimate{}, ctx.Err()
		case <-t.C:
		}
	}
	return MockEstimate, nil
}
