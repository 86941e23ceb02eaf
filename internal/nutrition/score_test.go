package nutrition

import (
	"math"
	"testing"
)

func TestHealthScore_AllZeroIsNeutral(t *testing.T) {
	if got := HealthScore(0, 0, 0); got != 5 {
		t.Errorf("HealthScore(0,0,0) = %v, want 5", got)
	}
}

func TestHealthScore_IdealRatiosScoreTen(t *testing.T) {
	if got := HealthScore(30, 45, 25); got != 10 {
		t.Errorf("HealthScore(30,45,25) = %v, want 10", got)
	}
	// same ratios, different scale
	if got := HealthScore(60, 90, 50); math.Abs(got-10) > 1e-9 {
		t.Errorf("HealthScore(60,90,50) = %v, want 10", got)
	}
}

func TestHealthScore_AllProtein(t *testing.T) {
	got := HealthScore(100, 0, 0)
	if got >= 10 || got < 0 {
		t.Fatalf("HealthScore(100,0,0) = %v, want within [0,10)", got)
	}
	// (-4 + 1 + 5) / 3
	if want := 2.0 / 3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("HealthScore(100,0,0) = %v, want %v", got, want)
	}
}

func TestHealthScore_AlwaysWithinBounds(t *testing.T) {
	cases := [][3]float64{
		{0, 100, 0},
		{0, 0, 100},
		{1, 0, 0},
		{25, 15, 20},
		{1000, 1, 1},
		{0.1, 0.2, 0.3},
	}
	for _, c := range cases {
		got := HealthScore(c[0], c[1], c[2])
		if got < 0 || got > 10 {
			t.Errorf("HealthScore(%v) = %v, out of [0,10]", c, got)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := map[float64]float64{-3: 0, 0: 0, 4.2: 4.2, 10: 10, 12.5: 10}
	for in, want := range cases {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestHealthScore_NonFiniteInput(t *testing.T) {
	cases := [][3]float64{
		{math.NaN(), 1, 1},
		{math.Inf(1), 1, 1},
		{1, math.Inf(-1), 1},
		{1, 1, math.NaN()},
	}
	for _, c := range cases {
		if got := HealthScore(c[0], c[1], c[2]); got != NeutralScore {
			t.Errorf("HealthScore(%v) = %v, want %v", c, got, NeutralScore)
		}
	}
}

func TestHealthScore_HugeAmounts(t *testing.T) {
	// the sum overflows but the shares are 0.5, 0.5 and ~0: (6 + 9 + 5) / 3
	got := HealthScore(1e308, 1e308, 1)
	if want := 20.0 / 3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("HealthScore(1e308,1e308,1) = %v, want %v", got, want)
	}
}

func TestClamp_NaN(t *testing.T) {
	if got := Clamp(math.NaN()); got != 0 {
		t.Errorf("Clamp(NaN) = %v, want 0", got)
	}
}
