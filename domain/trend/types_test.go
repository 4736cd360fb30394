package trend

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		statistic float64
		p         float64
		epsilon   float64
		want      Classification
	}{
		{"significant increase", 0.002, 0.01, 1e-9, IncreasingSignificant},
		{"weak increase", 0.002, 0.20, 1e-9, IncreasingNotSignificant},
		{"significant decrease", -0.002, 0.01, 1e-9, DecreasingSignificant},
		{"weak decrease", -0.002, 0.20, 1e-9, DecreasingNotSignificant},
		{"negligible slope beats significance", 1e-12, 0.001, 1e-9, NoTrend},
		{"negligible negative slope", -1e-12, 0.001, 1e-9, NoTrend},
		{"boundary p is not significant", 0.002, 0.05, 1e-9, IncreasingNotSignificant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.statistic, tc.p, 0.05, tc.epsilon)
			if got != tc.want {
				t.Fatalf("Classify(%g, %g): expected %s, got %s", tc.statistic, tc.p, tc.want, got)
			}
		})
	}
}

func TestFittedAt(t *testing.T) {
	r := TrendResult{Slope: -0.003, Intercept: 0.5}
	if v := r.FittedAt(0); v != 0.5 {
		t.Fatalf("expected intercept at day 0, got %.4f", v)
	}
	if v := r.FittedAt(100); math.Abs(v-0.2) > 1e-12 {
		t.Fatalf("expected 0.2 at day 100, got %.4f", v)
	}
}
