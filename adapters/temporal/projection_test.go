package temporal

import (
	"math"
	"testing"

	"vegtrend/internal/errors"
	"vegtrend/internal/testkit"
)

func TestProject_ExtrapolatesPastLastObservation(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	series := testkit.LinearSeries(0.50, -0.003, 5, 10) // span 40 days

	fit, err := eng.LinearTrend(series)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	points, err := eng.Project(series, fit, []float64{30, 90})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	if points[0].DayOffset != 70 || points[1].DayOffset != 130 {
		t.Fatalf("expected offsets 70/130, got %.1f/%.1f", points[0].DayOffset, points[1].DayOffset)
	}
	if math.Abs(points[0].Value-0.29) > 1e-9 {
		t.Fatalf("expected 0.29 at day 70, got %.9f", points[0].Value)
	}
	if math.Abs(points[1].Value-0.11) > 1e-9 {
		t.Fatalf("expected 0.11 at day 130, got %.9f", points[1].Value)
	}
	if !points[0].Date.After(series[len(series)-1].Date) {
		t.Fatal("projection dates must lie past the last observation")
	}
}

func TestProject_RejectsBadInputs(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	series := testkit.LinearSeries(0.5, -0.003, 5, 10)
	fit, err := eng.LinearTrend(series)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	if _, err := eng.Project(series, nil, []float64{30}); !errors.HasCode(err, errors.CodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION for nil fit, got %v", err)
	}
	if _, err := eng.Project(series, fit, nil); !errors.HasCode(err, errors.CodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION for no horizons, got %v", err)
	}
	if _, err := eng.Project(series, fit, []float64{-10}); !errors.HasCode(err, errors.CodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION for a negative horizon, got %v", err)
	}
}
