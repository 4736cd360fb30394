package temporal

import (
	"math"
	"testing"

	"vegtrend/internal/errors"
	"vegtrend/internal/testkit"
)

func TestLinearTrend_PerfectDecline(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	series := testkit.LinearSeries(0.50, -0.003, 5, 10)

	res, err := eng.LinearTrend(series)
	if err != nil {
		t.Fatalf("linear trend: %v", err)
	}

	if math.Abs(res.Slope+0.003) > 1e-12 {
		t.Fatalf("expected slope=-0.003, got %.9f", res.Slope)
	}
	if math.Abs(res.Intercept-0.50) > 1e-12 {
		t.Fatalf("expected intercept=0.50, got %.9f", res.Intercept)
	}
	if res.RSquared < 1-1e-9 {
		t.Fatalf("expected R2=1 on a perfect line, got %.9f", res.RSquared)
	}
	if res.PValue > 1e-6 {
		t.Fatalf("expected near-zero p for a perfect fit, got %.6g", res.PValue)
	}
	if res.Classification != "decreasing_significant" {
		t.Fatalf("expected decreasing_significant, got %s", res.Classification)
	}
	// Total change -0.12 against a fitted start of 0.50 is -24%.
	if math.Abs(res.PercentChange+24) > 1e-6 {
		t.Fatalf("expected percent change -24, got %.6f", res.PercentChange)
	}
	if res.SpanDays != 40 {
		t.Fatalf("expected span of 40 days, got %.2f", res.SpanDays)
	}
}

func TestLinearTrend_ScalingInvariance(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	series := testkit.NoisySeries(0.50, -0.002, 12, 10, 0.005, 3)

	base, err := eng.LinearTrend(series)
	if err != nil {
		t.Fatalf("base fit: %v", err)
	}

	scaled := append(series[:0:0], series...)
	for i := range scaled {
		scaled[i].Value *= 1000
	}
	big, err := eng.LinearTrend(scaled)
	if err != nil {
		t.Fatalf("scaled fit: %v", err)
	}

	if math.Abs(big.Slope-base.Slope*1000) > 1e-6 {
		t.Fatalf("slope should scale linearly: base=%.9f scaled=%.9f", base.Slope, big.Slope)
	}
	if math.Abs(big.PValue-base.PValue) > 1e-9 {
		t.Fatalf("p-value should be scale-free: base=%.9g scaled=%.9g", base.PValue, big.PValue)
	}
	if math.Abs(big.RSquared-base.RSquared) > 1e-9 {
		t.Fatalf("R2 should be scale-free: base=%.9f scaled=%.9f", base.RSquared, big.RSquared)
	}
	if big.Classification != base.Classification {
		t.Fatalf("classification should survive scaling: base=%s scaled=%s", base.Classification, big.Classification)
	}
}

func TestLinearTrend_TimeReversalNegatesSlope(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	series := testkit.NoisySeries(0.40, 0.0015, 9, 10, 0.004, 11)

	forward, err := eng.LinearTrend(series)
	if err != nil {
		t.Fatalf("forward fit: %v", err)
	}

	// Reverse the values over the same evenly spaced dates.
	reversed := append(series[:0:0], series...)
	for i := range reversed {
		reversed[i].Value = series[len(series)-1-i].Value
	}
	backward, err := eng.LinearTrend(reversed)
	if err != nil {
		t.Fatalf("backward fit: %v", err)
	}

	if math.Abs(forward.Slope+backward.Slope) > 1e-12 {
		t.Fatalf("expected negated slope: forward=%.9f backward=%.9f", forward.Slope, backward.Slope)
	}
}

func TestLinearTrend_ConstantSeriesIsNoTrend(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	series := testkit.LinearSeries(0.55, 0, 6, 10)

	res, err := eng.LinearTrend(series)
	if err != nil {
		t.Fatalf("constant fit: %v", err)
	}
	if res.Slope != 0 {
		t.Fatalf("expected zero slope, got %.9f", res.Slope)
	}
	if res.PValue != 1 {
		t.Fatalf("expected p=1 on a constant series, got %.6f", res.PValue)
	}
	if res.Classification != "no_trend" {
		t.Fatalf("expected no_trend, got %s", res.Classification)
	}
}

func TestLinearTrend_TooShort(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	series := testkit.LinearSeries(0.5, -0.01, 2, 10)

	_, err := eng.LinearTrend(series)
	if !errors.HasCode(err, errors.CodeInsufficientData) {
		t.Fatalf("expected INSUFFICIENT_DATA, got %v", err)
	}
}

func TestLinearTrend_DuplicateDatesRejected(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	series := testkit.LinearSeries(0.5, -0.01, 5, 10)
	series[2].Date = series[1].Date

	_, err := eng.LinearTrend(series)
	if !errors.HasCode(err, errors.CodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION for duplicate dates, got %v", err)
	}
}
