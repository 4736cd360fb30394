package trend

import (
	"time"
)

// Classification labels the direction and significance of a fitted trend.
type Classification string

const (
	IncreasingSignificant    Classification = "increasing_significant"
	IncreasingNotSignificant Classification = "increasing_not_significant"
	DecreasingSignificant    Classification = "decreasing_significant"
	DecreasingNotSignificant Classification = "decreasing_not_significant"
	// NoTrend is reserved for slopes below the negligible-slope epsilon,
	// even when the fit is statistically significant.
	NoTrend Classification = "no_trend"
)

// Classify applies the shared classification rule: no-trend below epsilon,
// otherwise direction from the sign of the statistic with significance at
// p < alpha.
func Classify(statistic, p, alpha, epsilon float64) Classification {
	abs := statistic
	if abs < 0 {
		abs = -abs
	}
	if abs <= epsilon {
		return NoTrend
	}
	significant := p < alpha
	if statistic > 0 {
		if significant {
			return IncreasingSignificant
		}
		return IncreasingNotSignificant
	}
	if significant {
		return DecreasingSignificant
	}
	return DecreasingNotSignificant
}

// TrendResult is the outcome of an ordinary least squares fit of value
// against elapsed days.
type TrendResult struct {
	Slope          float64        `json:"slope"` // value units per day
	Intercept      float64        `json:"intercept"`
	RSquared       float64        `json:"r_squared"`
	PValue         float64        `json:"p_value"`
	StdErr         float64        `json:"std_err"`
	N              int            `json:"n"`
	SpanDays       float64        `json:"span_days"`
	TotalChange    float64        `json:"total_change"`
	PercentChange  float64        `json:"percent_change"` // relative to the fitted start value
	Classification Classification `json:"classification"`
}

// FittedAt evaluates the regression line at the given day offset from the
// first observation. Offsets beyond SpanDays extrapolate the trend.
func (r TrendResult) FittedAt(days float64) float64 {
	return r.Intercept + r.Slope*days
}

// ProjectionPoint is one extrapolated value beyond the observed range.
type ProjectionPoint struct {
	Date      time.Time `json:"date"`
	DayOffset float64   `json:"day_offset"`
	Value     float64   `json:"value"`
}

// MannKendallResult is the non-parametric trend confirmation.
type MannKendallResult struct {
	S              int            `json:"s"`
	Tau            float64        `json:"tau"`
	VarianceS      float64        `json:"variance_s"`
	Z              float64        `json:"z"`
	PValue         float64        `json:"p_value"`
	N              int            `json:"n"`
	Classification Classification `json:"classification"`
}

// IntervalVelocity is the change rate over one consecutive observation pair.
type IntervalVelocity struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Days         float64   `json:"days"`
	Change       float64   `json:"change"`
	PerDay       float64   `json:"per_day"`
	PercentTotal float64   `json:"percent_total"` // change relative to the interval start value
}

// VelocityResult summarizes per-interval change velocities.
type VelocityResult struct {
	Intervals []IntervalVelocity `json:"intervals"`
	Mean      float64            `json:"mean"`
	Max       float64            `json:"max"`
	MaxAt     time.Time          `json:"max_at"` // end of the fastest-rising interval
	Min       float64            `json:"min"`
	MinAt     time.Time          `json:"min_at"` // end of the fastest-falling interval
}

// ChangeType labels the slope regime transition at a breakpoint.
type ChangeType string

const (
	Acceleration         ChangeType = "acceleration"
	Deceleration         ChangeType = "deceleration"
	ImprovementToDecline ChangeType = "improvement_to_decline"
	DeclineToImprovement ChangeType = "decline_to_improvement"
)

// BreakpointResult holds the best single structural break of a series.
// Applicable is false when the series is too short for detection; that is a
// skipped analysis, not an error.
type BreakpointResult struct {
	Applicable bool       `json:"applicable"`
	Index      int        `json:"index"`
	Date       time.Time  `json:"date"`
	CombinedR2 float64    `json:"combined_r2"`
	PreSlope   float64    `json:"pre_slope"`
	PostSlope  float64    `json:"post_slope"`
	ChangeType ChangeType `json:"change_type"`
}

// PeriodStats summarizes one half of a period comparison.
type PeriodStats struct {
	N    int     `json:"n"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// PeriodComparisonResult compares the two contiguous halves of a series.
// When either half is too small for a t-test the comparison is indicative
// only and TestPerformed is false.
type PeriodComparisonResult struct {
	Period1        PeriodStats `json:"period1"`
	Period2        PeriodStats `json:"period2"`
	AbsoluteChange float64     `json:"absolute_change"`
	PercentChange  float64     `json:"percent_change"`
	TStatistic     float64     `json:"t_statistic"`
	PValue         float64     `json:"p_value"`
	Significant    bool        `json:"significant"`
	TestPerformed  bool        `json:"test_performed"`
}
