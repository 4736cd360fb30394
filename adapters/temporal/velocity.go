package temporal

import (
	"math"

	"vegtrend/domain/timeseries"
	"vegtrend/domain/trend"
	"vegtrend/internal/errors"
)

// Velocity computes the per-day change rate over every consecutive
// observation pair. Duplicate timestamps would yield zero-length intervals
// and are rejected by series validation before any division happens.
func (e *Engine) Velocity(series timeseries.Series) (*trend.VelocityResult, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if len(series) < 2 {
		return nil, errors.InsufficientData("velocity needs at least 2 observations")
	}

	intervals := make([]trend.IntervalVelocity, 0, len(series)-1)
	sum := 0.0
	maxV, minV := math.Inf(-1), math.Inf(1)
	var maxAt, minAt = series[1].Date, series[1].Date

	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		days := cur.Date.Sub(prev.Date).Hours() / 24
		change := cur.Value - prev.Value
		perDay := change / days

		percent := 0.0
		if prev.Value != 0 {
			percent = change / math.Abs(prev.Value) * 100
		}

		intervals = append(intervals, trend.IntervalVelocity{
			Start:        prev.Date,
			End:          cur.Date,
			Days:         days,
			Change:       change,
			PerDay:       perDay,
			PercentTotal: percent,
		})
		sum += perDay
		if perDay > maxV {
			maxV, maxAt = perDay, cur.Date
		}
		if perDay < minV {
			minV, minAt = perDay, cur.Date
		}
	}

	mean := sum / float64(len(intervals))
	if err := finiteAll("velocity", mean, maxV, minV); err != nil {
		return nil, err
	}

	return &trend.VelocityResult{
		Intervals: intervals,
		Mean:      mean,
		Max:       maxV,
		MaxAt:     maxAt,
		Min:       minV,
		MinAt:     minAt,
	}, nil
}
