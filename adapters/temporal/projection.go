package temporal

import (
	"time"

	"vegtrend/domain/timeseries"
	"vegtrend/domain/trend"
	"vegtrend/internal/errors"
)

// Project extrapolates a fitted trend line beyond the observed range,
// evaluating intercept + slope*t at each requested day offset past the last
// observation. This is the extent of any future-state estimate: a straight
// line, not a learned model.
func (e *Engine) Project(series timeseries.Series, fit *trend.TrendResult, horizonsDays []float64) ([]trend.ProjectionPoint, error) {
	if fit == nil {
		return nil, errors.InvalidConfiguration("projection requires a fitted trend")
	}
	if len(series) == 0 {
		return nil, errors.InsufficientData("projection requires the fitted series")
	}
	if len(horizonsDays) == 0 {
		return nil, errors.InvalidConfiguration("projection requires at least one horizon")
	}

	first := series[0].Date
	span := series.Span()
	points := make([]trend.ProjectionPoint, 0, len(horizonsDays))
	for _, h := range horizonsDays {
		if h <= 0 {
			return nil, errors.InvalidConfiguration("projection horizons must be positive day offsets")
		}
		offset := span + h
		value := fit.FittedAt(offset)
		if err := finiteAll("projection", value); err != nil {
			return nil, err
		}
		points = append(points, trend.ProjectionPoint{
			Date:      first.Add(time.Duration(offset * 24 * float64(time.Hour))),
			DayOffset: offset,
			Value:     value,
		})
	}
	return points, nil
}
