package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"vegtrend/domain/timeseries"
	"vegtrend/domain/trend"
	"vegtrend/internal/errors"
)

// LinearTrend fits value = intercept + slope*days by ordinary least squares
// over the elapsed-days axis and classifies the result. The p-value for the
// slope comes from a two-sided t-test with n-2 degrees of freedom, so at
// least three observations are required.
func (e *Engine) LinearTrend(series timeseries.Series) (*trend.TrendResult, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	n := len(series)
	if n < 3 {
		return nil, errors.InsufficientData("linear trend needs at least 3 observations for a p-value")
	}

	days := series.Days()
	values := series.Values()

	intercept, slope := stat.LinearRegression(days, values, nil, false)

	// RSquared is 0/0 on a zero-variance response; define it as zero there.
	r2 := 0.0
	if _, std := stat.MeanStdDev(values, nil); std > 0 {
		r2 = stat.RSquared(days, values, nil, intercept, slope)
	}

	// Standard error of the slope: sqrt(SSres/(n-2) / Sxx).
	meanDay := stat.Mean(days, nil)
	ssRes, sxx := 0.0, 0.0
	for i := range days {
		resid := values[i] - (intercept + slope*days[i])
		ssRes += resid * resid
		dx := days[i] - meanDay
		sxx += dx * dx
	}
	if sxx == 0 {
		return nil, errors.DegenerateInput("all observations share one timestamp axis position")
	}

	var p float64
	se := math.Sqrt(ssRes / float64(n-2) / sxx)
	switch {
	case se == 0 && slope == 0:
		p = 1
	case se == 0:
		// Perfect fit: the slope is exactly determined.
		p = 0
	default:
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		tStat := slope / se
		p = 2 * (1 - tDist.CDF(math.Abs(tStat)))
	}

	span := series.Span()
	totalChange := slope * span
	fittedStart := intercept
	percent := 0.0
	if fittedStart != 0 {
		percent = totalChange / math.Abs(fittedStart) * 100
	}

	if err := finiteAll("linear trend", slope, intercept, r2, p, totalChange, percent); err != nil {
		return nil, err
	}

	return &trend.TrendResult{
		Slope:          slope,
		Intercept:      intercept,
		RSquared:       r2,
		PValue:         p,
		StdErr:         se,
		N:              n,
		SpanDays:       span,
		TotalChange:    totalChange,
		PercentChange:  percent,
		Classification: trend.Classify(slope, p, e.cfg.Alpha, e.cfg.SlopeEpsilon),
	}, nil
}
