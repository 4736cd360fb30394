package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"vegtrend/domain/timeseries"
	"vegtrend/domain/trend"
	"vegtrend/internal/errors"
)

// MannKendall runs the non-parametric Mann-Kendall trend test. Tied values
// contribute zero to S and shrink Var(S) through the standard tie correction.
// The Z statistic applies a continuity correction of ±1 to S before dividing
// by sqrt(Var(S)); Z is exactly zero when S is zero.
func (e *Engine) MannKendall(series timeseries.Series) (*trend.MannKendallResult, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	n := len(series)
	if n < 3 {
		return nil, errors.InsufficientData("mann-kendall needs at least 3 observations")
	}

	values := series.Values()

	s := 0
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case values[j] > values[i]:
				s++
			case values[j] < values[i]:
				s--
			}
		}
	}

	// Tie correction: Var(S) = [n(n-1)(2n+5) - sum t(t-1)(2t+5)] / 18
	tieCounts := map[float64]int{}
	for _, v := range values {
		tieCounts[v]++
	}
	varS := float64(n*(n-1)*(2*n+5)) / 18
	for _, t := range tieCounts {
		if t > 1 {
			varS -= float64(t*(t-1)*(2*t+5)) / 18
		}
	}
	if varS <= 0 {
		return nil, errors.DegenerateInput("mann-kendall variance is zero: all values tied")
	}

	var z float64
	switch {
	case s > 0:
		z = (float64(s) - 1) / math.Sqrt(varS)
	case s < 0:
		z = (float64(s) + 1) / math.Sqrt(varS)
	default:
		z = 0
	}

	tau := float64(s) / (float64(n*(n-1)) / 2)
	p := 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))

	if err := finiteAll("mann-kendall", tau, varS, z, p); err != nil {
		return nil, err
	}

	return &trend.MannKendallResult{
		S:              s,
		Tau:            tau,
		VarianceS:      varS,
		Z:              z,
		PValue:         p,
		N:              n,
		Classification: trend.Classify(z, p, e.cfg.Alpha, 0),
	}, nil
}
