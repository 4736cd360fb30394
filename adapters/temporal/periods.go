package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"vegtrend/domain/timeseries"
	"vegtrend/domain/trend"
	"vegtrend/internal/errors"
)

// ComparePeriods splits the series at its count midpoint into two contiguous
// halves and compares their means. When both halves reach the configured
// minimum a Welch two-sample t-test decides significance; otherwise the
// comparison is indicative only and no test is reported.
func (e *Engine) ComparePeriods(series timeseries.Series) (*trend.PeriodComparisonResult, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	n := len(series)
	if n < e.cfg.MinPeriodLen {
		return nil, errors.InsufficientData("period comparison needs at least 4 observations")
	}

	values := series.Values()
	mid := n / 2
	first, second := values[:mid], values[mid:]

	p1 := periodStats(first)
	p2 := periodStats(second)

	absChange := p2.Mean - p1.Mean
	percent := 0.0
	if p1.Mean != 0 {
		percent = absChange / math.Abs(p1.Mean) * 100
	}

	result := &trend.PeriodComparisonResult{
		Period1:        p1,
		Period2:        p2,
		AbsoluteChange: absChange,
		PercentChange:  percent,
	}

	if p1.N >= e.cfg.MinTestHalf && p2.N >= e.cfg.MinTestHalf {
		tStat, p, err := welchTTest(first, second)
		if err != nil {
			return nil, err
		}
		result.TStatistic = tStat
		result.PValue = p
		result.Significant = p < e.cfg.Alpha
		result.TestPerformed = true
	}

	if err := finiteAll("period comparison", absChange, percent); err != nil {
		return nil, err
	}
	return result, nil
}

func periodStats(values []float64) trend.PeriodStats {
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	return trend.PeriodStats{N: len(values), Mean: mean, Std: std}
}

// welchTTest runs the unequal-variance two-sample t-test with
// Welch-Satterthwaite degrees of freedom.
func welchTTest(a, b []float64) (tStat, p float64, err error) {
	meanA, stdA := stat.MeanStdDev(a, nil)
	meanB, stdB := stat.MeanStdDev(b, nil)
	varA, varB := stdA*stdA, stdB*stdB
	nA, nB := float64(len(a)), float64(len(b))

	seSq := varA/nA + varB/nB
	if seSq == 0 {
		return 0, 0, errors.DegenerateInput("zero variance in both periods")
	}

	tStat = (meanB - meanA) / math.Sqrt(seSq)
	df := seSq * seSq / (varA*varA/(nA*nA*(nA-1)) + varB*varB/(nB*nB*(nB-1)))
	if math.IsNaN(df) || df <= 0 {
		return 0, 0, errors.NumericalInstability("welch degrees of freedom")
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * (1 - tDist.CDF(math.Abs(tStat)))
	if err := finiteAll("welch t-test", tStat, p); err != nil {
		return 0, 0, err
	}
	return tStat, p, nil
}
