package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"vegtrend/domain/timeseries"
	"vegtrend/domain/trend"
	"vegtrend/internal/errors"
)

// Breakpoint searches for the single structural break that best explains the
// series as two OLS segments sharing the break observation. Every interior
// index leaving at least two points on each side is a candidate; the one
// maximizing the combined R-squared wins, earliest index on ties. Series
// shorter than the configured minimum are reported not-applicable rather
// than failing.
//
// The maximization criterion carries no degrees-of-freedom penalty, so on
// near-linear series the break tends toward the midpoint; callers wanting a
// guard can compare CombinedR2 against the single-line fit.
func (e *Engine) Breakpoint(series timeseries.Series) (*trend.BreakpointResult, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	n := len(series)
	if n < e.cfg.MinBreakpointLen {
		return &trend.BreakpointResult{Applicable: false}, nil
	}

	days := series.Days()
	values := series.Values()

	meanY := stat.Mean(values, nil)
	ssTot := 0.0
	for _, v := range values {
		dy := v - meanY
		ssTot += dy * dy
	}
	if ssTot == 0 {
		return nil, errors.DegenerateInput("breakpoint detection on a constant series")
	}

	bestIdx := -1
	bestR2 := math.Inf(-1)
	var bestPre, bestPost float64

	for b := 1; b <= n-2; b++ {
		pre := segmentFit(days[:b+1], values[:b+1])
		post := segmentFit(days[b:], values[b:])
		combined := 1 - (pre.ssRes+post.ssRes)/ssTot
		if combined > bestR2 {
			bestR2 = combined
			bestIdx = b
			bestPre, bestPost = pre.slope, post.slope
		}
	}
	if bestIdx < 0 {
		return &trend.BreakpointResult{Applicable: false}, nil
	}

	if err := finiteAll("breakpoint", bestR2, bestPre, bestPost); err != nil {
		return nil, err
	}

	return &trend.BreakpointResult{
		Applicable: true,
		Index:      bestIdx,
		Date:       series[bestIdx].Date,
		CombinedR2: bestR2,
		PreSlope:   bestPre,
		PostSlope:  bestPost,
		ChangeType: classifyBreak(bestPre, bestPost),
	}, nil
}

type segment struct {
	slope float64
	ssRes float64
}

func segmentFit(x, y []float64) segment {
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	ssRes := 0.0
	for i := range x {
		r := y[i] - (alpha + beta*x[i])
		ssRes += r * r
	}
	return segment{slope: beta, ssRes: ssRes}
}

func classifyBreak(pre, post float64) trend.ChangeType {
	switch {
	case pre >= 0 && post < 0:
		return trend.ImprovementToDecline
	case pre < 0 && post >= 0:
		return trend.DeclineToImprovement
	case math.Abs(post) > math.Abs(pre):
		return trend.Acceleration
	default:
		return trend.Deceleration
	}
}
