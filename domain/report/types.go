package report

import (
	"time"

	"vegtrend/domain/core"
	"vegtrend/domain/spatial"
	"vegtrend/domain/trend"
	"vegtrend/domain/zone"
)

// StatFailure identifies one statistic that could not be computed, with the
// error kind and the offending unit. Failures never stand in for results: a
// statistic is either populated or listed here.
type StatFailure struct {
	Statistic string `json:"statistic"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}

// IndexReport is the complete analysis of one vegetation index over one
// region and date range. Each statistic is computed independently; a failure
// in one leaves the others intact.
type IndexReport struct {
	Key   core.IndexKey `json:"key"`
	Dates []time.Time   `json:"dates"`

	Summary     *spatial.GridSummary          `json:"summary,omitempty"`
	Trend       *trend.TrendResult            `json:"trend,omitempty"`
	MannKendall *trend.MannKendallResult      `json:"mann_kendall,omitempty"`
	Velocity    *trend.VelocityResult         `json:"velocity,omitempty"`
	Breakpoint  *trend.BreakpointResult       `json:"breakpoint,omitempty"`
	Periods     *trend.PeriodComparisonResult `json:"periods,omitempty"`
	Projection  []trend.ProjectionPoint       `json:"projection,omitempty"`
	HotCold     *spatial.HotColdResult        `json:"hot_cold,omitempty"`
	Difference  *spatial.DifferenceResult     `json:"difference,omitempty"`
	Clusters    *spatial.ClusterAssignment    `json:"clusters,omitempty"`
	Moran       *spatial.MoranResult          `json:"moran,omitempty"`
	Zones       *zone.Report                  `json:"zones,omitempty"`

	Failures []StatFailure `json:"failures,omitempty"`
}

// RunResult aggregates the per-index reports of one analysis run.
type RunResult struct {
	RunID      core.RunID     `json:"run_id"`
	StartedAt  core.Timestamp `json:"started_at"`
	FinishedAt core.Timestamp `json:"finished_at"`
	Reports    []IndexReport  `json:"reports"`
}
