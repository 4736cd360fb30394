// Package temporal implements the trend statistics that run over one dated
// scalar series: OLS linear trend, Mann-Kendall confirmation, change
// velocity, single-breakpoint detection, period comparison, and linear
// projection.
package temporal

import (
	"math"

	"vegtrend/internal/errors"
)

// Config carries every tunable of the temporal engine. Values are explicit
// call inputs; there is no process-wide state.
type Config struct {
	// Alpha is the significance level for every test.
	Alpha float64
	// SlopeEpsilon is the negligible-slope threshold below which a fit is
	// classified as no-trend regardless of significance.
	SlopeEpsilon float64
	// MinBreakpointLen is the minimum series length for breakpoint
	// detection; shorter series are reported not-applicable.
	MinBreakpointLen int
	// MinPeriodLen is the minimum series length for period comparison.
	MinPeriodLen int
	// MinTestHalf is the minimum half size for a parametric period test;
	// below it the comparison is indicative only.
	MinTestHalf int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Alpha:            0.05,
		SlopeEpsilon:     1e-9,
		MinBreakpointLen: 5,
		MinPeriodLen:     4,
		MinTestHalf:      3,
	}
}

// Engine computes temporal trend statistics. It is stateless beyond its
// configuration and safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates a temporal engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// finiteAll validates computed statistics before they leave the engine.
// A NaN or infinity is reported as numerical-instability, never returned.
func finiteAll(context string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NumericalInstability("non-finite value in " + context)
		}
	}
	return nil
}
