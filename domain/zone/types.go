package zone

import (
	"vegtrend/domain/timeseries"
	"vegtrend/domain/trend"
)

// Zone is one spatial cluster treated as a unit for temporal analysis.
// Zones are built fresh on every segmentation run and never mutated after
// creation. TrendErr carries a per-zone failure without aborting siblings;
// when it is set Trend is nil.
type Zone struct {
	ID            int                `json:"id"` // cluster id, ascending-mean order
	PixelCount    int                `json:"pixel_count"`
	Fraction      float64            `json:"fraction"` // of the masked area
	Mean          float64            `json:"mean"`     // temporal-aggregate mean of member cells
	Series        timeseries.Series  `json:"series"`   // per-date aggregate over member cells
	Trend         *trend.TrendResult `json:"trend,omitempty"`
	PercentChange float64            `json:"percent_change"`
	TrendErr      error              `json:"-"`
	TrendErrKind  string             `json:"trend_err_kind,omitempty"`
}

// Report is the unified segmentation output: one zone per cluster id, ordered
// by ascending mean. MaskedPixels always equals the sum of zone pixel counts.
type Report struct {
	Zones        []Zone `json:"zones"`
	MaskedPixels int    `json:"masked_pixels"`
	K            int    `json:"k"`
}
