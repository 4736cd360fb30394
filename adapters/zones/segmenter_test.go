package zones

import (
	"math"
	"testing"
	"time"

	"vegtrend/adapters/spatial"
	"vegtrend/adapters/temporal"
	"vegtrend/domain/raster"
	"vegtrend/internal/errors"
	"vegtrend/internal/testkit"
)

// bimodalDecliningStack builds a stack whose cells hold two value bands, both
// declining at exactly slopePerDay.
func bimodalDecliningStack(t *testing.T, rows, cols, dates, stepDays int, slopePerDay float64) *raster.Stack {
	t.Helper()
	base := testkit.BimodalGrid(rows, cols, 0.3, 0.7, 17)
	grids := make(map[time.Time]raster.Grid, dates)
	for d := 0; d < dates; d++ {
		offset := slopePerDay * float64(d*stepDays)
		grid := make(raster.Grid, rows)
		for i := range grid {
			grid[i] = make([]float64, cols)
			for j := range grid[i] {
				grid[i][j] = base[i][j] + offset
			}
		}
		grids[testkit.BaseDate.AddDate(0, 0, d*stepDays)] = grid
	}
	stack, err := raster.NewStack(grids, testkit.FullMask(rows, cols))
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	return stack
}

func newSegmenter() *Segmenter {
	return NewSegmenter(spatial.NewEngine(), temporal.NewEngine(temporal.DefaultConfig()))
}

func TestSegment_ZonesPartitionTheMask(t *testing.T) {
	seg := newSegmenter()
	stack := bimodalDecliningStack(t, 6, 6, 5, 10, -0.001)

	cfg := spatial.DefaultClusterConfig()
	cfg.K = 2

	rep, err := seg.Segment(stack, cfg)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}

	if rep.K != 2 || len(rep.Zones) != 2 {
		t.Fatalf("expected 2 zones, got K=%d len=%d", rep.K, len(rep.Zones))
	}
	if rep.MaskedPixels != 36 {
		t.Fatalf("expected 36 masked pixels, got %d", rep.MaskedPixels)
	}

	total := 0
	fracSum := 0.0
	for _, z := range rep.Zones {
		total += z.PixelCount
		fracSum += z.Fraction
	}
	if total != rep.MaskedPixels {
		t.Fatalf("zone pixel counts must sum to the masked count: %d != %d", total, rep.MaskedPixels)
	}
	if math.Abs(fracSum-1) > 1e-9 {
		t.Fatalf("zone fractions must sum to 1, got %.9f", fracSum)
	}
	if rep.Zones[0].Mean >= rep.Zones[1].Mean {
		t.Fatalf("expected ascending zone means, got %.4f >= %.4f", rep.Zones[0].Mean, rep.Zones[1].Mean)
	}
}

func TestSegment_PerZoneTrendsMatchTheSharedDecline(t *testing.T) {
	seg := newSegmenter()
	stack := bimodalDecliningStack(t, 6, 6, 6, 10, -0.001)

	cfg := spatial.DefaultClusterConfig()
	cfg.K = 2

	rep, err := seg.Segment(stack, cfg)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}

	for _, z := range rep.Zones {
		if z.Trend == nil {
			t.Fatalf("zone %d: expected a trend, got error %v", z.ID, z.TrendErr)
		}
		if math.Abs(z.Trend.Slope+0.001) > 1e-9 {
			t.Fatalf("zone %d: expected slope -0.001, got %.9f", z.ID, z.Trend.Slope)
		}
		if z.Trend.Classification != "decreasing_significant" {
			t.Fatalf("zone %d: expected decreasing_significant, got %s", z.ID, z.Trend.Classification)
		}
		if len(z.Series) != 6 {
			t.Fatalf("zone %d: expected a 6-point series, got %d", z.ID, len(z.Series))
		}
	}
}

func TestSegment_TrendFailureStaysOnItsZone(t *testing.T) {
	seg := newSegmenter()
	// Two dates are enough to cluster but too few to fit a trend.
	stack := bimodalDecliningStack(t, 6, 6, 2, 10, -0.001)

	cfg := spatial.DefaultClusterConfig()
	cfg.K = 2

	rep, err := seg.Segment(stack, cfg)
	if err != nil {
		t.Fatalf("segment must not abort on per-zone trend failures: %v", err)
	}
	if len(rep.Zones) != 2 {
		t.Fatalf("expected both zones reported, got %d", len(rep.Zones))
	}
	for _, z := range rep.Zones {
		if z.Trend != nil {
			t.Fatalf("zone %d: expected no trend on a 2-point series", z.ID)
		}
		if z.TrendErrKind != errors.CodeInsufficientData {
			t.Fatalf("zone %d: expected INSUFFICIENT_DATA, got %q", z.ID, z.TrendErrKind)
		}
	}
}

func TestZoneHotCold_RestrictsToZoneCells(t *testing.T) {
	seg := newSegmenter()
	stack := bimodalDecliningStack(t, 6, 6, 4, 10, -0.001)

	cfg := spatial.DefaultClusterConfig()
	cfg.K = 2

	aggregate, err := stack.TemporalMean()
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	assignment, err := spatial.NewEngine().Cluster(aggregate, stack.Mask, cfg)
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}

	res, err := seg.ZoneHotCold(stack, assignment, 0, spatial.DefaultHotColdConfig())
	if err != nil {
		t.Fatalf("zone hot/cold: %v", err)
	}
	if res.Total != assignment.Clusters[0].Count {
		t.Fatalf("expected the zone population only: %d != %d", res.Total, assignment.Clusters[0].Count)
	}
}
