package spatial

import (
	"math"
	"testing"

	"vegtrend/domain/spatial"
	"vegtrend/internal/errors"
	"vegtrend/internal/testkit"
)

func TestDifference_ClassifiesAgainstHalfSigma(t *testing.T) {
	eng := NewEngine()
	earlier := testkit.ConstantGrid(4, 4, 0.5)
	later := testkit.ConstantGrid(4, 4, 0.5)
	later[0][0] = 0.7
	later[3][3] = 0.3
	mask := testkit.FullMask(4, 4)

	res, err := eng.Difference(earlier, later, mask)
	if err != nil {
		t.Fatalf("difference: %v", err)
	}

	// 14 zero diffs plus ±0.2: mean 0, sigma sqrt(0.08/16), threshold sigma/2.
	wantStd := math.Sqrt(0.08 / 16)
	if math.Abs(res.Std-wantStd) > 1e-9 {
		t.Fatalf("expected std %.6f, got %.6f", wantStd, res.Std)
	}
	if math.Abs(res.Threshold-wantStd/2) > 1e-9 {
		t.Fatalf("expected threshold %.6f, got %.6f", wantStd/2, res.Threshold)
	}
	if res.Increase != 1 || res.Decrease != 1 || res.Stable != 14 {
		t.Fatalf("expected 1/1/14 split, got %d/%d/%d", res.Increase, res.Decrease, res.Stable)
	}
	if res.Classes[0][0] != spatial.DiffIncrease {
		t.Fatalf("expected increase at (0,0), got %v", res.Classes[0][0])
	}
	if res.Classes[3][3] != spatial.DiffDecrease {
		t.Fatalf("expected decrease at (3,3), got %v", res.Classes[3][3])
	}
	if res.Mean != 0 {
		t.Fatalf("expected zero mean difference, got %.9f", res.Mean)
	}
}

func TestDifference_ExcludedCellsIgnored(t *testing.T) {
	eng := NewEngine()
	earlier := testkit.ConstantGrid(3, 3, 0.5)
	later := testkit.ConstantGrid(3, 3, 0.5)
	later[1][1] = 0.9
	later[0][0] = 0.6
	mask := testkit.FullMask(3, 3)
	mask[1][1] = false

	res, err := eng.Difference(earlier, later, mask)
	if err != nil {
		t.Fatalf("difference: %v", err)
	}
	if res.Classes[1][1] != spatial.DiffExcluded {
		t.Fatalf("expected excluded at the masked cell, got %v", res.Classes[1][1])
	}
	// The masked 0.4 jump must not inflate the statistics.
	if res.Max != 0.1 {
		t.Fatalf("expected max diff 0.1, got %.4f", res.Max)
	}
	if res.Increase+res.Decrease+res.Stable != 8 {
		t.Fatalf("expected 8 classified cells, got %d", res.Increase+res.Decrease+res.Stable)
	}
}

func TestDifference_EmptyMaskIsDegenerate(t *testing.T) {
	eng := NewEngine()
	earlier := testkit.ConstantGrid(2, 2, 0.5)
	later := testkit.ConstantGrid(2, 2, 0.5)
	mask := make([][]bool, 2)
	for i := range mask {
		mask[i] = make([]bool, 2)
	}

	_, err := eng.Difference(earlier, later, mask)
	if !errors.HasCode(err, errors.CodeDegenerateInput) {
		t.Fatalf("expected DEGENERATE_INPUT, got %v", err)
	}
}
