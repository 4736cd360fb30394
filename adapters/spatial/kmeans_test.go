package spatial

import (
	"math"
	"reflect"
	"testing"

	"vegtrend/internal/errors"
	"vegtrend/internal/testkit"
)

func TestCluster_SeparatesBimodalValues(t *testing.T) {
	eng := NewEngine()
	grid := testkit.BimodalGrid(8, 8, 0.3, 0.7, 13)
	mask := testkit.FullMask(8, 8)

	cfg := DefaultClusterConfig()
	cfg.K = 2

	res, err := eng.Cluster(grid, mask, cfg)
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}

	if len(res.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(res.Clusters))
	}
	if res.Clusters[0].Count != 32 || res.Clusters[1].Count != 32 {
		t.Fatalf("expected a 32/32 split of the checkerboard, got %d/%d",
			res.Clusters[0].Count, res.Clusters[1].Count)
	}
	// Ids are relabeled ascending by mean: 0 is the low band.
	if res.Clusters[0].Mean >= res.Clusters[1].Mean {
		t.Fatalf("expected ascending cluster means, got %.4f >= %.4f",
			res.Clusters[0].Mean, res.Clusters[1].Mean)
	}
	if math.Abs(res.Clusters[0].Mean-0.3) > 0.03 || math.Abs(res.Clusters[1].Mean-0.7) > 0.03 {
		t.Fatalf("expected cluster means near the band centers, got %.4f/%.4f",
			res.Clusters[0].Mean, res.Clusters[1].Mean)
	}

	fracSum := res.Clusters[0].Fraction + res.Clusters[1].Fraction
	if math.Abs(fracSum-1) > 1e-9 {
		t.Fatalf("expected fractions to sum to 1, got %.9f", fracSum)
	}

	// Every cell of the low band carries label 0.
	for i := range grid {
		for j := range grid[i] {
			want := 0
			if grid[i][j] > 0.5 {
				want = 1
			}
			if res.Labels[i][j] != want {
				t.Fatalf("cell (%d,%d) value %.3f: expected label %d, got %d",
					i, j, grid[i][j], want, res.Labels[i][j])
			}
		}
	}
}

func TestCluster_IdenticalInputReproducesAssignment(t *testing.T) {
	eng := NewEngine()
	grid := testkit.UniformGrid(10, 10, 0.2, 0.8, 99)
	mask := testkit.FullMask(10, 10)

	cfg := DefaultClusterConfig()

	first, err := eng.Cluster(grid, mask, cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := eng.Cluster(grid, mask, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(first.Labels, second.Labels) {
		t.Fatal("identical input and seed must reproduce identical labels")
	}
	if first.Inertia != second.Inertia {
		t.Fatalf("expected identical inertia, got %.9f vs %.9f", first.Inertia, second.Inertia)
	}
}

func TestCluster_ExcludedCellsKeepSentinelLabel(t *testing.T) {
	eng := NewEngine()
	grid := testkit.BimodalGrid(6, 6, 0.3, 0.7, 13)
	mask := testkit.FullMask(6, 6)
	mask[0][0] = false
	mask[5][5] = false

	cfg := DefaultClusterConfig()
	cfg.K = 2

	res, err := eng.Cluster(grid, mask, cfg)
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}
	if res.Labels[0][0] != -1 || res.Labels[5][5] != -1 {
		t.Fatalf("expected -1 at excluded cells, got %d and %d", res.Labels[0][0], res.Labels[5][5])
	}
	if res.Clusters[0].Count+res.Clusters[1].Count != 34 {
		t.Fatalf("expected 34 clustered cells, got %d",
			res.Clusters[0].Count+res.Clusters[1].Count)
	}
}

func TestCluster_InvalidK(t *testing.T) {
	eng := NewEngine()
	grid := testkit.ConstantGrid(2, 2, 0.5)
	mask := testkit.FullMask(2, 2)

	cfg := DefaultClusterConfig()
	cfg.K = 1
	if _, err := eng.Cluster(grid, mask, cfg); !errors.HasCode(err, errors.CodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION for k=1, got %v", err)
	}

	cfg.K = 5
	if _, err := eng.Cluster(grid, mask, cfg); !errors.HasCode(err, errors.CodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION for k above the masked count, got %v", err)
	}
}

func TestCluster_EmptyMaskIsDegenerate(t *testing.T) {
	eng := NewEngine()
	grid := testkit.ConstantGrid(3, 3, 0.5)
	mask := make([][]bool, 3)
	for i := range mask {
		mask[i] = make([]bool, 3)
	}

	_, err := eng.Cluster(grid, mask, DefaultClusterConfig())
	if !errors.HasCode(err, errors.CodeDegenerateInput) {
		t.Fatalf("expected DEGENERATE_INPUT with every cell excluded, got %v", err)
	}
}
