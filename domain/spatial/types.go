package spatial

// SpotClass labels one masked cell relative to the masked population.
type SpotClass int8

const (
	// SpotExcluded marks cells outside the inclusion mask.
	SpotExcluded SpotClass = iota - 1
	SpotNeutral
	SpotHot
	SpotCold
)

func (c SpotClass) String() string {
	switch c {
	case SpotHot:
		return "hotspot"
	case SpotCold:
		return "coldspot"
	case SpotNeutral:
		return "neutral"
	default:
		return "excluded"
	}
}

// HotColdMethod selects the hot/cold-spot detection strategy.
type HotColdMethod string

const (
	MethodZScore HotColdMethod = "zscore"
	MethodIQR    HotColdMethod = "iqr"
)

// SpotSummary is the per-class count and mean.
type SpotSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// HotColdResult is the per-cell hot/cold classification with class summaries.
type HotColdResult struct {
	Method   HotColdMethod `json:"method"`
	Classes  [][]SpotClass `json:"-"`
	Total    int           `json:"total"` // masked cell count
	Hot      SpotSummary   `json:"hot"`
	Cold     SpotSummary   `json:"cold"`
	Neutral  SpotSummary   `json:"neutral"`
	AllFlat  bool          `json:"all_flat"` // zero-variance short-circuit: everything neutral
	HotPct   float64       `json:"hot_pct"`
	ColdPct  float64       `json:"cold_pct"`
	MeanUsed float64       `json:"mean_used"` // population mean (zscore) for reference
}

// ClusterStats summarizes one cluster, after ascending-mean relabeling.
type ClusterStats struct {
	ID       int     `json:"id"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// ClusterAssignment is the per-cell cluster labeling. Labels[i][j] is the
// cluster id for included cells and -1 for excluded cells. Cluster ids are
// relabeled so cluster 0 always has the lowest mean, making labels comparable
// across runs.
type ClusterAssignment struct {
	K        int            `json:"k"`
	Labels   [][]int        `json:"-"`
	Clusters []ClusterStats `json:"clusters"` // ordered by ascending mean
	Inertia  float64        `json:"inertia"`  // within-cluster sum of squared distances
	Seed     int64          `json:"seed"`
}

// MoranClassification labels the global autocorrelation outcome.
type MoranClassification string

const (
	ClusteredPositive MoranClassification = "clustered_positive"
	DispersedNegative MoranClassification = "dispersed_negative"
	RandomPattern     MoranClassification = "random"
)

// MoranResult is the global Moran's I statistic under the randomization
// assumption.
type MoranResult struct {
	I              float64             `json:"i"`
	Expected       float64             `json:"expected"` // -1/(N-1)
	Variance       float64             `json:"variance"`
	Z              float64             `json:"z"`
	PValue         float64             `json:"p_value"`
	N              int                 `json:"n"`          // masked cells
	WeightSum      float64             `json:"weight_sum"` // S0
	Classification MoranClassification `json:"classification"`
}

// GridSummary is the descriptive statistics of the masked population.
type GridSummary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
	CV     float64 `json:"cv"` // coefficient of variation, percent
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
}

// DiffClass labels one cell of a temporal difference grid.
type DiffClass int8

const (
	DiffExcluded DiffClass = iota - 1
	DiffStable
	DiffIncrease
	DiffDecrease
)

// DifferenceResult compares two dated grids cell by cell. Cells changing by
// more than half a standard deviation of the difference population are
// classed as strong increases or decreases.
type DifferenceResult struct {
	Diff        [][]float64   `json:"-"`
	Classes     [][]DiffClass `json:"-"`
	Mean        float64       `json:"mean"`
	Std         float64       `json:"std"`
	Min         float64       `json:"min"`
	Max         float64       `json:"max"`
	Threshold   float64       `json:"threshold"`
	Increase    int           `json:"increase"`
	Decrease    int           `json:"decrease"`
	Stable      int           `json:"stable"`
	IncreasePct float64       `json:"increase_pct"`
	DecreasePct float64       `json:"decrease_pct"`
	StablePct   float64       `json:"stable_pct"`
}
