package ml

import (
	"math"
	"math/rand/v2"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Classifier is the capability a trainable delay model must provide. Any
// tree-ensemble binary classifier satisfies it.
type Classifier interface {
	Fit(x [][]float64, y []int) error
	PredictProbability(x [][]float64) []float64
}

// Model is the inference-time capability of a persisted model: row
// probabilities plus the exact ordered feature vocabulary it was trained on.
type Model interface {
	PredictProbability(x [][]float64) []float64
	FeatureVocabulary() []string
}

// ForestConfig holds random forest hyperparameters.
type ForestConfig struct {
	Trees    int   `json:"trees"`
	MaxDepth int   `json:"max_depth"`
	Seed     int64 `json:"seed"`
}

// DefaultForestConfig mirrors the production hyperparameters: 100 trees,
// depth 8, fixed seed for reproducible runs.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 100, MaxDepth: 8, Seed: 42}
}

// Forest is a random forest binary classifier. Each tree is fitted on a
// bootstrap sample with sqrt(d) features considered per split; the forest
// probability is the mean of per-tree leaf probabilities.
type Forest struct {
	Config      ForestConfig `json:"config"`
	NumFeatures int          `json:"num_features"`
	TreeList    []*Tree      `json:"trees"`
}

// NewForest returns an unfitted forest.
func NewForest(cfg ForestConfig) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = DefaultForestConfig().Trees
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultForestConfig().MaxDepth
	}
	return &Forest{Config: cfg}
}

// Fit trains the forest. Trees are fitted concurrently; each tree derives its
// own RNG from the base seed, so results do not depend on scheduling.
func (f *Forest) Fit(x [][]float64, y []int) error {
	if len(x) == 0 {
		return eris.New("ml: fit called with no rows")
	}
	if len(x) != len(y) {
		return eris.Errorf("ml: %d rows but %d labels", len(x), len(y))
	}

	f.NumFeatures = len(x[0])
	params := treeParams{
		maxDepth:    f.Config.MaxDepth,
		minSamples:  2,
		featureSub:  max(1, int(math.Sqrt(float64(f.NumFeatures)))),
		numFeatures: f.NumFeatures,
	}

	f.TreeList = make([]*Tree, f.Config.Trees)
	var g errgroup.Group
	g.SetLimit(8)
	for i := 0; i < f.Config.Trees; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(f.Config.Seed), uint64(i)))
			samples := bootstrap(len(x), rng)
			f.TreeList[i] = fitTree(x, y, samples, params, rng)
			return nil
		})
	}
	return g.Wait()
}

// PredictProbability returns the positive-class probability per row.
func (f *Forest) PredictProbability(x [][]float64) []float64 {
	probs := make([]float64, len(x))
	if len(f.TreeList) == 0 {
		return probs
	}
	for ri, row := range x {
		sum := 0.0
		for _, t := range f.TreeList {
			sum += t.predictRow(row)
		}
		probs[ri] = sum / float64(len(f.TreeList))
	}
	return probs
}

func bootstrap(n int, rng *rand.Rand) []int {
	samples := make([]int, n)
	for i := range samples {
		samples[i] = rng.IntN(n)
	}
	return samples
}
