package forest

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// stepData builds a dataset where the target depends on feature 0 through a
// discontinuous step and feature 1 is pure noise.
func stepData(n int, seed int64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := rng.Float64() * 200
		x.Set(i, 0, a)
		x.Set(i, 1, rng.Float64())
		switch {
		case a > 150:
			y[i] = 7000
		case a > 50:
			y[i] = 4500
		default:
			y[i] = 5000
		}
	}
	return x, y
}

func TestForestRecoversStepFunction(t *testing.T) {
	x, y := stepData(300, 1)
	f, err := NewForest(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, f.Fit(x, y))
	assert.Len(t, f.Trees(), 100)

	probe := mat.NewDense(3, 2, []float64{
		10, 0.5,
		100, 0.5,
		190, 0.5,
	})
	preds, err := f.Predict(probe)
	require.NoError(t, err)
	assert.InDelta(t, 5000, preds[0], 50)
	assert.InDelta(t, 4500, preds[1], 50)
	assert.InDelta(t, 7000, preds[2], 50)

	ranked := f.RankFeatures([]string{"rain", "noise"})
	assert.Equal(t, "rain", ranked[0].Name)
}

func TestFeatureImportancesSumToOne(t *testing.T) {
	x, y := stepData(150, 2)
	cfg := DefaultConfig()
	cfg.NTrees = 10
	f, err := NewForest(cfg)
	require.NoError(t, err)
	require.NoError(t, f.Fit(x, y))

	var total float64
	for _, v := range f.FeatureImportances() {
		assert.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestForestDeterministicAcrossWorkers(t *testing.T) {
	x, y := stepData(200, 3)
	probe, _ := stepData(50, 4)

	run := func(workers int) []float64 {
		cfg := DefaultConfig()
		cfg.NTrees = 20
		cfg.Workers = workers
		f, err := NewForest(cfg)
		require.NoError(t, err)
		require.NoError(t, f.Fit(x, y))
		p, err := f.Predict(probe)
		require.NoError(t, err)
		return p
	}

	assert.Equal(t, run(1), run(4))
	assert.Equal(t, run(3), run(3))
}

func TestSingleTreeWithoutBootstrapFitsTrainingSet(t *testing.T) {
	x, y := stepData(100, 5)
	cfg := DefaultConfig()
	cfg.NTrees = 1
	cfg.DisableBootstrap = true
	f, err := NewForest(cfg)
	require.NoError(t, err)
	require.NoError(t, f.Fit(x, y))

	preds, err := f.Predict(x)
	require.NoError(t, err)
	for i := range preds {
		assert.Equal(t, y[i], preds[i])
	}
	tree := f.Trees()[0]
	assert.GreaterOrEqual(t, tree.Leaves(), 3)
	assert.GreaterOrEqual(t, tree.Depth(), 2)
}

func TestMaxDepthLimitsTree(t *testing.T) {
	x, y := stepData(100, 6)
	cfg := DefaultConfig()
	cfg.NTrees = 1
	cfg.MaxDepth = 1
	f, err := NewForest(cfg)
	require.NoError(t, err)
	require.NoError(t, f.Fit(x, y))
	assert.LessOrEqual(t, f.Trees()[0].Depth(), 1)
	assert.LessOrEqual(t, f.Trees()[0].Leaves(), 2)
}

func TestMaxFeaturesSubsampling(t *testing.T) {
	x, y := stepData(100, 7)
	cfg := DefaultConfig()
	cfg.NTrees = 5
	cfg.MaxFeatures = 1
	f, err := NewForest(cfg)
	require.NoError(t, err)
	require.NoError(t, f.Fit(x, y))
	preds, err := f.Predict(x)
	require.NoError(t, err)
	for _, p := range preds {
		assert.False(t, math.IsNaN(p))
	}
}

func TestFitErrors(t *testing.T) {
	f, err := NewForest(DefaultConfig())
	require.NoError(t, err)

	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	err = f.Fit(x, []float64{5, 5, 5})
	assert.True(t, errors.Is(err, ErrDegenerateTarget))

	assert.Error(t, f.Fit(x, []float64{1, 2}))
	assert.Error(t, f.Fit(nil, nil))

	_, err = f.Predict(x)
	assert.True(t, errors.Is(err, ErrNotFitted))

	require.NoError(t, f.Fit(x, []float64{1, 2, 3}))
	_, err = f.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.Error(t, err)
}

func TestNewForestValidation(t *testing.T) {
	_, err := NewForest(Config{NTrees: -1})
	assert.Error(t, err)
	_, err = NewForest(Config{MinSamplesSplit: 1})
	assert.Error(t, err)
	_, err = NewForest(Config{MaxDepth: -2})
	assert.Error(t, err)

	f, err := NewForest(Config{})
	require.NoError(t, err)
	assert.Equal(t, 100, f.Config.NTrees)
	assert.Equal(t, 2, f.Config.MinSamplesSplit)
	assert.Equal(t, 1, f.Config.MinSamplesLeaf)
}
