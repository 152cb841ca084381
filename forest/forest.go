// Package forest implements a bagged ensemble of regression trees (a random
// forest regressor) in pure Go. It fits mixed categorical/numeric tabular
// features once they are one-hot encoded into a gonum matrix.
package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmpty is returned when fitting on zero rows.
	ErrEmpty = errors.New("no training rows")
	// ErrDegenerateTarget is returned when the training target has fewer
	// than two distinct values, so there is no variance to fit.
	ErrDegenerateTarget = errors.New("training target has fewer than 2 distinct values")
	// ErrNotFitted is returned by Predict before Fit succeeded.
	ErrNotFitted = errors.New("forest not fitted; call Fit first")
)

// Config holds the ensemble hyperparameters.
type Config struct {
	// NTrees is the number of trees. Default 100.
	NTrees int

	// MaxDepth limits tree depth. Zero grows trees until leaves are pure
	// or too small to split.
	MaxDepth int

	// MinSamplesSplit is the smallest node that may be split. Default 2.
	MinSamplesSplit int

	// MinSamplesLeaf is the smallest allowed leaf. Default 1.
	MinSamplesLeaf int

	// MaxFeatures is the number of features tried per split. Zero tries all.
	MaxFeatures int

	// DisableBootstrap fits every tree on the full training set instead of a
	// bootstrap resample.
	DisableBootstrap bool

	// Seed controls bootstrap sampling and feature sub-sampling.
	Seed int64

	// Workers bounds how many trees are grown concurrently. Zero uses NumCPU.
	Workers int
}

// DefaultConfig returns the reference ensemble: 100 fully grown trees on
// bootstrap samples with seed 42.
func DefaultConfig() Config {
	return Config{
		NTrees:          100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

// Forest is a bagged ensemble of regression trees.
type Forest struct {
	// Config used for fitting.
	Config Config

	trees     []*Tree
	nFeatures int
}

// NewForest returns an unfitted forest. Zero-valued size fields of cfg are
// replaced by their defaults.
func NewForest(cfg Config) (*Forest, error) {
	if cfg.NTrees == 0 {
		cfg.NTrees = 100
	}
	if cfg.MinSamplesSplit == 0 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.MinSamplesLeaf == 0 {
		cfg.MinSamplesLeaf = 1
	}
	if cfg.NTrees < 0 {
		return nil, fmt.Errorf("n trees must be > 0, got %d", cfg.NTrees)
	}
	if cfg.MaxDepth < 0 || cfg.MaxFeatures < 0 || cfg.Workers < 0 {
		return nil, errors.New("max depth, max features and workers must be >= 0")
	}
	if cfg.MinSamplesSplit < 2 {
		return nil, fmt.Errorf("min samples split must be >= 2, got %d", cfg.MinSamplesSplit)
	}
	if cfg.MinSamplesLeaf < 1 {
		return nil, fmt.Errorf("min samples leaf must be >= 1, got %d", cfg.MinSamplesLeaf)
	}
	return &Forest{Config: cfg}, nil
}

// Fit grows the ensemble on x (rows are examples) and targets y.
//
// Each tree's seed is drawn from the forest seed, in tree order, before any
// tree is grown, so the fitted forest does not depend on Workers.
func (f *Forest) Fit(x mat.Matrix, y []float64) error {
	if x == nil {
		return errors.New("feature matrix is nil")
	}
	n, nf := x.Dims()
	if n == 0 {
		return ErrEmpty
	}
	if n != len(y) {
		return fmt.Errorf("feature rows and targets don't match: %d != %d", n, len(y))
	}
	if nf == 0 {
		return errors.New("feature matrix has no columns")
	}
	if distinct(y) < 2 {
		return ErrDegenerateTarget
	}

	// column-major copy: split search walks one feature at a time
	cols := make([][]float64, nf)
	for j := range cols {
		cols[j] = mat.Col(nil, j, x)
	}
	target := append([]float64(nil), y...)

	params := treeParams{
		maxDepth:        f.Config.MaxDepth,
		minSamplesSplit: f.Config.MinSamplesSplit,
		minSamplesLeaf:  f.Config.MinSamplesLeaf,
		maxFeatures:     f.Config.MaxFeatures,
	}

	nTrees := f.Config.NTrees
	rng := rand.New(rand.NewSource(f.Config.Seed))
	seeds := make([]int64, nTrees)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	workers := f.Config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > nTrees {
		workers = nTrees
	}

	trees := make([]*Tree, nTrees)
	jobs := make(chan int, nTrees)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for t := range jobs {
				treeRng := rand.New(rand.NewSource(seeds[t]))
				samples := make([]int, n)
				if f.Config.DisableBootstrap {
					for i := range samples {
						samples[i] = i
					}
				} else {
					for i := range samples {
						samples[i] = treeRng.Intn(n)
					}
				}
				trees[t] = growTree(cols, target, samples, params, treeRng)
			}
		}()
	}
	for t := 0; t < nTrees; t++ {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	f.trees = trees
	f.nFeatures = nf
	return nil
}

// Predict returns the mean tree prediction for every row of x.
func (f *Forest) Predict(x mat.Matrix) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}
	n, nf := x.Dims()
	if nf != f.nFeatures {
		return nil, fmt.Errorf("input has %d features, forest was fitted on %d", nf, f.nFeatures)
	}
	out := make([]float64, n)
	row := make([]float64, nf)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		var sum float64
		for _, t := range f.trees {
			sum += t.Predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

// Trees returns the fitted trees.
func (f *Forest) Trees() []*Tree { return f.trees }

// FeatureImportances returns the mean, per-tree normalized squared-error
// reduction attributed to each feature. The values sum to 1 unless no tree
// ever split.
func (f *Forest) FeatureImportances() []float64 {
	imp := make([]float64, f.nFeatures)
	for _, t := range f.trees {
		var total float64
		for _, v := range t.importance {
			total += v
		}
		if total == 0 {
			continue
		}
		for j, v := range t.importance {
			imp[j] += v / total
		}
	}
	var total float64
	for _, v := range imp {
		total += v
	}
	if total > 0 {
		for j := range imp {
			imp[j] /= total
		}
	}
	return imp
}

// Ranked pairs feature names with importances, highest first.
type Ranked struct {
	Name       string
	Importance float64
}

// RankFeatures sorts names by importance, highest first. names must be
// aligned with FeatureImportances.
func (f *Forest) RankFeatures(names []string) []Ranked {
	imp := f.FeatureImportances()
	out := make([]Ranked, 0, len(imp))
	for j, v := range imp {
		name := fmt.Sprintf("f%d", j)
		if j < len(names) {
			name = names[j]
		}
		out = append(out, Ranked{Name: name, Importance: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

func distinct(y []float64) int {
	seen := make(map[float64]struct{})
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		seen[v] = struct{}{}
		if len(seen) > 1 {
			break
		}
	}
	return len(seen)
}
