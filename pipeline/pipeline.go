// Package pipeline splits an encoded dataset into train and test rows, fits
// the forest regressor on the training rows only and scores it on the
// held-out rows with mean absolute error.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/Noofbiz/harvestPrice/features"
	"github.com/Noofbiz/harvestPrice/forest"
)

var (
	// ErrInsufficientData is returned when there are not enough rows to
	// produce a non-empty train and test partition.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidRatio is returned for a test ratio outside (0, 1).
	ErrInvalidRatio = errors.New("test ratio must be in (0, 1)")
)

// SplitResult holds the row indices of each partition, ascending.
type SplitResult struct {
	Train []int
	Test  []int
}

// Split partitions [0, n) with a seeded permutation. The first
// ceil(testRatio*n) permuted indices form the test set.
func Split(n int, testRatio float64, seed int64) (SplitResult, error) {
	if !(testRatio > 0 && testRatio < 1) {
		return SplitResult{}, fmt.Errorf("%w, got %v", ErrInvalidRatio, testRatio)
	}
	nTest := int(math.Ceil(testRatio * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return SplitResult{}, fmt.Errorf("%w: %d rows cannot be split with test ratio %v", ErrInsufficientData, n, testRatio)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test := append([]int(nil), perm[:nTest]...)
	train := append([]int(nil), perm[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return SplitResult{Train: train, Test: test}, nil
}

// MAE returns mean(|pred_i - actual_i|).
func MAE(pred, actual []float64) (float64, error) {
	if len(pred) != len(actual) {
		return 0, fmt.Errorf("predictions and targets lengths don't match: %d != %d", len(pred), len(actual))
	}
	if len(pred) == 0 {
		return 0, fmt.Errorf("%w: no rows to score", ErrInsufficientData)
	}
	diff := make([]float64, len(pred))
	floats.SubTo(diff, pred, actual)
	return floats.Norm(diff, 1) / float64(len(diff)), nil
}

// Config controls a train/evaluate run.
type Config struct {
	// TestRatio is the share of rows held out. Default 0.2.
	TestRatio float64
	// Seed drives the partition.
	Seed int64
	// Forest configures the regressor.
	Forest forest.Config
}

// DefaultConfig returns an 80/20 split with seed 42 and the default forest.
func DefaultConfig() Config {
	return Config{
		TestRatio: 0.2,
		Seed:      42,
		Forest:    forest.DefaultConfig(),
	}
}

// Result is the outcome of Run.
type Result struct {
	MAE         float64
	Predictions []float64
	TestTargets []float64
	Split       SplitResult
	// Ranked lists feature importances, highest first.
	Ranked   []forest.Ranked
	FitTime  time.Duration
	Features []string
}

// Run splits x/y, fits a forest on the training rows and scores the test rows.
func Run(x *features.FeatureMatrix, y []float64, cfg Config) (*Result, error) {
	if x == nil {
		return nil, errors.New("feature matrix is nil")
	}
	n, _ := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("feature rows and targets don't match: %d != %d", n, len(y))
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: dataset has no rows", ErrInsufficientData)
	}

	split, err := Split(n, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return nil, err
	}

	xTrain, err := x.Subset(split.Train)
	if err != nil {
		return nil, err
	}
	xTest, err := x.Subset(split.Test)
	if err != nil {
		return nil, err
	}
	yTrain := pick(y, split.Train)
	yTest := pick(y, split.Test)

	model, err := forest.NewForest(cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("create forest: %w", err)
	}
	start := time.Now()
	if err := model.Fit(xTrain, yTrain); err != nil {
		return nil, fmt.Errorf("fit forest on %d rows: %w", len(yTrain), err)
	}
	fitTime := time.Since(start)

	preds, err := model.Predict(xTest)
	if err != nil {
		return nil, fmt.Errorf("predict test rows: %w", err)
	}
	mae, err := MAE(preds, yTest)
	if err != nil {
		return nil, err
	}

	return &Result{
		MAE:         mae,
		Predictions: preds,
		TestTargets: yTest,
		Split:       split,
		Ranked:      model.RankFeatures(x.Columns()),
		FitTime:     fitTime,
		Features:    x.Columns(),
	}, nil
}

func pick(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}
