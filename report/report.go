// Package report renders the diagnostic charts of a training run and
// exports its summary metrics.
package report

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Noofbiz/harvestPrice/datasets"
)

// Chart file names written by Emitter.
const (
	PriceTrendsFile        = "price_trends.png"
	PredictionScatterFile  = "prediction_scatter.png"
	CorrelationHeatmapFile = "correlation_heatmap.png"
)

// Emitter writes every chart of a run into Dir.
type Emitter struct {
	Dir string
}

// Emit renders the price-trend, prediction-scatter and correlation charts.
// It returns the paths written.
func (e Emitter) Emit(ds datasets.Dataset, actual, predicted []float64, mae float64) ([]string, error) {
	if e.Dir == "" {
		return nil, errors.New("empty report directory")
	}
	if err := ensureDir(e.Dir); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", e.Dir, err)
	}

	trends := filepath.Join(e.Dir, PriceTrendsFile)
	if err := PriceTrends(ds, trends); err != nil {
		return nil, fmt.Errorf("price trends: %w", err)
	}
	log.Printf("[Report] wrote %s", trends)

	scatter := filepath.Join(e.Dir, PredictionScatterFile)
	lo, hi, ok := PriceSpan(ds)
	if !ok {
		lo, hi = 1, 0
	}
	if err := PredictionScatter(actual, predicted, mae, lo, hi, scatter); err != nil {
		return nil, fmt.Errorf("prediction scatter: %w", err)
	}
	log.Printf("[Report] wrote %s", scatter)

	heat := filepath.Join(e.Dir, CorrelationHeatmapFile)
	if err := CorrelationHeatmap(ds, heat); err != nil {
		return nil, fmt.Errorf("correlation heatmap: %w", err)
	}
	log.Printf("[Report] wrote %s", heat)

	return []string{trends, scatter, heat}, nil
}

func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
