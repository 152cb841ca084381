package report

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Summary is the scalar outcome of one training run.
type Summary struct {
	RunID      string
	Rows       int
	TrainRows  int
	TestRows   int
	Trees      int
	MAE        float64
	FitSeconds float64
}

// Registry builds a prometheus registry holding the summary as gauges.
func (s Summary) Registry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"run_id": s.RunID}

	gauges := []struct {
		name, help string
		value      float64
	}{
		{"harvestprice_dataset_rows", "Rows in the dataset used for the run.", float64(s.Rows)},
		{"harvestprice_train_rows", "Rows in the training partition.", float64(s.TrainRows)},
		{"harvestprice_test_rows", "Rows in the held-out partition.", float64(s.TestRows)},
		{"harvestprice_forest_trees", "Trees in the fitted ensemble.", float64(s.Trees)},
		{"harvestprice_test_mae", "Mean absolute error on the held-out partition (INR).", s.MAE},
		{"harvestprice_fit_duration_seconds", "Wall time spent fitting the ensemble.", s.FitSeconds},
	}
	for _, g := range gauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        g.name,
			Help:        g.help,
			ConstLabels: labels,
		})
		gauge.Set(g.value)
		if err := reg.Register(gauge); err != nil {
			return nil, fmt.Errorf("register %s: %w", g.name, err)
		}
	}
	return reg, nil
}

// WriteMetrics writes the summary in the prometheus text format to path, for
// pickup by a node_exporter textfile collector.
func WriteMetrics(path string, s Summary) error {
	reg, err := s.Registry()
	if err != nil {
		return err
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	return prometheus.WriteToTextfile(path, reg)
}
