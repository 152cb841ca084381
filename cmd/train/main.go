package main

// train loads the generated dataset, fits the forest regressor on an 80/20
// split, prints the held-out MAE and writes the diagnostic charts.
//
// Usage:
//   go run ./cmd/train -data agriculture_data.csv -out public/assets/graphs

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Noofbiz/harvestPrice/config"
	"github.com/Noofbiz/harvestPrice/datasets"
	"github.com/Noofbiz/harvestPrice/features"
	"github.com/Noofbiz/harvestPrice/pipeline"
	"github.com/Noofbiz/harvestPrice/report"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON configuration file merged over the defaults")
	data := flag.String("data", "", "dataset CSV written by the generate command (overrides JSON if provided)")
	outDir := flag.String("out", "", "output directory for generated charts (overrides JSON if provided)")
	testRatio := flag.Float64("test-ratio", 0, "share of rows held out for evaluation (overrides JSON if provided)")
	seed := flag.Int64("seed", 0, "seed for the train/test split (overrides JSON if provided)")
	trees := flag.Int("trees", 0, "number of trees in the forest (overrides JSON if provided)")
	forestSeed := flag.Int64("forest-seed", 0, "seed for bootstrap sampling (overrides JSON if provided)")
	workers := flag.Int("workers", 0, "trees grown concurrently, 0 = NumCPU (overrides JSON if provided)")
	inferCategories := flag.Bool("infer-categories", false, "derive one-hot categories from the data instead of the fixed domains")
	metricsPath := flag.String("metrics", "", "if set, write prometheus textfile metrics to this path")
	printEffectiveConfig := flag.Bool("print-effective-config", false, "print the effective (JSON+CLI merged) configuration and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["data"] {
		cfg.Train.Data = *data
	}
	if set["out"] {
		cfg.Train.ReportDir = *outDir
	}
	if set["test-ratio"] {
		cfg.Train.TestRatio = *testRatio
	}
	if set["seed"] {
		cfg.Train.Seed = *seed
	}
	if set["trees"] {
		cfg.Train.Forest.Trees = *trees
	}
	if set["forest-seed"] {
		cfg.Train.Forest.Seed = *forestSeed
	}
	if set["workers"] {
		cfg.Train.Forest.Workers = *workers
	}
	if set["infer-categories"] {
		cfg.Train.InferCategories = *inferCategories
	}
	if set["metrics"] {
		cfg.Train.MetricsPath = *metricsPath
	}

	if *printEffectiveConfig {
		s, err := cfg.JSON()
		if err != nil {
			log.Fatalf("failed to encode config: %v", err)
		}
		fmt.Println(s)
		return
	}

	runID := uuid.NewString()
	if _, err := run(cfg, runID); err != nil {
		if errors.Is(err, datasets.ErrMissingArtifact) {
			log.Fatalf("[Train %s] error: %v. Run the generate command first.", runID, err)
		}
		log.Fatalf("[Train %s] %v", runID, err)
	}
}

// run executes load → encode → split/fit/evaluate → report for cfg.
func run(cfg config.Config, runID string) (*pipeline.Result, error) {
	if err := cfg.ValidateTrain(); err != nil {
		return nil, err
	}

	log.Printf("[Train %s] loading data from %s...", runID, cfg.Train.Data)
	ds, err := datasets.LoadCSV(cfg.Train.Data)
	if err != nil {
		return nil, err
	}
	log.Printf("[Train %s] loaded %d rows", runID, ds.Len())

	enc := features.NewEncoder()
	if cfg.Train.InferCategories {
		enc = features.InferEncoder(ds)
	}
	x, y, err := enc.Encode(ds)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}
	_, cols := x.Dims()
	log.Printf("[Train %s] encoded %d feature columns", runID, cols)

	pcfg := cfg.PipelineConfig()
	log.Printf("[Train %s] training model (trees=%d, test ratio=%.2f)...", runID, pcfg.Forest.NTrees, pcfg.TestRatio)
	res, err := pipeline.Run(x, y, pcfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[Train %s] fit completed in %v", runID, res.FitTime)
	fmt.Printf("Model Trained. MAE: INR %.2f\n", res.MAE)
	for i, r := range res.Ranked {
		if i == 3 {
			break
		}
		log.Printf("[Train %s] feature importance %-20s %.3f", runID, r.Name, r.Importance)
	}

	log.Printf("[Train %s] generating graphs...", runID)
	if _, err := (report.Emitter{Dir: cfg.Train.ReportDir}).Emit(ds, res.TestTargets, res.Predictions, res.MAE); err != nil {
		return nil, fmt.Errorf("emit report: %w", err)
	}
	log.Printf("[Train %s] graphs saved to %s", runID, cfg.Train.ReportDir)

	if cfg.Train.MetricsPath != "" {
		summary := report.Summary{
			RunID:      runID,
			Rows:       ds.Len(),
			TrainRows:  len(res.Split.Train),
			TestRows:   len(res.Split.Test),
			Trees:      pcfg.Forest.NTrees,
			MAE:        res.MAE,
			FitSeconds: res.FitTime.Seconds(),
		}
		if err := report.WriteMetrics(cfg.Train.MetricsPath, summary); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
		log.Printf("[Train %s] metrics written to %s", runID, cfg.Train.MetricsPath)
	}
	return res, nil
}
