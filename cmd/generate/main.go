package main

// generate writes the synthetic agricultural price dataset used by the
// train command.
//
// Usage:
//   go run ./cmd/generate -n 1000 -seed 42 -out agriculture_data.csv

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Noofbiz/harvestPrice/config"
	"github.com/Noofbiz/harvestPrice/datasets"
	"github.com/Noofbiz/harvestPrice/pricing"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON configuration file merged over the defaults")
	out := flag.String("out", "", "output CSV path (overrides JSON if provided)")
	rows := flag.Int("n", 0, "number of rows to generate (overrides JSON if provided)")
	seed := flag.Int64("seed", 0, "random seed for generation (overrides JSON if provided)")
	start := flag.String("start", "", "first sampled date, YYYY-MM-DD (overrides JSON if provided)")
	spanDays := flag.Int("span-days", 0, "number of days after -start that can be sampled (overrides JSON if provided)")
	printEffectiveConfig := flag.Bool("print-effective-config", false, "print the effective (JSON+CLI merged) configuration and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["out"] {
		cfg.Generate.Output = *out
	}
	if set["n"] {
		cfg.Generate.Rows = *rows
	}
	if set["seed"] {
		cfg.Generate.Seed = *seed
	}
	if set["start"] {
		cfg.Generate.StartDate = *start
	}
	if set["span-days"] {
		cfg.Generate.SpanDays = *spanDays
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
	if err := run(cfg, runID); err != nil {
		log.Fatalf("[Generate %s] %v", runID, err)
	}
}

// run validates cfg, generates the dataset and writes it.
func run(cfg config.Config, runID string) error {
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}
	genCfg, err := cfg.GenerateConfig()
	if err != nil {
		return err
	}

	model, err := pricing.NewModel(pricing.DefaultTables())
	if err != nil {
		return fmt.Errorf("create price model: %w", err)
	}

	log.Printf("[Generate %s] generating %d rows (seed=%d, start=%s, span=%d days)...",
		runID, genCfg.N, genCfg.Seed, cfg.Generate.StartDate, genCfg.SpanDays)
	ds, err := datasets.Generate(model, genCfg)
	if err != nil {
		return fmt.Errorf("generate dataset: %w", err)
	}

	if err := datasets.SaveCSV(cfg.Generate.Output, ds); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	log.Printf("[Generate %s] data generated: %d rows saved to %s", runID, ds.Len(), cfg.Generate.Output)
	return nil
}
