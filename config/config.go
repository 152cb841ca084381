// Package config holds the tunables of the generate and train commands. The
// embedded DefaultJSON is the base; an optional JSON file is merged over it
// and command-line flags override both.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Noofbiz/harvestPrice/datasets"
	"github.com/Noofbiz/harvestPrice/forest"
	"github.com/Noofbiz/harvestPrice/pipeline"
)

// ErrInvalidConfiguration wraps every validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

var validate = validator.New()

// DefaultJSON is the reference configuration.
const DefaultJSON = `{
  "generate": {
    "rows": 1000,
    "seed": 42,
    "start_date": "2023-01-01",
    "span_days": 730,
    "state": "Telangana",
    "output": "agriculture_data.csv"
  },
  "train": {
    "data": "agriculture_data.csv",
    "report_dir": "public/assets/graphs",
    "test_ratio": 0.2,
    "seed": 42,
    "infer_categories": false,
    "metrics_path": "",
    "forest": {
      "trees": 100,
      "max_depth": 0,
      "min_samples_split": 2,
      "min_samples_leaf": 1,
      "max_features": 0,
      "bootstrap": true,
      "seed": 42,
      "workers": 0
    }
  }
}
`

// Config is the merged configuration of both commands.
type Config struct {
	Generate Generate `json:"generate"`
	Train    Train    `json:"train"`
}

// Generate configures dataset generation.
type Generate struct {
	Rows      int    `json:"rows" validate:"gt=0"`
	Seed      int64  `json:"seed"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	SpanDays  int    `json:"span_days" validate:"gte=0"`
	State     string `json:"state" validate:"required"`
	Output    string `json:"output" validate:"required"`
}

// Train configures the train/evaluate/report run.
type Train struct {
	Data            string  `json:"data" validate:"required"`
	ReportDir       string  `json:"report_dir" validate:"required"`
	TestRatio       float64 `json:"test_ratio" validate:"gt=0,lt=1"`
	Seed            int64   `json:"seed"`
	InferCategories bool    `json:"infer_categories"`
	MetricsPath     string  `json:"metrics_path"`
	Forest          Forest  `json:"forest"`
}

// Forest configures the regressor.
type Forest struct {
	Trees           int   `json:"trees" validate:"gt=0"`
	MaxDepth        int   `json:"max_depth" validate:"gte=0"`
	MinSamplesSplit int   `json:"min_samples_split" validate:"gte=2"`
	MinSamplesLeaf  int   `json:"min_samples_leaf" validate:"gte=1"`
	MaxFeatures     int   `json:"max_features" validate:"gte=0"`
	Bootstrap       bool  `json:"bootstrap"`
	Seed            int64 `json:"seed"`
	Workers         int   `json:"workers" validate:"gte=0"`
}

// Default returns the configuration described by DefaultJSON.
func Default() Config {
	var c Config
	if err := json.Unmarshal([]byte(DefaultJSON), &c); err != nil {
		panic(fmt.Sprintf("config: bad DefaultJSON: %v", err))
	}
	return c
}

// Load merges the JSON file at path over the defaults. An empty path
// returns the defaults. The result is not validated; call Validate after
// applying flag overrides.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfiguration, path, err)
	}
	return c, nil
}

// Validate checks every field range.
func (c Config) Validate() error {
	return check(c)
}

// ValidateGenerate checks only the generate section.
func (c Config) ValidateGenerate() error {
	return check(c.Generate)
}

// ValidateTrain checks only the train section.
func (c Config) ValidateTrain() error {
	return check(c.Train)
}

func check(s any) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

// JSON returns the indented effective configuration.
func (c Config) JSON() (string, error) {
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// GenerateConfig converts the generate section.
func (c Config) GenerateConfig() (datasets.GenerateConfig, error) {
	start, err := time.Parse(datasets.DateLayout, c.Generate.StartDate)
	if err != nil {
		return datasets.GenerateConfig{}, fmt.Errorf("%w: start_date: %v", ErrInvalidConfiguration, err)
	}
	return datasets.GenerateConfig{
		N:        c.Generate.Rows,
		Seed:     c.Generate.Seed,
		Start:    start,
		SpanDays: c.Generate.SpanDays,
		State:    c.Generate.State,
	}, nil
}

// PipelineConfig converts the train section.
func (c Config) PipelineConfig() pipeline.Config {
	f := c.Train.Forest
	return pipeline.Config{
		TestRatio: c.Train.TestRatio,
		Seed:      c.Train.Seed,
		Forest: forest.Config{
			NTrees:           f.Trees,
			MaxDepth:         f.MaxDepth,
			MinSamplesSplit:  f.MinSamplesSplit,
			MinSamplesLeaf:   f.MinSamplesLeaf,
			MaxFeatures:      f.MaxFeatures,
			DisableBootstrap: !f.Bootstrap,
			Seed:             f.Seed,
			Workers:          f.Workers,
		},
	}
}
