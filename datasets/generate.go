package datasets

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Noofbiz/harvestPrice/pricing"
)

// GenerateConfig controls a generation run.
type GenerateConfig struct {
	// N is the number of rows to produce. Must be > 0.
	N int
	// Seed seeds the single random stream used for every draw of the run.
	Seed int64
	// Start is the first date that can be sampled.
	Start time.Time
	// SpanDays is the inclusive number of days after Start that can be sampled.
	SpanDays int
	// State is written verbatim on every record. Defaults to pricing.DefaultState.
	State string
}

// DefaultGenerateConfig returns the reference settings: 1000 rows over the
// two years starting 2023-01-01.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		N:        1000,
		Seed:     42,
		Start:    time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		SpanDays: 365 * 2,
		State:    pricing.DefaultState,
	}
}

// Generate drives model over cfg.N sampled observations.
//
// Every row consumes the random stream in a fixed order: day offset, crop,
// district, rainfall, then the yield and noise draws of the price model.
// Equal seeds therefore produce identical datasets.
func Generate(model *pricing.Model, cfg GenerateConfig) (Dataset, error) {
	if model == nil {
		return nil, errors.New("price model cannot be nil")
	}
	if cfg.N <= 0 {
		return nil, fmt.Errorf("n must be > 0, got %d", cfg.N)
	}
	if cfg.SpanDays < 0 {
		return nil, fmt.Errorf("span days must be >= 0, got %d", cfg.SpanDays)
	}
	if cfg.State == "" {
		cfg.State = pricing.DefaultState
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Date(cfg.Start.Year(), cfg.Start.Month(), cfg.Start.Day(), 0, 0, 0, 0, time.UTC)

	ds := make(Dataset, 0, cfg.N)
	for i := 0; i < cfg.N; i++ {
		offset := rng.Intn(cfg.SpanDays + 1)
		date := start.AddDate(0, 0, offset)
		crop := pricing.Crops[rng.Intn(len(pricing.Crops))]
		district := pricing.Districts[rng.Intn(len(pricing.Districts))]
		rain := pricing.RainfallMin + rng.Float64()*(pricing.RainfallMax-pricing.RainfallMin)

		q, err := model.Evaluate(crop, int(date.Month()), rain, pricing.SampleDraws(rng))
		if err != nil {
			return nil, fmt.Errorf("evaluate row %d: %w", i, err)
		}

		ds = append(ds, Record{
			Date:       date,
			State:      cfg.State,
			District:   district,
			Crop:       crop,
			Rainfall:   pricing.Round(rain, 1),
			YieldIndex: q.YieldIndex,
			Price:      q.Price,
		})
	}
	return ds, nil
}
