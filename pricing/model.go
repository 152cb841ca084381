// Package pricing holds the synthetic market-price model: per-crop base
// prices, monthly seasonality curves and the rainfall/yield interaction that
// drives the generated prices.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Noise and yield draw ranges.
const (
	YieldFactorMin = 0.8
	YieldFactorMax = 1.2
	NoiseAmplitude = 200.0

	RainfallMin = 0.0
	RainfallMax = 200.0
)

// Rainfall regime thresholds (mm) and the yield multiplier of each regime.
const (
	DamageThreshold     = 150.0
	BeneficialThreshold = 50.0

	DamageMultiplier     = 0.7
	BeneficialMultiplier = 1.1
	NeutralMultiplier    = 1.0
)

// Tables are the fixed per-crop constants of the model. They are built once
// and handed to NewModel so tests can substitute their own.
type Tables struct {
	// BasePrice is the normal-year price per quintal.
	BasePrice map[Crop]float64
	// Seasonality holds one multiplier per calendar month (January first).
	// Values below 1 mark harvest months, above 1 the off-season.
	Seasonality map[Crop][12]float64
}

// DefaultTables returns the reference price tables.
func DefaultTables() Tables {
	return Tables{
		BasePrice: map[Crop]float64{
			Rice:   2200,
			Wheat:  2400,
			Onion:  1500,
			Tomato: 1200,
			Cotton: 5500,
		},
		Seasonality: map[Crop][12]float64{
			Rice:   {1.0, 1.0, 1.0, 1.1, 1.1, 1.2, 1.2, 1.1, 1.0, 0.9, 0.8, 0.9},
			Wheat:  {1.0, 1.0, 0.9, 0.8, 0.9, 1.0, 1.1, 1.1, 1.1, 1.1, 1.1, 1.1},
			Onion:  {1.2, 1.1, 1.0, 0.9, 0.8, 0.9, 1.1, 1.3, 1.5, 1.3, 1.1, 1.0},
			Tomato: {1.1, 1.0, 0.9, 0.8, 1.2, 1.5, 1.4, 1.0, 0.9, 1.0, 1.1, 1.2},
			Cotton: {1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 0.9, 0.8, 0.9, 1.0},
		},
	}
}

// Validate checks that every crop of the domain has a positive base price
// and twelve positive seasonality entries.
func (t Tables) Validate() error {
	for _, c := range Crops {
		base, ok := t.BasePrice[c]
		if !ok {
			return fmt.Errorf("missing base price for %s", c)
		}
		if !(base > 0) {
			return fmt.Errorf("base price for %s must be positive, got %v", c, base)
		}
		season, ok := t.Seasonality[c]
		if !ok {
			return fmt.Errorf("missing seasonality for %s", c)
		}
		for m, v := range season {
			if !(v > 0) {
				return fmt.Errorf("seasonality for %s month %d must be positive, got %v", c, m+1, v)
			}
		}
	}
	return nil
}

// SeasonalityFor returns the multiplier for crop in month (1-12).
func (t Tables) SeasonalityFor(crop Crop, month int) (float64, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("month %d out of range [1, 12]", month)
	}
	season, ok := t.Seasonality[crop]
	if !ok {
		return 0, fmt.Errorf("no seasonality for crop %q", crop)
	}
	return season[month-1], nil
}

// RainfallMultiplier returns the yield multiplier of the rainfall regime mm
// falls in: damaging above 150, beneficial in (50, 150], neutral otherwise.
func RainfallMultiplier(mm float64) float64 {
	switch {
	case mm > DamageThreshold:
		return DamageMultiplier
	case mm > BeneficialThreshold:
		return BeneficialMultiplier
	default:
		return NeutralMultiplier
	}
}

// Draws are the two random inputs of one evaluation. Supplying them from the
// caller keeps Evaluate deterministic.
type Draws struct {
	// YieldFactor is the pre-adjustment yield in [0.8, 1.2].
	YieldFactor float64
	// Noise is the additive price noise in [-200, 200].
	Noise float64
}

// SampleDraws takes the yield draw and then the noise draw from rng.
func SampleDraws(rng *rand.Rand) Draws {
	yf := YieldFactorMin + rng.Float64()*(YieldFactorMax-YieldFactorMin)
	noise := -NoiseAmplitude + rng.Float64()*2*NoiseAmplitude
	return Draws{YieldFactor: yf, Noise: noise}
}

// Quote is the output of one evaluation.
type Quote struct {
	YieldIndex float64
	Price      int
}

// Model evaluates prices against a fixed set of tables.
type Model struct {
	tables Tables
}

// NewModel validates tables and returns a Model using them.
func NewModel(t Tables) (*Model, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price tables: %w", err)
	}
	return &Model{tables: t}, nil
}

// Tables returns the tables the model was built with.
func (m *Model) Tables() Tables { return m.tables }

// Evaluate computes the yield index and market price for one observation:
//
//	yield = draws.YieldFactor * RainfallMultiplier(rainfall)
//	price = base[crop] * seasonality[crop][month] / yield + draws.Noise
//
// The yield index is rounded to two decimals and the price to an integer,
// both half-to-even. The unrounded yield feeds the price. Negative prices
// are clamped to zero.
func (m *Model) Evaluate(crop Crop, month int, rainfall float64, d Draws) (Quote, error) {
	if rainfall < RainfallMin || rainfall > RainfallMax || math.IsNaN(rainfall) {
		return Quote{}, fmt.Errorf("rainfall %v out of range [%v, %v]", rainfall, RainfallMin, RainfallMax)
	}
	if !(d.YieldFactor > 0) {
		return Quote{}, errors.New("yield factor must be positive")
	}
	base, ok := m.tables.BasePrice[crop]
	if !ok {
		return Quote{}, fmt.Errorf("no base price for crop %q", crop)
	}
	season, err := m.tables.SeasonalityFor(crop, month)
	if err != nil {
		return Quote{}, err
	}

	yield := d.YieldFactor * RainfallMultiplier(rainfall)
	price := base*season*(1/yield) + d.Noise
	price = math.RoundToEven(price)
	if price < 0 {
		price = 0
	}

	return Quote{
		YieldIndex: Round(yield, 2),
		Price:      int(price),
	}, nil
}

// Round rounds v to the given number of decimals, half-to-even.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
