package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRainfallMultiplierRegimes(t *testing.T) {
	cases := []struct {
		mm   float64
		want float64
	}{
		{0, 1.0},
		{25, 1.0},
		{50, 1.0},
		{50.1, 1.1},
		{100, 1.1},
		{150, 1.1},
		{150.1, 0.7},
		{200, 0.7},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RainfallMultiplier(c.mm), "rainfall %v", c.mm)
	}
}

func TestRainfallMultiplierIsOneOfThree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		mm := rng.Float64() * RainfallMax
		m := RainfallMultiplier(mm)
		assert.Contains(t, []float64{DamageMultiplier, BeneficialMultiplier, NeutralMultiplier}, m)
	}
}

func TestEvaluateCottonDamageExample(t *testing.T) {
	m, err := NewModel(DefaultTables())
	require.NoError(t, err)

	q, err := m.Evaluate(Cotton, 9, 160, Draws{YieldFactor: 1.0, Noise: 0})
	require.NoError(t, err)
	assert.Equal(t, 0.7, q.YieldIndex)
	assert.Equal(t, 7071, q.Price)
}

func TestEvaluateAppliesNoiseAndRegime(t *testing.T) {
	m, err := NewModel(DefaultTables())
	require.NoError(t, err)

	// Rice in June: 2200 * 1.2 / (1.0 * 1.1) = 2400
	q, err := m.Evaluate(Rice, 6, 100, Draws{YieldFactor: 1.0, Noise: 150})
	require.NoError(t, err)
	assert.Equal(t, 1.1, q.YieldIndex)
	assert.Equal(t, 2550, q.Price)

	// drought regime leaves the yield untouched
	q, err = m.Evaluate(Wheat, 4, 10, Draws{YieldFactor: 0.8, Noise: -200})
	require.NoError(t, err)
	assert.Equal(t, 0.8, q.YieldIndex)
	assert.Equal(t, 2200, q.Price) // 2400*0.8/0.8 - 200
}

func TestEvaluateClampsNegativePrice(t *testing.T) {
	tables := DefaultTables()
	tables.BasePrice[Tomato] = 10
	m, err := NewModel(tables)
	require.NoError(t, err)

	q, err := m.Evaluate(Tomato, 1, 0, Draws{YieldFactor: 1.0, Noise: -200})
	require.NoError(t, err)
	assert.Equal(t, 0, q.Price)
}

func TestEvaluateRejectsOutOfDomain(t *testing.T) {
	m, err := NewModel(DefaultTables())
	require.NoError(t, err)

	_, err = m.Evaluate(Rice, 0, 10, Draws{YieldFactor: 1})
	assert.Error(t, err)
	_, err = m.Evaluate(Rice, 13, 10, Draws{YieldFactor: 1})
	assert.Error(t, err)
	_, err = m.Evaluate(Rice, 1, -1, Draws{YieldFactor: 1})
	assert.Error(t, err)
	_, err = m.Evaluate(Crop("Mango"), 1, 10, Draws{YieldFactor: 1})
	assert.Error(t, err)
	_, err = m.Evaluate(Rice, 1, 10, Draws{YieldFactor: 0})
	assert.Error(t, err)
}

func TestSeasonalityLookupIsPure(t *testing.T) {
	tables := DefaultTables()
	for _, c := range Crops {
		for month := 1; month <= 12; month++ {
			a, err := tables.SeasonalityFor(c, month)
			require.NoError(t, err)
			b, err := tables.SeasonalityFor(c, month)
			require.NoError(t, err)
			assert.Equal(t, a, b)
			assert.Equal(t, tables.Seasonality[c][month-1], a)
		}
	}
}

func TestSubstitutedTables(t *testing.T) {
	flat := Tables{BasePrice: map[Crop]float64{}, Seasonality: map[Crop][12]float64{}}
	for _, c := range Crops {
		flat.BasePrice[c] = 1000
		flat.Seasonality[c] = [12]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	}
	m, err := NewModel(flat)
	require.NoError(t, err)

	for _, c := range Crops {
		q, err := m.Evaluate(c, 3, 10, Draws{YieldFactor: 1.0})
		require.NoError(t, err)
		assert.Equal(t, 1000, q.Price)
	}
}

func TestTablesValidate(t *testing.T) {
	require.NoError(t, DefaultTables().Validate())

	missing := DefaultTables()
	delete(missing.BasePrice, Onion)
	_, err := NewModel(missing)
	assert.Error(t, err)

	zero := DefaultTables()
	s := zero.Seasonality[Rice]
	s[4] = 0
	zero.Seasonality[Rice] = s
	assert.Error(t, zero.Validate())
}

func TestSampleDrawsRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		d := SampleDraws(rng)
		assert.GreaterOrEqual(t, d.YieldFactor, YieldFactorMin)
		assert.Less(t, d.YieldFactor, YieldFactorMax)
		assert.GreaterOrEqual(t, d.Noise, -NoiseAmplitude)
		assert.Less(t, d.Noise, NoiseAmplitude)
	}
}

func TestParseDomain(t *testing.T) {
	c, err := ParseCrop(" cotton ")
	require.NoError(t, err)
	assert.Equal(t, Cotton, c)
	_, err = ParseCrop("barley")
	assert.Error(t, err)

	d, err := ParseDistrict("KHAMMAM")
	require.NoError(t, err)
	assert.Equal(t, Khammam, d)

	assert.Equal(t, []Crop{Cotton, Onion, Rice, Tomato, Wheat}, SortedCrops())
	assert.Equal(t, []District{Guntur, Khammam, Krishna, Nizamabad, Warangal}, SortedDistricts())
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.88, Round(0.8800000001, 2))
	assert.Equal(t, 12.4, Round(12.35000001, 1))
	assert.Equal(t, 2.0, Round(2.5, 0))
}
