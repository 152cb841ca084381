package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/harvestPrice/datasets"
	"github.com/Noofbiz/harvestPrice/pricing"
)

func record(date string, d pricing.District, c pricing.Crop, rain, yield float64, price int) datasets.Record {
	t, err := time.Parse(datasets.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return datasets.Record{Date: t, State: pricing.DefaultState, District: d, Crop: c, Rainfall: rain, YieldIndex: yield, Price: price}
}

func sample() datasets.Dataset {
	return datasets.Dataset{
		record("2023-09-14", pricing.Guntur, pricing.Cotton, 160.2, 0.7, 7071),
		record("2024-02-01", pricing.Warangal, pricing.Rice, 80.0, 1.1, 2000),
		record("2023-06-30", pricing.Khammam, pricing.Wheat, 12.5, 0.93, 2650),
	}
}

func TestEncoderColumns(t *testing.T) {
	enc := NewEncoder()
	assert.Equal(t, []string{
		"Rainfall", "Yield_Index", "Month", "Year",
		"District_Khammam", "District_Krishna", "District_Nizamabad", "District_Warangal",
		"Crop_Onion", "Crop_Rice", "Crop_Tomato", "Crop_Wheat",
	}, enc.Columns())
}

func TestEncodeValues(t *testing.T) {
	fm, y, err := NewEncoder().Encode(sample())
	require.NoError(t, err)

	r, c := fm.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 12, c)
	assert.Equal(t, []float64{7071, 2000, 2650}, y)

	// Guntur + Cotton are both reference levels: all indicators zero.
	assert.Equal(t, []float64{160.2, 0.7, 9, 2023, 0, 0, 0, 0, 0, 0, 0, 0}, fm.Row(0))
	assert.Equal(t, []float64{80.0, 1.1, 2, 2024, 0, 0, 0, 1, 0, 1, 0, 0}, fm.Row(1))
	assert.Equal(t, []float64{12.5, 0.93, 6, 2023, 1, 0, 0, 0, 0, 0, 0, 1}, fm.Row(2))

	assert.Equal(t, 1.0, fm.At(1, fm.ColumnIndex("Crop_Rice")))
	assert.Equal(t, -1, fm.ColumnIndex("State"))
}

func TestEncodeIsIdempotent(t *testing.T) {
	enc := NewEncoder()
	a, ya, err := enc.Encode(sample())
	require.NoError(t, err)
	b, yb, err := enc.Encode(sample())
	require.NoError(t, err)

	assert.Equal(t, a.Columns(), b.Columns())
	assert.True(t, mat.Equal(a, b))
	assert.Equal(t, ya, yb)
}

func TestEncodeEmptyDataset(t *testing.T) {
	fm, y, err := NewEncoder().Encode(nil)
	require.NoError(t, err)
	r, c := fm.Dims()
	assert.Equal(t, 0, r)
	assert.Equal(t, 12, c)
	assert.Empty(t, y)
	assert.Nil(t, fm.Dense())
}

func TestFixedSchemaIgnoresSampleComposition(t *testing.T) {
	// only Warangal/Rice rows: the fixed encoder keeps every column
	ds := datasets.Dataset{
		record("2023-01-01", pricing.Warangal, pricing.Rice, 10, 1, 2200),
		record("2023-02-01", pricing.Warangal, pricing.Rice, 20, 1, 2250),
	}
	fixed, _, err := NewEncoder().Encode(ds)
	require.NoError(t, err)
	assert.Equal(t, NewEncoder().Columns(), fixed.Columns())

	inferred, _, err := InferEncoder(ds).Encode(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rainfall", "Yield_Index", "Month", "Year"}, inferred.Columns())
}

func TestInferEncoderMatchesFixedOnFullSample(t *testing.T) {
	cfg := datasets.DefaultGenerateConfig()
	m, err := pricing.NewModel(pricing.DefaultTables())
	require.NoError(t, err)
	ds, err := datasets.Generate(m, cfg)
	require.NoError(t, err)

	assert.Equal(t, NewEncoder().Columns(), InferEncoder(ds).Columns())
}

func TestEncodeRejectsUnknownCategory(t *testing.T) {
	enc := &Encoder{Districts: []pricing.District{pricing.Guntur}, Crops: []pricing.Crop{pricing.Rice}}
	_, _, err := enc.Encode(sample())
	assert.Error(t, err)
}

func TestSubset(t *testing.T) {
	fm, _, err := NewEncoder().Encode(sample())
	require.NoError(t, err)

	sub, err := fm.Subset([]int{2, 0})
	require.NoError(t, err)
	r, _ := sub.Dims()
	require.Equal(t, 2, r)
	assert.Equal(t, fm.Row(2), sub.Row(0))
	assert.Equal(t, fm.Row(0), sub.Row(1))

	_, err = fm.Subset([]int{3})
	assert.Error(t, err)

	empty, err := fm.Subset(nil)
	require.NoError(t, err)
	r, _ = empty.Dims()
	assert.Equal(t, 0, r)
}

func TestToGomlxTensor(t *testing.T) {
	fm, _, err := NewEncoder().Encode(sample())
	require.NoError(t, err)

	tensor := fm.ToGomlxTensor()
	require.NotNil(t, tensor)
	assert.Equal(t, []int{3, 12}, tensor.Shape().Dimensions)

}

func TestToGomlxTensorEmpty(t *testing.T) {
	empty, _, err := NewEncoder().Encode(nil)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		got := empty.ToGomlxTensor()
		require.NotNil(t, got)
		assert.Equal(t, []int{0, 12}, got.Shape().Dimensions)
	})

	sub, err := empty.Subset(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 12}, sub.ToGomlxTensor().Shape().Dimensions)
}
