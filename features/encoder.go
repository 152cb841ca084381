// Package features turns a price dataset into a numeric feature matrix:
// the date is decomposed into month and year, district and crop are one-hot
// expanded with one reference level dropped, and the constant state column
// is discarded.
package features

import (
	"fmt"
	"sort"

	"github.com/Noofbiz/harvestPrice/datasets"
	"github.com/Noofbiz/harvestPrice/pricing"
)

// Numeric columns, in the order they lead every matrix.
const (
	ColRainfall   = "Rainfall"
	ColYieldIndex = "Yield_Index"
	ColMonth      = "Month"
	ColYear       = "Year"
)

// Encoder holds the category domains used for one-hot expansion. The first
// entry of each domain is the reference level and gets no column.
type Encoder struct {
	Districts []pricing.District
	Crops     []pricing.Crop
}

// NewEncoder fixes both domains from the known enums, sorted by name, so the
// column schema never depends on which categories a sample happens to hold.
func NewEncoder() *Encoder {
	return &Encoder{
		Districts: pricing.SortedDistricts(),
		Crops:     pricing.SortedCrops(),
	}
}

// InferEncoder derives the domains from the categories present in ds, sorted
// by name. A sample missing a category yields fewer columns, and a sample
// missing the alphabetically first category shifts the reference level.
func InferEncoder(ds datasets.Dataset) *Encoder {
	seenD := make(map[pricing.District]bool)
	seenC := make(map[pricing.Crop]bool)
	enc := &Encoder{}
	for _, r := range ds {
		if !seenD[r.District] {
			seenD[r.District] = true
			enc.Districts = append(enc.Districts, r.District)
		}
		if !seenC[r.Crop] {
			seenC[r.Crop] = true
			enc.Crops = append(enc.Crops, r.Crop)
		}
	}
	sort.Slice(enc.Districts, func(i, j int) bool { return enc.Districts[i] < enc.Districts[j] })
	sort.Slice(enc.Crops, func(i, j int) bool { return enc.Crops[i] < enc.Crops[j] })
	return enc
}

// Columns returns the feature names produced by Encode.
func (e *Encoder) Columns() []string {
	cols := []string{ColRainfall, ColYieldIndex, ColMonth, ColYear}
	for i, d := range e.Districts {
		if i == 0 {
			continue
		}
		cols = append(cols, "District_"+string(d))
	}
	for i, c := range e.Crops {
		if i == 0 {
			continue
		}
		cols = append(cols, "Crop_"+string(c))
	}
	return cols
}

// Encode builds the feature matrix and the target vector for ds. The target
// is read from the records' Market_Price, never from the matrix. An empty
// dataset yields a zero-row matrix and an empty target.
func (e *Encoder) Encode(ds datasets.Dataset) (*FeatureMatrix, []float64, error) {
	cols := e.Columns()
	districtCol := make(map[pricing.District]int, len(e.Districts))
	for i, d := range e.Districts {
		districtCol[d] = i - 1 // reference level maps to -1
	}
	cropCol := make(map[pricing.Crop]int, len(e.Crops))
	for i, c := range e.Crops {
		cropCol[c] = i - 1
	}
	districtBase := 4
	cropBase := districtBase + max(len(e.Districts)-1, 0)

	raw := make([]float64, len(ds)*len(cols))
	target := make([]float64, len(ds))
	for i, r := range ds {
		row := raw[i*len(cols) : (i+1)*len(cols)]
		row[0] = r.Rainfall
		row[1] = r.YieldIndex
		row[2] = float64(r.Month())
		row[3] = float64(r.Year())

		dc, ok := districtCol[r.District]
		if !ok {
			return nil, nil, fmt.Errorf("row %d: district %q not in encoder domain", i, r.District)
		}
		if dc >= 0 {
			row[districtBase+dc] = 1
		}
		cc, ok := cropCol[r.Crop]
		if !ok {
			return nil, nil, fmt.Errorf("row %d: crop %q not in encoder domain", i, r.Crop)
		}
		if cc >= 0 {
			row[cropBase+cc] = 1
		}

		target[i] = float64(r.Price)
	}

	return newFeatureMatrix(cols, len(ds), raw), target, nil
}
