package datasets

import (
	"time"

	"github.com/Noofbiz/harvestPrice/pricing"
)

// This package produces and persists the synthetic price dataset.
//
// Layout and intended usage:
//
// Generate
//   - Drives a pricing.Model over N sampled (date, crop, district, rainfall)
//     tuples and returns the rows in generation order.
//   - Rows are i.i.d.; duplicates of (date, crop, district) are legal.
//
// CSV artifact
//   - SaveCSV / LoadCSV persist the dataset with the header
//     Date,State,District,Crop,Rainfall,Yield_Index,Market_Price
//   - LoadCSV reports ErrMissingArtifact when the file does not exist, so
//     the training command can tell the user to generate data first.

// DateLayout is the layout of the Date column.
const DateLayout = "2006-01-02"

// Header is the column header of the CSV artifact, in order.
var Header = []string{"Date", "State", "District", "Crop", "Rainfall", "Yield_Index", "Market_Price"}

// Record is one generated observation.
type Record struct {
	Date     time.Time
	State    string
	District pricing.District
	Crop     pricing.Crop
	// Rainfall in mm, rounded to one decimal.
	Rainfall float64
	// YieldIndex is always > 0, rounded to two decimals.
	YieldIndex float64
	// Price is the market price per quintal and the regression target.
	Price int
}

// Month returns the calendar month (1-12) of the record date.
func (r Record) Month() int { return int(r.Date.Month()) }

// Year returns the year of the record date.
func (r Record) Year() int { return r.Date.Year() }

// Dataset is an ordered sequence of records. It is not modified after
// generation or loading.
type Dataset []Record

// Len returns the number of records.
func (d Dataset) Len() int { return len(d) }

// Prices returns the Market_Price column as float64.
func (d Dataset) Prices() []float64 {
	out := make([]float64, len(d))
	for i, r := range d {
		out[i] = float64(r.Price)
	}
	return out
}

// Rainfalls returns the Rainfall column.
func (d Dataset) Rainfalls() []float64 {
	out := make([]float64, len(d))
	for i, r := range d {
		out[i] = r.Rainfall
	}
	return out
}

// YieldIndices returns the Yield_Index column.
func (d Dataset) YieldIndices() []float64 {
	out := make([]float64, len(d))
	for i, r := range d {
		out[i] = r.YieldIndex
	}
	return out
}

// Months returns the month of every record as float64.
func (d Dataset) Months() []float64 {
	out := make([]float64, len(d))
	for i, r := range d {
		out[i] = float64(r.Month())
	}
	return out
}
