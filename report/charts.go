package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/harvestPrice/datasets"
)

// MonthlyMeans returns, per crop name, the mean price of every month that
// has at least one record, ordered by month.
func MonthlyMeans(ds datasets.Dataset) (map[string]plotter.XYs, error) {
	if len(ds) == 0 {
		return nil, errors.New("dataset is empty")
	}
	crops := make([]string, len(ds))
	months := make([]int, len(ds))
	prices := make([]float64, len(ds))
	for i, r := range ds {
		crops[i] = string(r.Crop)
		months[i] = r.Month()
		prices[i] = float64(r.Price)
	}
	df := dataframe.New(
		series.New(crops, series.String, "Crop"),
		series.New(months, series.Int, "Month"),
		series.New(prices, series.Float, "Market_Price"),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	groups := df.GroupBy("Crop", "Month")
	if groups.Err != nil {
		return nil, groups.Err
	}

	out := make(map[string]plotter.XYs)
	for _, g := range groups.GetGroups() {
		crop := g.Col("Crop").Elem(0).String()
		month, err := g.Col("Month").Elem(0).Int()
		if err != nil {
			return nil, fmt.Errorf("month of group %s: %w", crop, err)
		}
		out[crop] = append(out[crop], plotter.XY{X: float64(month), Y: g.Col("Market_Price").Mean()})
	}
	for crop := range out {
		xys := out[crop]
		sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })
	}
	return out, nil
}

// PriceTrends writes a line chart of the average price by month, one line
// per crop.
func PriceTrends(ds datasets.Dataset, path string) error {
	means, err := MonthlyMeans(ds)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Average Price Trends by Month"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Price (INR/Quintal)"
	p.X.Min = 0.5
	p.X.Max = 12.5
	p.X.Tick.Marker = monthTicks{}
	p.Add(plotter.NewGrid())

	crops := make([]string, 0, len(means))
	for c := range means {
		crops = append(crops, c)
	}
	sort.Strings(crops)

	for i, crop := range crops {
		line, points, err := plotter.NewLinePoints(means[crop])
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		points.GlyphStyle.Shape = plotutil.Shape(0)
		points.GlyphStyle.Color = plotutil.Color(i)
		p.Add(line, points)
		p.Legend.Add(crop, line, points)
	}
	p.Legend.Top = true

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// monthTicks places one tick per calendar month.
type monthTicks struct{}

func (monthTicks) Ticks(min, max float64) []plot.Tick {
	ticks := make([]plot.Tick, 0, 12)
	for m := 1; m <= 12; m++ {
		ticks = append(ticks, plot.Tick{Value: float64(m), Label: fmt.Sprint(m)})
	}
	return ticks
}

// PriceSpan returns the min and max market price of ds. ok is false for an
// empty dataset.
func PriceSpan(ds datasets.Dataset) (lo, hi float64, ok bool) {
	if len(ds) == 0 {
		return 0, 0, false
	}
	prices := ds.Prices()
	return floats.Min(prices), floats.Max(prices), true
}

// PredictionScatter writes an actual-vs-predicted scatter with a dashed
// identity line from lo to hi and the MAE in the title. When lo > hi the
// line spans the range of actual.
func PredictionScatter(actual, predicted []float64, mae, lo, hi float64, path string) error {
	if len(actual) != len(predicted) {
		return fmt.Errorf("actual and predicted lengths don't match: %d != %d", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return errors.New("no predictions to plot")
	}

	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i] = plotter.XY{X: actual[i], Y: predicted[i]}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Actual vs Predicted Prices (MAE: INR %d)", int(mae))
	p.X.Label.Text = "Actual Price"
	p.Y.Label.Text = "Predicted Price"

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 0, G: 128, B: 0, A: 128}
	sc.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(sc)

	if lo > hi {
		lo, hi = floats.Min(actual), floats.Max(actual)
	}
	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	identity.Color = color.RGBA{R: 200, A: 255}
	identity.Width = vg.Points(2)
	identity.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(identity)

	xmin, xmax, ymin, ymax := autoRange(append(pts, identity.XYs...))
	p.X.Min = xmin
	p.X.Max = xmax
	p.Y.Min = ymin
	p.Y.Max = ymax

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}

// autoRange computes padded min/max for X and Y for a set of points.
func autoRange(xs plotter.XYs) (xmin, xmax, ymin, ymax float64) {
	if len(xs) == 0 {
		return -1, 1, -1, 1
	}
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, p := range xs {
		xmin = math.Min(xmin, p.X)
		xmax = math.Max(xmax, p.X)
		ymin = math.Min(ymin, p.Y)
		ymax = math.Max(ymax, p.Y)
	}
	padx := (xmax - xmin) * 0.06
	pady := (ymax - ymin) * 0.06
	if padx == 0 {
		padx = 1.0
	}
	if pady == 0 {
		pady = 1.0
	}
	return xmin - padx, xmax + padx, ymin - pady, ymax + pady
}
