package report

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/harvestPrice/datasets"
)

// CorrelationColumns are the variables of the correlation heatmap.
var CorrelationColumns = []string{"Rainfall", "Yield_Index", "Market_Price", "Month"}

// Correlations returns the Pearson correlation matrix of CorrelationColumns.
func Correlations(ds datasets.Dataset) (*mat.SymDense, error) {
	if len(ds) < 2 {
		return nil, fmt.Errorf("need at least 2 rows for correlations, got %d", len(ds))
	}
	cols := [][]float64{ds.Rainfalls(), ds.YieldIndices(), ds.Prices(), ds.Months()}
	x := mat.NewDense(len(ds), len(cols), nil)
	for j, col := range cols {
		x.SetCol(j, col)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)
	return &corr, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 is drawn at
// the top so the matrix reads like a table.
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := g.m.SymmetricDim()
	return g.m.At(n-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// CorrelationHeatmap writes an annotated heatmap of the correlations.
func CorrelationHeatmap(ds datasets.Dataset, path string) error {
	corr, err := Correlations(ds)
	if err != nil {
		return err
	}
	grid := corrGrid{m: corr}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	hm := plotter.NewHeatMap(grid, cmap.Palette(255))
	hm.Min = -1
	hm.Max = 1

	n := len(CorrelationColumns)
	labels := plotter.XYLabels{}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.2f", grid.Z(c, r)))
		}
	}
	annot, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	for i := range annot.TextStyle {
		annot.TextStyle[i].XAlign = -0.5
		annot.TextStyle[i].YAlign = -0.5
	}

	p := plot.New()
	p.Title.Text = "Feature Correlations"
	p.Add(hm, annot)
	p.NominalX(CorrelationColumns...)
	reversed := make([]string, n)
	for i, name := range CorrelationColumns {
		reversed[n-1-i] = name
	}
	p.NominalY(reversed...)

	return p.Save(10*vg.Inch, 8*vg.Inch, path)
}
