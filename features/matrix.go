package features

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"gonum.org/v1/gonum/mat"
)

// FeatureMatrix is the encoded, row-aligned numeric view of a dataset. It
// implements mat.Matrix so it can be passed straight to the regressor.
//
// gonum refuses zero-sized dense matrices, so an empty dataset is
// represented with a nil backing store and zero rows.
type FeatureMatrix struct {
	columns []string
	rows    int
	data    *mat.Dense
}

func newFeatureMatrix(columns []string, rows int, raw []float64) *FeatureMatrix {
	fm := &FeatureMatrix{columns: columns, rows: rows}
	if rows > 0 && len(columns) > 0 {
		fm.data = mat.NewDense(rows, len(columns), raw)
	}
	return fm
}

// Dims returns the number of rows and feature columns.
func (f *FeatureMatrix) Dims() (r, c int) { return f.rows, len(f.columns) }

// At returns the value of feature j for row i.
func (f *FeatureMatrix) At(i, j int) float64 {
	if f.data == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	return f.data.At(i, j)
}

// T returns the transpose of the matrix.
func (f *FeatureMatrix) T() mat.Matrix { return mat.Transpose{Matrix: f} }

// Columns returns the feature names in column order.
func (f *FeatureMatrix) Columns() []string {
	return append([]string(nil), f.columns...)
}

// ColumnIndex returns the position of name, or -1.
func (f *FeatureMatrix) ColumnIndex(name string) int {
	for i, c := range f.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Row returns a copy of row i.
func (f *FeatureMatrix) Row(i int) []float64 {
	if f.data == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	return mat.Row(nil, i, f.data)
}

// Dense exposes the backing matrix. It is nil when the matrix has no rows.
func (f *FeatureMatrix) Dense() *mat.Dense { return f.data }

// Subset returns a new matrix with the given rows, in the given order.
func (f *FeatureMatrix) Subset(indices []int) (*FeatureMatrix, error) {
	cols := len(f.columns)
	raw := make([]float64, 0, len(indices)*cols)
	for _, idx := range indices {
		if idx < 0 || idx >= f.rows {
			return nil, fmt.Errorf("row index %d out of range [0, %d)", idx, f.rows)
		}
		raw = append(raw, f.Row(idx)...)
	}
	return newFeatureMatrix(f.columns, len(indices), raw), nil
}

// ToGomlxTensor converts the matrix to a float32 gomlx tensor of shape
// [rows, columns] for use with gomlx training loops. An empty matrix yields
// a [0, columns] tensor.
func (f *FeatureMatrix) ToGomlxTensor() *tensors.Tensor {
	if f.rows == 0 {
		// FromAnyValue can't infer inner dimensions from an empty slice.
		return tensors.FromShape(shapes.Make(dtypes.Float32, 0, len(f.columns)))
	}
	data := make([][]float32, f.rows)
	for i := range f.rows {
		row := make([]float32, len(f.columns))
		for j := range row {
			row[j] = float32(f.data.At(i, j))
		}
		data[i] = row
	}
	return tensors.FromAnyValue(data)
}
