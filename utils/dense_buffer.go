package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DenseBuffer is a rectangular column major container: column j occupies
// data[j*Rows : (j+1)*Rows]. It holds both field data (one column per component)
// and the 1D basis matrices applied by the face kernels.
type DenseBuffer[T any] struct {
	rows, cols int
	data       []T
}

func NewDenseBuffer[T any](rows, cols int, dataO ...[]T) (R *DenseBuffer[T]) {
	if rows < 0 || cols < 0 {
		panic(fmt.Errorf("negative dimensions for DenseBuffer: nr,nc = %d,%d", rows, cols))
	}
	R = &DenseBuffer[T]{rows: rows, cols: cols}
	if len(dataO) != 0 {
		if len(dataO[0]) != rows*cols {
			err := fmt.Errorf("mismatch in allocation: NewDenseBuffer nr,nc = %v,%v, len(data[0]) = %v",
				rows, cols, len(dataO[0]))
			panic(err)
		}
		R.data = dataO[0]
		return
	}
	R.data = make([]T, rows*cols)
	return
}

func (b *DenseBuffer[T]) Dims() (r, c int) { return b.rows, b.cols }
func (b *DenseBuffer[T]) Rows() int        { return b.rows }
func (b *DenseBuffer[T]) Cols() int        { return b.cols }
func (b *DenseBuffer[T]) Data() []T        { return b.data }
func (b *DenseBuffer[T]) At(i, j int) T    { return b.data[b.index(i, j)] }
func (b *DenseBuffer[T]) Set(i, j int, val T) {
	b.data[b.index(i, j)] = val
}

// Col returns the contiguous storage of column j, writes go through to the buffer.
func (b *DenseBuffer[T]) Col(j int) []T {
	if j < 0 || j >= b.cols {
		panic(fmt.Errorf("column index out of bounds: j = %d, ncols = %d", j, b.cols))
	}
	return b.data[j*b.rows : (j+1)*b.rows]
}

// Resize changes the dimensions, reusing storage when the capacity allows.
// Contents are zeroed.
func (b *DenseBuffer[T]) Resize(rows, cols int) *DenseBuffer[T] {
	n := rows * cols
	if cap(b.data) >= n {
		b.data = b.data[:n]
	} else {
		b.data = make([]T, n)
	}
	b.rows, b.cols = rows, cols
	return b.Zero()
}

func (b *DenseBuffer[T]) Zero() *DenseBuffer[T] {
	var zero T
	for i := range b.data {
		b.data[i] = zero
	}
	return b
}

func (b *DenseBuffer[T]) Copy() (R *DenseBuffer[T]) {
	R = NewDenseBuffer[T](b.rows, b.cols)
	copy(R.data, b.data)
	return
}

func (b *DenseBuffer[T]) index(i, j int) int {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		panic(fmt.Errorf("index out of bounds: (i,j) = (%d,%d), dims = (%d,%d)", i, j, b.rows, b.cols))
	}
	return i + b.rows*j
}

// AddInPlace accumulates A into b elementwise.
func AddInPlace[T Scalar[T]](b, A *DenseBuffer[T]) *DenseBuffer[T] {
	if b.rows != A.rows || b.cols != A.cols {
		panic(fmt.Errorf("dimension mismatch in AddInPlace: (%d,%d) vs (%d,%d)",
			b.rows, b.cols, A.rows, A.cols))
	}
	for i, val := range A.data {
		b.data[i] = b.data[i].Add(val)
	}
	return b
}

// Values returns the passive values of a buffer, column major.
func Values[T Scalar[T]](b *DenseBuffer[T]) (v []float64) {
	v = make([]float64, len(b.data))
	for i, val := range b.data {
		v[i] = val.Value()
	}
	return
}

// NewRealBuffer copies any gonum matrix into a passive column major buffer.
func NewRealBuffer(M mat.Matrix) (R *DenseBuffer[Real]) {
	nr, nc := M.Dims()
	R = NewDenseBuffer[Real](nr, nc)
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			R.data[i+nr*j] = Real(M.At(i, j))
		}
	}
	return
}

// ToDense copies the values of a buffer into a gonum matrix.
func ToDense[T Scalar[T]](b *DenseBuffer[T]) (R *mat.Dense) {
	R = mat.NewDense(b.rows, b.cols, nil)
	for j := 0; j < b.cols; j++ {
		for i := 0; i < b.rows; i++ {
			R.Set(i, j, b.data[i+b.rows*j].Value())
		}
	}
	return
}

// SeedDual builds a differentiable buffer with values from val and derivative
// seeds from dir.
func SeedDual(val, dir *DenseBuffer[Real]) (R *DenseBuffer[Dual]) {
	if val.rows != dir.rows || val.cols != dir.cols {
		panic(fmt.Errorf("dimension mismatch in SeedDual: (%d,%d) vs (%d,%d)",
			val.rows, val.cols, dir.rows, dir.cols))
	}
	R = NewDenseBuffer[Dual](val.rows, val.cols)
	for i := range R.data {
		R.data[i] = Dual{V: float64(val.data[i]), D: float64(dir.data[i])}
	}
	return
}

// SplitDual separates a differentiable buffer into its values and derivatives.
func SplitDual(b *DenseBuffer[Dual]) (val, der *DenseBuffer[Real]) {
	val = NewDenseBuffer[Real](b.rows, b.cols)
	der = NewDenseBuffer[Real](b.rows, b.cols)
	for i, d := range b.data {
		val.data[i], der.data[i] = Real(d.V), Real(d.D)
	}
	return
}
