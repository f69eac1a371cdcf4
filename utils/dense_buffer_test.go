package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDenseBuffer(t *testing.T) {
	{ // Column major layout
		B := NewDenseBuffer[Real](2, 3, []Real{
			1, 2, // column 0
			3, 4, // column 1
			5, 6, // column 2
		})
		nr, nc := B.Dims()
		assert.Equal(t, 2, nr)
		assert.Equal(t, 3, nc)
		assert.Equal(t, Real(3), B.At(0, 1))
		assert.Equal(t, Real(6), B.At(1, 2))
		assert.Equal(t, []Real{5, 6}, B.Col(2))
		B.Col(0)[1] = 9
		assert.Equal(t, Real(9), B.At(1, 0))
	}
	{ // Resize reuses storage and zeroes
		B := NewDenseBuffer[Real](4, 4)
		B.Set(3, 3, 7)
		B.Resize(2, 2)
		assert.Equal(t, []Real{0, 0, 0, 0}, B.Data())
		B.Resize(5, 5)
		assert.Equal(t, 25, len(B.Data()))
	}
	{ // Copy is deep
		B := NewDenseBuffer[Dual](2, 1, []Dual{{1, 2}, {3, 4}})
		C := B.Copy()
		C.Set(0, 0, Dual{})
		assert.Equal(t, Dual{1, 2}, B.At(0, 0))
	}
	{ // AddInPlace
		A := NewDenseBuffer[Real](2, 2, []Real{1, 2, 3, 4})
		B := NewDenseBuffer[Real](2, 2, []Real{10, 20, 30, 40})
		AddInPlace(B, A)
		assert.Equal(t, []Real{11, 22, 33, 44}, B.Data())
		assert.Panics(t, func() { AddInPlace(B, NewDenseBuffer[Real](1, 2)) })
	}
	{ // Out of bounds access panics
		B := NewDenseBuffer[Real](2, 2)
		assert.Panics(t, func() { B.At(2, 0) })
		assert.Panics(t, func() { B.Col(-1) })
		assert.Panics(t, func() { NewDenseBuffer[Real](2, 2, make([]Real, 3)) })
	}
}

func TestDenseBufferGonumBridge(t *testing.T) {
	M := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	B := NewRealBuffer(M)
	assert.Equal(t, []Real{1, 4, 2, 5, 3, 6}, B.Data())
	D := ToDense(B)
	assert.True(t, mat.Equal(M, D))

	V := NewMatrix(2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, []Real{1, 3, 2, 4}, NewRealBuffer(V).Data())
}

func TestDualBuffers(t *testing.T) {
	val := NewDenseBuffer[Real](3, 1, []Real{1, 2, 3})
	dir := NewDenseBuffer[Real](3, 1, []Real{0, 1, 0})
	D := SeedDual(val, dir)
	assert.Equal(t, Dual{2, 1}, D.At(1, 0))
	v, d := SplitDual(D)
	assert.Equal(t, val.Data(), v.Data())
	assert.Equal(t, dir.Data(), d.Data())
	assert.Equal(t, []float64{1, 2, 3}, Values(D))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.Contains(t, err.Error(), "dimension mismatch")
	}()
	SeedDual(val, NewDenseBuffer[Real](2, 1))
}

func TestNonFinite(t *testing.T) {
	A := NewDenseBuffer[Real](2, 2, []Real{1, 2, 3, 4})
	assert.False(t, HasNonFinite(A))
	assert.False(t, IsNan(A))
	A.Set(1, 1, Real(math.Inf(1)))
	assert.True(t, HasNonFinite(A))
	assert.False(t, IsNan(A))
	A.Set(0, 1, Real(math.NaN()))
	assert.True(t, IsNan(A))

	D := NewDenseBuffer[Dual](1, 2)
	assert.False(t, IsNan(D))
	D.Set(0, 1, Dual{V: 1, D: math.NaN()})
	assert.True(t, IsNan(D))
	assert.True(t, IsNan([]float64{0, math.NaN()}))
	assert.False(t, IsNan(NewMatrix(2, 2)))
	assert.Contains(t, GetMemUsage(), "MiB")
}
