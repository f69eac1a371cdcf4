package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) Vector {
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			panic(fmt.Errorf("mismatch in allocation: NewVector n = %d, len(data[0]) = %d", n, len(dataO[0])))
		}
		return Vector{mat.NewVecDense(n, dataO[0])}
	}
	return Vector{mat.NewVecDense(n, make([]float64, n))}
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) Data() []float64          { return v.V.RawVector().Data }

// Chainable (extended) methods
func (v Vector) Copy() Vector {
	data := make([]float64, v.Len())
	copy(data, v.Data())
	return NewVector(len(data), data)
}

func (v Vector) AddScalar(a float64) Vector {
	var (
		data = v.Data()
	)
	for i := range data {
		data[i] += a
	}
	return v
}

func (v Vector) Scale(a float64) Vector {
	var (
		data = v.Data()
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) POW(p int) Vector {
	var (
		data = v.Data()
	)
	for i, val := range data {
		data[i] = POW(val, p)
	}
	return v
}
