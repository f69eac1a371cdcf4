package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// RelativeDifference is |a-b| scaled by the larger magnitude, falling back to
// the absolute difference when both are below one.
func RelativeDifference(a, b float64) float64 {
	scale := math.Max(math.Max(math.Abs(a), math.Abs(b)), 1)
	return math.Abs(a-b) / scale
}

// RelativeDistance is the L2 distance between two vectors scaled by the norm
// of the reference vector b, or the plain distance when b is below unit norm.
func RelativeDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Errorf("length mismatch in RelativeDistance: %d vs %d", len(a), len(b)))
	}
	return floats.Distance(a, b, 2) / math.Max(floats.Norm(b, 2), 1)
}

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(pp))
	return
}
