package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// HasNonFinite reports whether any value of the buffer is NaN or infinite.
func HasNonFinite[T Scalar[T]](b *DenseBuffer[T]) bool {
	for _, val := range b.data {
		if v := val.Value(); math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case *DenseBuffer[Real]:
		return IsNan(Values(v))
	case *DenseBuffer[Dual]:
		for _, d := range v.data {
			if math.IsNaN(d.V) || math.IsNaN(d.D) {
				return true
			}
		}
	case Matrix:
		return IsNan(v.RawMatrix().Data)
	case Vector:
		return IsNan(v.RawVector().Data)
	}
	return false
}
