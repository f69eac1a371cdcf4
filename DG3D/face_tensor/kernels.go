package facetensor

import (
	"github.com/notargets/hexface/utils"
)

/*
Sum factorized face kernels for one data column. With W an M x M and X a K x M
scratch, column major, the gather is

	W[a,b] = sum_l  normal[l]  * vol[a*s0 + b*s1 + l*sN]   normal collapse,  M^3
	X[p,b] = sum_a  tan0[p,a]  * W[a,b]                    first face dir,   K M^2
	F[p,q] = sum_b  tan1[q,b]  * X[p,b]                    second face dir,  K^2 M

and the scatter is the same three steps transposed and applied in reverse,
adding into vol. Both kernels use the same matrices with the same strides, so
<gather(v), f> == <v, scatter(f)> holds to round off.
*/

func gatherColumn[T utils.Scalar[T]](M, K int, fo FaceOrientation, hb hexBasis,
	vol, face, work []T) {
	var (
		sN, s0, s1 = fo.Strides(M)
		W          = work[:M*M]
		X          = work[M*M : M*M+K*M]
	)
	for b := 0; b < M; b++ {
		for a := 0; a < M; a++ {
			var (
				base = a*s0 + b*s1
				sum  T
			)
			for l := 0; l < M; l++ {
				if c := hb.normal[l]; c != 0 {
					sum = sum.Add(vol[base+l*sN].Scale(float64(c)))
				}
			}
			W[a+M*b] = sum
		}
	}
	for b := 0; b < M; b++ {
		for p := 0; p < K; p++ {
			var sum T
			for a := 0; a < M; a++ {
				sum = sum.Add(W[a+M*b].Scale(float64(hb.tan0[p+K*a])))
			}
			X[p+K*b] = sum
		}
	}
	for q := 0; q < K; q++ {
		for p := 0; p < K; p++ {
			var sum T
			for b := 0; b < M; b++ {
				sum = sum.Add(X[p+K*b].Scale(float64(hb.tan1[q+K*b])))
			}
			face[p+K*q] = sum
		}
	}
}

func scatterColumn[T utils.Scalar[T]](M, K int, fo FaceOrientation, hb hexBasis,
	face, vol, work []T) {
	var (
		sN, s0, s1 = fo.Strides(M)
		W          = work[:M*M]
		X          = work[M*M : M*M+K*M]
	)
	for b := 0; b < M; b++ {
		for p := 0; p < K; p++ {
			var sum T
			for q := 0; q < K; q++ {
				sum = sum.Add(face[p+K*q].Scale(float64(hb.tan1[q+K*b])))
			}
			X[p+K*b] = sum
		}
	}
	for b := 0; b < M; b++ {
		for a := 0; a < M; a++ {
			var sum T
			for p := 0; p < K; p++ {
				sum = sum.Add(X[p+K*b].Scale(float64(hb.tan0[p+K*a])))
			}
			W[a+M*b] = sum
		}
	}
	for b := 0; b < M; b++ {
		for a := 0; a < M; a++ {
			var (
				base = a*s0 + b*s1
				w    = W[a+M*b]
			)
			for l := 0; l < M; l++ {
				if c := hb.normal[l]; c != 0 {
					vol[base+l*sN] = vol[base+l*sN].Add(w.Scale(float64(c)))
				}
			}
		}
	}
}
