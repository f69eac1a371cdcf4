package facetensor

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hexface/utils"
)

// AssembledFace is the explicit K^2 x M^3 gather matrix of one oriented face,
// the product normal (x) tangential1 (x) tangential0 in the face orientation.
// It stores O(K^2 M^2) entries for a trace basis and O(K^2 M^3) in general,
// and serves as an independent reference for the factored kernels.
type AssembledFace struct {
	M, K        int
	Orientation FaceOrientation
	Op          *sparse.CSR
}

func AssembleHexFace(basis BasisTensor, M, K, faceID int, swapTangentials bool) (af *AssembledFace) {
	var (
		fo  = Orientation(faceID, swapTangentials)
		hb  = resolveBasis(basis, M, K, fo)
		dok = sparse.NewDOK(K*K, M*M*M)
	)
	for l := 0; l < M; l++ {
		cn := float64(hb.normal[l])
		if cn == 0 {
			continue
		}
		for b := 0; b < M; b++ {
			for a := 0; a < M; a++ {
				col := fo.VolumeIndex(M, a, b, l)
				for q := 0; q < K; q++ {
					c1 := float64(hb.tan1[q+K*b])
					for p := 0; p < K; p++ {
						if val := cn * c1 * float64(hb.tan0[p+K*a]); val != 0 {
							dok.Set(p+K*q, col, val)
						}
					}
				}
			}
		}
	}
	af = &AssembledFace{
		M:           M,
		K:           K,
		Orientation: fo,
		Op:          dok.ToCSR(),
	}
	return
}

func (af *AssembledFace) NNZ() int { return af.Op.NNZ() }

// Gather multiplies M^3 x N DOF data by the assembled matrix.
func (af *AssembledFace) Gather(dataDOFs *utils.DenseBuffer[utils.Real]) *utils.DenseBuffer[utils.Real] {
	if r := dataDOFs.Rows(); r != af.M*af.M*af.M {
		panic(fmt.Errorf("%w: DOF input has %d rows, expected %d", ErrDimensionMismatch, r, af.M*af.M*af.M))
	}
	var res mat.Dense
	res.Mul(af.Op, utils.ToDense(dataDOFs))
	return utils.NewRealBuffer(&res)
}

// Scatter multiplies K^2 x N face data by the transpose of the assembled
// matrix, it returns the contribution rather than accumulating it.
func (af *AssembledFace) Scatter(dataInt *utils.DenseBuffer[utils.Real]) *utils.DenseBuffer[utils.Real] {
	if r := dataInt.Rows(); r != af.K*af.K {
		panic(fmt.Errorf("%w: face input has %d rows, expected %d", ErrDimensionMismatch, r, af.K*af.K))
	}
	var res mat.Dense
	res.Mul(af.Op.T(), utils.ToDense(dataInt))
	return utils.NewRealBuffer(&res)
}
