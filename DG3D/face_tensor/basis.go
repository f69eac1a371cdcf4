package facetensor

import (
	"fmt"

	"github.com/notargets/hexface/DG1D"
	"github.com/notargets/hexface/utils"
)

/*
BasisTensor holds the 1D matrices of a hexahedral face operator. The same
matrices serve both directions, the scatter applies their transposes.

	len 3: {normal (1 x M), tangential0 (K x M), tangential1 (K x M)}
	len 2: {normal (1 x M), tangential (K x M)}, tangential used for both face directions
	len 1: {tangential (K x M)}, nodal Gauss-Lobatto basis, the normal contraction
	       picks the DOF layer lying on the face

tangential0 acts along the first (fastest) face direction of the resolved
orientation, tangential1 along the second. The normal row must be evaluated at
the side of the face being processed.
*/
type BasisTensor []*utils.DenseBuffer[utils.Real]

// hexBasis is a BasisTensor resolved for one face, all column major.
type hexBasis struct {
	normal     []utils.Real // M
	tan0, tan1 []utils.Real // K x M
}

func resolveBasis(basis BasisTensor, M, K int, fo FaceOrientation) (hb hexBasis) {
	switch len(basis) {
	case 1:
		hb.normal = make([]utils.Real, M)
		hb.normal[fo.BoundaryLayer(M)] = 1
		hb.tan0 = checkBasisMatrix(basis[0], K, M, "tangential")
		hb.tan1 = hb.tan0
	case 2:
		hb.normal = checkBasisMatrix(basis[0], 1, M, "normal")
		hb.tan0 = checkBasisMatrix(basis[1], K, M, "tangential")
		hb.tan1 = hb.tan0
	case 3:
		hb.normal = checkBasisMatrix(basis[0], 1, M, "normal")
		hb.tan0 = checkBasisMatrix(basis[1], K, M, "tangential0")
		hb.tan1 = checkBasisMatrix(basis[2], K, M, "tangential1")
	default:
		panic(fmt.Errorf("%w: expected 1 to 3 matrices, have %d", ErrInvalidBasis, len(basis)))
	}
	return
}

func checkBasisMatrix(B *utils.DenseBuffer[utils.Real], nr, nc int, name string) []utils.Real {
	if B == nil {
		panic(fmt.Errorf("%w: %s matrix is nil", ErrInvalidBasis, name))
	}
	if r, c := B.Dims(); r != nr || c != nc {
		panic(fmt.Errorf("%w: %s matrix is %dx%d, expected %dx%d", ErrInvalidBasis, name, r, c, nr, nc))
	}
	return B.Data()
}

// LagrangeTensor builds the full three matrix BasisTensor of a nodal 1D basis
// for faces on the given side: values at the face coordinate in the normal
// direction and interpolation to the integration points in both tangential
// directions.
func LagrangeTensor(lb *DG1D.LagrangeBasis1D, side Side) BasisTensor {
	interp := utils.NewRealBuffer(lb.Interp)
	return BasisTensor{
		utils.NewRealBuffer(lb.EvalRow(side.Coordinate())),
		interp,
		interp,
	}
}

// LagrangeNormalDerivTensor is LagrangeTensor with the normal row replaced by
// the basis derivatives at the face, for gathering normal gradients.
func LagrangeNormalDerivTensor(lb *DG1D.LagrangeBasis1D, side Side) BasisTensor {
	interp := utils.NewRealBuffer(lb.Interp)
	return BasisTensor{
		utils.NewRealBuffer(lb.EvalDerivRow(side.Coordinate())),
		interp,
		interp,
	}
}

// FaceTensors holds one BasisTensor per face side, so callers can pick the
// tensor matching any face ID.
type FaceTensors [2]BasisTensor

func NewFaceTensors(lb *DG1D.LagrangeBasis1D) FaceTensors {
	return FaceTensors{LagrangeTensor(lb, SideMin), LagrangeTensor(lb, SideMax)}
}

func (ft FaceTensors) ForFace(faceID int) BasisTensor {
	_, _, _, side := FaceAxes(faceID)
	return ft[side]
}
