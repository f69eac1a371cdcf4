package facetensor

import (
	"fmt"

	"github.com/notargets/hexface/utils"
)

// FaceHex carries out the tensor product between the volume DOFs of a
// hexahedron and the integration points of one of its faces. The operation is
// bound at construction, after which the operator is read only and may be
// shared by any number of goroutines.
type FaceHex[T utils.Scalar[T]] struct {
	TensorProductSpec
	kernel func(hb hexBasis, fo FaceOrientation, N int, in, out *utils.DenseBuffer[T])
}

// NewFaceHex panics when M or K is not positive or opType is not a valid
// OperationType.
func NewFaceHex[T utils.Scalar[T]](M int, opType OperationType, K int) (fh *FaceHex[T]) {
	fh = &FaceHex[T]{
		TensorProductSpec: TensorProductSpec{M: M, K: K, Type: opType},
	}
	if err := fh.Validate(); err != nil {
		panic(err)
	}
	switch opType {
	case DofsToInt:
		fh.kernel = fh.gather
	case IntToDofs:
		fh.kernel = fh.scatter
	}
	return
}

// DOFs2Int returns the K^2 x N face integration point data computed from the
// M^3 x N volume DOF data.
func (fh *FaceHex[T]) DOFs2Int(basis BasisTensor, faceID int, swapTangentials bool, N int,
	dataDOFs *utils.DenseBuffer[T]) (dataInt *utils.DenseBuffer[T]) {
	fh.checkOperation(DofsToInt)
	dataInt = utils.NewDenseBuffer[T](fh.FaceRows(), N)
	fh.Apply(basis, faceID, swapTangentials, N, dataDOFs, dataInt)
	return
}

// Int2DOFs adds the contribution of the K^2 x N face data to the M^3 x N
// residual accumulator, it never overwrites existing content.
func (fh *FaceHex[T]) Int2DOFs(basis BasisTensor, faceID int, swapTangentials bool, N int,
	dataInt, dataRes *utils.DenseBuffer[T]) {
	fh.checkOperation(IntToDofs)
	fh.Apply(basis, faceID, swapTangentials, N, dataInt, dataRes)
}

// Apply runs the bound kernel. A gather overwrites out, a scatter adds to it.
func (fh *FaceHex[T]) Apply(basis BasisTensor, faceID int, swapTangentials bool, N int,
	in, out *utils.DenseBuffer[T]) {
	if N < 1 {
		panic(fmt.Errorf("%w: N = %d", ErrDimensionMismatch, N))
	}
	fo := Orientation(faceID, swapTangentials)
	hb := resolveBasis(basis, fh.M, fh.K, fo)
	fh.kernel(hb, fo, N, in, out)
}

func (fh *FaceHex[T]) gather(hb hexBasis, fo FaceOrientation, N int, dataDOFs, dataInt *utils.DenseBuffer[T]) {
	checkDims(dataDOFs, fh.VolumeRows(), N, "DOF input")
	checkDims(dataInt, fh.FaceRows(), N, "integration point output")
	work := make([]T, fh.M*fh.M+fh.K*fh.M)
	for n := 0; n < N; n++ {
		gatherColumn(fh.M, fh.K, fo, hb, dataDOFs.Col(n), dataInt.Col(n), work)
	}
}

func (fh *FaceHex[T]) scatter(hb hexBasis, fo FaceOrientation, N int, dataInt, dataRes *utils.DenseBuffer[T]) {
	checkDims(dataInt, fh.FaceRows(), N, "integration point input")
	checkDims(dataRes, fh.VolumeRows(), N, "residual accumulator")
	work := make([]T, fh.M*fh.M+fh.K*fh.M)
	for n := 0; n < N; n++ {
		scatterColumn(fh.M, fh.K, fo, hb, dataInt.Col(n), dataRes.Col(n), work)
	}
}

func (fh *FaceHex[T]) checkOperation(opType OperationType) {
	if fh.Type != opType {
		panic(fmt.Errorf("%w: operator %s cannot carry out %s", ErrInvalidOperation, fh.TensorProductSpec, opType))
	}
}

func checkDims[T any](B *utils.DenseBuffer[T], nr, nc int, name string) {
	if B == nil {
		panic(fmt.Errorf("%w: %s is nil", ErrDimensionMismatch, name))
	}
	if r, c := B.Dims(); r != nr || c != nc {
		panic(fmt.Errorf("%w: %s is %dx%d, expected %dx%d", ErrDimensionMismatch, name, r, c, nr, nc))
	}
}
