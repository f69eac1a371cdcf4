package facetensor

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/hexface/utils"
)

// RandomBuffer fills an nr x nc buffer with values uniform on [-1,1).
func RandomBuffer(rnd *rand.Rand, nr, nc int) (R *utils.DenseBuffer[utils.Real]) {
	R = utils.NewDenseBuffer[utils.Real](nr, nc)
	data := R.Data()
	for i := range data {
		data[i] = utils.Real(2*rnd.Float64() - 1)
	}
	return
}

// RandomBasis returns a three matrix BasisTensor with random entries.
func RandomBasis(rnd *rand.Rand, M, K int) BasisTensor {
	return BasisTensor{
		RandomBuffer(rnd, 1, M),
		RandomBuffer(rnd, K, M),
		RandomBuffer(rnd, K, M),
	}
}

// AdjointMismatch compares <gather(d), f> on the face with <d, scatter(f)> on
// the volume and returns their relative difference.
func AdjointMismatch(gather, scatter *FaceHex[utils.Real], basis BasisTensor, faceID int,
	swapTangentials bool, dataDOFs, dataInt *utils.DenseBuffer[utils.Real]) float64 {
	var (
		N   = dataDOFs.Cols()
		res = utils.NewDenseBuffer[utils.Real](dataDOFs.Dims())
	)
	gd := gather.DOFs2Int(basis, faceID, swapTangentials, N, dataDOFs)
	scatter.Int2DOFs(basis, faceID, swapTangentials, N, dataInt, res)
	face := floats.Dot(utils.Values(gd), utils.Values(dataInt))
	vol := floats.Dot(utils.Values(dataDOFs), utils.Values(res))
	return utils.RelativeDifference(face, vol)
}

// AssemblyMismatch compares the factored gather and scatter of one face with
// the assembled sparse operator and returns the larger relative distance.
func AssemblyMismatch(gather, scatter *FaceHex[utils.Real], basis BasisTensor, faceID int,
	swapTangentials bool, dataDOFs, dataInt *utils.DenseBuffer[utils.Real]) float64 {
	var (
		N   = dataDOFs.Cols()
		af  = AssembleHexFace(basis, gather.M, gather.K, faceID, swapTangentials)
		res = utils.NewDenseBuffer[utils.Real](dataDOFs.Dims())
	)
	gd := gather.DOFs2Int(basis, faceID, swapTangentials, N, dataDOFs)
	scatter.Int2DOFs(basis, faceID, swapTangentials, N, dataInt, res)
	dGather := utils.RelativeDistance(utils.Values(gd), utils.Values(af.Gather(dataDOFs)))
	dScatter := utils.RelativeDistance(utils.Values(res), utils.Values(af.Scatter(dataInt)))
	return max(dGather, dScatter)
}
