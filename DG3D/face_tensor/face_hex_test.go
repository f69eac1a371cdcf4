package facetensor

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hexface/DG1D"
	"github.com/notargets/hexface/utils"
)

func newPair(M, K int) (gather, scatter *FaceHex[utils.Real]) {
	return NewFaceHex[utils.Real](M, DofsToInt, K), NewFaceHex[utils.Real](M, IntToDofs, K)
}

// recoverError runs fn and returns the error it panicked with.
func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		var ok bool
		err, ok = r.(error)
		require.Truef(t, ok, "panic value is not an error: %v", r)
	}()
	fn()
	return
}

func assertNear(t *testing.T, expected, actual *utils.DenseBuffer[utils.Real], tol float64) {
	t.Helper()
	require.Equal(t, expected.Rows(), actual.Rows())
	require.Equal(t, expected.Cols(), actual.Cols())
	for i, val := range expected.Data() {
		assert.InDelta(t, float64(val), float64(actual.Data()[i]), tol)
	}
}

func TestFaceHexAdjoint(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		var (
			M = 2 + rnd.Intn(4)
			K = 2 + rnd.Intn(5)
			N = 1 + rnd.Intn(3)
		)
		gather, scatter := newPair(M, K)
		bases := []BasisTensor{
			RandomBasis(rnd, M, K),
			RandomBasis(rnd, M, K)[:2],
		}
		for _, basis := range bases {
			for faceID := 1; faceID <= NFaces; faceID++ {
				for _, swap := range []bool{false, true} {
					d := RandomBuffer(rnd, M*M*M, N)
					f := RandomBuffer(rnd, K*K, N)
					mismatch := AdjointMismatch(gather, scatter, basis, faceID, swap, d, f)
					assert.Lessf(t, mismatch, 1.e-10, "M = %d, K = %d, N = %d, face %d, swap %v",
						M, K, N, faceID, swap)
				}
			}
		}
	}
	{ // Trace basis, square tangential matrices
		M := 4
		gather, scatter := newPair(M, M)
		basis := BasisTensor{RandomBuffer(rnd, M, M)}
		for faceID := 1; faceID <= NFaces; faceID++ {
			for _, swap := range []bool{false, true} {
				d := RandomBuffer(rnd, M*M*M, 2)
				f := RandomBuffer(rnd, M*M, 2)
				assert.Less(t, AdjointMismatch(gather, scatter, basis, faceID, swap, d, f), 1.e-10)
			}
		}
	}
}

// kronApply multiplies dofs by A (x) B (x) C, with C acting on the fastest index.
func kronApply(A, B, C mat.Matrix, dofs *utils.DenseBuffer[utils.Real]) *mat.Dense {
	var BC, ABC, res mat.Dense
	BC.Kronecker(B, C)
	ABC.Kronecker(A, &BC)
	res.Mul(&ABC, utils.ToDense(dofs))
	return &res
}

func TestFaceHexKroneckerEquivalence(t *testing.T) {
	var (
		M, K, N = 3, 4, 2
		rnd     = rand.New(rand.NewSource(2))
		basis   = RandomBasis(rnd, M, K)
		n       = utils.ToDense(basis[0])
		t0      = utils.ToDense(basis[1])
		t1      = utils.ToDense(basis[2])
		gather  = NewFaceHex[utils.Real](M, DofsToInt, K)
		d       = RandomBuffer(rnd, M*M*M, N)
	)
	check := func(faceID int, swap bool, expected func(p, q, col int) float64) {
		out := gather.DOFs2Int(basis, faceID, swap, N, d)
		for col := 0; col < N; col++ {
			for q := 0; q < K; q++ {
				for p := 0; p < K; p++ {
					assert.InDeltaf(t, expected(p, q, col), float64(out.At(p+K*q, col)), 1.e-13,
						"face %d, swap %v", faceID, swap)
				}
			}
		}
	}
	{ // Normal T, volume index i + M j + M^2 k
		for _, faceID := range []int{1, 2} {
			D := kronApply(n, t1, t0, d)
			check(faceID, false, func(p, q, col int) float64 { return D.At(p+K*q, col) })
			// Swapped, t0 acts along S and t1 along R, face index transposed
			Ds := kronApply(n, t0, t1, d)
			check(faceID, true, func(p, q, col int) float64 { return Ds.At(q+K*p, col) })
		}
	}
	{ // Normal S, columns ordered k, l, i
		D := kronApply(t1, n, t0, d)
		for _, faceID := range []int{3, 4} {
			check(faceID, false, func(p, q, col int) float64 { return D.At(p+K*q, col) })
		}
	}
	{ // Normal R, columns ordered b, a, l
		D := kronApply(t1, t0, n, d)
		for _, faceID := range []int{5, 6} {
			check(faceID, false, func(p, q, col int) float64 { return D.At(p+K*q, col) })
		}
	}
}

func TestFaceHexAssembledEquivalence(t *testing.T) {
	var (
		M, K, N         = 3, 4, 3
		rnd             = rand.New(rand.NewSource(3))
		gather, scatter = newPair(M, K)
	)
	for _, basis := range []BasisTensor{RandomBasis(rnd, M, K), RandomBasis(rnd, M, K)[:2]} {
		for faceID := 1; faceID <= NFaces; faceID++ {
			for _, swap := range []bool{false, true} {
				d := RandomBuffer(rnd, M*M*M, N)
				f := RandomBuffer(rnd, K*K, N)
				assert.Less(t, AssemblyMismatch(gather, scatter, basis, faceID, swap, d, f), 1.e-13)
			}
		}
	}
	{ // A trace basis touches only the boundary layer
		af := AssembleHexFace(BasisTensor{RandomBuffer(rnd, K, M)}, M, K, 6, true)
		assert.Equal(t, K*K*M*M, af.NNZ())
		nr, nc := af.Op.Dims()
		assert.Equal(t, K*K, nr)
		assert.Equal(t, M*M*M, nc)
	}
}

func TestFaceHexAccumulation(t *testing.T) {
	var (
		M, K, N      = 3, 3, 2
		rnd          = rand.New(rand.NewSource(4))
		basis        = RandomBasis(rnd, M, K)
		_, scatter   = newPair(M, K)
		f1           = RandomBuffer(rnd, K*K, N)
		f2           = RandomBuffer(rnd, K*K, N)
		res1         = utils.NewDenseBuffer[utils.Real](M*M*M, N)
		res2         = utils.NewDenseBuffer[utils.Real](M*M*M, N)
		resBoth      = utils.NewDenseBuffer[utils.Real](M*M*M, N)
		face1, face2 = 1, 6
		swap1, swap2 = false, true
	)
	scatter.Int2DOFs(basis, face1, swap1, N, f1, res1)
	scatter.Int2DOFs(basis, face2, swap2, N, f2, res2)
	scatter.Int2DOFs(basis, face1, swap1, N, f1, resBoth)
	scatter.Int2DOFs(basis, face2, swap2, N, f2, resBoth)
	sum := res1.Copy()
	utils.AddInPlace(sum, res2)
	assertNear(t, sum, resBoth, 1.e-14)
	{ // Existing accumulator content is kept
		res := utils.NewDenseBuffer[utils.Real](M*M*M, N)
		for i := range res.Data() {
			res.Data()[i] = 1
		}
		scatter.Int2DOFs(basis, face1, swap1, N, f1, res)
		for i, val := range res.Data() {
			assert.InDelta(t, float64(res1.Data()[i])+1, float64(val), 1.e-14)
		}
	}
}

func TestFaceHexOrientationTable(t *testing.T) {
	// Tagged volume: DOF (i,j,k) holds 100 i + 10 j + k. With identity
	// tangential matrices and a unit normal row, face point (p,q) must hold the
	// tag of the volume point listed here.
	const M = 3
	type ijk [3]int
	table := []struct {
		faceID int
		swap   bool
		pos    func(p, q int) ijk
	}{
		{1, false, func(p, q int) ijk { return ijk{p, q, 0} }},
		{1, true, func(p, q int) ijk { return ijk{q, p, 0} }},
		{2, false, func(p, q int) ijk { return ijk{p, q, 2} }},
		{2, true, func(p, q int) ijk { return ijk{q, p, 2} }},
		{3, false, func(p, q int) ijk { return ijk{p, 0, q} }},
		{3, true, func(p, q int) ijk { return ijk{q, 0, p} }},
		{4, false, func(p, q int) ijk { return ijk{p, 2, q} }},
		{4, true, func(p, q int) ijk { return ijk{q, 2, p} }},
		{5, false, func(p, q int) ijk { return ijk{0, p, q} }},
		{5, true, func(p, q int) ijk { return ijk{0, q, p} }},
		{6, false, func(p, q int) ijk { return ijk{2, p, q} }},
		{6, true, func(p, q int) ijk { return ijk{2, q, p} }},
	}
	var (
		tags     = utils.NewDenseBuffer[utils.Real](M*M*M, 1)
		identity = utils.NewDenseBuffer[utils.Real](M, M)
		gather   = NewFaceHex[utils.Real](M, DofsToInt, M)
	)
	for k := 0; k < M; k++ {
		for j := 0; j < M; j++ {
			for i := 0; i < M; i++ {
				tags.Set(i+M*j+M*M*k, 0, utils.Real(100*i+10*j+k))
			}
		}
	}
	for i := 0; i < M; i++ {
		identity.Set(i, i, 1)
	}
	require.Len(t, table, 2*NFaces)
	for _, tc := range table {
		_, _, _, side := FaceAxes(tc.faceID)
		normal := utils.NewDenseBuffer[utils.Real](1, M)
		if side == SideMin {
			normal.Set(0, 0, 1)
		} else {
			normal.Set(0, M-1, 1)
		}
		for _, basis := range []BasisTensor{{normal, identity, identity}, {identity}} {
			out := gather.DOFs2Int(basis, tc.faceID, tc.swap, 1, tags)
			for q := 0; q < M; q++ {
				for p := 0; p < M; p++ {
					v := tc.pos(p, q)
					assert.Equalf(t, utils.Real(100*v[0]+10*v[1]+v[2]), out.At(p+M*q, 0),
						"face %d, swap %v, (p,q) = (%d,%d)", tc.faceID, tc.swap, p, q)
				}
			}
		}
	}
}

func TestFaceHexLinearExactness(t *testing.T) {
	var (
		P, Nq = 1, 2
		M, K  = P + 1, Nq
		lb    = DG1D.NewLagrangeBasis1D(P, Nq)
		fts   = NewFaceTensors(lb)
		c     = [4]float64{1, 2, -3, 0.5}
		f     = func(x [3]float64) float64 { return c[0] + c[1]*x[0] + c[2]*x[1] + c[3]*x[2] }
		dofs  = utils.NewDenseBuffer[utils.Real](M*M*M, 1)
	)
	gather := NewFaceHex[utils.Real](M, DofsToInt, K)
	for k := 0; k < M; k++ {
		for j := 0; j < M; j++ {
			for i := 0; i < M; i++ {
				dofs.Set(i+M*j+M*M*k, 0, utils.Real(f([3]float64{lb.R.AtVec(i), lb.R.AtVec(j), lb.R.AtVec(k)})))
			}
		}
	}
	trace := BasisTensor{utils.NewRealBuffer(lb.Interp)}
	for faceID := 1; faceID <= NFaces; faceID++ {
		for _, swap := range []bool{false, true} {
			fo := Orientation(faceID, swap)
			deriv := LagrangeNormalDerivTensor(lb, fo.Side)
			val := gather.DOFs2Int(fts.ForFace(faceID), faceID, swap, 1, dofs)
			valTrace := gather.DOFs2Int(trace, faceID, swap, 1, dofs)
			dn := gather.DOFs2Int(deriv, faceID, swap, 1, dofs)
			for q := 0; q < K; q++ {
				for p := 0; p < K; p++ {
					var x [3]float64
					x[fo.Normal] = fo.Side.Coordinate()
					x[fo.Dir0] = lb.Rq.AtVec(p)
					x[fo.Dir1] = lb.Rq.AtVec(q)
					assert.InDeltaf(t, f(x), float64(val.At(p+K*q, 0)), 1.e-13, "%s", fo)
					assert.InDeltaf(t, f(x), float64(valTrace.At(p+K*q, 0)), 1.e-13, "%s", fo)
					assert.InDeltaf(t, c[1+fo.Normal], float64(dn.At(p+K*q, 0)), 1.e-12, "%s", fo)
				}
			}
		}
	}
}

func TestFaceHexDualScalar(t *testing.T) {
	var (
		M, K, N = 3, 4, 2
		rnd     = rand.New(rand.NewSource(5))
		basis   = RandomBasis(rnd, M, K)
		val     = RandomBuffer(rnd, M*M*M, N)
		dir     = RandomBuffer(rnd, M*M*M, N)
		fval    = RandomBuffer(rnd, K*K, N)
		fdir    = RandomBuffer(rnd, K*K, N)
	)
	gR, sR := newPair(M, K)
	gD := NewFaceHex[utils.Dual](M, DofsToInt, K)
	sD := NewFaceHex[utils.Dual](M, IntToDofs, K)
	for faceID := 1; faceID <= NFaces; faceID++ {
		swap := faceID%2 == 0
		{ // The tangent of a linear map is the map applied to the seed
			out := gD.DOFs2Int(basis, faceID, swap, N, utils.SeedDual(val, dir))
			v, d := utils.SplitDual(out)
			assertNear(t, gR.DOFs2Int(basis, faceID, swap, N, val), v, 1.e-14)
			assertNear(t, gR.DOFs2Int(basis, faceID, swap, N, dir), d, 1.e-14)
		}
		{
			res := utils.NewDenseBuffer[utils.Dual](M*M*M, N)
			sD.Int2DOFs(basis, faceID, swap, N, utils.SeedDual(fval, fdir), res)
			v, d := utils.SplitDual(res)
			resV := utils.NewDenseBuffer[utils.Real](M*M*M, N)
			resD := utils.NewDenseBuffer[utils.Real](M*M*M, N)
			sR.Int2DOFs(basis, faceID, swap, N, fval, resV)
			sR.Int2DOFs(basis, faceID, swap, N, fdir, resD)
			assertNear(t, resV, v, 1.e-14)
			assertNear(t, resD, d, 1.e-14)
		}
	}
}

func TestFaceHexPreconditions(t *testing.T) {
	var (
		M, K            = 3, 4
		rnd             = rand.New(rand.NewSource(6))
		basis           = RandomBasis(rnd, M, K)
		gather, scatter = newPair(M, K)
	)
	{ // Wrong DOF row count
		err := recoverError(t, func() {
			gather.DOFs2Int(basis, 1, false, 1, RandomBuffer(rnd, M*M*M-1, 1))
		})
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
	{ // Column count not matching N
		err := recoverError(t, func() {
			gather.DOFs2Int(basis, 1, false, 2, RandomBuffer(rnd, M*M*M, 1))
		})
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
	{ // Wrong accumulator size
		err := recoverError(t, func() {
			scatter.Int2DOFs(basis, 1, false, 1, RandomBuffer(rnd, K*K, 1), RandomBuffer(rnd, K*K, 1))
		})
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
	{ // N < 1
		err := recoverError(t, func() {
			gather.DOFs2Int(basis, 1, false, 0, RandomBuffer(rnd, M*M*M, 1))
		})
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
	{ // Face IDs outside 1..6
		for _, faceID := range []int{0, 7, -1} {
			err := recoverError(t, func() {
				gather.DOFs2Int(basis, faceID, false, 1, RandomBuffer(rnd, M*M*M, 1))
			})
			assert.True(t, errors.Is(err, ErrInvalidFace))
		}
	}
	{ // Operation not bound at construction
		err := recoverError(t, func() {
			scatter.DOFs2Int(basis, 1, false, 1, RandomBuffer(rnd, M*M*M, 1))
		})
		assert.True(t, errors.Is(err, ErrInvalidOperation))
		err = recoverError(t, func() {
			gather.Int2DOFs(basis, 1, false, 1, RandomBuffer(rnd, K*K, 1), RandomBuffer(rnd, M*M*M, 1))
		})
		assert.True(t, errors.Is(err, ErrInvalidOperation))
	}
	{ // Invalid construction
		err := recoverError(t, func() { NewFaceHex[utils.Real](M, OperationType(7), K) })
		assert.True(t, errors.Is(err, ErrInvalidOperation))
		err = recoverError(t, func() { NewFaceHex[utils.Real](0, DofsToInt, K) })
		assert.True(t, errors.Is(err, ErrInvalidSpec))
	}
	{ // Basis shape
		for _, bad := range []BasisTensor{
			nil,
			append(RandomBasis(rnd, M, K), RandomBuffer(rnd, K, M)),
			{RandomBuffer(rnd, M, K)},
			{RandomBuffer(rnd, M, 1), RandomBuffer(rnd, K, M)},
			{RandomBuffer(rnd, 1, M), nil},
		} {
			err := recoverError(t, func() {
				gather.DOFs2Int(bad, 1, false, 1, RandomBuffer(rnd, M*M*M, 1))
			})
			assert.True(t, errors.Is(err, ErrInvalidBasis))
		}
	}
}
