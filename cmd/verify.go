/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hexface/DG1D"
	facetensor "github.com/notargets/hexface/DG3D/face_tensor"
	"github.com/notargets/hexface/InputParameters"
	"github.com/notargets/hexface/logger"
	"github.com/notargets/hexface/metrics"
	"github.com/notargets/hexface/utils"
)

// VerifyCmd runs the consistency checks of the face kernels
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the face kernels for adjointness, accumulation and agreement with the assembled operator",
	Long: `Check the face kernels on every face and tangential orientation of a hexahedron:
	- the scatter is the adjoint of the gather
	- both agree with the explicitly assembled sparse face operator
	- the scatter accumulates into the residual
	- a Lagrange basis reproduces constant fields on the face
	- derivatives carried by dual numbers match the passive kernel`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var rp *InputParameters.RunParameters
		if rp, err = readInput(cmd); err != nil {
			return
		}
		rp.Print()
		_, err = RunVerify(rp)
		return
	},
}

func init() {
	rootCmd.AddCommand(VerifyCmd)
	VerifyCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for run parameters like:\n\t- PolynomialOrder\n\t- IntegrationPoints")
}

type CheckResult struct {
	Name    string
	FaceID  int
	Swapped bool
	Error   float64
}

// RunVerify runs every check on all faces and both tangential orderings and
// returns an error when any result exceeds the run tolerance.
func RunVerify(rp *InputParameters.RunParameters) (results []CheckResult, err error) {
	var (
		M, K, N  = rp.M(), rp.K(), rp.Components
		rnd      = rand.New(rand.NewSource(rp.Seed))
		basis    = facetensor.RandomBasis(rnd, M, K)
		gather   = facetensor.NewFaceHex[utils.Real](M, facetensor.DofsToInt, K)
		scatter  = facetensor.NewFaceHex[utils.Real](M, facetensor.IntToDofs, K)
		lagrange = facetensor.NewFaceTensors(DG1D.NewLagrangeBasis1D(rp.PolynomialOrder, K))
		duals    = facetensor.NewRegistry[utils.Dual]()
		failed   int
	)
	dGather, err := duals.Get(facetensor.HexFace, M, facetensor.DofsToInt, K)
	if err != nil {
		return
	}
	for faceID := 1; faceID <= facetensor.NFaces; faceID++ {
		for _, swap := range []bool{false, true} {
			var (
				d   = facetensor.RandomBuffer(rnd, M*M*M, N)
				f   = facetensor.RandomBuffer(rnd, K*K, N)
				f2  = facetensor.RandomBuffer(rnd, K*K, N)
				dir = facetensor.RandomBuffer(rnd, M*M*M, N)
			)
			results = append(results,
				CheckResult{"adjoint", faceID, swap,
					facetensor.AdjointMismatch(gather, scatter, basis, faceID, swap, d, f)},
				CheckResult{"assembly", faceID, swap,
					facetensor.AssemblyMismatch(gather, scatter, basis, faceID, swap, d, f)},
				CheckResult{"accumulation", faceID, swap,
					accumulationError(scatter, basis, faceID, swap, f, f2, d)},
				CheckResult{"unity", faceID, swap,
					unityError(gather, lagrange.ForFace(faceID), faceID, swap, N)},
				CheckResult{"dual", faceID, swap,
					dualError(gather, dGather, basis, faceID, swap, d, dir)},
			)
		}
	}
	for _, r := range results {
		if r.Error > rp.Tolerance || math.IsNaN(r.Error) {
			failed++
			metrics.CheckFailures.WithLabelValues(r.Name).Inc()
			logger.Log.Error("check failed", "check", r.Name, "face", r.FaceID, "swap", r.Swapped, "error", r.Error)
			continue
		}
		logger.Log.Debug("check passed", "check", r.Name, "face", r.FaceID, "swap", r.Swapped, "error", r.Error)
	}
	if failed != 0 {
		err = fmt.Errorf("%d of %d checks exceeded tolerance %8.2e", failed, len(results), rp.Tolerance)
		return
	}
	logger.Log.Info("all checks passed", "checks", len(results), "M", M, "K", K, "N", N)
	return
}

// accumulationError scatters f1 and f2 on top of existing content and compares
// the increment with the sum of the two scatters into zeroed storage.
func accumulationError(scatter *facetensor.FaceHex[utils.Real], basis facetensor.BasisTensor,
	faceID int, swap bool, f1, f2, res0 *utils.DenseBuffer[utils.Real]) float64 {
	var (
		N     = f1.Cols()
		res   = res0.Copy()
		only1 = utils.NewDenseBuffer[utils.Real](res0.Dims())
		only2 = utils.NewDenseBuffer[utils.Real](res0.Dims())
	)
	scatter.Int2DOFs(basis, faceID, swap, N, f1, res)
	scatter.Int2DOFs(basis, faceID, swap, N, f2, res)
	scatter.Int2DOFs(basis, faceID, swap, N, f1, only1)
	scatter.Int2DOFs(basis, faceID, swap, N, f2, only2)
	var (
		got  = utils.Values(res)
		base = utils.Values(res0)
	)
	for i := range got {
		got[i] -= base[i]
	}
	return utils.RelativeDistance(got, utils.Values(utils.AddInPlace(only1, only2)))
}

// unityError gathers a constant volume field through a Lagrange basis, which
// must reproduce the constant at every face point.
func unityError(gather *facetensor.FaceHex[utils.Real], basis facetensor.BasisTensor,
	faceID int, swap bool, N int) (maxErr float64) {
	M := gather.M
	d := utils.NewRealBuffer(mat.NewDense(M*M*M, N, utils.ConstArray(M*M*M*N, 1)))
	for _, v := range utils.Values(gather.DOFs2Int(basis, faceID, swap, N, d)) {
		maxErr = math.Max(maxErr, math.Abs(v-1))
	}
	return
}

// dualError runs the differentiable gather on seeded data and compares the
// values and derivatives with passive gathers of the data and the seed.
func dualError(gather *facetensor.FaceHex[utils.Real], dGather *facetensor.FaceOperator[utils.Dual],
	basis facetensor.BasisTensor, faceID int, swap bool, d, dir *utils.DenseBuffer[utils.Real]) float64 {
	N := d.Cols()
	val, der := utils.SplitDual(dGather.DOFs2Int(basis, faceID, swap, N, utils.SeedDual(d, dir)))
	return math.Max(
		utils.RelativeDistance(utils.Values(val), utils.Values(gather.DOFs2Int(basis, faceID, swap, N, d))),
		utils.RelativeDistance(utils.Values(der), utils.Values(gather.DOFs2Int(basis, faceID, swap, N, dir))),
	)
}
