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
	"math/rand"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"

	"github.com/notargets/hexface/DG1D"
	facetensor "github.com/notargets/hexface/DG3D/face_tensor"
	"github.com/notargets/hexface/InputParameters"
	"github.com/notargets/hexface/logger"
	"github.com/notargets/hexface/metrics"
	"github.com/notargets/hexface/utils"
)

// BenchCmd times the face kernels over a batch of elements
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time the face gather and scatter over every face of a batch of elements",
	Long:  `Time the face gather and scatter over every face of a batch of elements`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			rp          *InputParameters.RunParameters
			profileMode string
			metricsAddr string
		)
		if rp, err = readInput(cmd); err != nil {
			return
		}
		profileMode, _ = cmd.Flags().GetString("profile")
		metricsAddr, _ = cmd.Flags().GetString("metricsAddr")
		rp.Print()
		switch profileMode {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
		default:
			return fmt.Errorf("unknown profile mode %q, use cpu or mem", profileMode)
		}
		if len(metricsAddr) != 0 {
			go func() {
				if err := metrics.Serve(metricsAddr); err != nil {
					logger.Log.Error("metrics server stopped", "addr", metricsAddr, "err", err)
				}
			}()
		}
		_, err = RunBench(rp)
		return
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for run parameters like:\n\t- PolynomialOrder\n\t- Elements\n\t- Parallel")
	BenchCmd.Flags().StringP("profile", "p", "", "write a cpu or mem profile to the current directory")
	BenchCmd.Flags().String("metricsAddr", "", "serve prometheus metrics on this address, e.g. :2112")
}

type BenchResult struct {
	Elapsed        [2]time.Duration // Summed over buckets, indexed by OperationType
	Wall           time.Duration
	FacesPerSecond float64
	Checksum       float64
}

// RunBench gathers and scatters every face of rp.Elements elements, split
// across rp.Parallel goroutines. Each bucket owns its element data and
// residuals, the operators and basis tensors are shared.
func RunBench(rp *InputParameters.RunParameters) (br BenchResult, err error) {
	var (
		M, K, N = rp.M(), rp.K(), rp.Components
		reg     = facetensor.NewRegistry[utils.Real]()
		tensors = facetensor.NewFaceTensors(DG1D.NewLagrangeBasis1D(rp.PolynomialOrder, K))
		pm      = utils.NewPartitionMap(rp.Parallel, rp.Elements)
		elapsed = make([][2]time.Duration, pm.ParallelDegree)
		sums    = make([]float64, pm.ParallelDegree)
		bad     = make([]bool, pm.ParallelDegree)
	)
	logCPUFeatures()
	gather, err := reg.Get(facetensor.HexFace, M, facetensor.DofsToInt, K)
	if err != nil {
		return
	}
	scatter, err := reg.Get(facetensor.HexFace, M, facetensor.IntToDofs, K)
	if err != nil {
		return
	}
	start := time.Now()
	pm.RunParallel(func(bn, kMin, kMax int) {
		var (
			rnd = rand.New(rand.NewSource(rp.Seed + int64(bn)))
			d   = facetensor.RandomBuffer(rnd, M*M*M, N)
			res = utils.NewDenseBuffer[utils.Real](M*M*M, N)
		)
		for k := kMin; k < kMax; k++ {
			for faceID := 1; faceID <= facetensor.NFaces; faceID++ {
				basis := tensors.ForFace(faceID)
				t0 := time.Now()
				f := gather.DOFs2Int(basis, faceID, rp.SwapTangentials, N, d)
				t1 := time.Now()
				scatter.Int2DOFs(basis, faceID, rp.SwapTangentials, N, f, res)
				t2 := time.Now()
				elapsed[bn][facetensor.DofsToInt] += t1.Sub(t0)
				elapsed[bn][facetensor.IntToDofs] += t2.Sub(t1)
				metrics.RecordKernel(facetensor.DofsToInt.String(), faceID, t1.Sub(t0))
				metrics.RecordKernel(facetensor.IntToDofs.String(), faceID, t2.Sub(t1))
			}
			metrics.ElementsProcessed.Inc()
		}
		bad[bn] = utils.HasNonFinite(res)
		for _, v := range res.Data() {
			sums[bn] += float64(v)
		}
	})
	br.Wall = time.Since(start)
	for bn := range elapsed {
		br.Elapsed[0] += elapsed[bn][0]
		br.Elapsed[1] += elapsed[bn][1]
		br.Checksum += sums[bn]
		if bad[bn] {
			err = fmt.Errorf("non finite residual in element bucket %d", bn)
		}
	}
	br.FacesPerSecond = float64(rp.Elements*facetensor.NFaces) / br.Wall.Seconds()
	logger.Log.Info("bench complete",
		"elements", rp.Elements, "parallel", pm.ParallelDegree,
		"spec", gather.Spec().String(), "N", N, "swap", rp.SwapTangentials,
		"wall", br.Wall, "gather", br.Elapsed[0], "scatter", br.Elapsed[1],
		"facesPerSecond", br.FacesPerSecond, "checksum", br.Checksum)
	logger.Log.Debug("memory", "usage", utils.GetMemUsage())
	return
}

func logCPUFeatures() {
	switch runtime.GOARCH {
	case "amd64", "386":
		logger.Log.Debug("cpu features", "arch", runtime.GOARCH,
			"avx2", cpu.X86.HasAVX2, "fma", cpu.X86.HasFMA, "avx512f", cpu.X86.HasAVX512F)
	case "arm64":
		logger.Log.Debug("cpu features", "arch", runtime.GOARCH,
			"asimd", cpu.ARM64.HasASIMD, "sve", cpu.ARM64.HasSVE)
	default:
		logger.Log.Debug("cpu features", "arch", runtime.GOARCH, "cores", runtime.NumCPU())
	}
}
