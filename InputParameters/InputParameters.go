package InputParameters

import (
	"fmt"
	"runtime"

	"github.com/ghodss/yaml"
)

// RunParameters describes a verification or benchmark run, obtained from a
// YAML input file
type RunParameters struct {
	Title             string  `json:"Title"`
	PolynomialOrder   int     `json:"PolynomialOrder"`
	IntegrationPoints int     `json:"IntegrationPoints"` // Per direction, defaults to PolynomialOrder+1
	Components        int     `json:"Components"`        // Field components transformed per call (N)
	Elements          int     `json:"Elements"`
	Parallel          int     `json:"Parallel"` // Goroutines used by the benchmark
	Seed              int64   `json:"Seed"`
	Tolerance         float64 `json:"Tolerance"`
	SwapTangentials   bool    `json:"SwapTangentials"`
}

const ExampleFile = `
########################################
Title: "Degree 4 hexahedra"
PolynomialOrder: 4
IntegrationPoints: 6
Components: 5
Elements: 20000
Parallel: 8
Seed: 1
Tolerance: 1.e-10
SwapTangentials: true
########################################
`

func (rp *RunParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, rp); err != nil {
		return
	}
	rp.SetDefaults()
	return rp.Validate()
}

func (rp *RunParameters) SetDefaults() {
	if rp.IntegrationPoints == 0 {
		rp.IntegrationPoints = rp.PolynomialOrder + 1
	}
	if rp.Components == 0 {
		rp.Components = 1
	}
	if rp.Elements == 0 {
		rp.Elements = 1000
	}
	if rp.Parallel == 0 {
		rp.Parallel = runtime.NumCPU()
	}
	if rp.Tolerance == 0 {
		rp.Tolerance = 1.e-10
	}
}

func (rp *RunParameters) Validate() error {
	switch {
	case rp.PolynomialOrder < 1:
		return fmt.Errorf("PolynomialOrder must be at least 1, have %d", rp.PolynomialOrder)
	case rp.IntegrationPoints < 1:
		return fmt.Errorf("IntegrationPoints must be positive, have %d", rp.IntegrationPoints)
	case rp.Components < 1:
		return fmt.Errorf("Components must be positive, have %d", rp.Components)
	case rp.Elements < 1:
		return fmt.Errorf("Elements must be positive, have %d", rp.Elements)
	case rp.Parallel < 1:
		return fmt.Errorf("Parallel must be positive, have %d", rp.Parallel)
	case rp.Tolerance < 0:
		return fmt.Errorf("Tolerance must not be negative, have %g", rp.Tolerance)
	}
	return nil
}

// M and K are the DOFs and integration points per direction.
func (rp *RunParameters) M() int { return rp.PolynomialOrder + 1 }
func (rp *RunParameters) K() int { return rp.IntegrationPoints }

func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", rp.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Integration Points\n", rp.IntegrationPoints)
	fmt.Printf("[%d]\t\t\t\t= Components\n", rp.Components)
	fmt.Printf("[%d]\t\t\t\t= Elements\n", rp.Elements)
	fmt.Printf("[%d]\t\t\t\t= Parallel\n", rp.Parallel)
	fmt.Printf("[%d]\t\t\t\t= Seed\n", rp.Seed)
	fmt.Printf("%8.2e\t\t= Tolerance\n", rp.Tolerance)
	fmt.Printf("[%v]\t\t\t\t= Swap Tangentials\n", rp.SwapTangentials)
}
