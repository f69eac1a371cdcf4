package DG1D

import (
	"fmt"

	"github.com/notargets/hexface/utils"
)

// LagrangeBasis1D is the nodal basis of degree P on the Gauss-Lobatto points,
// sampled at an Nq point Gauss rule. It provides the 1D building blocks of
// hexahedral tensor product operators.
type LagrangeBasis1D struct {
	P, Np, Nq int
	R         utils.Vector // DOF locations, Gauss-Lobatto
	Rq, Wq    utils.Vector // Integration points and weights, Gauss
	V, Vinv   utils.Matrix
	Interp    utils.Matrix // Nq x Np, nodal values to integration point values
	Deriv     utils.Matrix // Nq x Np, nodal values to integration point derivatives
}

func NewLagrangeBasis1D(P, Nq int) (lb *LagrangeBasis1D) {
	var (
		err error
	)
	if P < 1 || Nq < 1 {
		panic(fmt.Errorf("invalid basis parameters: P = %d, Nq = %d", P, Nq))
	}
	lb = &LagrangeBasis1D{
		P:  P,
		Np: P + 1,
		Nq: Nq,
	}
	lb.R = JacobiGL(0, 0, P)
	lb.Rq, lb.Wq = JacobiGQ(0, 0, Nq-1)
	lb.V = Vandermonde1D(P, lb.R)
	if lb.Vinv, err = lb.V.Inverse(); err != nil {
		panic(fmt.Errorf("error inverting V: %w", err))
	}
	lb.V.SetReadOnly("V")
	lb.Vinv.SetReadOnly("Vinv")
	lb.Interp = Vandermonde1D(P, lb.Rq).Mul(lb.Vinv)
	lb.Interp.SetReadOnly("Interp")
	lb.Deriv = GradVandermonde1D(lb.Rq, P).Mul(lb.Vinv)
	lb.Deriv.SetReadOnly("Deriv")
	return
}

// EvalRow returns the 1 x Np row of basis function values at r.
func (lb *LagrangeBasis1D) EvalRow(r float64) (row utils.Matrix) {
	return Vandermonde1D(lb.P, utils.NewVector(1, []float64{r})).Mul(lb.Vinv)
}

// EvalDerivRow returns the 1 x Np row of basis function derivatives at r.
func (lb *LagrangeBasis1D) EvalDerivRow(r float64) (row utils.Matrix) {
	return GradVandermonde1D(utils.NewVector(1, []float64{r}), lb.P).Mul(lb.Vinv)
}
