package utils

// Real is the passive scalar kind, used for basis matrices and for field data
// that does not carry derivative information.
type Real float64

func (a Real) Add(b Real) Real           { return a + b }
func (a Real) Mul(b Real) Real           { return a * b }
func (a Real) Scale(c float64) Real      { return Real(c) * a }
func (a Real) Value() float64            { return float64(a) }
func (a Real) WithValue(v float64) Real { return Real(v) }

// Dual is a forward mode differentiable scalar: V carries the value and D the
// directional derivative with respect to whatever seed the caller chose.
type Dual struct {
	V, D float64
}

func NewDual(v, d float64) Dual { return Dual{V: v, D: d} }

func (a Dual) Add(b Dual) Dual { return Dual{a.V + b.V, a.D + b.D} }
func (a Dual) Mul(b Dual) Dual {
	return Dual{a.V * b.V, a.D*b.V + a.V*b.D}
}
func (a Dual) Scale(c float64) Dual     { return Dual{c * a.V, c * a.D} }
func (a Dual) Value() float64           { return a.V }
func (a Dual) WithValue(v float64) Dual { return Dual{V: v} }

// Scalar is the numeric trait shared by the passive and differentiable kinds.
// The zero value of any Scalar is the additive identity.
type Scalar[T any] interface {
	Real | Dual
	Add(T) T
	Mul(T) T
	Scale(float64) T
	Value() float64
	WithValue(float64) T
}
