package facetensor

import "fmt"

type OperationType uint8

const (
	DofsToInt OperationType = iota // gather volume DOFs to face integration points
	IntToDofs                      // scatter face integration point data into volume DOFs
)

func (ot OperationType) String() string {
	switch ot {
	case DofsToInt:
		return "DofsToInt"
	case IntToDofs:
		return "IntToDofs"
	default:
		return fmt.Sprintf("OperationType(%d)", uint8(ot))
	}
}

func (ot OperationType) Valid() bool { return ot == DofsToInt || ot == IntToDofs }

// Topology identifies the element type adjacent to a face.
type Topology uint8

const (
	HexFace Topology = iota
	TetFace
	PrismFace
)

func (tp Topology) String() string {
	switch tp {
	case HexFace:
		return "HexFace"
	case TetFace:
		return "TetFace"
	case PrismFace:
		return "PrismFace"
	default:
		return fmt.Sprintf("Topology(%d)", uint8(tp))
	}
}

// TensorProductSpec fully determines the kernel bound by an operator:
// M DOFs and K integration points per 1D direction.
type TensorProductSpec struct {
	M, K int
	Type OperationType
}

func (tps TensorProductSpec) Validate() error {
	if tps.M < 1 || tps.K < 1 {
		return fmt.Errorf("%w: M = %d, K = %d", ErrInvalidSpec, tps.M, tps.K)
	}
	if !tps.Type.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidOperation, tps.Type)
	}
	return nil
}

func (tps TensorProductSpec) String() string {
	return fmt.Sprintf("{M: %d, K: %d, %s}", tps.M, tps.K, tps.Type)
}

// VolumeRows and FaceRows are the row counts of the DOF and face data buffers.
func (tps TensorProductSpec) VolumeRows() int { return tps.M * tps.M * tps.M }
func (tps TensorProductSpec) FaceRows() int   { return tps.K * tps.K }
