package facetensor

import (
	"fmt"
	"sync"

	"github.com/notargets/hexface/utils"
)

// FaceOperator is the topology independent face/volume tensor contract. The
// topology is a closed set, dispatch is a switch on it.
type FaceOperator[T utils.Scalar[T]] struct {
	Topology Topology
	hex      *FaceHex[T]
}

func NewFaceOperator[T utils.Scalar[T]](topo Topology, spec TensorProductSpec) (op *FaceOperator[T], err error) {
	if err = spec.Validate(); err != nil {
		return
	}
	switch topo {
	case HexFace:
		op = &FaceOperator[T]{
			Topology: topo,
			hex:      NewFaceHex[T](spec.M, spec.Type, spec.K),
		}
	case TetFace, PrismFace:
		err = fmt.Errorf("%w: %s uses unfactored kernels", ErrUnsupportedTopology, topo)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedTopology, topo)
	}
	return
}

func (op *FaceOperator[T]) Spec() TensorProductSpec {
	switch op.Topology {
	case HexFace:
		return op.hex.TensorProductSpec
	}
	panic(fmt.Errorf("%w: %s", ErrUnsupportedTopology, op.Topology))
}

func (op *FaceOperator[T]) DOFs2Int(basis BasisTensor, faceID int, swapTangentials bool, N int,
	dataDOFs *utils.DenseBuffer[T]) *utils.DenseBuffer[T] {
	switch op.Topology {
	case HexFace:
		return op.hex.DOFs2Int(basis, faceID, swapTangentials, N, dataDOFs)
	}
	panic(fmt.Errorf("%w: %s", ErrUnsupportedTopology, op.Topology))
}

func (op *FaceOperator[T]) Int2DOFs(basis BasisTensor, faceID int, swapTangentials bool, N int,
	dataInt, dataRes *utils.DenseBuffer[T]) {
	switch op.Topology {
	case HexFace:
		op.hex.Int2DOFs(basis, faceID, swapTangentials, N, dataInt, dataRes)
		return
	}
	panic(fmt.Errorf("%w: %s", ErrUnsupportedTopology, op.Topology))
}

type registryKey struct {
	topo Topology
	spec TensorProductSpec
}

// Registry holds one operator per (topology, M, OperationType, K), created on
// first request during solver setup and shared afterwards.
type Registry[T utils.Scalar[T]] struct {
	mu  sync.RWMutex
	ops map[registryKey]*FaceOperator[T]
}

func NewRegistry[T utils.Scalar[T]]() *Registry[T] {
	return &Registry[T]{ops: make(map[registryKey]*FaceOperator[T])}
}

func (r *Registry[T]) Get(topo Topology, M int, opType OperationType, K int) (op *FaceOperator[T], err error) {
	var (
		key = registryKey{topo, TensorProductSpec{M: M, K: K, Type: opType}}
		ok  bool
	)
	r.mu.RLock()
	op, ok = r.ops[key]
	r.mu.RUnlock()
	if ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if op, ok = r.ops[key]; ok {
		return
	}
	if op, err = NewFaceOperator[T](topo, key.spec); err != nil {
		return
	}
	r.ops[key] = op
	return
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}
