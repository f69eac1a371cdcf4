package facetensor

import "errors"

// Precondition violations are raised with panic(err), where err wraps one of these.
var (
	// ErrDimensionMismatch is raised when a data buffer does not have the
	// M^3 x N or K^2 x N shape the operator expects.
	ErrDimensionMismatch = errors.New("facetensor: buffer dimension mismatch")

	ErrInvalidFace = errors.New("facetensor: face ID outside 1..6")

	// ErrInvalidOperation is raised for an unknown OperationType, or when an
	// operator is asked for the operation it was not constructed for.
	ErrInvalidOperation = errors.New("facetensor: invalid operation type")

	ErrInvalidBasis = errors.New("facetensor: invalid basis tensor")

	ErrInvalidSpec = errors.New("facetensor: invalid tensor product dimensions")

	// ErrUnsupportedTopology is returned for face topologies without a kernel.
	ErrUnsupportedTopology = errors.New("facetensor: topology has no kernel")
)
