package facetensor

import "fmt"

/*
Volume DOFs of a hexahedron with M points per direction are stored
lexicographically, index = i + M*j + M*M*k, where i runs along R, j along S
and k along T. Faces are numbered in pairs along T, S and R:

	face  normal  side  tan1  tan2
	 1      T     min    R     S
	 2      T     max    R     S
	 3      S     min    R     T
	 4      S     max    R     T
	 5      R     min    S     T
	 6      R     max    S     T

Face integration point data with K points per direction is stored as p + K*q,
p running along the first face direction. Without a swap the first face
direction is tan1, with a swap it is tan2.
*/

type Axis uint8

const (
	AxisR Axis = iota
	AxisS
	AxisT
)

func (a Axis) String() string {
	switch a {
	case AxisR:
		return "R"
	case AxisS:
		return "S"
	case AxisT:
		return "T"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// Stride is the distance between consecutive points along the axis in an
// n^3 lexicographic layout.
func (a Axis) Stride(n int) (stride int) {
	stride = 1
	for i := Axis(0); i < a; i++ {
		stride *= n
	}
	return
}

type Side uint8

const (
	SideMin Side = iota // reference coordinate -1
	SideMax             // reference coordinate +1
)

func (s Side) String() string {
	if s == SideMin {
		return "min"
	}
	return "max"
}

// Coordinate is the reference coordinate of the side on [-1,1].
func (s Side) Coordinate() float64 {
	if s == SideMin {
		return -1
	}
	return 1
}

const NFaces = 6

var hexFaces = [NFaces]struct {
	normal     Axis
	side       Side
	tan1, tan2 Axis
}{
	{AxisT, SideMin, AxisR, AxisS},
	{AxisT, SideMax, AxisR, AxisS},
	{AxisS, SideMin, AxisR, AxisT},
	{AxisS, SideMax, AxisR, AxisT},
	{AxisR, SideMin, AxisS, AxisT},
	{AxisR, SideMax, AxisS, AxisT},
}

func checkFaceID(faceID int) {
	if faceID < 1 || faceID > NFaces {
		panic(fmt.Errorf("%w: have %d", ErrInvalidFace, faceID))
	}
}

// FaceAxes returns the normal and tangential axes of a hexahedral face and the
// side of the normal axis it sits on.
func FaceAxes(faceID int) (normal, tan1, tan2 Axis, side Side) {
	checkFaceID(faceID)
	f := hexFaces[faceID-1]
	return f.normal, f.tan1, f.tan2, f.side
}

// FaceOrientation is the resolved permutation for one (face, swap) pair. Dir0
// is the volume axis along which face data runs fastest, Dir1 the other.
type FaceOrientation struct {
	FaceID     int
	Swapped    bool
	Normal     Axis
	Side       Side
	Dir0, Dir1 Axis
}

func Orientation(faceID int, swapTangentials bool) (fo FaceOrientation) {
	normal, tan1, tan2, side := FaceAxes(faceID)
	fo = FaceOrientation{
		FaceID:  faceID,
		Swapped: swapTangentials,
		Normal:  normal,
		Side:    side,
		Dir0:    tan1,
		Dir1:    tan2,
	}
	if swapTangentials {
		fo.Dir0, fo.Dir1 = tan2, tan1
	}
	return
}

// Strides returns the volume strides of the normal axis and the two face
// directions for M points per direction.
func (fo FaceOrientation) Strides(M int) (sN, s0, s1 int) {
	return fo.Normal.Stride(M), fo.Dir0.Stride(M), fo.Dir1.Stride(M)
}

// VolumeIndex maps a position on the face lattice, (a along Dir0, b along
// Dir1) at normal index l, to the lexicographic volume index.
func (fo FaceOrientation) VolumeIndex(M, a, b, l int) int {
	sN, s0, s1 := fo.Strides(M)
	return a*s0 + b*s1 + l*sN
}

// BoundaryLayer is the normal index of the DOF layer lying on the face.
func (fo FaceOrientation) BoundaryLayer(M int) int {
	if fo.Side == SideMin {
		return 0
	}
	return M - 1
}

func (fo FaceOrientation) String() string {
	return fmt.Sprintf("face %d (normal %s%s, swap %v): face dirs (%s, %s)",
		fo.FaceID, fo.Normal, fo.Side, fo.Swapped, fo.Dir0, fo.Dir1)
}
