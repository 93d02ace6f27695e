package spatialmath

import (
	"gonum.org/v1/gonum/num/quat"
)

// orientationTolerance is the default quaternion-distance below which two orientations are
// considered equal by OrientationAlmostEqual.
const orientationTolerance = 1e-6

// Orientation is satisfied by every rotation representation this package supports (axis-angle,
// quaternion, rotation matrix), letting the rest of the module accept "some rotation" without
// committing to one parameterization.
type Orientation interface {
	Quaternion() quat.Number
	AxisAngles() *R4AA
	RotationMatrix() *RotationMatrix
}

// NewZeroOrientation returns the identity rotation.
func NewZeroOrientation() Orientation {
	q := quaternion(quat.Number{Real: 1})
	return &q
}

// OrientationAlmostEqual reports whether o1 and o2 differ, as quaternions, by less than
// orientationTolerance.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return QuaternionAlmostEqual(o1.Quaternion(), o2.Quaternion(), orientationTolerance)
}

// OrientationBetween returns the relative rotation that, applied after o1, yields o2: in
// quaternion terms, o2 * conj(o1).
func OrientationBetween(o1, o2 Orientation) Orientation {
	relative := quat.Mul(o2.Quaternion(), quat.Conj(o1.Quaternion()))
	q := quaternion(relative)
	return &q
}
