package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// R4AA is a rotation expressed as a right-handed angle theta (radians) about a unit axis
// (RX, RY, RZ). It is the representation the solver's parameter vector packs into and unpacks
// out of, since it needs exactly three free parameters per node orientation (an axis scaled by
// its angle) rather than the four-component, unit-norm-constrained quaternion.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA returns the no-rotation axis angle: zero angle about an arbitrary (here, +X) axis.
func NewR4AA() *R4AA {
	return &R4AA{RX: 1}
}

// AxisAngles satisfies Orientation by returning r4 itself.
func (r4 *R4AA) AxisAngles() *R4AA {
	return r4
}

// Quaternion satisfies Orientation.
func (r4 *R4AA) Quaternion() quat.Number {
	return r4.ToQuat()
}

// RotationMatrix satisfies Orientation.
func (r4 *R4AA) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(r4.Quaternion())
}

// ToR3 scales the axis by theta, yielding the compact 3-component angle-axis vector some solvers
// prefer as a parameterization.
func (r4 *R4AA) ToR3() r3.Vector {
	axis := r3.Vector{X: r4.RX, Y: r4.RY, Z: r4.RZ}
	return axis.Mul(r4.Theta)
}

// ToQuat builds the unit quaternion for a rotation of Theta radians about the (normalized) axis.
func (r4 *R4AA) ToQuat() quat.Number {
	r4.Normalize()
	half := r4.Theta / 2
	s := math.Sin(half)
	return quat.Number{Real: math.Cos(half), Imag: r4.RX * s, Jmag: r4.RY * s, Kmag: r4.RZ * s}
}

// Normalize rescales the axis onto the unit sphere in place, leaving Theta untouched.
func (r4 *R4AA) Normalize() {
	axis := r3.Vector{X: r4.RX, Y: r4.RY, Z: r4.RZ}
	if axis.Norm() == 0 {
		panic("cannot normalize R4AA, divide by zero")
	}
	unit := axis.Normalize()
	r4.RX, r4.RY, r4.RZ = unit.X, unit.Y, unit.Z
}

// R3ToR4 recovers an axis-angle rotation from its compact angle-axis vector, where the vector's
// direction is the axis and its length is theta.
func R3ToR4(aa r3.Vector) *R4AA {
	theta := aa.Norm()
	if theta == 0 {
		return NewR4AA()
	}
	unit := aa.Normalize()
	return &R4AA{Theta: theta, RX: unit.X, RY: unit.Y, RZ: unit.Z}
}

// QuatToR4AA extracts an axis-angle rotation from a unit quaternion via the half-angle identity
// w = cos(theta/2): theta follows directly from acos(w), and the axis is the imaginary part
// rescaled by 1/sin(theta/2). Near theta == 0 the axis is underdetermined, so an arbitrary unit
// axis is substituted, matching the no-rotation convention used elsewhere in this package.
func QuatToR4AA(q quat.Number) R4AA {
	w := clamp(q.Real, -1, 1)
	theta := 2 * math.Acos(w)
	sinHalf := math.Sqrt(1 - w*w)
	if sinHalf < 1e-6 {
		return R4AA{Theta: theta, RX: 1}
	}
	return R4AA{Theta: theta, RX: q.Imag / sinHalf, RY: q.Jmag / sinHalf, RZ: q.Kmag / sinHalf}
}
