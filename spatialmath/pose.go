package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a rigid transform in SE(3): a rotation followed by a translation, both expressed
// in the parent frame. It is used both to place a node in the map frame and to express the relative
// transform carried by an edge.
type Pose struct {
	translation r3.Vector
	rotation    *RotationMatrix
}

// NewPose builds a Pose from a translation and an Orientation. A nil orientation is treated as
// the identity rotation.
func NewPose(point r3.Vector, orientation Orientation) Pose {
	if orientation == nil {
		return Pose{translation: point, rotation: identityRotationMatrix()}
	}
	return Pose{translation: point, rotation: orientation.RotationMatrix()}
}

// NewPoseFromPoint returns a Pose with the given translation and no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return Pose{translation: point, rotation: identityRotationMatrix()}
}

// NewZeroPose returns the identity transform.
func NewZeroPose() Pose {
	return Pose{translation: r3.Vector{}, rotation: identityRotationMatrix()}
}

// Point returns the translation component of the pose.
func (p Pose) Point() r3.Vector {
	return p.translation
}

// Orientation returns the rotational component of the pose.
func (p Pose) Orientation() Orientation {
	if p.rotation == nil {
		return identityRotationMatrix()
	}
	return p.rotation
}

// rotationMatrix returns the underlying rotation matrix, defaulting to identity if unset.
func (p Pose) rotationMatrix() *RotationMatrix {
	if p.rotation == nil {
		return identityRotationMatrix()
	}
	return p.rotation
}

// Compose returns the pose that results from applying `next` in the frame of `p`, i.e. p * next
// in homogeneous transform notation: rotate and translate `next` by `p`.
func Compose(p, next Pose) Pose {
	pr := p.rotationMatrix()
	return Pose{
		translation: p.translation.Add(pr.MulVec(next.translation)),
		rotation:    pr.Mul(next.rotationMatrix()),
	}
}

// Invert returns the pose whose composition with p yields the identity.
func Invert(p Pose) Pose {
	rt := p.rotationMatrix().Transpose()
	return Pose{
		translation: rt.MulVec(p.translation).Mul(-1),
		rotation:    rt,
	}
}

// PoseDelta returns the pose of `to` expressed in the frame of `from`, i.e. from^-1 * to.
func PoseDelta(from, to Pose) Pose {
	return Compose(Invert(from), to)
}

// PoseAlmostEqual reports whether two poses are approximately equal in both translation and rotation.
func PoseAlmostEqual(a, b Pose) bool {
	return floatAlmostEqual(a.translation.X, b.translation.X, floatEpsilon) &&
		floatAlmostEqual(a.translation.Y, b.translation.Y, floatEpsilon) &&
		floatAlmostEqual(a.translation.Z, b.translation.Z, floatEpsilon) &&
		QuaternionAlmostEqual(a.rotationMatrix().Quaternion(), b.rotationMatrix().Quaternion(), 1e-5)
}

// ComposeClean composes two poses and immediately re-orthogonalizes the result. Every composition
// that feeds back into stored graph state (a corrected pose, a running current-pose estimate) must
// go through this rather than a bare Compose, so numerical drift never has a path around orthogonalize.
func ComposeClean(p, next Pose) Pose {
	return Orthogonalize(Compose(p, next))
}

// Orthogonalize re-orthonormalizes the rotation submatrix of t using a first-order symmetric
// correction: given the row vectors x, y, z, it removes the small drift between x and y, then
// re-derives z as their cross product, and rescales each vector back toward unit length with the
// Taylor approximation 0.5*(3-v.v) rather than an explicit square root. Translation is untouched.
func Orthogonalize(t Pose) Pose {
	x := t.rotationMatrix().Row(0)
	y := t.rotationMatrix().Row(1)

	e := x.Dot(y)
	xOrt := x.Sub(y.Mul(e / 2.0))
	yOrt := y.Sub(x.Mul(e / 2.0))
	zOrt := xOrt.Cross(yOrt)

	xDot := 0.5 * (3.0 - xOrt.Dot(xOrt))
	yDot := 0.5 * (3.0 - yOrt.Dot(yOrt))
	zDot := 0.5 * (3.0 - zOrt.Dot(zOrt))

	rot := &RotationMatrix{}
	rot.setRow(0, xOrt.Mul(xDot))
	rot.setRow(1, yOrt.Mul(yDot))
	rot.setRow(2, zOrt.Mul(zDot))

	return Pose{translation: t.translation, rotation: rot}
}

// RotationAngle returns the magnitude, in radians and wrapped into (-pi, pi], of the axis-angle
// rotation carried by p.
func RotationAngle(p Pose) float64 {
	return wrapToPi(quat.Abs(quat.Log(p.rotationMatrix().Quaternion())) * 2)
}

// CheckMinDistance returns true iff the translation magnitude of t is at least minTranslation, or
// the rotation angle of t is at least minRotation. Called to gate whether a delta is significant
// enough to justify a new graph node.
func CheckMinDistance(t Pose, minTranslation, minRotation float64) bool {
	if t.translation.Norm() >= minTranslation {
		return true
	}
	angle := RotationAngle(t)
	if angle < 0 {
		angle = -angle
	}
	return angle >= minRotation
}

// IsFinite reports whether every component of the pose is a finite number, used to reject
// numerically degenerate registration results.
func IsFinite(p Pose) bool {
	vals := []float64{
		p.translation.X, p.translation.Y, p.translation.Z,
	}
	for i := 0; i < 3; i++ {
		row := p.rotationMatrix().Row(i)
		vals = append(vals, row.X, row.Y, row.Z)
	}
	for _, v := range vals {
		if v != v || v > maxFinite || v < -maxFinite {
			return false
		}
	}
	return true
}

const maxFinite = 1e300
