package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestOrthogonalizeIsIdempotentOnOrthonormalInput(t *testing.T) {
	p := NewPose(r3.Vector{X: 1, Y: 2, Z: 3}, R3ToR4(r3.Vector{X: 0, Y: 0, Z: math.Pi / 4}))
	got := Orthogonalize(p)
	test.That(t, PoseAlmostEqual(p, got), test.ShouldBeTrue)
}

func TestOrthogonalizeCorrectsDrift(t *testing.T) {
	rot := &RotationMatrix{}
	rot.setRow(0, r3.Vector{X: 1.001, Y: 0.002, Z: 0})
	rot.setRow(1, r3.Vector{X: -0.001, Y: 0.999, Z: 0.001})
	rot.setRow(2, r3.Vector{X: 0, Y: 0, Z: 1.0})
	drifted := Pose{translation: r3.Vector{X: 5}, rotation: rot}

	fixed := Orthogonalize(drifted)
	q := fixed.rotationMatrix().Quaternion()
	norm := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	test.That(t, norm, test.ShouldAlmostEqual, 1.0, 1e-6)
	test.That(t, fixed.translation.X, test.ShouldEqual, 5.0)
}

func TestCheckMinDistanceIdentityIsFalse(t *testing.T) {
	test.That(t, CheckMinDistance(NewZeroPose(), 0.01, 0.01), test.ShouldBeFalse)
}

func TestCheckMinDistanceTranslationAboveThreshold(t *testing.T) {
	p := NewPoseFromPoint(r3.Vector{X: 1})
	test.That(t, CheckMinDistance(p, 0.5, 0.1), test.ShouldBeTrue)
}

func TestCheckMinDistanceBelowBothThresholds(t *testing.T) {
	p := NewPoseFromPoint(r3.Vector{X: 0.01})
	test.That(t, CheckMinDistance(p, 0.5, 0.1), test.ShouldBeFalse)
}

func TestComposeInvertRoundTrip(t *testing.T) {
	p := NewPose(r3.Vector{X: 1, Y: -2, Z: 0.5}, R3ToR4(r3.Vector{X: 0, Y: 0, Z: math.Pi / 3}))
	identity := Compose(p, Invert(p))
	test.That(t, PoseAlmostEqual(identity, NewZeroPose()), test.ShouldBeTrue)
}

func TestPoseDelta(t *testing.T) {
	a := NewPoseFromPoint(r3.Vector{X: 1})
	b := NewPoseFromPoint(r3.Vector{X: 3})
	delta := PoseDelta(a, b)
	test.That(t, delta.Point().X, test.ShouldAlmostEqual, 2.0, 1e-9)
}

func TestIsFiniteRejectsNaN(t *testing.T) {
	p := NewPoseFromPoint(r3.Vector{X: math.NaN()})
	test.That(t, IsFinite(p), test.ShouldBeFalse)
}

func TestIsFiniteAcceptsOrdinaryPose(t *testing.T) {
	p := NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, IsFinite(p), test.ShouldBeTrue)
}
