package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestQuaternionRotationMatrixRoundTrip(t *testing.T) {
	for _, aa := range []r3.Vector{
		{X: 0, Y: 0, Z: math.Pi / 2},
		{X: 1, Y: 0, Z: 0},
		{X: 0.3, Y: -0.4, Z: 0.9},
	} {
		q := R3ToR4(aa).ToQuat()
		mat := QuatToRotationMatrix(q)
		back := mat.Quaternion()
		test.That(t, QuaternionAlmostEqual(q, back, 1e-6), test.ShouldBeTrue)
	}
}

func TestIdentityRotationMatrixIsIdentityQuaternion(t *testing.T) {
	q := identityRotationMatrix().Quaternion()
	test.That(t, QuaternionAlmostEqual(q, quat.Number{Real: 1}, 1e-9), test.ShouldBeTrue)
}

func TestTransposeIsInverseForRotation(t *testing.T) {
	m := QuatToRotationMatrix(R3ToR4(r3.Vector{X: 0.2, Y: 0.5, Z: -0.1}).ToQuat())
	product := m.Mul(m.Transpose())
	identity := identityRotationMatrix()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			test.That(t, product.At(row, col), test.ShouldAlmostEqual, identity.At(row, col), 1e-9)
		}
	}
}

func TestMulVecPreservesLength(t *testing.T) {
	m := QuatToRotationMatrix(R3ToR4(r3.Vector{X: 0, Y: 1, Z: 0.4}).ToQuat())
	v := r3.Vector{X: 3, Y: -1, Z: 2}
	rotated := m.MulVec(v)
	test.That(t, rotated.Norm(), test.ShouldAlmostEqual, v.Norm(), 1e-9)
}
