package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 rotation matrix, stored row-major. It is the representation `orthogonalize`
// operates on directly, since the correction it applies is defined in terms of the matrix's row vectors.
type RotationMatrix struct {
	data [9]float64
}

// NewRotationMatrix builds a RotationMatrix from 9 row-major values.
func NewRotationMatrix(data [9]float64) *RotationMatrix {
	return &RotationMatrix{data: data}
}

// identityRotationMatrix returns the rotation matrix representing no rotation.
func identityRotationMatrix() *RotationMatrix {
	return &RotationMatrix{data: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// At returns the element at the given row and column, 0-indexed.
func (m *RotationMatrix) At(row, col int) float64 {
	return m.data[row*3+col]
}

// Row returns the given row as a vector.
func (m *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: m.At(row, 0), Y: m.At(row, 1), Z: m.At(row, 2)}
}

// setRow overwrites a row with the given vector's components.
func (m *RotationMatrix) setRow(row int, v r3.Vector) {
	m.data[row*3+0] = v.X
	m.data[row*3+1] = v.Y
	m.data[row*3+2] = v.Z
}

// AxisAngles returns the orientation in axis angle representation.
func (m *RotationMatrix) AxisAngles() *R4AA {
	aa := QuatToR4AA(m.Quaternion())
	return &aa
}

// Quaternion converts the rotation matrix to a unit quaternion using Shepperd's method, which remains
// numerically stable regardless of which diagonal entry of the matrix is largest.
func (m *RotationMatrix) Quaternion() quat.Number {
	m00, m01, m02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m10, m11, m12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m20, m21, m22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	trace := m00 + m11 + m22
	var w, x, y, z float64
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1.0)
		w = 0.25 / s
		x = (m21 - m12) * s
		y = (m02 - m20) * s
		z = (m10 - m01) * s
	case m00 > m11 && m00 > m22:
		s := 2.0 * math.Sqrt(1.0+m00-m11-m22)
		w = (m21 - m12) / s
		x = 0.25 * s
		y = (m01 + m10) / s
		z = (m02 + m20) / s
	case m11 > m22:
		s := 2.0 * math.Sqrt(1.0+m11-m00-m22)
		w = (m02 - m20) / s
		x = (m01 + m10) / s
		y = 0.25 * s
		z = (m12 + m21) / s
	default:
		s := 2.0 * math.Sqrt(1.0+m22-m00-m11)
		w = (m10 - m01) / s
		x = (m02 + m20) / s
		y = (m12 + m21) / s
		z = 0.25 * s
	}
	return quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// RotationMatrix returns itself, satisfying the Orientation interface.
func (m *RotationMatrix) RotationMatrix() *RotationMatrix {
	return m
}

// Mul returns the matrix product m*other, i.e. applying other's rotation first, then m's.
func (m *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	var out RotationMatrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m.At(row, k) * other.At(k, col)
			}
			out.data[row*3+col] = sum
		}
	}
	return &out
}

// Transpose returns the transpose of m, which for a proper rotation matrix is also its inverse.
func (m *RotationMatrix) Transpose() *RotationMatrix {
	var out RotationMatrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out.data[row*3+col] = m.At(col, row)
		}
	}
	return &out
}

// MulVec applies the rotation to a vector.
func (m *RotationMatrix) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.Row(0).Dot(v),
		Y: m.Row(1).Dot(v),
		Z: m.Row(2).Dot(v),
	}
}

// QuatToRotationMatrix converts a unit quaternion to its rotation matrix representation.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{data: [9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}}
}
