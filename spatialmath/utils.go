package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// floatEpsilon is the default tolerance used when comparing floating point values produced by
// repeated pose composition.
const floatEpsilon = 1e-6

// QuaternionAlmostEqual returns true if q1 and q2 represent approximately the same rotation, within
// tolerance. Quaternions q and -q represent the same rotation, so both signs are checked.
func QuaternionAlmostEqual(q1, q2 quat.Number, tolerance float64) bool {
	return floatAlmostEqual(q1.Real, q2.Real, tolerance) &&
		floatAlmostEqual(q1.Imag, q2.Imag, tolerance) &&
		floatAlmostEqual(q1.Jmag, q2.Jmag, tolerance) &&
		floatAlmostEqual(q1.Kmag, q2.Kmag, tolerance) ||
		floatAlmostEqual(q1.Real, -q2.Real, tolerance) &&
			floatAlmostEqual(q1.Imag, -q2.Imag, tolerance) &&
			floatAlmostEqual(q1.Jmag, -q2.Jmag, tolerance) &&
			floatAlmostEqual(q1.Kmag, -q2.Kmag, tolerance)
}

func floatAlmostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapToPi wraps an angle in radians into (-pi, pi].
func wrapToPi(angle float64) float64 {
	angle = math.Mod(angle+math.Pi, 2*math.Pi)
	if angle <= 0 {
		angle += 2 * math.Pi
	}
	return angle - math.Pi
}
