package posegraph

import (
	"gonum.org/v1/gonum/mat"

	"github.com/maltewi/slam3d/spatialmath"
)

// Edge is a rigid-transform constraint between two nodes, as measured (or asserted) by a sensor.
// Edges are never mutated after insertion, and multiple edges between the same ordered pair of
// nodes are permitted.
type Edge struct {
	sourceID  NodeID
	targetID  NodeID
	transform spatialmath.Pose
	// covariance is the 6x6 symmetric positive-definite uncertainty of transform, ordered
	// (x, y, z, roll, pitch, yaw).
	covariance *mat.SymDense
	sensor     string
	label      string
}

// SourceID returns the id of the edge's source node.
func (e *Edge) SourceID() NodeID { return e.sourceID }

// TargetID returns the id of the edge's target node.
func (e *Edge) TargetID() NodeID { return e.targetID }

// Transform returns the measured pose of the target in the source's frame.
func (e *Edge) Transform() spatialmath.Pose { return e.transform }

// Covariance returns the edge's 6x6 covariance matrix.
func (e *Edge) Covariance() *mat.SymDense { return e.covariance }

// Sensor returns the name of the sensor (or synthetic source, e.g. "Odometry") that produced
// this constraint.
func (e *Edge) Sensor() string { return e.sensor }

// Label is a short free-form tag such as "seq", "odom", or "match".
func (e *Edge) Label() string { return e.label }

// IdentityCovariance returns a 6x6 identity covariance matrix, used when a constraint's true
// uncertainty is unknown.
func IdentityCovariance() *mat.SymDense {
	data := make([]float64, 36)
	for i := 0; i < 6; i++ {
		data[i*6+i] = 1
	}
	return mat.NewSymDense(6, data)
}
