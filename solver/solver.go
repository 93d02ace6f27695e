// Package solver defines the pluggable non-linear least-squares back-end that the mapper drives to
// refine node poses so they best satisfy the graph's edge constraints. Any concrete solver (g2o,
// Ceres, a pure-Go optimizer, or the nlopt-backed one in solver/nlopt) plugs in behind this
// interface; the mapper only ever speaks to it through this interface.
package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/maltewi/slam3d/posegraph"
	"github.com/maltewi/slam3d/spatialmath"
)

// Correction is one node's corrected pose, as returned by Solver.GetCorrections.
type Correction struct {
	ID        posegraph.NodeID
	Transform spatialmath.Pose
}

// Solver is fed the pose graph incrementally as nodes and constraints are added, and produces
// corrected poses on demand.
type Solver interface {
	// AddNode makes a node with the given initial pose known to the solver.
	AddNode(id posegraph.NodeID, pose spatialmath.Pose) error
	// AddConstraint adds an edge constraint between two nodes already known to the solver.
	AddConstraint(sourceID, targetID posegraph.NodeID, transform spatialmath.Pose, covariance *mat.SymDense) error
	// SetFixed pins a node's pose, anchoring the otherwise-free global frame of the optimization.
	SetFixed(id posegraph.NodeID) error
	// Compute runs the optimization. It returns false if the solver failed to converge; in that
	// case no corrections should be applied.
	Compute() (bool, error)
	// GetCorrections returns the corrected pose for every node the solver knows about.
	GetCorrections() ([]Correction, error)
}
