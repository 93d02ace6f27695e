//go:build windows || no_cgo

package nlopt

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/maltewi/slam3d/logging"
	"github.com/maltewi/slam3d/posegraph"
	"github.com/maltewi/slam3d/solver"
	"github.com/maltewi/slam3d/spatialmath"
)

var errUnsupported = errors.New("nlopt: not supported on this build (windows or no_cgo)")

// Solver mimics the cgo-backed type's shape so callers can still reference nlopt.Solver, but
// every method fails: go-nlopt requires cgo and an installed NLopt library.
type Solver struct{}

// New returns a Solver that refuses to solve anything.
func New(logger logging.Logger) *Solver {
	return &Solver{}
}

// AddNode always fails on this build.
func (s *Solver) AddNode(id posegraph.NodeID, pose spatialmath.Pose) error {
	return errUnsupported
}

// AddConstraint always fails on this build.
func (s *Solver) AddConstraint(sourceID, targetID posegraph.NodeID, transform spatialmath.Pose, covariance *mat.SymDense) error {
	return errUnsupported
}

// SetFixed always fails on this build.
func (s *Solver) SetFixed(id posegraph.NodeID) error {
	return errUnsupported
}

// Compute always fails on this build.
func (s *Solver) Compute() (bool, error) {
	return false, errUnsupported
}

// GetCorrections always fails on this build.
func (s *Solver) GetCorrections() ([]solver.Correction, error) {
	return nil, errUnsupported
}
