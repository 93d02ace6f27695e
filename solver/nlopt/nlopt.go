//go:build !windows && !no_cgo

// Package nlopt implements solver.Solver on top of go-nlopt's SLSQP optimizer: it minimizes the
// sum of covariance-weighted squared residuals between every edge's measured transform and the
// relative transform implied by its endpoints' current pose estimates, holding fixed nodes'
// parameters clamped to their initial value via equal bounds.
package nlopt

import (
	"sync"

	nl "github.com/go-nlopt/nlopt"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/maltewi/slam3d/logging"
	"github.com/maltewi/slam3d/posegraph"
	"github.com/maltewi/slam3d/solver"
	"github.com/maltewi/slam3d/spatialmath"

	"gonum.org/v1/gonum/mat"
)

// dofPerNode is the number of free parameters per node: 3 translation + 3 axis-angle.
const dofPerNode = 6

var errNoSolve = errors.New("nlopt: optimizer did not converge on a solution")

type constraint struct {
	sourceID, targetID posegraph.NodeID
	transform          spatialmath.Pose
	covariance         *mat.SymDense
}

// Solver is a solver.Solver backed by go-nlopt's SLSQP local optimizer.
type Solver struct {
	mu sync.Mutex

	logger logging.Logger

	order    []posegraph.NodeID
	index    map[posegraph.NodeID]int
	poses    []spatialmath.Pose
	fixed    map[posegraph.NodeID]bool
	edges    []constraint

	maxEval int
	epsilon float64
}

// New returns an empty Solver.
func New(logger logging.Logger) *Solver {
	if logger == nil {
		logger = logging.NewLogger("nlopt-solver")
	}
	return &Solver{
		logger:  logger,
		index:   make(map[posegraph.NodeID]int),
		fixed:   make(map[posegraph.NodeID]bool),
		maxEval: 2000,
		epsilon: 1e-8,
	}
}

// AddNode registers a node's initial pose estimate as a free parameter block.
func (s *Solver) AddNode(id posegraph.NodeID, pose spatialmath.Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.index[id]; exists {
		return nil
	}
	s.index[id] = len(s.order)
	s.order = append(s.order, id)
	s.poses = append(s.poses, pose)
	return nil
}

// AddConstraint adds an edge residual between two nodes already known to the solver.
func (s *Solver) AddConstraint(sourceID, targetID posegraph.NodeID, transform spatialmath.Pose, covariance *mat.SymDense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[sourceID]; !ok {
		return errors.Errorf("nlopt: unknown source node %d", sourceID)
	}
	if _, ok := s.index[targetID]; !ok {
		return errors.Errorf("nlopt: unknown target node %d", targetID)
	}
	if covariance == nil {
		covariance = posegraph.IdentityCovariance()
	}
	s.edges = append(s.edges, constraint{sourceID: sourceID, targetID: targetID, transform: transform, covariance: covariance})
	return nil
}

// SetFixed pins a node's pose so the optimizer treats its parameters as constants.
func (s *Solver) SetFixed(id posegraph.NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[id]; !ok {
		return errors.Errorf("nlopt: unknown node %d", id)
	}
	s.fixed[id] = true
	return nil
}

// Compute runs SLSQP to local convergence, mutating this Solver's internal pose estimates.
func (s *Solver) Compute() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.order)
	if n == 0 {
		return true, nil
	}

	x := make([]float64, n*dofPerNode)
	lower := make([]float64, n*dofPerNode)
	upper := make([]float64, n*dofPerNode)
	for i, id := range s.order {
		packPose(x[i*dofPerNode:], s.poses[i])
		if s.fixed[id] {
			copy(lower[i*dofPerNode:i*dofPerNode+dofPerNode], x[i*dofPerNode:i*dofPerNode+dofPerNode])
			copy(upper[i*dofPerNode:i*dofPerNode+dofPerNode], x[i*dofPerNode:i*dofPerNode+dofPerNode])
		} else {
			for d := 0; d < dofPerNode; d++ {
				lower[i*dofPerNode+d] = x[i*dofPerNode+d] - 1e6
				upper[i*dofPerNode+d] = x[i*dofPerNode+d] + 1e6
			}
		}
	}

	opt, err := nl.NewNLopt(nl.LD_SLSQP, uint(n*dofPerNode))
	if err != nil {
		return false, errors.Wrap(err, "nlopt: create optimizer")
	}
	defer opt.Destroy()

	objective := func(params, gradient []float64) float64 {
		return s.residualSumSquares(params, gradient)
	}

	if err := multierr.Combine(
		opt.SetLowerBounds(lower),
		opt.SetUpperBounds(upper),
		opt.SetMinObjective(objective),
		opt.SetFtolRel(s.epsilon),
		opt.SetXtolRel(s.epsilon),
		opt.SetMaxEval(s.maxEval),
	); err != nil {
		return false, errors.Wrap(err, "nlopt: configure optimizer")
	}

	solution, _, optErr := opt.Optimize(x)
	if optErr != nil {
		s.logger.Warnw("nlopt: optimize failed", "error", optErr)
		return false, nil
	}
	if len(solution) != len(x) {
		return false, errNoSolve
	}

	for i := range s.order {
		s.poses[i] = unpackPose(solution[i*dofPerNode:])
	}
	return true, nil
}

// GetCorrections returns every node's optimized pose.
func (s *Solver) GetCorrections() ([]solver.Correction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]solver.Correction, len(s.order))
	for i, id := range s.order {
		out[i] = solver.Correction{ID: id, Transform: s.poses[i]}
	}
	return out, nil
}

// residualSumSquares evaluates the covariance-weighted sum of squared edge residuals at params,
// and fills gradient via forward finite differences when non-empty (nlopt leaves it empty on
// gradient-free evaluations, e.g. its internal line search probes).
func (s *Solver) residualSumSquares(params, gradient []float64) float64 {
	poses := make([]spatialmath.Pose, len(s.order))
	for i := range s.order {
		poses[i] = unpackPose(params[i*dofPerNode:])
	}

	cost := s.cost(poses)

	if len(gradient) == 0 {
		return cost
	}
	const step = 1e-6
	for i := range gradient {
		orig := params[i]
		params[i] = orig + step
		for j := range s.order {
			poses[j] = unpackPose(params[j*dofPerNode:])
		}
		costPlus := s.cost(poses)
		params[i] = orig
		for j := range s.order {
			poses[j] = unpackPose(params[j*dofPerNode:])
		}
		gradient[i] = (costPlus - cost) / step
	}
	return cost
}

func (s *Solver) cost(poses []spatialmath.Pose) float64 {
	total := 0.0
	for _, e := range s.edges {
		si, ti := s.index[e.sourceID], s.index[e.targetID]
		predicted := spatialmath.PoseDelta(poses[si], poses[ti])
		residual := spatialmath.PoseDelta(e.transform, predicted)

		t := residual.Point()
		r := residual.Orientation().AxisAngles().ToR3()

		wt := diagWeight(e.covariance, 0)
		wr := diagWeight(e.covariance, 3)
		total += wt * (t.X*t.X + t.Y*t.Y + t.Z*t.Z)
		total += wr * (r.X*r.X + r.Y*r.Y + r.Z*r.Z)
	}
	return total
}

func diagWeight(cov *mat.SymDense, offset int) float64 {
	v := cov.At(offset, offset) + cov.At(offset+1, offset+1) + cov.At(offset+2, offset+2)
	if v <= 0 {
		return 1
	}
	return 1 / v
}

func packPose(dst []float64, p spatialmath.Pose) {
	pt := p.Point()
	dst[0], dst[1], dst[2] = pt.X, pt.Y, pt.Z
	aa := p.Orientation().AxisAngles().ToR3()
	dst[3], dst[4], dst[5] = aa.X, aa.Y, aa.Z
}

func unpackPose(src []float64) spatialmath.Pose {
	pt := r3.Vector{X: src[0], Y: src[1], Z: src[2]}
	aa := r3.Vector{X: src[3], Y: src[4], Z: src[5]}
	orientation := spatialmath.R3ToR4(aa)
	return spatialmath.NewPose(pt, orientation)
}
