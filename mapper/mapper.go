// Package mapper implements the orchestrating state machine of the SLAM back-end: it ingests
// sensor readings, decides when a reading becomes a graph node, drives scan-to-scan and
// loop-closure registration, feeds a pluggable solver, and writes optimized poses back onto the
// graph. Everything it touches - the graph, the spatial index, the collaborator interfaces - is
// owned or referenced by the mapper alone; callers serialize their own access to it.
package mapper

import (
	"context"

	"github.com/pkg/errors"

	"github.com/maltewi/slam3d/logging"
	"github.com/maltewi/slam3d/measurement"
	"github.com/maltewi/slam3d/odometry"
	"github.com/maltewi/slam3d/posegraph"
	"github.com/maltewi/slam3d/sensor"
	"github.com/maltewi/slam3d/solver"
	"github.com/maltewi/slam3d/spatialindex"
	"github.com/maltewi/slam3d/spatialmath"
)

// ErrUnknownSensor is returned when a reading names a sensor that was never registered.
var ErrUnknownSensor = errors.New("mapper: unknown sensor")

// ErrNoSolver is returned by Optimize when no solver has been configured.
var ErrNoSolver = errors.New("mapper: no solver configured")

// GraphWriter renders a snapshot of the pose graph to path in some visualization-friendly format.
// It is debug output only, never part of a durability contract.
type GraphWriter interface {
	WriteGraph(g *posegraph.Graph, path string) error
}

// Mapper is the pose-graph controller: the single entry point through which readings are turned
// into graph state and the solver is driven.
type Mapper struct {
	cfg     Config
	logger  logging.Logger
	graph   *posegraph.Graph
	index   *spatialindex.Index
	sensors *sensor.Registry

	odometrySource odometry.Source
	slvr           solver.Solver
	writer         GraphWriter

	firstNode *posegraph.Node
	lastNode  *posegraph.Node

	lastOdometricPose spatialmath.Pose
	currentPose       spatialmath.Pose
}

// New returns an empty Mapper ready to accept readings.
func New(cfg Config, logger logging.Logger) *Mapper {
	if logger == nil {
		logger = logging.NewLogger("mapper")
	}
	return &Mapper{
		cfg:         cfg,
		logger:      logger,
		graph:       posegraph.New(),
		index:       spatialindex.New(),
		sensors:     sensor.NewRegistry(),
		currentPose: spatialmath.NewZeroPose(),
	}
}

// RegisterSensor makes s available to name-resolve incoming readings against.
func (m *Mapper) RegisterSensor(s sensor.Sensor) error {
	return m.sensors.Register(s)
}

// SetOdometry configures the odometry source consulted on every addReading call. A nil source
// disables odometry entirely: the odometric distance gate and odometry edges are skipped, and
// registration guesses fall back to the mapper's running current_pose estimate.
func (m *Mapper) SetOdometry(src odometry.Source) {
	m.odometrySource = src
}

// SetSolver configures the non-linear solver driven by Optimize.
func (m *Mapper) SetSolver(s solver.Solver) {
	m.slvr = s
}

// SetGraphWriter configures the collaborator used by WriteGraphToFile.
func (m *Mapper) SetGraphWriter(w GraphWriter) {
	m.writer = w
}

// Graph returns the underlying pose graph. Callers must not mutate it directly.
func (m *Mapper) Graph() *posegraph.Graph {
	return m.graph
}

// CurrentPose returns the running best estimate of the robot's pose in the map frame.
func (m *Mapper) CurrentPose() spatialmath.Pose {
	return m.currentPose
}

// AddReading is the core state machine described in the mapper's design: it decides whether m
// becomes a new node, drives sequential and loop-closure registration, and advances the mapper's
// running pose estimate. It returns false, with no graph mutation, whenever the reading is
// rejected outright (unknown sensor, odometry unavailable, bad measurement type, no-match with no
// odometry fallback, or the distance gate).
func (m *Mapper) AddReading(ctx context.Context, meas measurement.Measurement) (bool, error) {
	s, ok := m.sensors.Resolve(meas.SensorName())
	if !ok {
		m.logger.Errorw("addReading: unknown sensor", "sensor", meas.SensorName())
		return false, errors.Wrapf(ErrUnknownSensor, "%q", meas.SensorName())
	}

	var odometricPose spatialmath.Pose
	haveOdometry := false
	if m.odometrySource != nil {
		pose, err := m.odometrySource.GetOdometricPose(ctx, meas.Timestamp())
		if err != nil {
			m.logger.Errorw("addReading: odometry unavailable", "error", err)
			return false, errors.Wrap(err, "addReading: odometry unavailable")
		}
		odometricPose = pose
		haveOdometry = true
	}

	// First-node shortcut: the very first reading is always accepted and pins the gauge.
	if m.lastNode == nil {
		node := m.graph.AddNode(meas, odometricPose, m.currentPose)
		m.firstNode = node
		m.lastNode = node
		m.lastOdometricPose = odometricPose
		if m.slvr != nil {
			if err := m.slvr.AddNode(node.ID(), node.CorrectedPose()); err != nil {
				return false, errors.Wrap(err, "addReading: solver.AddNode")
			}
			if err := m.slvr.SetFixed(node.ID()); err != nil {
				return false, errors.Wrap(err, "addReading: solver.SetFixed")
			}
		}
		m.logger.Debugw("addReading: first node inserted", "id", node.ID())
		return true, nil
	}

	// The odometric distance gate and the odometry-edge insertion only apply when an odometry
	// source is actually configured; without one, current_pose stays at its last known value
	// and registration proceeds straight off that, deferring the distance gate to the
	// sequential registration's own result below.
	provisionalPose := m.currentPose

	var newNode *posegraph.Node
	if haveOdometry {
		delta := spatialmath.ComposeClean(spatialmath.Invert(m.lastOdometricPose), odometricPose)
		if !spatialmath.CheckMinDistance(delta, m.cfg.MinTranslation, m.cfg.MinRotation) {
			m.logger.Debugw("addReading: rejected by distance gate")
			return false, nil
		}

		provisionalPose = spatialmath.Compose(m.lastNode.CorrectedPose(), delta)

		if m.cfg.AddOdometryEdges {
			odomPose := spatialmath.Orthogonalize(provisionalPose)
			newNode = m.graph.AddNode(meas, odometricPose, odomPose)
			if _, err := m.graph.AddEdge(m.lastNode.ID(), newNode.ID(), delta, posegraph.IdentityCovariance(), "Odometry", "odom"); err != nil {
				return false, errors.Wrap(err, "addReading: add odometry edge")
			}
			if m.slvr != nil {
				if err := m.slvr.AddNode(newNode.ID(), newNode.CorrectedPose()); err != nil {
					return false, errors.Wrap(err, "addReading: solver.AddNode")
				}
				if err := m.slvr.AddConstraint(m.lastNode.ID(), newNode.ID(), delta, posegraph.IdentityCovariance()); err != nil {
					return false, errors.Wrap(err, "addReading: solver.AddConstraint")
				}
			}
			m.currentPose = odomPose
		}
	}

	guess := spatialmath.PoseDelta(m.lastNode.CorrectedPose(), provisionalPose)
	result, err := s.CalculateTransform(ctx, m.lastNode.Measurement(), meas, guess)
	switch {
	case err == nil:
		m.currentPose = spatialmath.ComposeClean(m.lastNode.CorrectedPose(), result.Transform)
		if newNode == nil {
			if !spatialmath.CheckMinDistance(result.Transform, m.cfg.MinTranslation, m.cfg.MinRotation) {
				m.logger.Debugw("addReading: sequential transform rejected by distance gate")
				return false, nil
			}
			newNode = m.graph.AddNode(meas, odometricPose, m.currentPose)
			if m.slvr != nil {
				if err := m.slvr.AddNode(newNode.ID(), newNode.CorrectedPose()); err != nil {
					return false, errors.Wrap(err, "addReading: solver.AddNode")
				}
			}
		}
		if _, err := m.graph.AddEdge(m.lastNode.ID(), newNode.ID(), result.Transform, result.Covariance, s.Name(), "seq"); err != nil {
			return false, errors.Wrap(err, "addReading: add sequential edge")
		}
		if m.slvr != nil {
			if err := m.slvr.AddConstraint(m.lastNode.ID(), newNode.ID(), result.Transform, result.Covariance); err != nil {
				return false, errors.Wrap(err, "addReading: solver.AddConstraint")
			}
		}
	case errors.Is(err, sensor.ErrNoMatch):
		if newNode == nil {
			m.logger.Warnw("addReading: no match and no odometry fallback", "sensor", s.Name())
			return false, nil
		}
		m.logger.Warnw("addReading: no match, keeping odometry-only node", "sensor", s.Name())
	default:
		m.logger.Errorw("addReading: registration failed", "error", err)
		return false, errors.Wrap(err, "addReading: registration")
	}

	m.linkNeighbors(ctx, s, newNode)

	m.lastNode = newNode
	m.lastOdometricPose = odometricPose
	return true, nil
}

// AddExternalReading inserts a node at the caller-supplied pose - for readings whose absolute
// pose is already known, e.g. from another agent - and attempts neighborhood linking. It never
// mutates last_node or current_pose.
func (m *Mapper) AddExternalReading(ctx context.Context, meas measurement.Measurement, pose spatialmath.Pose) (*posegraph.Node, error) {
	s, ok := m.sensors.Resolve(meas.SensorName())
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSensor, "%q", meas.SensorName())
	}

	node := m.graph.AddNode(meas, pose, spatialmath.Orthogonalize(pose))
	if m.slvr != nil {
		if err := m.slvr.AddNode(node.ID(), node.CorrectedPose()); err != nil {
			return nil, errors.Wrap(err, "addExternalReading: solver.AddNode")
		}
	}
	m.linkNeighbors(ctx, s, node)
	return node, nil
}

// linkNeighbors rebuilds the spatial index over every node sharing newNode's sensor, then attempts
// registration against up to MaxNeighborLinks nearby candidates, skipping newNode itself and any
// node already linked to it by an edge from this same sensor.
func (m *Mapper) linkNeighbors(ctx context.Context, s sensor.Sensor, newNode *posegraph.Node) {
	if m.cfg.MaxNeighborLinks <= 0 {
		m.index.Build(m.nodesFromSensor(s.Name()))
		return
	}

	m.index.Build(m.nodesFromSensor(s.Name()))
	candidates := m.index.RadiusSearch(newNode.CorrectedPose().Point(), m.cfg.NeighborRadius)

	alreadyLinked := make(map[posegraph.NodeID]bool)
	for _, e := range m.graph.EdgesOf(newNode.ID()) {
		if e.Sensor() != s.Name() {
			continue
		}
		alreadyLinked[e.SourceID()] = true
		alreadyLinked[e.TargetID()] = true
	}

	attempts := 0
	for _, candidateID := range candidates {
		if attempts >= m.cfg.MaxNeighborLinks {
			break
		}
		if candidateID == newNode.ID() || alreadyLinked[candidateID] {
			continue
		}
		candidate, ok := m.graph.Node(candidateID)
		if !ok {
			continue
		}
		attempts++

		guess := spatialmath.PoseDelta(candidate.CorrectedPose(), newNode.CorrectedPose())
		result, err := s.CalculateTransform(ctx, candidate.Measurement(), newNode.Measurement(), guess)
		if err != nil {
			if errors.Is(err, sensor.ErrNoMatch) {
				continue
			}
			m.logger.Errorw("linkNeighbors: registration failed", "error", err)
			continue
		}

		if _, err := m.graph.AddEdge(candidate.ID(), newNode.ID(), result.Transform, result.Covariance, s.Name(), "match"); err != nil {
			m.logger.Errorw("linkNeighbors: add edge failed", "error", err)
			continue
		}
		if m.slvr != nil {
			if err := m.slvr.AddConstraint(candidate.ID(), newNode.ID(), result.Transform, result.Covariance); err != nil {
				m.logger.Errorw("linkNeighbors: solver.AddConstraint failed", "error", err)
			}
		}
	}
}

// Optimize invokes the configured solver and writes corrected poses back onto the graph. It fails
// fast if no solver is configured, and leaves every node's pose untouched if the solver does not
// converge.
func (m *Mapper) Optimize(ctx context.Context) (bool, error) {
	if m.slvr == nil {
		m.logger.Errorw("optimize: no solver configured")
		return false, ErrNoSolver
	}

	ok, err := m.slvr.Compute()
	if err != nil {
		return false, errors.Wrap(err, "optimize: solver.Compute")
	}
	if !ok {
		m.logger.Warnw("optimize: solver did not converge")
		return false, nil
	}

	corrections, err := m.slvr.GetCorrections()
	if err != nil {
		return false, errors.Wrap(err, "optimize: solver.GetCorrections")
	}
	for _, c := range corrections {
		node, ok := m.graph.Node(c.ID)
		if !ok {
			continue
		}
		node.SetCorrectedPose(c.Transform)
	}

	if m.lastNode != nil {
		m.currentPose = m.lastNode.CorrectedPose()
	}
	return true, nil
}

// VerticesFromSensor returns every node whose measurement came from the named sensor, in
// insertion order.
func (m *Mapper) VerticesFromSensor(name string) []*posegraph.Node {
	return m.nodesFromSensor(name)
}

func (m *Mapper) nodesFromSensor(name string) []*posegraph.Node {
	var out []*posegraph.Node
	for _, n := range m.graph.Nodes() {
		if n.SensorName() == name {
			out = append(out, n)
		}
	}
	return out
}

// EdgesFromSensor returns every edge produced by the named sensor, in insertion order.
func (m *Mapper) EdgesFromSensor(name string) []*posegraph.Edge {
	var out []*posegraph.Edge
	for _, e := range m.graph.Edges() {
		if e.Sensor() == name {
			out = append(out, e)
		}
	}
	return out
}

// WriteGraphToFile renders the current graph to path via the configured GraphWriter. It fails if
// no writer has been configured.
func (m *Mapper) WriteGraphToFile(path string) error {
	if m.writer == nil {
		return errors.New("mapper: no graph writer configured")
	}
	return m.writer.WriteGraph(m.graph, path)
}
