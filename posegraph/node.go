// Package posegraph implements the pose graph store: nodes tagged with sensor measurements,
// connected by rigid-transform edges. The graph stores nodes and edges in slices of pointers.
// Edges and the spatial index refer to nodes by plain NodeID resolved back against the graph, so
// there are no reference cycles; the mapper keeps *Node pointers to its first and last nodes, and
// solver write-back updates a node in place through SetCorrectedPose.
package posegraph

import (
	"github.com/maltewi/slam3d/measurement"
	"github.com/maltewi/slam3d/spatialmath"
)

// NodeID uniquely identifies a Node within a Graph. IDs are assigned in strictly increasing
// insertion order and are never reused.
type NodeID uint64

// Node is a historical robot pose tagged with the sensor measurement that produced it.
type Node struct {
	id            NodeID
	measurement   measurement.Measurement
	odometricPose spatialmath.Pose
	correctedPose spatialmath.Pose
}

// ID returns the node's unique identifier.
func (n *Node) ID() NodeID { return n.id }

// Measurement returns the measurement that this node was created from. The graph owns this
// measurement for the lifetime of the node.
func (n *Node) Measurement() measurement.Measurement { return n.measurement }

// OdometricPose returns the raw odometric pose recorded at capture time.
func (n *Node) OdometricPose() spatialmath.Pose { return n.odometricPose }

// CorrectedPose returns the node's current best estimate of its pose in the map frame.
func (n *Node) CorrectedPose() spatialmath.Pose { return n.correctedPose }

// SetCorrectedPose overwrites the node's corrected pose. Reserved for initial insertion, solver
// write-back, and external registration; nothing else should call this.
func (n *Node) SetCorrectedPose(pose spatialmath.Pose) { n.correctedPose = pose }

// RobotName returns the name of the robot that produced this node's measurement.
func (n *Node) RobotName() string { return n.measurement.RobotName() }

// SensorName returns the name of the sensor that produced this node's measurement.
func (n *Node) SensorName() string { return n.measurement.SensorName() }
