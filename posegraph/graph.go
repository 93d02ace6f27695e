package posegraph

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/maltewi/slam3d/measurement"
	"github.com/maltewi/slam3d/spatialmath"
)

// ErrUnknownNode is returned when an edge references a node id the graph does not contain.
var ErrUnknownNode = errors.New("posegraph: unknown node id")

// ErrSelfLoop is returned when an edge's source and target are the same node.
var ErrSelfLoop = errors.New("posegraph: self-loop edges are forbidden")

// Graph is a typed, append-only container of Nodes and Edges. Nodes and edges are stored in
// slices of pointers, and every cross-reference (an edge's endpoints, the incidence index)
// is a NodeID resolved back through the graph rather than a pointer or shared handle. Node
// iteration preserves insertion order and node lookup by id is O(1).
type Graph struct {
	nodes    []*Node
	nodeIdx  map[NodeID]int
	edges    []*Edge
	incident map[NodeID][]int
	nextID   NodeID
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodeIdx:  make(map[NodeID]int),
		incident: make(map[NodeID][]int),
	}
}

// AddNode creates a new Node from the given measurement and poses, assigns it the next id, and
// appends it to the graph.
func (g *Graph) AddNode(m measurement.Measurement, odometricPose, correctedPose spatialmath.Pose) *Node {
	n := &Node{
		id:            g.nextID,
		measurement:   m,
		odometricPose: odometricPose,
		correctedPose: correctedPose,
	}
	g.nextID++
	g.nodeIdx[n.id] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n
}

// AddEdge inserts a new edge between two existing nodes. It fails if either endpoint is unknown
// or if source and target are the same node.
func (g *Graph) AddEdge(
	sourceID, targetID NodeID,
	transform spatialmath.Pose,
	covariance *mat.SymDense,
	sensor, label string,
) (*Edge, error) {
	if sourceID == targetID {
		return nil, ErrSelfLoop
	}
	if _, ok := g.nodeIdx[sourceID]; !ok {
		return nil, errors.Wrapf(ErrUnknownNode, "source id %d", sourceID)
	}
	if _, ok := g.nodeIdx[targetID]; !ok {
		return nil, errors.Wrapf(ErrUnknownNode, "target id %d", targetID)
	}

	cov := covariance
	if cov == nil {
		cov = IdentityCovariance()
	}

	e := &Edge{
		sourceID:   sourceID,
		targetID:   targetID,
		transform:  transform,
		covariance: cov,
		sensor:     sensor,
		label:      label,
	}
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.incident[sourceID] = append(g.incident[sourceID], idx)
	g.incident[targetID] = append(g.incident[targetID], idx)
	return e, nil
}

// Node returns the node with the given id, if present.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	idx, ok := g.nodeIdx[id]
	if !ok {
		return nil, false
	}
	return g.nodes[idx], true
}

// EdgesOf returns every edge incident to the given node, in either direction, in insertion order.
func (g *Graph) EdgesOf(id NodeID) []*Edge {
	idxs := g.incident[id]
	out := make([]*Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// Nodes returns every node in the graph, in insertion order. The returned slice is a snapshot and
// safe for the caller to keep, though the *Node values it contains remain live references into
// the graph.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns every edge in the graph, in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes currently in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges currently in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }
