// Package graphviz renders a pose graph snapshot to a GraphViz .dot file for visual inspection.
// It is debug output only: nothing in the core reads back what it writes.
package graphviz

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"

	"github.com/maltewi/slam3d/posegraph"
)

// Writer renders a posegraph.Graph to a GraphViz-format file. It implements mapper.GraphWriter.
type Writer struct{}

// New returns a Writer.
func New() *Writer {
	return &Writer{}
}

// WriteGraph renders g to path in GraphViz XDOT format (DOT with layout annotations): one node per
// graph node, labeled with its id, sensor name and corrected position, and one edge per graph
// edge, labeled with its sensor and label tag.
func (w *Writer) WriteGraph(g *posegraph.Graph, path string) error {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return errors.Wrap(err, "graphviz: init")
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return errors.Wrap(err, "graphviz: create graph")
	}
	defer graph.Close()

	nodesByID := make(map[posegraph.NodeID]*cgraph.Node)
	for _, n := range g.Nodes() {
		gvNode, err := graph.CreateNodeByName(fmt.Sprintf("n%d", n.ID()))
		if err != nil {
			return errors.Wrapf(err, "graphviz: create node %d", n.ID())
		}
		p := n.CorrectedPose().Point()
		gvNode.SetLabel(fmt.Sprintf("#%d [%s]\\n(%.2f, %.2f, %.2f)", n.ID(), n.SensorName(), p.X, p.Y, p.Z))
		nodesByID[n.ID()] = gvNode
	}

	for i, e := range g.Edges() {
		src, ok := nodesByID[e.SourceID()]
		if !ok {
			continue
		}
		dst, ok := nodesByID[e.TargetID()]
		if !ok {
			continue
		}
		gvEdge, err := graph.CreateEdgeByName(fmt.Sprintf("e%d", i), src, dst)
		if err != nil {
			return errors.Wrapf(err, "graphviz: create edge %d", i)
		}
		gvEdge.SetLabel(fmt.Sprintf("%s/%s", e.Sensor(), e.Label()))
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "graphviz: create file %q", path)
	}
	defer f.Close()

	if err := gv.Render(ctx, graph, graphviz.XDOT, f); err != nil {
		return errors.Wrapf(err, "graphviz: render %q", path)
	}
	return nil
}
