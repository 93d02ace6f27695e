package spatialindex

import (
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/maltewi/slam3d/measurement"
	"github.com/maltewi/slam3d/posegraph"
	"github.com/maltewi/slam3d/spatialmath"
)

type stubMeasurement struct {
	measurement.Base
}

func nodeAt(g *posegraph.Graph, p r3.Vector) *posegraph.Node {
	m := stubMeasurement{Base: measurement.NewBase(time.Now(), "robot", "lidar")}
	return g.AddNode(m, spatialmath.NewZeroPose(), spatialmath.NewPoseFromPoint(p))
}

func TestRadiusSearchOnUnbuiltIndexReturnsEmpty(t *testing.T) {
	idx := New()
	result := idx.RadiusSearch(r3.Vector{}, 1.0)
	test.That(t, len(result), test.ShouldEqual, 0)
}

func TestRadiusSearchFindsOwnPosition(t *testing.T) {
	g := posegraph.New()
	n := nodeAt(g, r3.Vector{X: 1, Y: 1})
	idx := New()
	idx.Build(g.Nodes())

	result := idx.RadiusSearch(r3.Vector{X: 1, Y: 1}, 0.5)
	test.That(t, len(result), test.ShouldEqual, 1)
	test.That(t, result[0], test.ShouldEqual, n.ID())
}

func TestRadiusSearchExcludesFarNodes(t *testing.T) {
	g := posegraph.New()
	nodeAt(g, r3.Vector{})
	far := nodeAt(g, r3.Vector{X: 100})
	idx := New()
	idx.Build(g.Nodes())

	result := idx.RadiusSearch(r3.Vector{}, 1.0)
	for _, id := range result {
		test.That(t, id, test.ShouldNotEqual, far.ID())
	}
}

func TestBuildOnEmptyNodeListIsSafe(t *testing.T) {
	idx := New()
	idx.Build(nil)
	result := idx.RadiusSearch(r3.Vector{}, 1.0)
	test.That(t, len(result), test.ShouldEqual, 0)
}
