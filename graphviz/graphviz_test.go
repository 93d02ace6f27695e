package graphviz

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/maltewi/slam3d/measurement"
	"github.com/maltewi/slam3d/posegraph"
	"github.com/maltewi/slam3d/spatialmath"
)

type stubMeasurement struct {
	measurement.Base
}

func TestWriteGraphProducesFile(t *testing.T) {
	g := posegraph.New()
	m1 := stubMeasurement{Base: measurement.NewBase(time.Now(), "robot", "lidar")}
	m2 := stubMeasurement{Base: measurement.NewBase(time.Now(), "robot", "lidar")}
	n1 := g.AddNode(m1, spatialmath.NewZeroPose(), spatialmath.NewZeroPose())
	n2 := g.AddNode(m2, spatialmath.NewZeroPose(), spatialmath.NewZeroPose())
	_, err := g.AddEdge(n1.ID(), n2.ID(), spatialmath.NewZeroPose(), posegraph.IdentityCovariance(), "lidar", "seq")
	test.That(t, err, test.ShouldBeNil)

	dir := t.TempDir()
	path := filepath.Join(dir, "graph.dot")

	w := New()
	err = w.WriteGraph(g, path)
	test.That(t, err, test.ShouldBeNil)
	_, statErr := os.Stat(path)
	test.That(t, statErr, test.ShouldBeNil)
}
