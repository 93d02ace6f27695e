package sensor

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/maltewi/slam3d/measurement"
	"github.com/maltewi/slam3d/spatialmath"
)

type fakeSensor struct {
	name string
}

func (f *fakeSensor) Name() string { return f.name }

func (f *fakeSensor) CalculateTransform(context.Context, measurement.Measurement, measurement.Measurement, spatialmath.Pose) (Result, error) {
	return Result{}, nil
}

func TestRegistryResolvesRegisteredSensor(t *testing.T) {
	r := NewRegistry()
	s := &fakeSensor{name: "lidar"}
	test.That(t, r.Register(s), test.ShouldBeNil)

	got, ok := r.Resolve("lidar")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got.Name(), test.ShouldEqual, "lidar")
}

func TestRegistryResolveUnknownSensor(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Resolve("missing")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	test.That(t, r.Register(&fakeSensor{name: "lidar"}), test.ShouldBeNil)
	err := r.Register(&fakeSensor{name: "lidar"})
	test.That(t, err, test.ShouldNotBeNil)
}
