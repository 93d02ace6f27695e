// Package sensor defines the registration collaborator consumed by the mapper: something that,
// given two measurements from the same sensor and a seed guess, produces a rigid-transform
// constraint between them. The concrete registration algorithm (ICP, feature matching, whatever a
// given sensor uses) lives outside this module; this package only defines the interface and the
// registry that resolves a measurement's sensor name to an implementation.
package sensor

import (
	"context"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/maltewi/slam3d/measurement"
	"github.com/maltewi/slam3d/spatialmath"
)

// ErrBadMeasurementType is returned when a measurement's concrete type is incompatible with the
// sensor asked to register it. In the original C++, this was a failed dynamic_cast; here it is the
// explicit result of a Go type assertion inside the sensor's own CalculateTransform.
var ErrBadMeasurementType = errors.New("sensor: measurement type is incompatible with this sensor")

// ErrNoMatch is returned when registration ran but did not converge to an acceptable answer, or
// produced a numerically degenerate (non-finite) transform. It is not fatal to a reading: the
// mapper falls back to an odometry-only node when one is available.
var ErrNoMatch = errors.New("sensor: registration did not converge")

// Result is the outcome of a successful registration.
type Result struct {
	// Transform is guess composed with the refinement registration found: the full source->target
	// pose, not just the refinement.
	Transform spatialmath.Pose
	// Covariance is the 6x6 uncertainty of Transform.
	Covariance *mat.SymDense
}

// Sensor computes rigid-transform constraints between two measurements it produced.
//
// Implementations seed their alignment by transforming the source data by guess before aligning,
// then return guess composed with the refinement found, so the result is always expressed as a
// full source->target pose regardless of how the guess was used internally.
type Sensor interface {
	// Name returns the unique name this sensor is registered under.
	Name() string
	// CalculateTransform aligns source to target, seeded by guess. It fails with
	// ErrBadMeasurementType if either measurement is not of the type this sensor produces, or
	// ErrNoMatch if alignment did not converge or produced a non-finite transform.
	CalculateTransform(ctx context.Context, source, target measurement.Measurement, guess spatialmath.Pose) (Result, error)
}

// Registry resolves a measurement's sensor name to its registered Sensor.
type Registry struct {
	sensors map[string]Sensor
}

// NewRegistry returns an empty sensor Registry.
func NewRegistry() *Registry {
	return &Registry{sensors: make(map[string]Sensor)}
}

// Register adds s under its own name. It fails if a sensor with that name is already registered.
func (r *Registry) Register(s Sensor) error {
	if _, exists := r.sensors[s.Name()]; exists {
		return errors.Errorf("sensor: %q is already registered", s.Name())
	}
	r.sensors[s.Name()] = s
	return nil
}

// Resolve looks up a sensor by name.
func (r *Registry) Resolve(name string) (Sensor, bool) {
	s, ok := r.sensors[name]
	return s, ok
}
