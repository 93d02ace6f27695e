// Package pointcloudsensor is a demonstration sensor.Sensor backed by centroid-alignment of raw
// point sets, standing in for the real scan-registration algorithm (GICP, feature matching, etc.)
// that a production deployment would plug in instead. It exists to exercise sensor.Registry,
// mapper.Mapper's registration path, and BadMeasurementType/NoMatch handling end to end without
// depending on a real point-cloud registration library.
package pointcloudsensor

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/maltewi/slam3d/measurement"
	"github.com/maltewi/slam3d/posegraph"
	"github.com/maltewi/slam3d/sensor"
	"github.com/maltewi/slam3d/spatialmath"
)

// Measurement is a Measurement whose payload is a raw point set in the sensor's own frame.
type Measurement struct {
	measurement.Base
	Points []r3.Vector
}

// NewMeasurement wraps points into a Measurement tagged with the given identity.
func NewMeasurement(base measurement.Base, points []r3.Vector) Measurement {
	return Measurement{Base: base, Points: points}
}

// Config tunes the demonstration alignment.
type Config struct {
	// MinPoints is the minimum point count either scan must have to attempt alignment.
	MinPoints int
	// MaxFitness, when positive, rejects an alignment whose mean post-alignment distance from the
	// source points to the target centroid (see meanResidual) exceeds it. Zero disables the check, matching the source implementation's
	// commented-out fitness gate.
	MaxFitness float64
}

// DefaultConfig returns reasonable defaults: at least 3 points required, fitness gate disabled.
func DefaultConfig() Config {
	return Config{MinPoints: 3, MaxFitness: 0}
}

// Sensor performs centroid-to-centroid alignment: it shifts the source point set by guess, then
// aligns the shifted centroid to the target centroid, returning guess composed with that
// refinement. It does not estimate rotation - real registration would - so it is only ever a
// demonstration and test fixture, never a production registration algorithm.
type Sensor struct {
	name string
	cfg  Config
}

// New returns a Sensor registered under name.
func New(name string, cfg Config) *Sensor {
	return &Sensor{name: name, cfg: cfg}
}

// Name returns the sensor's registered name.
func (s *Sensor) Name() string { return s.name }

// CalculateTransform aligns source to target as described on Sensor.
func (s *Sensor) CalculateTransform(
	_ context.Context,
	source, target measurement.Measurement,
	guess spatialmath.Pose,
) (sensor.Result, error) {
	src, ok := source.(Measurement)
	if !ok {
		return sensor.Result{}, errors.Wrap(sensor.ErrBadMeasurementType, "source")
	}
	tgt, ok := target.(Measurement)
	if !ok {
		return sensor.Result{}, errors.Wrap(sensor.ErrBadMeasurementType, "target")
	}
	if len(src.Points) < s.cfg.MinPoints || len(tgt.Points) < s.cfg.MinPoints {
		return sensor.Result{}, errors.Wrap(sensor.ErrNoMatch, "too few points")
	}

	shifted := make([]r3.Vector, len(src.Points))
	rot := guess.Orientation().RotationMatrix()
	for i, p := range src.Points {
		shifted[i] = rot.MulVec(p).Add(guess.Point())
	}

	refinementTranslation := centroid(tgt.Points).Sub(centroid(shifted))
	refinement := spatialmath.NewPoseFromPoint(refinementTranslation)
	transform := spatialmath.Compose(guess, refinement)

	if !spatialmath.IsFinite(transform) {
		return sensor.Result{}, errors.Wrap(sensor.ErrNoMatch, "non-finite transform")
	}

	if s.cfg.MaxFitness > 0 {
		fitness := meanResidual(shifted, tgt.Points, refinementTranslation)
		if fitness > s.cfg.MaxFitness {
			return sensor.Result{}, errors.Wrapf(sensor.ErrNoMatch, "fitness %.4f exceeds threshold %.4f", fitness, s.cfg.MaxFitness)
		}
	}

	return sensor.Result{Transform: transform, Covariance: posegraph.IdentityCovariance()}, nil
}

func centroid(points []r3.Vector) r3.Vector {
	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

// meanResidual is a coarse stand-in for ICP's Euclidean fitness score: the mean distance from
// each source point, after applying the found translation, to the target centroid. It is not a real correspondence-based fitness metric.
func meanResidual(shifted, target []r3.Vector, translation r3.Vector) float64 {
	tc := centroid(target)
	total := 0.0
	for _, p := range shifted {
		d := p.Add(translation).Sub(tc)
		total += math.Sqrt(d.Dot(d))
	}
	return total / float64(len(shifted))
}
