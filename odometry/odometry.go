// Package odometry defines the external, drift-prone pose source the mapper consults to seed
// registration and gate node creation.
package odometry

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/maltewi/slam3d/spatialmath"
)

// ErrUnavailable is returned when an odometric pose could not be produced for the requested time,
// e.g. the source has no data covering it yet or has lost tracking.
var ErrUnavailable = errors.New("odometry: pose unavailable")

// Source queries an external pose source by timestamp.
type Source interface {
	// GetOdometricPose returns the source's best pose estimate at the given time, or
	// ErrUnavailable if none can be produced.
	GetOdometricPose(ctx context.Context, timestamp time.Time) (spatialmath.Pose, error)
}
