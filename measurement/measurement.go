// Package measurement defines the opaque sensor-reading payload carried by a graph node.
//
// A Measurement is deliberately thin: the core never inspects its contents, only its identity and
// provenance. Concrete sensor packages define their own measurement types embedding Base and adding
// whatever payload their registration algorithm needs (a point cloud, an image, a scan). A Sensor
// that receives a Measurement of the wrong concrete type reports sensor.ErrBadMeasurementType rather
// than the failed type assertion a naive port of the original downcast would produce.
package measurement

import (
	"time"

	"github.com/google/uuid"
)

// Measurement is the identity and provenance shared by every sensor reading fed into a graph.
type Measurement interface {
	// ID uniquely identifies this measurement instance.
	ID() string
	// Timestamp is when the reading was captured.
	Timestamp() time.Time
	// RobotName is the name of the robot (or agent) that produced the reading.
	RobotName() string
	// SensorName is the name under which the producing sensor is registered.
	SensorName() string
}

// Base is embedded by concrete measurement types to satisfy the Measurement interface.
type Base struct {
	id         string
	timestamp  time.Time
	robotName  string
	sensorName string
}

// NewBase constructs a Base with a freshly generated identity.
func NewBase(timestamp time.Time, robotName, sensorName string) Base {
	return Base{
		id:         uuid.NewString(),
		timestamp:  timestamp,
		robotName:  robotName,
		sensorName: sensorName,
	}
}

// ID returns the measurement's unique identifier.
func (b Base) ID() string { return b.id }

// Timestamp returns the capture time.
func (b Base) Timestamp() time.Time { return b.timestamp }

// RobotName returns the producing robot's name.
func (b Base) RobotName() string { return b.robotName }

// SensorName returns the name of the sensor that produced the reading.
func (b Base) SensorName() string { return b.sensorName }
