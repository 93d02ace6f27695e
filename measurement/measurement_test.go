package measurement

import (
	"testing"
	"time"

	"go.viam.com/test"
)

func TestNewBaseAssignsUniqueIDs(t *testing.T) {
	now := time.Now()
	a := NewBase(now, "robot", "lidar")
	b := NewBase(now, "robot", "lidar")
	test.That(t, a.ID(), test.ShouldNotEqual, b.ID())
}

func TestBaseAccessors(t *testing.T) {
	now := time.Now()
	b := NewBase(now, "robot", "lidar")
	test.That(t, b.RobotName(), test.ShouldEqual, "robot")
	test.That(t, b.SensorName(), test.ShouldEqual, "lidar")
	test.That(t, b.Timestamp().Equal(now), test.ShouldBeTrue)
}
