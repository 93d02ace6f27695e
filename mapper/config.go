package mapper

// Config holds the tunables that govern node creation and neighborhood linking. The zero Config
// is not valid; use DefaultConfig and override individual fields.
type Config struct {
	// NeighborRadius is the search radius, in meters, used to propose loop-closure candidates
	// around a newly inserted node.
	NeighborRadius float64
	// MinTranslation is the distance-gate translation threshold, in meters.
	MinTranslation float64
	// MinRotation is the distance-gate rotation threshold, in radians.
	MinRotation float64
	// AddOdometryEdges, when true, inserts an explicit odometry-only node and edge ahead of
	// sequential registration, so odometry-only motion is never lost even if registration fails.
	AddOdometryEdges bool
	// MaxNeighborLinks caps the number of additional match edges attempted per reading during
	// neighborhood linking. Zero disables neighborhood linking while still rebuilding the index.
	MaxNeighborLinks int
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config {
	return Config{
		NeighborRadius:   1.0,
		MinTranslation:   0.5,
		MinRotation:      0.1,
		AddOdometryEdges: false,
		MaxNeighborLinks: 5,
	}
}
