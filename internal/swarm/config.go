package swarm

// Config holds the swarm parameters. Radii describe the outer sampling
// ellipse (semi axes) and the inner circle; the mid ellipse used for both
// spawning and despawn hysteresis is derived, never configured directly.
type Config struct {
	// InnerRadius is the inner boundary radius around the reference object.
	InnerRadius float64
	// SemiMajorAxis and SemiMinorAxis describe the outer sampling ellipse.
	SemiMajorAxis float64
	SemiMinorAxis float64

	// MaxVehicles is the target fleet size.
	MaxVehicles int
	// Velocity is the speed assigned to spawned vehicles.
	Velocity float64
	// ModelPath is the visual model given to spawned vehicles.
	ModelPath string

	// MinSpacing is the minimum arc-length separation between two active
	// vehicles sharing a road and lane.
	MinSpacing float64
	// Patience is how many consecutive evaluations a vehicle may sit beyond
	// the mid ellipse before removal.
	Patience int
	// StepInterval is the minimum simulated time between two pipeline
	// evaluations; finer Step calls are no-ops.
	StepInterval float64
}

// DefaultConfig returns the engine defaults. Radii and fleet size have no
// sensible default and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		Velocity:     15.0,
		ModelPath:    "car_red.osgb",
		MinSpacing:   12.0,
		Patience:     5,
		StepInterval: 0.1,
	}
}

// MidRadii returns the semi axes of the mid ellipse: the per-axis average of
// the outer axis and the inner radius. The same ellipse serves as the spawn
// ring and the inner despawn hysteresis boundary.
func (c Config) MidRadii() (smjA, smnA float64) {
	return (c.SemiMajorAxis + c.InnerRadius) / 2, (c.SemiMinorAxis + c.InnerRadius) / 2
}
