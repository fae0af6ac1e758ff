package game

// Base horizontal speeds in blocks per tick for each movement state. These are
// the authoritative physics values; deployments may override them through the
// guard configuration.
const (
	WalkSpeed   = float64(0.216)
	SprintSpeed = float64(0.281)
	SneakSpeed  = float64(0.065)
	SwimSpeed   = float64(0.115)
	ClimbSpeed  = float64(0.118)
	FlySpeed    = float64(0.5)
	GlideSpeed  = float64(1.0)
)

const (
	NormalGravity    = float64(0.08)
	TerminalVelocity = float64(3.92)
	AirDrag          = float64(0.98)
	JumpVelocity     = float64(0.42)

	// MinAscendVelocity is the smallest upward delta treated as deliberate
	// ascent rather than jitter.
	MinAscendVelocity = float64(0.01)

	// MovementEpsilon is the noise floor below which a horizontal displacement
	// is treated as standing still.
	MovementEpsilon = float64(0.001)
)

// Situational speed multipliers applied on top of the state base speed.
const (
	RollSpeedMultiplier   = float64(1.5)
	SlideSpeedMultiplier  = float64(1.3)
	MantleSpeedMultiplier = float64(1.2)
	JumpSpeedMultiplier   = float64(1.1)
	FluidSpeedMultiplier  = float64(0.5)
)

const (
	// MaxAirTicks is the longest a player can plausibly stay airborne from a
	// single jump, including knockback arcs.
	MaxAirTicks = 40

	NoFallMinDistance = float64(3.0)
	NoFallMinVelocity = float64(0.5)

	PhaseConsecutiveThreshold = 3
	PhaseHorizontalLimit      = float64(1.0)
)

// FallDamage approximates the damage a fall with the given peak downward
// velocity should deal. Falls below roughly half a block of velocity deal none.
func FallDamage(peakVelocity float64) float64 {
	d := 0.58 * (peakVelocity - 0.5)
	return d * d * 1.1
}
