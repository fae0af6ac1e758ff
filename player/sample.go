package player

import "github.com/go-gl/mathgl/mgl64"

// Sample is a single observed position of a player at a given engine tick.
// Samples are immutable once created.
type Sample struct {
	Position mgl64.Vec3
	Yaw      float32
	Pitch    float32
	OnGround bool
	Tick     uint64
}

// Movement mirrors the host's movement state flags for a player at the most
// recent sampled tick. It is written only by the tick pass.
type Movement struct {
	OnGround bool
	InFluid  bool
	Climbing bool

	Flying    bool
	Gliding   bool
	Swimming  bool
	Sprinting bool
	Sneaking  bool

	Mounted  bool
	Sitting  bool
	Sleeping bool

	Jumping  bool
	Rolling  bool
	Sliding  bool
	Mantling bool
}

// Snapshot is a best-effort view of a player's transform and movement state,
// read from the host once per tick. The host may return a stale snapshot or
// none at all; neither is an error.
type Snapshot struct {
	Position mgl64.Vec3
	Yaw      float32
	Pitch    float32

	Movement Movement

	// Event markers set by the host when the corresponding event happened
	// since the previous snapshot.
	Teleported      bool
	Damaged         bool
	VelocityChanged bool
}
