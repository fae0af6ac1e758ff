// Package check contains the movement detectors and the exemption rules they
// share. Each check inspects a single player's tracking state once per tick
// and emits at most one detection.
package check

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/google/uuid"

	"github.com/hypersystems/hyperguard/config"
	"github.com/hypersystems/hyperguard/player"
)

// Category is the broad group a check belongs to. Grace windows for damage
// and external velocity apply to movement checks only.
type Category string

const (
	CategoryMovement Category = "movement"
	CategoryCombat   Category = "combat"
	CategoryWorld    Category = "world"
	CategoryPlayer   Category = "player"
)

// Check is a single detector run once per tick per player.
type Check interface {
	// Name is the identifier of the check, used as the key of its violation
	// ledger entries and its configuration block.
	Name() string
	// Category returns the broad group the check belongs to.
	Category() Category
	// AppliesTo reports whether the check is meaningful for the given
	// movement state. Modes with their own physics exempt checks that cannot
	// model them.
	AppliesTo(m player.Movement) bool
	// Process inspects the player's tracking state for the current tick. The
	// second return value is true when an anomaly was detected.
	Process(env *Env, p *player.Player) (Detection, bool)
}

// Detection is an anomaly found by a check on a single tick.
type Detection struct {
	// VL is the base violation level of the anomaly before configuration
	// weighting, in the [0, 10] range.
	VL float64
	// Details carries the values that led to the detection, in insertion
	// order.
	Details *orderedmap.OrderedMap[string, any]
}

// Env carries the per-tick environment a check invocation runs in.
type Env struct {
	// Tick is the engine tick being processed.
	Tick uint64
	// Conf is the configuration block of the check being run.
	Conf config.Check
	// Guard is the engine-wide configuration.
	Guard config.Guard
	// Perms resolves permission bypasses.
	Perms Permissions
}

// Permissions resolves permission-style bypasses for players. A bypass query
// with an empty check name asks for the blanket bypass covering every check.
// Implementations must be safe for concurrent use.
type Permissions interface {
	HasBypass(id uuid.UUID, check string) bool
}

// NopPermissions never grants a bypass. It stands in when the host does not
// provide a permission collaborator.
type NopPermissions struct{}

// HasBypass ...
func (NopPermissions) HasBypass(uuid.UUID, string) bool { return false }
