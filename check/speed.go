package check

import (
	"math"

	"github.com/hypersystems/hyperguard/config"
	"github.com/hypersystems/hyperguard/game"
	"github.com/hypersystems/hyperguard/player"
)

// Speed flags horizontal displacement faster than the player's movement
// state allows.
type Speed struct {
	base
}

// NewSpeed ...
func NewSpeed() *Speed {
	return &Speed{base: base{name: "speed", category: CategoryMovement}}
}

// AppliesTo ...
func (c *Speed) AppliesTo(m player.Movement) bool {
	return !m.Mounted && !m.Sitting && !m.Sleeping
}

// Process ...
func (c *Speed) Process(env *Env, p *player.Player) (Detection, bool) {
	if Exempt(env, p, c) {
		return Detection{}, false
	}
	cur, ok := p.History().Latest()
	if !ok {
		return Detection{}, false
	}
	prev, ok := p.History().Previous()
	if !ok {
		return Detection{}, false
	}

	speed := game.HorizontalDistance(prev.Position, cur.Position)
	if speed < game.MovementEpsilon {
		return Detection{}, false
	}

	m := p.Movement
	expected := baseSpeed(env.Guard.Speeds, m) * (1 + env.Conf.Tolerance)
	if m.Rolling {
		expected *= game.RollSpeedMultiplier
	}
	if m.Sliding {
		expected *= game.SlideSpeedMultiplier
	}
	if m.Mantling {
		expected *= game.MantleSpeedMultiplier
	}
	if m.Jumping {
		expected *= game.JumpSpeedMultiplier
	}
	if m.InFluid {
		expected *= game.FluidSpeedMultiplier
	}
	if speed <= expected {
		return Detection{}, false
	}

	return Detection{
		VL:      math.Min((speed-expected)/expected*10, 10),
		Details: details("speed", speed, "max", expected, "state", stateName(m)),
	}, true
}

// baseSpeed selects the base speed for the player's movement state, most
// specific state first.
func baseSpeed(s config.Speeds, m player.Movement) float64 {
	switch {
	case m.Flying:
		return s.Fly
	case m.Gliding:
		return s.Glide
	case m.Swimming:
		return s.Swim
	case m.Climbing:
		return s.Climb
	case m.Sneaking:
		return s.Sneak
	case m.Sprinting:
		return s.Sprint
	}
	return s.Walk
}

func stateName(m player.Movement) string {
	switch {
	case m.Flying:
		return "flying"
	case m.Gliding:
		return "gliding"
	case m.Swimming:
		return "swimming"
	case m.Climbing:
		return "climbing"
	case m.Sneaking:
		return "sneaking"
	case m.Sprinting:
		return "sprinting"
	}
	return "walking"
}
