package check

import (
	"math"

	"github.com/hypersystems/hyperguard/game"
	"github.com/hypersystems/hyperguard/player"
)

// NoFall flags players who land from damaging falls without the damage ever
// arriving.
type NoFall struct {
	base
}

// NewNoFall ...
func NewNoFall() *NoFall {
	return &NoFall{base: base{name: "nofall", category: CategoryMovement}}
}

// noFallScratch tracks the fall in progress.
type noFallScratch struct {
	FallDistance float64
	PeakVelocity float64
}

// AppliesTo ...
func (c *NoFall) AppliesTo(m player.Movement) bool {
	return !m.Flying && !m.Gliding && !m.Mounted && !m.Sitting && !m.Sleeping
}

// Process ...
func (c *NoFall) Process(env *Env, p *player.Player) (Detection, bool) {
	s := player.ScratchOf[noFallScratch](p, c.name)
	if Exempt(env, p, c) {
		*s = noFallScratch{}
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

	m := p.Movement
	if m.InFluid || m.Climbing {
		// Fluids and climbables absorb the fall.
		*s = noFallScratch{}
		return Detection{}, false
	}

	if !cur.OnGround {
		if dy := cur.Position.Y() - prev.Position.Y(); dy < 0 {
			s.FallDistance += -dy
			if -dy > s.PeakVelocity {
				s.PeakVelocity = -dy
			}
		}
		return Detection{}, false
	}

	// Ground contact: fall tracking resets whatever the outcome, and only a
	// transition from airborne is worth judging.
	fall := *s
	*s = noFallScratch{}
	if prev.OnGround {
		return Detection{}, false
	}

	damage := game.FallDamage(fall.PeakVelocity)
	if fall.FallDistance < game.NoFallMinDistance || fall.PeakVelocity < game.NoFallMinVelocity || damage <= 0.5 {
		return Detection{}, false
	}
	window := 5 + 5*env.Conf.Tolerance
	if since, ok := p.TicksSinceDamage(env.Tick); ok && float64(since) <= window {
		return Detection{}, false
	}

	return Detection{
		VL:      math.Min(fall.FallDistance*0.5, 10),
		Details: details("fallDistance", fall.FallDistance, "peakVelocity", fall.PeakVelocity, "expectedDamage", damage),
	}, true
}
