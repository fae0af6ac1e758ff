package check

import (
	"math"

	"github.com/hypersystems/hyperguard/game"
	"github.com/hypersystems/hyperguard/player"
)

// Phase flags players moving through geometry: vertical snaps beyond any
// jump impulse while airborne, or horizontal displacement beyond any
// traversal speed. Both heuristics share one consecutive counter that must
// fill up before the first flag, so a single glitched tick stays silent.
type Phase struct {
	base
}

// NewPhase ...
func NewPhase() *Phase {
	return &Phase{base: base{name: "phase", category: CategoryMovement}}
}

// phaseScratch counts consecutive implausible ticks.
type phaseScratch struct {
	Consecutive int
}

// AppliesTo ...
func (c *Phase) AppliesTo(m player.Movement) bool {
	return !m.Flying && !m.Gliding && !m.Mounted && !m.Sitting && !m.Sleeping
}

// Process ...
func (c *Phase) Process(env *Env, p *player.Player) (Detection, bool) {
	s := player.ScratchOf[phaseScratch](p, c.name)
	if Exempt(env, p, c) {
		*s = phaseScratch{}
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
	dy := cur.Position.Y() - prev.Position.Y()
	horizontal := game.HorizontalDistance(prev.Position, cur.Position)

	jumpCeiling := game.JumpVelocity * (1 + env.Conf.Tolerance)
	vertical := dy > jumpCeiling && !prev.OnGround && !m.Climbing
	lateral := horizontal > game.PhaseHorizontalLimit

	if !vertical && !lateral {
		s.Consecutive = 0
		return Detection{}, false
	}
	s.Consecutive++
	if s.Consecutive < game.PhaseConsecutiveThreshold {
		return Detection{}, false
	}

	magnitude := horizontal
	kind := "horizontal"
	if vertical {
		kind = "vertical"
		if lateral {
			kind = "both"
		}
		if dy > magnitude {
			magnitude = dy
		}
	}

	return Detection{
		VL:      math.Min(magnitude*5, 10),
		Details: details("kind", kind, "deltaY", dy, "horizontal", horizontal, "consecutive", s.Consecutive),
	}, true
}
