package check

import (
	"fmt"
	"math"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/hypersystems/hyperguard/game"
	"github.com/hypersystems/hyperguard/player"
)

const (
	// flyJumpGraceTicks is how long ascent stays permitted after a detected
	// jump.
	flyJumpGraceTicks = 15
	// flyHoverVelocity is the expected downward velocity beyond which a near
	// zero observed delta counts as hovering.
	flyHoverVelocity = -0.3
	flyHoverEpsilon  = 0.01
	flyHoverVL       = 5.0
)

// Fly flags players staying airborne longer than any jump allows or moving
// vertically against gravity. The air-time and gravity detectors are
// independent and their violation levels add up when both fire on one tick.
type Fly struct {
	base
}

// NewFly ...
func NewFly() *Fly {
	return &Fly{base: base{name: "fly", category: CategoryMovement}}
}

// flyScratch is the fly check's per-player state.
type flyScratch struct {
	// AirTicks counts consecutive airborne ticks.
	AirTicks int
	// Expected is the vertical velocity the player should have under
	// gravity.
	Expected float64
	// GraceTicks is the remaining window in which ascent is permitted after
	// a jump.
	GraceTicks int
	PrevDelta  float64
	HasPrev    bool
}

// AppliesTo ...
func (c *Fly) AppliesTo(m player.Movement) bool {
	return !m.Flying && !m.Gliding && !m.Mounted && !m.Sitting && !m.Sleeping
}

// Process ...
func (c *Fly) Process(env *Env, p *player.Player) (Detection, bool) {
	s := player.ScratchOf[flyScratch](p, c.name)
	if Exempt(env, p, c) {
		*s = flyScratch{}
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
	airborne := !m.OnGround && !m.InFluid && !m.Climbing

	if airborne {
		s.AirTicks++
	} else {
		s.AirTicks = 0
	}

	var vl float64
	det := orderedmap.NewOrderedMap[string, any]()
	if s.AirTicks > game.MaxAirTicks {
		vl += math.Min(float64(s.AirTicks-game.MaxAirTicks)*0.5, 10)
		det.Set("airTicks", s.AirTicks)
		det.Set("maxAirTicks", game.MaxAirTicks)
	}

	// A jump is either a ground to air transition with upward motion, or a
	// sudden ascent right after a non-ascending delta, which covers missed
	// ground contact frames.
	jumped := (prev.OnGround && !cur.OnGround && dy > 0) ||
		(s.HasPrev && s.PrevDelta <= 0 && !cur.OnGround && dy > game.MinAscendVelocity)

	switch {
	case !airborne:
		s.Expected = 0
		s.GraceTicks = 0
	case jumped:
		s.Expected = game.JumpVelocity
		s.GraceTicks = flyJumpGraceTicks
	default:
		s.Expected = math.Max(s.Expected-game.NormalGravity, -game.TerminalVelocity)
		if s.GraceTicks > 0 {
			s.GraceTicks--
		}
	}

	if airborne && !jumped && s.GraceTicks == 0 && s.Expected < 0 {
		tol := math.Max(0.15, math.Abs(s.Expected)*env.Conf.Tolerance)
		if dy > tol {
			vl += math.Min(math.Abs(dy-s.Expected)*5, 10)
			det.Set("deltaY", fmt.Sprintf("%.3f", dy))
			det.Set("expected", fmt.Sprintf("%.3f", s.Expected))
		} else if s.Expected < flyHoverVelocity && math.Abs(dy) < flyHoverEpsilon {
			vl += flyHoverVL
			det.Set("hoverDeltaY", fmt.Sprintf("%.3f", dy))
			det.Set("expected", fmt.Sprintf("%.3f", s.Expected))
		}
	}

	s.PrevDelta = dy
	s.HasPrev = true

	if vl == 0 {
		return Detection{}, false
	}
	return Detection{VL: vl, Details: det}, true
}
