package check

import (
	"github.com/hypersystems/hyperguard/player"
)

// Exempt reports whether the player is exempt from the given check on this
// tick. The rules run in a fixed order and short-circuit on the first that
// holds: permission bypass, administrative exemption, join grace, teleport
// grace, damage grace and velocity grace (movement checks only), and finally
// a movement mode the check does not apply to. A check whose Exempt call
// reports true must reset its own scratch state and skip the tick.
func Exempt(env *Env, p *player.Player, c Check) bool {
	name := c.Name()
	if env.Perms.HasBypass(p.ID(), "") || env.Perms.HasBypass(p.ID(), name) {
		return true
	}
	if p.GloballyExempt() || p.Exempted(name) {
		return true
	}
	if p.TicksSinceJoin(env.Tick) < env.Guard.JoinGraceTicks {
		return true
	}
	if since, ok := p.TicksSinceTeleport(env.Tick); ok && since < env.Guard.TeleportGraceTicks {
		return true
	}
	if c.Category() == CategoryMovement {
		if since, ok := p.TicksSinceDamage(env.Tick); ok && since < env.Guard.DamageGraceTicks {
			return true
		}
		if since, ok := p.TicksSinceVelocity(env.Tick); ok && since < env.Guard.VelocityGraceTicks {
			return true
		}
	}
	return !c.AppliesTo(p.Movement)
}
