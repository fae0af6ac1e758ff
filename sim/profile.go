// Package sim provides scripted movement profiles and a synthetic world for
// exercising the guard without a live game server.
package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/hypersystems/hyperguard/game"
	"github.com/hypersystems/hyperguard/player"
)

// Profile produces one movement snapshot per tick. Implementations keep their
// own state and are stepped by a single goroutine.
type Profile interface {
	// Name labels the profile. It doubles as the simulated player's name.
	Name() string
	// Step advances the profile to the given world tick and returns the
	// resulting snapshot.
	Step(tick uint64) player.Snapshot
}

// Walker strolls in a slowly turning line at a legal walking pace.
type Walker struct {
	pos mgl64.Vec3
	yaw float32
}

// NewWalker ...
func NewWalker(start mgl64.Vec3) *Walker {
	return &Walker{pos: start}
}

// Name ...
func (w *Walker) Name() string { return "walker" }

// Step ...
func (w *Walker) Step(uint64) player.Snapshot {
	w.yaw = game.WrapDegrees(w.yaw + 1.5)
	dir := game.DirectionVector(w.yaw, 0)
	w.pos = w.pos.Add(dir.Mul(0.2))
	return player.Snapshot{
		Position: w.pos,
		Yaw:      w.yaw,
		Movement: player.Movement{OnGround: true},
	}
}

// Sprinter runs straight at a legal sprint pace and hops every few seconds.
type Sprinter struct {
	pos    mgl64.Vec3
	ground float64
	vel    float64
	air    bool
	cool   int
}

// NewSprinter ...
func NewSprinter(start mgl64.Vec3) *Sprinter {
	return &Sprinter{pos: start, ground: start.Y()}
}

// Name ...
func (s *Sprinter) Name() string { return "sprinter" }

// Step ...
func (s *Sprinter) Step(uint64) player.Snapshot {
	s.pos[0] += 0.26
	if s.air {
		s.pos[1] += s.vel
		s.vel -= game.NormalGravity
		if s.pos[1] <= s.ground {
			s.pos[1] = s.ground
			s.air = false
			s.cool = 0
		}
	} else {
		s.cool++
		if s.cool >= 80 {
			s.air = true
			s.vel = game.JumpVelocity
			s.pos[1] += s.vel
			s.vel -= game.NormalGravity
		}
	}
	return player.Snapshot{
		Position: s.pos,
		Movement: player.Movement{OnGround: !s.air, Sprinting: true, Jumping: s.air},
	}
}

// Speeder walks straight at a multiple of the legal pace.
type Speeder struct {
	pos  mgl64.Vec3
	step float64
}

// NewSpeeder returns a speeder moving the given distance per tick. A zero or
// negative step falls back to a blatant 0.55 blocks per tick.
func NewSpeeder(start mgl64.Vec3, step float64) *Speeder {
	if step <= 0 {
		step = 0.55
	}
	return &Speeder{pos: start, step: step}
}

// Name ...
func (s *Speeder) Name() string { return "speeder" }

// Step ...
func (s *Speeder) Step(uint64) player.Snapshot {
	s.pos[0] += s.step
	return player.Snapshot{
		Position: s.pos,
		Movement: player.Movement{OnGround: true},
	}
}

// Flyer walks briefly, leaves the ground and keeps climbing.
type Flyer struct {
	pos  mgl64.Vec3
	tick int
}

// NewFlyer ...
func NewFlyer(start mgl64.Vec3) *Flyer {
	return &Flyer{pos: start}
}

// Name ...
func (f *Flyer) Name() string { return "flyer" }

// Step ...
func (f *Flyer) Step(uint64) player.Snapshot {
	f.tick++
	grounded := f.tick <= 10
	if !grounded {
		f.pos[1] += 0.35
	}
	return player.Snapshot{
		Position: f.pos,
		Movement: player.Movement{OnGround: grounded},
	}
}

// Hoverer hops once and then stands still in the air.
type Hoverer struct {
	pos  mgl64.Vec3
	tick int
}

// NewHoverer ...
func NewHoverer(start mgl64.Vec3) *Hoverer {
	return &Hoverer{pos: start}
}

// Name ...
func (h *Hoverer) Name() string { return "hoverer" }

// Step ...
func (h *Hoverer) Step(uint64) player.Snapshot {
	h.tick++
	if h.tick == 11 {
		h.pos[1] += 3
	}
	return player.Snapshot{
		Position: h.pos,
		Movement: player.Movement{OnGround: h.tick <= 10},
	}
}

// noFallClimbHeight is tall enough that the landing must deal damage.
const noFallClimbHeight = 25.0

const (
	noFallClimbing = iota
	noFallFalling
	noFallResting
)

// NoFaller climbs a ladder, steps off and lands without the damage ever
// arriving.
type NoFaller struct {
	pos    mgl64.Vec3
	ground float64
	vel    float64
	phase  int
	rest   int
}

// NewNoFaller ...
func NewNoFaller(start mgl64.Vec3) *NoFaller {
	return &NoFaller{pos: start, ground: start.Y()}
}

// Name ...
func (n *NoFaller) Name() string { return "nofaller" }

// Step ...
func (n *NoFaller) Step(uint64) player.Snapshot {
	switch n.phase {
	case noFallClimbing:
		n.pos[1] += 0.2
		if n.pos[1] >= n.ground+noFallClimbHeight {
			n.phase = noFallFalling
			n.vel = 0
		}
		return player.Snapshot{
			Position: n.pos,
			Movement: player.Movement{Climbing: true},
		}
	case noFallFalling:
		n.vel += game.NormalGravity
		n.pos[1] -= n.vel
		if n.pos[1] <= n.ground {
			n.pos[1] = n.ground
			n.phase = noFallResting
			n.rest = 0
			return player.Snapshot{
				Position: n.pos,
				Movement: player.Movement{OnGround: true},
			}
		}
		return player.Snapshot{Position: n.pos}
	default:
		n.rest++
		if n.rest >= 10 {
			n.phase = noFallClimbing
		}
		return player.Snapshot{
			Position: n.pos,
			Movement: player.Movement{OnGround: true},
		}
	}
}

// Phaser walks briefly, then blinks through blocks in short bursts.
type Phaser struct {
	pos  mgl64.Vec3
	tick int
}

// NewPhaser ...
func NewPhaser(start mgl64.Vec3) *Phaser {
	return &Phaser{pos: start}
}

// Name ...
func (p *Phaser) Name() string { return "phaser" }

// Step ...
func (p *Phaser) Step(uint64) player.Snapshot {
	p.tick++
	if p.tick%10 < 6 {
		p.pos[0] += 0.2
	} else {
		p.pos[0] += 1.5
	}
	return player.Snapshot{
		Position: p.pos,
		Movement: player.Movement{OnGround: true},
	}
}
