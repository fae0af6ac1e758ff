package player

import (
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Player is the tracking state for a single connected player. One instance
// exists per connection: it is created when the player connects and dropped
// when the player disconnects.
//
// Movement state, scratch state and the position history are written only by
// the tick pass and need no locking. The violation ledger and exemption set
// are additionally touched by the decay pass and by administrative calls and
// are guarded by their own mutexes.
type Player struct {
	log *logrus.Logger

	id   uuid.UUID
	name string

	joinTick uint64

	// Tick stamps of the most recent grace events, -1 until first observed.
	lastTeleportTick int64
	lastDamageTick   int64
	lastVelocityTick int64

	// Movement mirrors the latest host snapshot.
	Movement Movement

	history *History
	scratch map[string]any

	exemptMu sync.Mutex
	exempt   map[string]struct{}

	vlMu      sync.Mutex
	vls       map[string]float64
	triggered map[string]map[float64]struct{}

	globallyExempt atomic.Bool
	debug          atomic.Bool
}

// NewPlayer creates tracking state for the player with the given identity,
// joining at the given engine tick.
func NewPlayer(log *logrus.Logger, id uuid.UUID, name string, joinTick uint64, historySize int) *Player {
	return &Player{
		log: log,

		id:   id,
		name: name,

		joinTick:         joinTick,
		lastTeleportTick: -1,
		lastDamageTick:   -1,
		lastVelocityTick: -1,

		history: NewHistory(historySize),
		scratch: make(map[string]any),

		exempt:    make(map[string]struct{}),
		vls:       make(map[string]float64),
		triggered: make(map[string]map[float64]struct{}),
	}
}

// ID returns the player's stable identifier.
func (p *Player) ID() uuid.UUID {
	return p.id
}

// Name returns the player's display name.
func (p *Player) Name() string {
	return p.name
}

// Log returns the logger assigned to the player.
func (p *Player) Log() *logrus.Logger {
	return p.log
}

// History returns the player's position history.
func (p *Player) History() *History {
	return p.history
}

// ApplySnapshot records a host snapshot taken at the given tick: event stamps
// are updated, movement flags mirrored and the position appended to the
// history.
func (p *Player) ApplySnapshot(s Snapshot, tick uint64) {
	if s.Teleported {
		p.lastTeleportTick = int64(tick)
	}
	if s.Damaged {
		p.lastDamageTick = int64(tick)
	}
	if s.VelocityChanged {
		p.lastVelocityTick = int64(tick)
	}
	p.Movement = s.Movement
	p.history.Add(Sample{
		Position: s.Position,
		Yaw:      s.Yaw,
		Pitch:    s.Pitch,
		OnGround: s.Movement.OnGround,
		Tick:     tick,
	})
}

// TicksSinceJoin returns the number of ticks since the player connected.
func (p *Player) TicksSinceJoin(now uint64) uint64 {
	if now < p.joinTick {
		return 0
	}
	return now - p.joinTick
}

// TicksSinceTeleport returns the number of ticks since the player last
// teleported, or false if the player never teleported.
func (p *Player) TicksSinceTeleport(now uint64) (uint64, bool) {
	return ticksSince(p.lastTeleportTick, now)
}

// TicksSinceDamage returns the number of ticks since the player last took
// damage, or false if the player never took damage.
func (p *Player) TicksSinceDamage(now uint64) (uint64, bool) {
	return ticksSince(p.lastDamageTick, now)
}

// TicksSinceVelocity returns the number of ticks since the player last had
// external velocity applied, or false if that never happened.
func (p *Player) TicksSinceVelocity(now uint64) (uint64, bool) {
	return ticksSince(p.lastVelocityTick, now)
}

func ticksSince(stamp int64, now uint64) (uint64, bool) {
	if stamp < 0 {
		return 0, false
	}
	if int64(now) <= stamp {
		return 0, true
	}
	return uint64(int64(now) - stamp), true
}

// AddVL adds delta to the player's violation level for the given check,
// clamping the result to [0, max], and returns the new total.
func (p *Player) AddVL(check string, delta, max float64) float64 {
	p.vlMu.Lock()
	defer p.vlMu.Unlock()
	vl := math.Min(math.Max(p.vls[check]+delta, 0), max)
	p.vls[check] = vl
	return vl
}

// VL returns the player's current violation level for the given check.
func (p *Player) VL(check string) float64 {
	p.vlMu.Lock()
	defer p.vlMu.Unlock()
	return p.vls[check]
}

// VLs returns a copy of the player's violation levels keyed by check name.
func (p *Player) VLs() map[string]float64 {
	p.vlMu.Lock()
	defer p.vlMu.Unlock()
	vls := make(map[string]float64, len(p.vls))
	for name, vl := range p.vls {
		vls[name] = vl
	}
	return vls
}

// DecayVL subtracts rate from the check's violation level. Once the level
// reaches zero the entry is removed and the check's triggered threshold
// memory cleared, re-arming every threshold for the next excursion.
func (p *Player) DecayVL(check string, rate float64) (vl float64, removed bool) {
	p.vlMu.Lock()
	defer p.vlMu.Unlock()
	cur, ok := p.vls[check]
	if !ok {
		return 0, false
	}
	cur -= rate
	if cur <= 0 {
		delete(p.vls, check)
		delete(p.triggered, check)
		return 0, true
	}
	p.vls[check] = cur
	return cur, false
}

// MarkThreshold records that the given threshold fired for the check during
// the current excursion. It reports whether the threshold was newly marked;
// a threshold already marked must not dispatch again.
func (p *Player) MarkThreshold(check string, threshold float64) bool {
	p.vlMu.Lock()
	defer p.vlMu.Unlock()
	set, ok := p.triggered[check]
	if !ok {
		set = make(map[float64]struct{})
		p.triggered[check] = set
	}
	if _, fired := set[threshold]; fired {
		return false
	}
	set[threshold] = struct{}{}
	return true
}

// SetExempt toggles the player's administrative exemption from a single
// check.
func (p *Player) SetExempt(check string, exempt bool) {
	p.exemptMu.Lock()
	defer p.exemptMu.Unlock()
	if exempt {
		p.exempt[check] = struct{}{}
	} else {
		delete(p.exempt, check)
	}
}

// Exempted reports whether the player is administratively exempt from the
// given check.
func (p *Player) Exempted(check string) bool {
	p.exemptMu.Lock()
	defer p.exemptMu.Unlock()
	_, ok := p.exempt[check]
	return ok
}

// SetGloballyExempt toggles the player's exemption from all checks.
func (p *Player) SetGloballyExempt(exempt bool) {
	p.globallyExempt.Store(exempt)
}

// GloballyExempt reports whether the player is exempt from all checks.
func (p *Player) GloballyExempt() bool {
	return p.globallyExempt.Load()
}

// SetDebug toggles per-player debug output of processed checks.
func (p *Player) SetDebug(debug bool) {
	p.debug.Store(debug)
}

// Debug reports whether debug output is enabled for the player.
func (p *Player) Debug() bool {
	return p.debug.Load()
}

// ScratchOf returns the named check's typed scratch state for the player,
// allocating a zero value on first use. Scratch is only ever touched from
// the tick pass.
func ScratchOf[T any](p *Player, check string) *T {
	if v, ok := p.scratch[check]; ok {
		if t, ok := v.(*T); ok {
			return t
		}
	}
	t := new(T)
	p.scratch[check] = t
	return t
}
