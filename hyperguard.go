// Package hyperguard implements a behavioral anomaly detector for game
// servers. It samples every tracked player's transform once per simulation
// tick and runs movement checks over the sampled history. Violations
// accumulate into a decaying per-player, per-check score that escalates
// through the configured warn/kick/ban thresholds as it climbs.
package hyperguard

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/hypersystems/hyperguard/action"
	"github.com/hypersystems/hyperguard/check"
	"github.com/hypersystems/hyperguard/config"
	"github.com/hypersystems/hyperguard/metrics"
	"github.com/hypersystems/hyperguard/player"
	"github.com/hypersystems/hyperguard/violation"
)

const (
	// TickRate is the number of simulation ticks per second.
	TickRate = 20
	// TickInterval is the wall time between simulation ticks.
	TickInterval = time.Second / TickRate
)

// Source is the host's position and physics state, read once per tick per
// player. A snapshot is a best-effort read: false means no state is available
// right now, which skips the player for the tick without error.
type Source interface {
	Snapshot(id uuid.UUID) (player.Snapshot, bool)
}

// Options carries the optional collaborators of a Guard. Zero values fall
// back to no-op implementations, or to the default check set.
type Options struct {
	// Permissions resolves permission bypasses. Nil means no player has a
	// bypass.
	Permissions check.Permissions
	// Executor carries out dispatched threshold actions.
	Executor action.Executor
	// Alerter receives every recorded violation.
	Alerter violation.Alerter
	// Checks overrides the default check set.
	Checks []check.Check
}

// Guard ties the tracked player registry, the checks and the violation
// engine together and drives them from the tick and decay services.
type Guard struct {
	log  *logrus.Logger
	conf *config.Store

	source Source
	perms  check.Permissions

	players *player.Manager
	engine  *violation.Engine
	checks  []check.Check

	tick atomic.Uint64
}

// New builds a Guard reading player state from source.
func New(log *logrus.Logger, conf *config.Store, source Source, opts Options) *Guard {
	if opts.Permissions == nil {
		opts.Permissions = check.NopPermissions{}
	}
	if opts.Checks == nil {
		opts.Checks = check.All()
	}
	players := player.NewManager()
	return &Guard{
		log:     log,
		conf:    conf,
		source:  source,
		perms:   opts.Permissions,
		players: players,
		engine:  violation.NewEngine(log, conf, players, opts.Permissions, opts.Executor, opts.Alerter),
		checks:  opts.Checks,
	}
}

// Connect registers a player for tracking. The join grace starts at the
// current tick.
func (g *Guard) Connect(id uuid.UUID, name string) (*player.Player, error) {
	p := player.NewPlayer(g.log, id, name, g.tick.Load(), g.conf.Guard().HistorySize)
	if err := g.players.Add(p); err != nil {
		return nil, err
	}
	metrics.TrackedPlayers.Set(float64(g.players.Len()))
	g.log.Infof("now tracking %s", name)
	return p, nil
}

// Disconnect drops the player's tracking state, reporting whether the player
// was tracked.
func (g *Guard) Disconnect(id uuid.UUID) bool {
	ok := g.players.Remove(id)
	if ok {
		metrics.TrackedPlayers.Set(float64(g.players.Len()))
	}
	return ok
}

// Player returns the tracking state of the given player.
func (g *Guard) Player(id uuid.UUID) (*player.Player, bool) {
	return g.players.Player(id)
}

// Tick returns the current engine tick.
func (g *Guard) Tick() uint64 {
	return g.tick.Load()
}
