package sim

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hypersystems/hyperguard"
	"github.com/hypersystems/hyperguard/player"
)

// World holds the simulated actors and serves their latest snapshots to the
// guard.
type World struct {
	mu     sync.Mutex
	tick   uint64
	actors map[uuid.UUID]*actor
}

var _ hyperguard.Source = (*World)(nil)

type actor struct {
	profile Profile
	snap    player.Snapshot
}

// NewWorld ...
func NewWorld() *World {
	return &World{actors: make(map[uuid.UUID]*actor)}
}

// Add inserts a profile and returns the simulated player's id. The profile is
// stepped once so a snapshot is available immediately.
func (w *World) Add(p Profile) uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := uuid.New()
	w.actors[id] = &actor{profile: p, snap: p.Step(w.tick)}
	return id
}

// Remove drops a simulated player.
func (w *World) Remove(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.actors, id)
}

// Advance steps every actor by one tick.
func (w *World) Advance() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tick++
	for _, a := range w.actors {
		a.snap = a.profile.Step(w.tick)
	}
}

// Snapshot implements hyperguard.Source.
func (w *World) Snapshot(id uuid.UUID) (player.Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.actors[id]
	if !ok {
		return player.Snapshot{}, false
	}
	return a.snap, true
}

// Runner drives the world and the guard in lockstep at the game tick rate.
// It replaces the guard's own tick service when simulating.
type Runner struct {
	log   *logrus.Logger
	guard *hyperguard.Guard
	world *World
}

// NewRunner ...
func NewRunner(log *logrus.Logger, g *hyperguard.Guard, w *World) *Runner {
	return &Runner{log: log, guard: g, world: w}
}

// Spawn adds the profile to the world and connects it to the guard.
func (r *Runner) Spawn(p Profile) (uuid.UUID, error) {
	id := r.world.Add(p)
	if _, err := r.guard.Connect(id, p.Name()); err != nil {
		r.world.Remove(id)
		return uuid.Nil, err
	}
	r.log.Infof("spawned %s into the simulation", p.Name())
	return id, nil
}

// Serve implements suture.Service.
func (r *Runner) Serve(ctx context.Context) error {
	t := time.NewTicker(hyperguard.TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r.world.Advance()
			r.guard.RunTick()
		}
	}
}

// String ...
func (r *Runner) String() string {
	return "hyperguard-sim"
}
