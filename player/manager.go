package player

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Manager is the registry of tracking states for all connected players,
// keyed by player id. It is safe for concurrent use: connect and disconnect
// handlers mutate it while the tick and decay passes iterate over it.
type Manager struct {
	mu      sync.Mutex
	players map[uuid.UUID]*Player
}

// NewManager creates an empty player registry.
func NewManager() *Manager {
	return &Manager{players: make(map[uuid.UUID]*Player)}
}

// Add registers tracking state for a newly connected player. It returns an
// error if state for the same player id is already registered; two states
// must never share an id concurrently.
func (m *Manager) Add(p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID()]; ok {
		return fmt.Errorf("player %v already tracked", p.ID())
	}
	m.players[p.ID()] = p
	return nil
}

// Remove drops the tracking state for the given player id, reporting whether
// state existed.
func (m *Manager) Remove(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[id]; !ok {
		return false
	}
	delete(m.players, id)
	return true
}

// Player returns the tracking state for the given player id.
func (m *Manager) Player(id uuid.UUID) (*Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	return p, ok
}

// All returns a snapshot slice of every tracked player. The slice is safe to
// iterate while the registry is mutated concurrently.
func (m *Manager) All() []*Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		all = append(all, p)
	}
	return all
}

// Len returns the number of tracked players.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players)
}
