package violation

import (
	"sync"

	"github.com/google/uuid"
)

// ring is a bounded buffer of recent violations. Pushes come from the tick
// pass while reads come from the admin surface, so the ring carries its own
// lock. head is the next write position.
type ring struct {
	mu    sync.Mutex
	items []Violation
	head  int
	size  int
}

func newRing(capacity int) *ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &ring{items: make([]Violation, capacity)}
}

// push appends v, evicting the oldest record once full.
func (r *ring) push(v Violation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.head] = v
	r.head = (r.head + 1) % len(r.items)
	if r.size < len(r.items) {
		r.size++
	}
}

// recent returns the violations matching q, most recent first.
func (r *ring) recent(q Query) []Violation {
	r.mu.Lock()
	defer r.mu.Unlock()
	limit := q.Limit
	if limit <= 0 || limit > r.size {
		limit = r.size
	}
	out := make([]Violation, 0, limit)
	for i := 1; i <= r.size && len(out) < limit; i++ {
		v := r.items[(r.head-i+len(r.items))%len(r.items)]
		if q.Player != uuid.Nil && v.PlayerID != q.Player {
			continue
		}
		if q.Check != "" && v.Check != q.Check {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (r *ring) length() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
