package player

// HistorySize is the default capacity of a position history.
const HistorySize = 20

// History is a fixed-size circular buffer storing the most recent position
// samples of a single player. It is owned exclusively by that player's
// tracking state and is not safe for concurrent use.
type History struct {
	buffer   []Sample
	capacity int
	head     int // Points to the next write position
	size     int // Current number of elements
}

// NewHistory creates a new history with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistorySize
	}
	return &History{
		buffer:   make([]Sample, capacity),
		capacity: capacity,
	}
}

// Add inserts a new sample, overwriting the oldest one once the buffer is
// full.
func (h *History) Add(s Sample) {
	h.buffer[h.head] = s
	h.head = (h.head + 1) % h.capacity
	if h.size < h.capacity {
		h.size++
	}
}

// Latest returns the most recently added sample.
func (h *History) Latest() (Sample, bool) {
	return h.At(0)
}

// Previous returns the sample added just before the latest one.
func (h *History) Previous() (Sample, bool) {
	return h.At(1)
}

// At returns the sample age steps before the latest one, age 0 being the
// latest. The second return value is false when the buffer does not hold that
// many samples yet.
func (h *History) At(age int) (Sample, bool) {
	if age < 0 || age >= h.size {
		return Sample{}, false
	}
	idx := (h.head - 1 - age + h.capacity) % h.capacity
	return h.buffer[idx], true
}

// Range calls fn for every stored sample from most recent to oldest, stopping
// early when fn returns false.
func (h *History) Range(fn func(s Sample) bool) {
	for i := 0; i < h.size; i++ {
		idx := (h.head - 1 - i + h.capacity) % h.capacity
		if !fn(h.buffer[idx]) {
			return
		}
	}
}

// Len returns the current number of stored samples.
func (h *History) Len() int {
	return h.size
}

// Capacity returns the maximum number of samples the history holds.
func (h *History) Capacity() int {
	return h.capacity
}

// Clear removes all stored samples.
func (h *History) Clear() {
	h.head = 0
	h.size = 0
}
