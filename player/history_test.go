package player

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func sampleAt(tick uint64) Sample {
	return Sample{Position: mgl64.Vec3{float64(tick), 64, 0}, Tick: tick}
}

func TestHistorySizeNeverExceedsCapacity(t *testing.T) {
	h := NewHistory(5)
	for i := 0; i < 12; i++ {
		h.Add(sampleAt(uint64(i)))
		want := i + 1
		if want > 5 {
			want = 5
		}
		if h.Len() != want {
			t.Fatalf("after %v adds: len = %v, want %v", i+1, h.Len(), want)
		}
	}
	if h.Capacity() != 5 {
		t.Fatalf("capacity = %v, want 5", h.Capacity())
	}
}

func TestHistoryLatestIsMostRecent(t *testing.T) {
	h := NewHistory(4)
	if _, ok := h.Latest(); ok {
		t.Fatal("empty history returned a latest sample")
	}
	for i := 0; i < 9; i++ {
		h.Add(sampleAt(uint64(i)))
		latest, ok := h.Latest()
		if !ok {
			t.Fatalf("no latest sample after %v adds", i+1)
		}
		if latest.Tick != uint64(i) {
			t.Fatalf("latest tick = %v, want %v", latest.Tick, i)
		}
	}
}

func TestHistoryAtWalksBackwards(t *testing.T) {
	h := NewHistory(4)
	for i := 0; i < 6; i++ {
		h.Add(sampleAt(uint64(i)))
	}
	// Buffer now holds ticks 2..5, newest first.
	for age := 0; age < 4; age++ {
		s, ok := h.At(age)
		if !ok {
			t.Fatalf("At(%v) unavailable", age)
		}
		if want := uint64(5 - age); s.Tick != want {
			t.Fatalf("At(%v) tick = %v, want %v", age, s.Tick, want)
		}
	}
	if _, ok := h.At(4); ok {
		t.Fatal("At(4) returned an overwritten sample")
	}
	if _, ok := h.At(-1); ok {
		t.Fatal("At(-1) returned a sample")
	}
}

func TestHistoryPrevious(t *testing.T) {
	h := NewHistory(8)
	h.Add(sampleAt(10))
	if _, ok := h.Previous(); ok {
		t.Fatal("previous available with a single sample")
	}
	h.Add(sampleAt(11))
	prev, ok := h.Previous()
	if !ok || prev.Tick != 10 {
		t.Fatalf("previous = %v, %v; want tick 10", prev.Tick, ok)
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(4)
	for i := 0; i < 4; i++ {
		h.Add(sampleAt(uint64(i)))
	}
	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("len after clear = %v, want 0", h.Len())
	}
	if _, ok := h.Latest(); ok {
		t.Fatal("cleared history returned a sample")
	}
	h.Add(sampleAt(99))
	latest, ok := h.Latest()
	if !ok || latest.Tick != 99 {
		t.Fatal("history unusable after clear")
	}
}

func TestHistoryRangeNewestFirst(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(sampleAt(uint64(i)))
	}
	var ticks []uint64
	h.Range(func(s Sample) bool {
		ticks = append(ticks, s.Tick)
		return true
	})
	want := []uint64{4, 3, 2}
	if len(ticks) != len(want) {
		t.Fatalf("range visited %v samples, want %v", len(ticks), len(want))
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("range order = %v, want %v", ticks, want)
		}
	}
}
