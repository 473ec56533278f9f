package otel

import (
	"maps"
	"sync"
)

// DefaultRingSize is the default ring buffer capacity.
const DefaultRingSize = 512

// RingBuffer is a fixed-size circular buffer of events. Safe for concurrent use.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []Event
	head  int // next write position
	count int
}

// NewRingBuffer creates a ring buffer holding up to size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{buf: make([]Event, size)}
}

// Push adds an event, overwriting the oldest when full. Extra is copied so
// the caller may keep mutating its map.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		e.Extra = maps.Clone(e.Extra)
	}
	r.mu.Lock()
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	r.mu.Unlock()
}

// Last returns up to n most recent events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n = min(n, r.count)
	if n == 0 {
		return nil
	}
	out := make([]Event, n)
	start := (r.head - n + len(r.buf)) % len(r.buf)
	for i := range out {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Snapshot returns every buffered event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	return r.Last(len(r.buf))
}

// Len returns the number of buffered events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int {
	return len(r.buf)
}

// Stats counts buffered events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	counts := make(map[EventKind]int)
	for _, e := range r.Snapshot() {
		counts[e.Kind]++
	}
	return counts
}
