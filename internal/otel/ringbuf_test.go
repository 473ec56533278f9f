package otel

import "testing"

func TestRingBufferWraps(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 1; i <= 5; i++ {
		rb.Push(Event{Kind: KindPageComplete, Count: i})
	}

	if rb.Len() != 3 || rb.Cap() != 3 {
		t.Fatalf("Len=%d Cap=%d, want 3/3", rb.Len(), rb.Cap())
	}
	snap := rb.Snapshot()
	for i, want := range []int{3, 4, 5} {
		if snap[i].Count != want {
			t.Errorf("snap[%d].Count = %d, want %d", i, snap[i].Count, want)
		}
	}

	last := rb.Last(2)
	if len(last) != 2 || last[0].Count != 4 || last[1].Count != 5 {
		t.Errorf("Last(2) = %+v", last)
	}
	if rb.Last(0) != nil {
		t.Error("Last(0) should be nil")
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer(0)
	if rb.Cap() != DefaultRingSize {
		t.Errorf("Cap = %d, want %d", rb.Cap(), DefaultRingSize)
	}
	if rb.Snapshot() != nil {
		t.Error("empty snapshot should be nil")
	}
}

func TestRingBufferCopiesExtra(t *testing.T) {
	rb := NewRingBuffer(2)
	extra := map[string]any{"k": 1}
	rb.Push(Event{Kind: KindKeyPress, Extra: extra})
	extra["k"] = 2

	if got := rb.Snapshot()[0].Extra["k"]; got != 1 {
		t.Errorf("Extra mutated through caller map: %v", got)
	}
}

func TestRingBufferStats(t *testing.T) {
	rb := NewRingBuffer(10)
	rb.Push(Event{Kind: KindPageStart})
	rb.Push(Event{Kind: KindPageStart})
	rb.Push(Event{Kind: KindPageError})

	stats := rb.Stats()
	if stats[KindPageStart] != 2 || stats[KindPageError] != 1 {
		t.Errorf("Stats = %v", stats)
	}
}
