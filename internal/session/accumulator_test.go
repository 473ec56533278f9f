package session

import (
	"fmt"
	"testing"

	"github.com/abelbrown/arcade/internal/catalog"
)

func page(from, n int) []catalog.Item {
	items := make([]catalog.Item, n)
	for i := range items {
		items[i] = catalog.Item{ID: fmt.Sprintf("g%d", from+i), Name: fmt.Sprintf("Game %03d", from+i)}
	}
	return items
}

func TestAccumulatorScenario(t *testing.T) {
	a := NewAccumulator(50)

	a.Start(page(0, 50), 120)
	if a.Len() != 50 || !a.HasMore() {
		t.Fatalf("after start: len=%d hasMore=%v, want 50/true", a.Len(), a.HasMore())
	}

	a.Append(page(50, 50))
	if a.Len() != 100 || !a.HasMore() {
		t.Fatalf("after page 2: len=%d hasMore=%v, want 100/true", a.Len(), a.HasMore())
	}

	a.Append(page(100, 20))
	if a.Len() != 120 || a.HasMore() {
		t.Fatalf("after page 3: len=%d hasMore=%v, want 120/false", a.Len(), a.HasMore())
	}
}

func TestAccumulatorSequenceIndices(t *testing.T) {
	a := NewAccumulator(3)
	a.Start(page(0, 3), 7)
	a.Append(page(3, 3))
	a.Append(page(6, 1))

	items := a.Items()
	for i, it := range items {
		if it.Seq != i {
			t.Errorf("items[%d].Seq = %d", i, it.Seq)
		}
	}
}

func TestAccumulatorShortPage(t *testing.T) {
	a := NewAccumulator(50)
	a.Start(page(0, 50), 200)
	a.Append(page(50, 10))

	if a.HasMore() {
		t.Error("a short page must clear hasMore")
	}
	if a.Len() != 60 {
		t.Errorf("len = %d, want 60", a.Len())
	}
}

func TestAccumulatorFullPageAtTotal(t *testing.T) {
	a := NewAccumulator(50)
	a.Start(page(0, 50), 50)
	if a.HasMore() {
		t.Error("hasMore must be false when len == total")
	}
}

func TestAccumulatorNeverExceedsTotal(t *testing.T) {
	a := NewAccumulator(50)
	a.Start(page(0, 50), 30)

	if a.Len() != 30 {
		t.Errorf("len = %d, want 30 (truncated to total)", a.Len())
	}
	if a.HasMore() {
		t.Error("hasMore should be false")
	}
}

func TestAccumulatorStartResets(t *testing.T) {
	a := NewAccumulator(2)
	a.Start(page(0, 2), 10)
	a.Append(page(2, 2))
	a.Start(page(100, 2), 10)

	items := a.Items()
	if len(items) != 2 || items[0].ID != "g100" || items[0].Seq != 0 {
		t.Errorf("start should reset items and indices, got %+v", items)
	}
}

func TestAccumulatorItemsIsCopy(t *testing.T) {
	a := NewAccumulator(2)
	a.Start(page(0, 2), 2)

	items := a.Items()
	items[0].Name = "changed"
	if a.Items()[0].Name == "changed" {
		t.Error("Items must not expose internal storage")
	}
}

func TestAccumulatorEmpty(t *testing.T) {
	a := NewAccumulator(0)
	a.Start(nil, 0)
	if a.Len() != 0 || a.Total() != 0 || a.HasMore() {
		t.Errorf("empty start: len=%d total=%d hasMore=%v", a.Len(), a.Total(), a.HasMore())
	}
	if a.PageSize() != 1 {
		t.Errorf("page size floor = %d, want 1", a.PageSize())
	}
}
