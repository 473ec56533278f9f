package session

import (
	"slices"

	"github.com/abelbrown/arcade/internal/catalog"
)

// Accumulator is the growing list of fetched items for one session, with
// the authoritative total and the has-more flag.
//
// Invariants: Len() <= Total(), and item Seq values run 0..Len()-1 in
// fetch order.
type Accumulator struct {
	pageSize int
	items    []catalog.Item
	total    int
	hasMore  bool
}

// NewAccumulator creates an empty accumulator for pages of pageSize items.
func NewAccumulator(pageSize int) *Accumulator {
	return &Accumulator{pageSize: max(pageSize, 1)}
}

// Start replaces the contents with the first page of a session.
func (a *Accumulator) Start(page []catalog.Item, total int) {
	a.items = make([]catalog.Item, 0, len(page))
	a.total = max(total, 0)
	a.hasMore = a.push(page)
}

// Append adds the next page with continuing sequence indices. hasMore is
// forced false once the total is reached, even after a full page.
func (a *Accumulator) Append(page []catalog.Item) {
	a.hasMore = a.push(page)
}

// push appends items up to the total and reports the new hasMore value.
// Items past the total are dropped so Len never exceeds Total.
func (a *Accumulator) push(page []catalog.Item) bool {
	full := len(page) >= a.pageSize
	room := max(a.total-len(a.items), 0)
	if len(page) > room {
		page = page[:room]
	}
	for _, it := range page {
		it.Seq = len(a.items)
		a.items = append(a.items, it)
	}
	return full && len(a.items) < a.total
}

// Items returns a copy of the accumulated items in fetch order.
func (a *Accumulator) Items() []catalog.Item {
	return slices.Clone(a.items)
}

// Len returns the number of accumulated items. It is also the offset of
// the next page.
func (a *Accumulator) Len() int { return len(a.items) }

// Total returns the corpus count reported at session start.
func (a *Accumulator) Total() int { return a.total }

// HasMore reports whether another page can be requested.
func (a *Accumulator) HasMore() bool { return a.hasMore }

// PageSize returns the page size used for every request.
func (a *Accumulator) PageSize() int { return a.pageSize }
