// Package ranking orders filtered browse results by a user-selected key.
//
// Every ordering falls back to the item's sequence index, so equal items
// always come out in the order they were fetched.
package ranking

import (
	"sort"
	"strings"

	"github.com/abelbrown/arcade/internal/catalog"
)

// Key selects an ordering.
type Key string

const (
	Relevance  Key = "relevance"
	ExactMatch Key = "exact_match"
	NameAsc    Key = "name_asc"
	NameDesc   Key = "name_desc"
	RatingHigh Key = "rating_high"
	RatingLow  Key = "rating_low"
	ReleaseNew Key = "release_new"
	ReleaseOld Key = "release_old"
	AddedNew   Key = "added_new"
	AddedOld   Key = "added_old"
)

// Keys lists every sort key in menu order.
func Keys() []Key {
	return []Key{Relevance, ExactMatch, NameAsc, NameDesc, RatingHigh, RatingLow, ReleaseNew, ReleaseOld, AddedNew, AddedOld}
}

// ParseKey returns the key named s, or Relevance and false if unknown.
func ParseKey(s string) (Key, bool) {
	for _, k := range Keys() {
		if string(k) == s {
			return k, true
		}
	}
	return Relevance, false
}

// Next returns the key after k in menu order, wrapping around.
func (k Key) Next() Key {
	keys := Keys()
	for i, key := range keys {
		if key == k {
			return keys[(i+1)%len(keys)]
		}
	}
	return Relevance
}

// Label returns a short display name.
func (k Key) Label() string {
	switch k {
	case Relevance:
		return "Relevance"
	case ExactMatch:
		return "Exact match"
	case NameAsc:
		return "Name A-Z"
	case NameDesc:
		return "Name Z-A"
	case RatingHigh:
		return "Rating high"
	case RatingLow:
		return "Rating low"
	case ReleaseNew:
		return "Newest release"
	case ReleaseOld:
		return "Oldest release"
	case AddedNew:
		return "Recently added"
	case AddedOld:
		return "First added"
	}
	return string(k)
}

// compareFunc returns <0 if a sorts before b, >0 if after, 0 if tied.
type compareFunc func(a, b *catalog.Item) int

// Sort returns a new slice holding items ordered by key. query is only
// used by ExactMatch. The input slice is not modified.
func Sort(items []catalog.Item, key Key, query string) []catalog.Item {
	result := make([]catalog.Item, len(items))
	copy(result, items)

	cmp := comparator(key, query)
	sort.SliceStable(result, func(i, j int) bool {
		a, b := &result[i], &result[j]
		if c := cmp(a, b); c != 0 {
			return c < 0
		}
		return a.Seq < b.Seq
	})
	return result
}

func comparator(key Key, query string) compareFunc {
	switch key {
	case ExactMatch:
		q := strings.ToLower(strings.TrimSpace(query))
		return func(a, b *catalog.Item) int {
			return matchBucket(a.Name, q) - matchBucket(b.Name, q)
		}
	case NameAsc:
		return func(a, b *catalog.Item) int { return compareName(a.Name, b.Name) }
	case NameDesc:
		return func(a, b *catalog.Item) int { return compareName(b.Name, a.Name) }
	case RatingHigh:
		return func(a, b *catalog.Item) int { return compareRating(a.Rating, b.Rating, true) }
	case RatingLow:
		return func(a, b *catalog.Item) int { return compareRating(a.Rating, b.Rating, false) }
	case ReleaseNew:
		return func(a, b *catalog.Item) int { return b.ReleaseDate.Compare(a.ReleaseDate) }
	case ReleaseOld:
		return func(a, b *catalog.Item) int { return a.ReleaseDate.Compare(b.ReleaseDate) }
	case AddedNew:
		return func(a, b *catalog.Item) int { return b.AddedAt.Compare(a.AddedAt) }
	case AddedOld:
		return func(a, b *catalog.Item) int { return a.AddedAt.Compare(b.AddedAt) }
	}
	// Relevance: sequence index only.
	return func(a, b *catalog.Item) int { return 0 }
}

// matchBucket ranks a name against the lowercased query:
// 0 exact, 1 prefix, 2 everything else.
func matchBucket(name, q string) int {
	if q == "" {
		return 2
	}
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == q:
		return 0
	case strings.HasPrefix(n, q):
		return 1
	}
	return 2
}

// compareName compares names case-insensitively.
func compareName(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareRating orders numeric ratings high-first or low-first. N/A sorts
// after every number either way.
func compareRating(a, b catalog.Rating, highFirst bool) int {
	switch {
	case a.IsNA() && b.IsNA():
		return 0
	case a.IsNA():
		return 1
	case b.IsNA():
		return -1
	case a.Value == b.Value:
		return 0
	case (a.Value > b.Value) == highFirst:
		return -1
	}
	return 1
}
