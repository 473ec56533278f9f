package filter

import (
	"sort"

	"github.com/abelbrown/arcade/internal/catalog"
)

// Facets holds the values available for each facet, each list deduplicated
// and sorted lexicographically.
//
// Facets are computed from the items loaded so far, not the whole remote
// corpus, so the panel grows as more pages arrive.
type Facets map[Facet][]string

// Extract derives the available facet values from items.
func Extract(items []catalog.Item) Facets {
	seen := make(map[Facet]map[string]bool, len(multiFacets)+1)
	for _, facet := range AllFacets() {
		seen[facet] = make(map[string]bool)
	}

	for _, item := range items {
		for _, facet := range multiFacets {
			for _, v := range itemValues(item, facet) {
				seen[facet][v] = true
			}
		}
		if item.ContentType != "" {
			seen[FacetContentType][catalog.ContentLabel(item.ContentType)] = true
		}
	}

	out := make(Facets, len(seen))
	for facet, set := range seen {
		vals := make([]string, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		out[facet] = vals
	}
	return out
}

// Count returns the total number of facet values across all facets.
func (f Facets) Count() int {
	n := 0
	for _, vals := range f {
		n += len(vals)
	}
	return n
}
