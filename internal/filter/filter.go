// Package filter provides the facet extractor and filter predicate for
// browse results. All functions are pure: items in, items out, no side effects.
// Inputs are never mutated or reordered.
package filter

import (
	"sort"
	"strings"

	"github.com/abelbrown/arcade/internal/catalog"
)

// Facet names a filterable dimension of an item.
type Facet string

const (
	FacetGenre       Facet = "genre"
	FacetTheme       Facet = "theme"
	FacetPlatform    Facet = "platform"
	FacetGameMode    Facet = "game_mode"
	FacetPerspective Facet = "perspective"
	FacetContentType Facet = "content_type"
)

// multiFacets are the set-valued facets: OR within one, AND across them.
var multiFacets = []Facet{FacetGenre, FacetTheme, FacetPlatform, FacetGameMode, FacetPerspective}

// AllFacets returns every facet in panel display order.
func AllFacets() []Facet {
	return append(append([]Facet{}, multiFacets...), FacetContentType)
}

// Label returns a human-readable facet name.
func (f Facet) Label() string {
	switch f {
	case FacetGenre:
		return "Genres"
	case FacetTheme:
		return "Themes"
	case FacetPlatform:
		return "Platforms"
	case FacetGameMode:
		return "Game Modes"
	case FacetPerspective:
		return "Perspectives"
	case FacetContentType:
		return "Content Type"
	}
	return string(f)
}

// Filters is the active filter selection for a browse session.
// The zero value filters nothing.
type Filters struct {
	Selected  map[Facet]map[string]bool
	MinRating float64
	Title     string
}

// Toggle adds value to the facet's selection, or removes it if present.
func (f *Filters) Toggle(facet Facet, value string) {
	if f.Selected == nil {
		f.Selected = make(map[Facet]map[string]bool)
	}
	set := f.Selected[facet]
	if set[value] {
		delete(set, value)
		if len(set) == 0 {
			delete(f.Selected, facet)
		}
		return
	}
	if set == nil {
		set = make(map[string]bool)
		f.Selected[facet] = set
	}
	set[value] = true
}

// IsSelected reports whether value is selected for facet.
func (f Filters) IsSelected(facet Facet, value string) bool {
	return f.Selected[facet][value]
}

// Values returns the selected values for facet, sorted.
func (f Filters) Values(facet Facet) []string {
	set := f.Selected[facet]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Active counts the active constraints: each selected facet value, a
// positive minimum rating and a non-empty title each count as one.
func (f Filters) Active() int {
	n := 0
	for _, set := range f.Selected {
		n += len(set)
	}
	if f.MinRating > 0 {
		n++
	}
	if strings.TrimSpace(f.Title) != "" {
		n++
	}
	return n
}

// Empty reports whether no constraint is active.
func (f Filters) Empty() bool {
	return f.Active() == 0
}

// Clone returns a deep copy.
func (f Filters) Clone() Filters {
	out := Filters{MinRating: f.MinRating, Title: f.Title}
	if len(f.Selected) > 0 {
		out.Selected = make(map[Facet]map[string]bool, len(f.Selected))
		for facet, set := range f.Selected {
			cp := make(map[string]bool, len(set))
			for v := range set {
				cp[v] = true
			}
			out.Selected[facet] = cp
		}
	}
	return out
}

// Apply returns the items that pass f, in their input order.
// Returns an empty (non-nil) slice when nothing passes.
func Apply(items []catalog.Item, f Filters) []catalog.Item {
	result := make([]catalog.Item, 0, len(items))
	title := strings.ToLower(strings.TrimSpace(f.Title))
	for _, item := range items {
		if match(item, f, title) {
			result = append(result, item)
		}
	}
	return result
}

// Match reports whether a single item passes f.
func Match(item catalog.Item, f Filters) bool {
	return match(item, f, strings.ToLower(strings.TrimSpace(f.Title)))
}

func match(item catalog.Item, f Filters, title string) bool {
	if title != "" && !strings.Contains(strings.ToLower(item.Name), title) {
		return false
	}

	if sel := f.Selected[FacetContentType]; len(sel) > 0 {
		if !sel[item.ContentType] && !sel[catalog.ContentLabel(item.ContentType)] {
			return false
		}
	}

	for _, facet := range multiFacets {
		sel := f.Selected[facet]
		if len(sel) == 0 {
			continue
		}
		hit := false
		for _, v := range itemValues(item, facet) {
			if sel[v] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if f.MinRating > 0 {
		if item.Rating.IsNA() || item.Rating.Value < f.MinRating {
			return false
		}
	}
	return true
}

// itemValues returns the item's values for a set-valued facet. Platforms
// are canonicalized so labels and predicates agree.
func itemValues(item catalog.Item, facet Facet) catalog.Values {
	switch facet {
	case FacetGenre:
		return item.Genres
	case FacetTheme:
		return item.Themes
	case FacetPlatform:
		return catalog.CanonicalPlatforms(item.Platforms)
	case FacetGameMode:
		return item.GameModes
	case FacetPerspective:
		return item.Perspectives
	}
	return nil
}
