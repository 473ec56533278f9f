// Package catalog defines the game catalog domain types shared by the
// gateway client, the browse session, and the reference server.
package catalog

import (
	"time"
)

// Item is one candidate entry returned by the search gateway.
// Seq is assigned by the session accumulator when the item is fetched and is
// never changed afterwards.
type Item struct {
	ID           string
	Name         string
	Summary      string
	Cover        string
	Rating       Rating
	ReleaseDate  time.Time // zero = unknown
	AddedAt      time.Time // zero = unknown
	Genres       Values
	Themes       Values
	Platforms    Values
	GameModes    Values
	Perspectives Values
	ContentType  string
	Developers   Values
	Keywords     Values

	Seq int
}

// Category scopes which fields a gateway search matches against.
type Category string

const (
	CategoryAll        Category = "all"
	CategoryTitles     Category = "titles"
	CategoryDevelopers Category = "developers"
	CategoryPlatforms  Category = "platforms"
	CategoryKeywords   Category = "keywords"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryAll, CategoryTitles, CategoryDevelopers, CategoryPlatforms, CategoryKeywords}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAll, CategoryTitles, CategoryDevelopers, CategoryPlatforms, CategoryKeywords:
		return true
	}
	return false
}

// Next returns the category after c, wrapping around.
func (c Category) Next() Category {
	all := Categories()
	for i, cat := range all {
		if cat == c {
			return all[(i+1)%len(all)]
		}
	}
	return CategoryAll
}

// ParseCategory returns the category named s. Empty input means CategoryAll.
func ParseCategory(s string) (Category, bool) {
	if s == "" {
		return CategoryAll, true
	}
	c := Category(s)
	return c, c.Valid()
}
