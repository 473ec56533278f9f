package filter

import (
	"testing"

	"github.com/abelbrown/arcade/internal/catalog"
)

func fixtureItems() []catalog.Item {
	return []catalog.Item{
		{ID: "1", Name: "Elden Ring", Seq: 0, Rating: catalog.Score(4.8),
			Genres: catalog.Values{"RPG", "Adventure"}, Platforms: catalog.Values{"PlayStation 5", "PC (Microsoft Windows)"},
			Themes: catalog.Values{"Fantasy"}, GameModes: catalog.Values{"Single player"}, ContentType: "Main Game"},
		{ID: "2", Name: "Hades", Seq: 1, Rating: catalog.Score(4.6),
			Genres: catalog.Values{"Roguelike"}, Platforms: catalog.Values{"Nintendo Switch", "PC (Microsoft Windows)"},
			Themes: catalog.Values{"Fantasy"}, ContentType: "Main Game"},
		{ID: "3", Name: "Shadow of the Erdtree", Seq: 2, Rating: catalog.NA,
			Genres: catalog.Values{"RPG"}, Platforms: catalog.Values{"PlayStation 5"}, ContentType: "DLC"},
		{ID: "4", Name: "Untitled Prototype", Seq: 3},
	}
}

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func equalIDs(t *testing.T, got []catalog.Item, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestApplyEmptyFilters(t *testing.T) {
	items := fixtureItems()
	equalIDs(t, Apply(items, Filters{}), "1", "2", "3", "4")
}

func TestApplyEmptyInput(t *testing.T) {
	result := Apply(nil, Filters{Title: "x"})
	if result == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(result) != 0 {
		t.Errorf("expected 0 items, got %d", len(result))
	}
}

func TestApplyTitleCaseInsensitive(t *testing.T) {
	equalIDs(t, Apply(fixtureItems(), Filters{Title: "ERD"}), "3")
	equalIDs(t, Apply(fixtureItems(), Filters{Title: "  ring "}), "1")
}

func TestApplyORWithinFacet(t *testing.T) {
	var f Filters
	f.Toggle(FacetGenre, "RPG")
	f.Toggle(FacetGenre, "Roguelike")
	equalIDs(t, Apply(fixtureItems(), f), "1", "2", "3")
}

func TestApplyANDAcrossFacets(t *testing.T) {
	var f Filters
	f.Toggle(FacetGenre, "RPG")
	f.Toggle(FacetTheme, "Fantasy")
	equalIDs(t, Apply(fixtureItems(), f), "1")
}

func TestApplyPlatformCanonicalized(t *testing.T) {
	var f Filters
	f.Toggle(FacetPlatform, "PS5")
	equalIDs(t, Apply(fixtureItems(), f), "1", "3")

	// The raw name is not a facet label and selects nothing.
	var raw Filters
	raw.Toggle(FacetPlatform, "PlayStation 5")
	equalIDs(t, Apply(fixtureItems(), raw))
}

func TestApplyContentTypeBaseGame(t *testing.T) {
	var f Filters
	f.Toggle(FacetContentType, "Base Game")
	equalIDs(t, Apply(fixtureItems(), f), "1", "2")

	var main Filters
	main.Toggle(FacetContentType, "Main Game")
	equalIDs(t, Apply(fixtureItems(), main), "1", "2")

	var dlc Filters
	dlc.Toggle(FacetContentType, "DLC")
	equalIDs(t, Apply(fixtureItems(), dlc), "3")
}

func TestApplyMinRatingExcludesNA(t *testing.T) {
	equalIDs(t, Apply(fixtureItems(), Filters{MinRating: 4.7}), "1")
	equalIDs(t, Apply(fixtureItems(), Filters{MinRating: 0.1}), "1", "2")
	equalIDs(t, Apply(fixtureItems(), Filters{MinRating: 0}), "1", "2", "3", "4")
}

func TestApplyMissingFieldsNeverMatchSelection(t *testing.T) {
	var f Filters
	f.Toggle(FacetPerspective, "First person")
	equalIDs(t, Apply(fixtureItems(), f))
}

func TestApplyPreservesOrderAndInput(t *testing.T) {
	items := fixtureItems()
	// Reverse the input so order is not accidentally Seq order.
	rev := []catalog.Item{items[3], items[2], items[1], items[0]}
	var f Filters
	f.Toggle(FacetGenre, "RPG")
	f.Toggle(FacetGenre, "Roguelike")
	equalIDs(t, Apply(rev, f), "3", "2", "1")
	equalIDs(t, rev, "4", "3", "2", "1")
}

func TestToggle(t *testing.T) {
	var f Filters
	f.Toggle(FacetGenre, "RPG")
	if !f.IsSelected(FacetGenre, "RPG") {
		t.Fatal("RPG should be selected")
	}
	if f.Active() != 1 {
		t.Errorf("Active() = %d, want 1", f.Active())
	}
	f.Toggle(FacetGenre, "RPG")
	if f.IsSelected(FacetGenre, "RPG") {
		t.Error("RPG should be deselected")
	}
	if _, ok := f.Selected[FacetGenre]; ok {
		t.Error("empty facet set should be removed")
	}
	if !f.Empty() {
		t.Error("filters should be empty")
	}
}

func TestActiveCountsRatingAndTitle(t *testing.T) {
	f := Filters{MinRating: 3, Title: "zel"}
	f.Toggle(FacetTheme, "Horror")
	f.Toggle(FacetTheme, "Sci-fi")
	if f.Active() != 4 {
		t.Errorf("Active() = %d, want 4", f.Active())
	}
}

func TestCloneIsDeep(t *testing.T) {
	var f Filters
	f.Toggle(FacetGenre, "RPG")
	cp := f.Clone()
	cp.Toggle(FacetGenre, "Puzzle")
	if f.IsSelected(FacetGenre, "Puzzle") {
		t.Error("mutating the clone changed the original")
	}
	if got := cp.Values(FacetGenre); len(got) != 2 || got[0] != "Puzzle" || got[1] != "RPG" {
		t.Errorf("Values() = %v", got)
	}
}
