package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/filter"
	"github.com/abelbrown/arcade/internal/ranking"
)

// fakeGateway serves a fixed corpus. Safe for the concurrent calls made
// by FetchStart.
type fakeGateway struct {
	mu        sync.Mutex
	items     []catalog.Item
	total     int // reported count; -1 means len(items)
	searchErr error
	countErr  error
	searches  int
	counts    int
	lastCat   catalog.Category
}

func newFakeGateway(items []catalog.Item) *fakeGateway {
	return &fakeGateway{items: items, total: -1}
}

func (f *fakeGateway) Search(_ context.Context, _ string, cat catalog.Category, limit, offset int) ([]catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	f.lastCat = cat
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if offset >= len(f.items) {
		return []catalog.Item{}, nil
	}
	end := min(offset+limit, len(f.items))
	return slices.Clone(f.items[offset:end]), nil
}

func (f *fakeGateway) Count(_ context.Context, _ string, _ catalog.Category) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts++
	if f.countErr != nil {
		return 0, f.countErr
	}
	if f.total >= 0 {
		return f.total, nil
	}
	return len(f.items), nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches + f.counts
}

func submit(t *testing.T, c *Controller, gw Gateway, query string) {
	t.Helper()
	req := c.Submit(query)
	if !c.CommitStart(FetchStart(context.Background(), gw, req)) {
		t.Fatalf("CommitStart(%q) dropped", query)
	}
}

func loadMore(t *testing.T, c *Controller, gw Gateway) bool {
	t.Helper()
	req, ok := c.LoadMore()
	if !ok {
		return false
	}
	if !c.CommitPage(FetchPage(context.Background(), gw, req)) {
		t.Fatal("CommitPage dropped")
	}
	return true
}

func names(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestPaginationScenario(t *testing.T) {
	gw := newFakeGateway(page(0, 120))
	c := NewController(50, nil)

	submit(t, c, gw, "game")
	st := c.Status()
	if st.Loaded != 50 || !st.HasMore || st.Total != 120 || st.State != StateReady {
		t.Fatalf("after start: %+v", st)
	}

	for i := 0; i < 2; i++ {
		if !loadMore(t, c, gw) {
			t.Fatalf("loadMore %d refused", i+1)
		}
	}
	st = c.Status()
	if st.Loaded != 120 || st.HasMore {
		t.Fatalf("after two pages: loaded=%d hasMore=%v", st.Loaded, st.HasMore)
	}

	before := gw.calls()
	if loadMore(t, c, gw) {
		t.Error("third loadMore should be a no-op")
	}
	if gw.calls() != before {
		t.Error("no-op loadMore must not reach the gateway")
	}
}

func TestLoadMoreGuardWhileInFlight(t *testing.T) {
	gw := newFakeGateway(page(0, 120))
	c := NewController(50, nil)
	submit(t, c, gw, "game")

	req, ok := c.LoadMore()
	if !ok {
		t.Fatal("first LoadMore refused")
	}
	if _, ok := c.LoadMore(); ok {
		t.Fatal("second LoadMore while in flight should be ignored")
	}
	if c.State() != StateLoadingMore {
		t.Errorf("state = %v, want loading more", c.State())
	}

	c.CommitPage(FetchPage(context.Background(), gw, req))
	if c.Status().Loaded != 100 {
		t.Errorf("loaded = %d, want 100", c.Status().Loaded)
	}
}

func TestLoadMoreBeforeStart(t *testing.T) {
	c := NewController(50, nil)
	if _, ok := c.LoadMore(); ok {
		t.Error("LoadMore while idle should be ignored")
	}

	c.Submit("game")
	if _, ok := c.LoadMore(); ok {
		t.Error("LoadMore while the first page is loading should be ignored")
	}
}

func TestStaleStartDropped(t *testing.T) {
	gw := newFakeGateway(page(0, 10))
	c := NewController(50, nil)

	first := c.Submit("first")
	second := c.Submit("second")

	if c.CommitStart(FetchStart(context.Background(), gw, first)) {
		t.Fatal("result of superseded session should be dropped")
	}
	if c.State() != StateLoading {
		t.Errorf("state = %v after stale drop, want loading", c.State())
	}
	if !c.CommitStart(FetchStart(context.Background(), gw, second)) {
		t.Fatal("current result dropped")
	}
	if c.Query() != "second" || c.Status().Loaded != 10 {
		t.Errorf("status = %+v", c.Status())
	}
}

func TestStalePageDropped(t *testing.T) {
	gw := newFakeGateway(page(0, 120))
	c := NewController(50, nil)
	submit(t, c, gw, "one")

	req, _ := c.LoadMore()
	submit(t, c, gw, "two")

	if c.CommitPage(FetchPage(context.Background(), gw, req)) {
		t.Fatal("page from previous session should be dropped")
	}
	if c.Status().Loaded != 50 {
		t.Errorf("loaded = %d, want 50", c.Status().Loaded)
	}
}

func TestSubmitClearsFilters(t *testing.T) {
	gw := newFakeGateway(page(0, 10))
	c := NewController(50, nil)
	submit(t, c, gw, "one")

	c.ToggleFacet(filter.FacetGenre, "RPG")
	c.SetMinRating(3)
	c.SetTitle("zel")
	c.SetSort(ranking.NameDesc)

	submit(t, c, gw, "two")
	if !c.Filters().Empty() {
		t.Errorf("filters = %+v, want empty", c.Filters())
	}
	if c.Sort() != ranking.NameDesc {
		t.Errorf("sort = %v, sort key should survive a new query", c.Sort())
	}
}

func TestCategoryChangePreservesFilters(t *testing.T) {
	gw := newFakeGateway(page(0, 10))
	c := NewController(50, nil)
	submit(t, c, gw, "zelda")
	c.ToggleFacet(filter.FacetGenre, "RPG")
	before := gw.calls()

	req, ok := c.SetCategory(catalog.CategoryDevelopers)
	if !ok {
		t.Fatal("category change should start a session")
	}
	if !c.CommitStart(FetchStart(context.Background(), gw, req)) {
		t.Fatal("CommitStart dropped")
	}

	if gw.calls() == before {
		t.Error("category change should re-fetch")
	}
	if gw.lastCat != catalog.CategoryDevelopers {
		t.Errorf("gateway category = %q", gw.lastCat)
	}
	if got := c.Filters().Values(filter.FacetGenre); !slices.Equal(got, []string{"RPG"}) {
		t.Errorf("genre filter = %v, want [RPG]", got)
	}
	if c.Query() != "zelda" {
		t.Errorf("query = %q", c.Query())
	}
}

func TestCategoryChangeSameOrIdle(t *testing.T) {
	c := NewController(50, nil)
	if _, ok := c.SetCategory(catalog.CategoryTitles); ok {
		t.Error("idle controller should only record the category")
	}
	if c.Category() != catalog.CategoryTitles {
		t.Errorf("category = %q", c.Category())
	}
	if _, ok := c.SetCategory(catalog.CategoryTitles); ok {
		t.Error("unchanged category should not fetch")
	}
	if _, ok := c.SetCategory("bogus"); ok {
		t.Error("invalid category should be ignored")
	}
}

func TestStartFailure(t *testing.T) {
	gw := newFakeGateway(page(0, 10))
	gw.searchErr = errors.New("connection refused")
	c := NewController(50, nil)

	req := c.Submit("zelda")
	c.CommitStart(FetchStart(context.Background(), gw, req))

	st := c.Status()
	if st.State != StateError || st.Err == nil {
		t.Fatalf("status = %+v, want error", st)
	}
	if st.Loaded != 0 || st.Total != 0 || st.HasMore {
		t.Errorf("failed session should be empty: %+v", st)
	}
	if c.Empty() != EmptyFailed {
		t.Errorf("Empty() = %v, want EmptyFailed", c.Empty())
	}

	gw.searchErr = nil
	submit(t, c, gw, "zelda")
	if c.State() != StateReady {
		t.Errorf("new query after error: state = %v", c.State())
	}
}

func TestCountFailureDegrades(t *testing.T) {
	gw := newFakeGateway(page(0, 10))
	gw.countErr = errors.New("503")
	c := NewController(50, nil)

	req := c.Submit("zelda")
	res := FetchStart(context.Background(), gw, req)
	if res.Err == nil || len(res.Items) != 0 || res.Total != 0 {
		t.Fatalf("result = %+v, want empty with error", res)
	}
	c.CommitStart(res)
	if c.Empty() != EmptyFailed {
		t.Errorf("Empty() = %v, want EmptyFailed", c.Empty())
	}
}

func TestPageFailureKeepsItems(t *testing.T) {
	gw := newFakeGateway(page(0, 120))
	c := NewController(50, nil)
	submit(t, c, gw, "game")

	gw.searchErr = errors.New("timeout")
	loadMore(t, c, gw)

	st := c.Status()
	if st.State != StateReady || st.PageErr == nil {
		t.Fatalf("status = %+v, want ready with page error", st)
	}
	if st.Loaded != 50 || !st.HasMore {
		t.Errorf("failed page must keep items and hasMore: %+v", st)
	}

	gw.searchErr = nil
	if !loadMore(t, c, gw) {
		t.Fatal("retry refused")
	}
	st = c.Status()
	if st.PageErr != nil || st.Loaded != 100 {
		t.Errorf("after retry: %+v", st)
	}
}

func TestEmptyReasons(t *testing.T) {
	c := NewController(50, nil)
	submit(t, c, newFakeGateway(nil), "nothing")
	if c.Empty() != EmptyNoResults {
		t.Errorf("Empty() = %v, want EmptyNoResults", c.Empty())
	}

	items := page(0, 3)
	items[0].Genres = catalog.Values{"Puzzle"}
	submit(t, c, newFakeGateway(items), "game")
	if c.Empty() != EmptyNone {
		t.Errorf("Empty() = %v, want EmptyNone", c.Empty())
	}

	c.ToggleFacet(filter.FacetGenre, "Racing")
	if c.Empty() != EmptyFiltered {
		t.Errorf("Empty() = %v, want EmptyFiltered", c.Empty())
	}
	if c.Status().Total == 0 {
		t.Error("filtered-empty must keep a positive total")
	}
}

func TestFilterChangesDoNotFetch(t *testing.T) {
	gw := newFakeGateway(page(0, 10))
	c := NewController(50, nil)
	submit(t, c, gw, "game")
	before := gw.calls()

	c.ToggleFacet(filter.FacetGenre, "RPG")
	c.SetMinRating(2)
	c.SetTitle("x")
	c.SetSort(ranking.RatingHigh)
	c.ClearFilters()
	_ = c.View()
	_ = c.Facets()

	if gw.calls() != before {
		t.Errorf("gateway calls went from %d to %d", before, gw.calls())
	}
}

func TestRelevanceIndependentOfFilters(t *testing.T) {
	items := page(0, 6)
	for i := range items {
		if i%2 == 0 {
			items[i].Genres = catalog.Values{"RPG"}
		}
	}
	// Reverse-alphabetical names so name order and fetch order differ.
	for i := range items {
		items[i].Name = fmt.Sprintf("Game %c", 'Z'-i)
	}
	c := NewController(50, nil)
	submit(t, c, newFakeGateway(items), "game")

	c.ToggleFacet(filter.FacetGenre, "RPG")
	got := c.View()
	for i := 1; i < len(got); i++ {
		if got[i-1].Seq >= got[i].Seq {
			t.Fatalf("relevance view out of fetch order: %v", names(got))
		}
	}
	if len(got) != 3 {
		t.Errorf("got %d items, want 3", len(got))
	}
}

func TestExactMatchView(t *testing.T) {
	items := []catalog.Item{
		{ID: "1", Name: "Ocarina of Time"},
		{ID: "2", Name: "Zelda"},
		{ID: "3", Name: "Breath of the Wild"},
	}
	c := NewController(50, nil)
	submit(t, c, newFakeGateway(items), "Zelda")
	c.SetSort(ranking.ExactMatch)

	want := []string{"Zelda", "Ocarina of Time", "Breath of the Wild"}
	if got := names(c.View()); !slices.Equal(got, want) {
		t.Errorf("view = %v, want %v", got, want)
	}
}

func TestPlatformCanonicalFilter(t *testing.T) {
	items := []catalog.Item{
		{ID: "1", Name: "Returnal", Platforms: catalog.Values{"PlayStation 5"}},
		{ID: "2", Name: "Halo", Platforms: catalog.Values{"Xbox One"}},
	}
	c := NewController(50, nil)
	submit(t, c, newFakeGateway(items), "")

	if !slices.Contains(c.Facets()[filter.FacetPlatform], "PS5") {
		t.Fatalf("platform facets = %v, want PS5", c.Facets()[filter.FacetPlatform])
	}
	c.ToggleFacet(filter.FacetPlatform, "PS5")
	if got := names(c.View()); !slices.Equal(got, []string{"Returnal"}) {
		t.Errorf("view = %v, want [Returnal]", got)
	}
}

func TestFacetsGrowWithWindow(t *testing.T) {
	items := page(0, 4)
	items[0].Genres = catalog.Values{"Action"}
	items[3].Genres = catalog.Values{"Puzzle"}
	gw := newFakeGateway(items)
	c := NewController(2, nil)
	submit(t, c, gw, "game")

	if got := c.Facets()[filter.FacetGenre]; !slices.Equal(got, []string{"Action"}) {
		t.Fatalf("genres after first page = %v", got)
	}
	loadMore(t, c, gw)
	if got := c.Facets()[filter.FacetGenre]; !slices.Equal(got, []string{"Action", "Puzzle"}) {
		t.Errorf("genres after second page = %v", got)
	}
}

func TestMinRatingClamp(t *testing.T) {
	c := NewController(50, nil)
	c.SetMinRating(9)
	if c.Filters().MinRating != catalog.MaxRating {
		t.Errorf("min rating = %v, want %v", c.Filters().MinRating, catalog.MaxRating)
	}
	c.SetMinRating(-1)
	if c.Filters().MinRating != 0 {
		t.Errorf("min rating = %v, want 0", c.Filters().MinRating)
	}
}

func TestSetSortIgnoresUnknown(t *testing.T) {
	c := NewController(50, nil)
	c.SetSort("bogus")
	if c.Sort() != ranking.Relevance {
		t.Errorf("sort = %v", c.Sort())
	}
}

func TestInvariantAccumulatedWithinTotal(t *testing.T) {
	gw := newFakeGateway(page(0, 95))
	gw.total = 70
	c := NewController(25, nil)
	submit(t, c, gw, "game")

	for {
		st := c.Status()
		if st.Loaded > st.Total {
			t.Fatalf("loaded %d > total %d", st.Loaded, st.Total)
		}
		if !loadMore(t, c, gw) {
			break
		}
	}
	if st := c.Status(); st.Loaded != 70 || st.HasMore {
		t.Errorf("final status = %+v", st)
	}
}

func TestQueryIDPerSession(t *testing.T) {
	gw := newFakeGateway(page(0, 5))
	c := NewController(50, nil)
	submit(t, c, gw, "a")
	first := c.Status().QueryID
	submit(t, c, gw, "a")
	if first == "" || first == c.Status().QueryID {
		t.Errorf("query ids %q and %q should differ", first, c.Status().QueryID)
	}
}
