package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/filter"
	"github.com/abelbrown/arcade/internal/gateway"
	"github.com/abelbrown/arcade/internal/ranking"
	"github.com/abelbrown/arcade/internal/session"
)

func newClient(t *testing.T) *gateway.Client {
	t.Helper()
	srv := startCatalog(t)
	return gateway.NewClient(srv.URL, 5*time.Second, gateway.WithBackoffs())
}

func TestSessionPagesToTotal(t *testing.T) {
	ctx := context.Background()
	gw := newClient(t)
	ctrl := session.NewController(5, nil)

	if !ctrl.CommitStart(session.FetchStart(ctx, gw, ctrl.Submit("zelda"))) {
		t.Fatal("start result dropped")
	}
	st := ctrl.Status()
	if st.State != session.StateReady || st.Loaded != 5 || st.Total != 12 || !st.HasMore {
		t.Fatalf("after start: %+v", st)
	}

	pages := 0
	for {
		req, ok := ctrl.LoadMore()
		if !ok {
			break
		}
		if !ctrl.CommitPage(session.FetchPage(ctx, gw, req)) {
			t.Fatalf("page at offset %d dropped", req.Offset)
		}
		pages++
	}
	st = ctrl.Status()
	if pages != 2 || st.Loaded != 12 || st.HasMore {
		t.Errorf("after %d pages: %+v", pages, st)
	}

	seen := make(map[string]bool)
	for _, it := range ctrl.View() {
		if seen[it.ID] {
			t.Errorf("duplicate item %s across pages", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestSessionCategoryAndFilters(t *testing.T) {
	ctx := context.Background()
	gw := newClient(t)
	ctrl := session.NewController(50, nil)

	ctrl.CommitStart(session.FetchStart(ctx, gw, ctrl.Submit("greek")))
	if got := ctrl.Status().Total; got != 1 {
		t.Fatalf("keyword match total = %d, want 1", got)
	}

	req, ok := ctrl.SetCategory(catalog.CategoryTitles)
	if !ok {
		t.Fatal("category change should restart the session")
	}
	ctrl.CommitStart(session.FetchStart(ctx, gw, req))
	if e := ctrl.Empty(); e != session.EmptyNoResults {
		t.Errorf("titles-only search for a keyword: empty = %v, want no results", e)
	}

	ctrl.SetCategory(catalog.CategoryAll)
	ctrl.CommitStart(session.FetchStart(ctx, gw, ctrl.Submit("")))
	if got := ctrl.Status().Total; got != 13 {
		t.Fatalf("empty query total = %d, want 13", got)
	}

	ctrl.ToggleFacet(filter.FacetGenre, "RPG")
	ctrl.SetSort(ranking.RatingHigh)
	view := ctrl.View()
	if len(view) != 2 || view[0].ID != "z11" || view[1].ID != "z02" {
		t.Errorf("RPG by rating: got %v", ids(view))
	}

	ctrl.ClearFilters()
	ctrl.SetMinRating(4.8)
	if got := ids(ctrl.View()); len(got) != 3 {
		t.Errorf("rating >= 4.8: got %v", got)
	}
}

func TestSessionStaleStartDropped(t *testing.T) {
	ctx := context.Background()
	gw := newClient(t)
	ctrl := session.NewController(50, nil)

	first := ctrl.Submit("zelda")
	second := ctrl.Submit("hades")

	if ctrl.CommitStart(session.FetchStart(ctx, gw, first)) {
		t.Error("superseded start result should be dropped")
	}
	if !ctrl.CommitStart(session.FetchStart(ctx, gw, second)) {
		t.Fatal("current start result dropped")
	}
	if view := ctrl.View(); len(view) != 1 || view[0].Name != "Fixture Hades" {
		t.Errorf("view = %v, want only Fixture Hades", ids(view))
	}
}

func TestQuickSearchOverGateway(t *testing.T) {
	gw := newClient(t)
	q := session.NewQuick(3, nil)

	tok := q.Input("zel")
	req, ok := q.Fire(tok)
	if !ok {
		t.Fatal("current token should fire")
	}
	if !q.Commit(session.FetchQuick(context.Background(), gw, req)) {
		t.Fatal("quick result dropped")
	}
	if got := len(q.Results()); got != 3 {
		t.Errorf("quick results = %d, want limit 3", got)
	}
}

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
