package session

import (
	"context"
	"errors"
	"testing"

	"github.com/abelbrown/arcade/internal/catalog"
)

func TestQuickOnlyLatestTickFires(t *testing.T) {
	q := NewQuick(5, nil)

	t1 := q.Input("ze")
	t2 := q.Input("zel")

	if _, ok := q.Fire(t1); ok {
		t.Error("superseded tick should not fire")
	}
	req, ok := q.Fire(t2)
	if !ok {
		t.Fatal("latest tick should fire")
	}
	if req.Text != "zel" || req.Limit != 5 || req.Token != t2 {
		t.Errorf("request = %+v", req)
	}
}

func TestQuickBlankInputDoesNotFire(t *testing.T) {
	q := NewQuick(5, nil)
	tok := q.Input("   ")
	if _, ok := q.Fire(tok); ok {
		t.Error("blank input should not fire")
	}
}

func TestQuickDropsOutOfOrderResponse(t *testing.T) {
	q := NewQuick(5, nil)

	t1 := q.Input("ha")
	old, _ := q.Fire(t1)
	t2 := q.Input("hades")
	cur, _ := q.Fire(t2)

	if !q.Commit(QuickResult{Token: cur.Token, Text: cur.Text, Items: []catalog.Item{{Name: "Hades"}}}) {
		t.Fatal("current result dropped")
	}
	if q.Commit(QuickResult{Token: old.Token, Text: old.Text, Items: []catalog.Item{{Name: "Half-Life"}}}) {
		t.Fatal("stale result committed")
	}
	if got := q.Results(); len(got) != 1 || got[0].Name != "Hades" {
		t.Errorf("results = %+v", got)
	}
}

func TestQuickCacheServesRepeatInput(t *testing.T) {
	q := NewQuick(5, nil)

	tok := q.Input("Celeste")
	req, _ := q.Fire(tok)
	q.Commit(QuickResult{Token: req.Token, Text: req.Text, Items: []catalog.Item{{Name: "Celeste"}}})

	q.Input("cel")
	tok = q.Input("celeste ")
	if _, ok := q.Fire(tok); ok {
		t.Fatal("cached text should not issue a request")
	}
	if got := q.Results(); len(got) != 1 || got[0].Name != "Celeste" {
		t.Errorf("results = %+v", got)
	}
}

func TestQuickErrorClearsResults(t *testing.T) {
	q := NewQuick(5, nil)
	tok := q.Input("x")
	q.Fire(tok)
	if !q.Commit(QuickResult{Token: tok, Text: "x", Err: errors.New("down")}) {
		t.Fatal("current error result dropped")
	}
	if q.Results() != nil {
		t.Error("results should be cleared on error")
	}
}

func TestQuickResetInvalidatesPendingTick(t *testing.T) {
	q := NewQuick(5, nil)
	tok := q.Input("doom")
	q.Reset()
	if _, ok := q.Fire(tok); ok {
		t.Error("tick from before Reset should not fire")
	}
	if q.Text() != "" {
		t.Errorf("text = %q", q.Text())
	}
}

func TestFetchQuickSearchesTitles(t *testing.T) {
	gw := newFakeGateway(page(0, 20))
	res := FetchQuick(context.Background(), gw, QuickRequest{Token: 9, Text: " game ", Limit: 3})
	if res.Err != nil {
		t.Fatalf("FetchQuick: %v", res.Err)
	}
	if len(res.Items) != 3 || res.Token != 9 {
		t.Errorf("result = %+v", res)
	}
	if gw.lastCat != catalog.CategoryTitles {
		t.Errorf("category = %q, want titles", gw.lastCat)
	}
}
