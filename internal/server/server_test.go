package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/gateway"
	"github.com/abelbrown/arcade/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	items := []catalog.Item{
		{ID: "1", Name: "Ocarina of Time", Rating: catalog.Score(4.9), Platforms: catalog.Values{"Nintendo 64"},
			ReleaseDate: time.Date(1998, 11, 21, 0, 0, 0, 0, time.UTC), ContentType: "Main Game"},
		{ID: "2", Name: "Zelda", Developers: catalog.Values{"Nintendo"}},
		{ID: "3", Name: "Breath of the Wild", Genres: catalog.Values{"Adventure", "RPG"}, Platforms: catalog.Values{"Nintendo Switch"}},
	}
	if _, err := st.SaveItems(context.Background(), items); err != nil {
		t.Fatalf("SaveItems: %v", err)
	}

	srv := httptest.NewServer(New(st).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestSearchReturnsArray(t *testing.T) {
	srv := newTestServer(t)

	code, body := get(t, srv.URL+"/search?query=&category=all&limit=2&offset=0")
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", code, body)
	}
	var games []map[string]any
	if err := json.Unmarshal([]byte(body), &games); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(games) != 2 || games[0]["name"] != "Ocarina of Time" {
		t.Errorf("games = %v", games)
	}
	if games[1]["rating"] != "N/A" {
		t.Errorf("missing rating should be N/A, got %v", games[1]["rating"])
	}
	if _, ok := games[1]["genres"].([]any); !ok {
		t.Errorf("genres should always be an array, got %T", games[1]["genres"])
	}
}

func TestCountReturnsInteger(t *testing.T) {
	srv := newTestServer(t)

	code, body := get(t, srv.URL+"/search/count?query=nintendo&category=all")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if strings.TrimSpace(body) != "3" {
		t.Errorf("count = %s, want 3", body)
	}
}

func TestBadParams(t *testing.T) {
	srv := newTestServer(t)

	for _, q := range []string{
		"category=genres",
		"limit=abc",
		"limit=500",
		"limit=-1",
		"offset=-5",
	} {
		code, body := get(t, srv.URL+"/search?"+q)
		if code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, code)
		}
		var e map[string]string
		if err := json.Unmarshal([]byte(body), &e); err != nil || e["error"] == "" {
			t.Errorf("%s: body = %s, want error object", q, body)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	if code, body := get(t, srv.URL+"/healthz"); code != http.StatusOK || !strings.Contains(body, "ok") {
		t.Errorf("healthz = %d %s", code, body)
	}
	get(t, srv.URL+"/search?query=zelda")
	code, body := get(t, srv.URL+"/metrics")
	if code != http.StatusOK || !strings.Contains(body, "catalogd_http_requests_total") {
		t.Errorf("metrics missing request counter: %d", code)
	}
}

func TestGatewayClientRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := gateway.NewClient(srv.URL, 5*time.Second, gateway.WithRateLimit(0))
	ctx := context.Background()

	items, err := c.Search(ctx, "zelda", catalog.CategoryAll, 50, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Zelda" {
		t.Errorf("items = %+v", items)
	}

	items, err = c.Search(ctx, "ocarina", catalog.CategoryTitles, 50, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	oot := items[0]
	if oot.Rating.Value != 4.9 || oot.ReleaseDate.Year() != 1998 || oot.ContentType != "Main Game" {
		t.Errorf("ocarina = %+v", oot)
	}

	n, err := c.Count(ctx, "", catalog.CategoryAll)
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestGatewayClientSeesBadRequest(t *testing.T) {
	srv := newTestServer(t)
	c := gateway.NewClient(srv.URL, 5*time.Second, gateway.WithRateLimit(0))

	_, err := c.Search(context.Background(), "x", catalog.CategoryAll, 1000, 0)
	if !errors.Is(err, gateway.ErrStatus) {
		t.Errorf("err = %v, want ErrStatus", err)
	}
}

type failingCorpus struct{}

func (failingCorpus) Search(context.Context, string, catalog.Category, int, int) ([]catalog.Item, error) {
	return nil, errors.New("disk gone")
}

func (failingCorpus) Count(context.Context, string, catalog.Category) (int, error) {
	return 0, errors.New("disk gone")
}

func TestCorpusFailureIs500(t *testing.T) {
	srv := httptest.NewServer(New(failingCorpus{}).Routes())
	defer srv.Close()

	if code, _ := get(t, srv.URL+"/search?query=x"); code != http.StatusInternalServerError {
		t.Errorf("search status = %d, want 500", code)
	}
	if code, _ := get(t, srv.URL+"/search/count?query=x"); code != http.StatusInternalServerError {
		t.Errorf("count status = %d, want 500", code)
	}
}
