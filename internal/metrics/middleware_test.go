package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/search/count", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("3"))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/search/count", "200"))
	req := httptest.NewRequest("GET", "/search/count?query=zelda", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/search/count", "200"))
	if after-before != 1 {
		t.Errorf("requests_total delta = %v, want 1", after-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/search", "400"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/search", http.NoBody))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/search", "400"))
	if after-before != 1 {
		t.Errorf("400 delta = %v, want 1", after-before)
	}
}

func TestObserveSearch(t *testing.T) {
	ObserveSearch("titles", 12)
	if testutil.CollectAndCount(searchResults) == 0 {
		t.Error("expected search page observations")
	}
}
