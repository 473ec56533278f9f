// Package server is catalogd's HTTP API: the search gateway the arcade
// client talks to.
//
//	GET /search?query&category&limit&offset  -> JSON array of games
//	GET /search/count?query&category         -> JSON integer
//	GET /healthz                             -> {"status":"ok"}
//	GET /metrics                             -> Prometheus exposition
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/logging"
	"github.com/abelbrown/arcade/internal/metrics"
)

// Paging limits for /search.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Corpus is the searchable game collection. *store.Store implements it.
type Corpus interface {
	Search(ctx context.Context, query string, category catalog.Category, limit, offset int) ([]catalog.Item, error)
	Count(ctx context.Context, query string, category catalog.Category) (int, error)
}

// Server serves the search API over a Corpus.
type Server struct {
	corpus  Corpus
	decoder *schema.Decoder
}

// New creates a Server.
func New(corpus Corpus) *Server {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return &Server{corpus: corpus, decoder: d}
}

// Routes returns the router with middleware installed.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLog)
	r.Use(metrics.Middleware())

	r.Get("/search", s.handleSearch)
	r.Get("/search/count", s.handleCount)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := s.params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.corpus.Search(r.Context(), params.Query, params.Category, params.Limit, params.Offset)
	if err != nil {
		logging.Error("search failed", "query", params.Query, "category", params.Category, "err", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	metrics.ObserveSearch(string(params.Category), len(items))

	out := make([]gameJSON, len(items))
	for i, it := range items {
		out[i] = toJSON(it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	params, err := s.params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.corpus.Count(r.Context(), params.Query, params.Category)
	if err != nil {
		logging.Error("count failed", "query", params.Query, "category", params.Category, "err", err)
		writeError(w, http.StatusInternalServerError, "count failed")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// params decodes and validates the query string. A missing category means
// all; a missing limit means DefaultLimit.
func (s *Server) params(r *http.Request) (catalog.SearchParams, error) {
	var p catalog.SearchParams
	if err := s.decoder.Decode(&p, r.URL.Query()); err != nil {
		return p, fmt.Errorf("invalid parameters: %w", err)
	}

	cat, ok := catalog.ParseCategory(string(p.Category))
	if !ok {
		return p, fmt.Errorf("unknown category %q", p.Category)
	}
	p.Category = cat

	switch {
	case p.Limit == 0:
		p.Limit = DefaultLimit
	case p.Limit < 0 || p.Limit > MaxLimit:
		return p, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	if p.Offset < 0 {
		return p, fmt.Errorf("offset must not be negative")
	}
	return p, nil
}

// requestLog logs every request at debug level.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
