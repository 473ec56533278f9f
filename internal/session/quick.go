package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/otel"
)

// Quick-search defaults.
const (
	DefaultDebounce   = 300 * time.Millisecond
	DefaultQuickLimit = 8
	quickCacheSize    = 64
)

// Quick is the typeahead search. Every keystroke takes a new token; the
// caller schedules a trailing-edge tick carrying it, and only the tick
// holding the latest token may issue a request. Responses are validated
// against the same token, so out-of-order replies are dropped.
type Quick struct {
	log   *otel.Logger
	limit int
	cache *lru.Cache[string, []catalog.Item]

	token   Token
	text    string
	results []catalog.Item
}

// QuickRequest is one typeahead search.
type QuickRequest struct {
	Token Token
	Text  string
	Limit int
}

// QuickResult is the outcome of a QuickRequest.
type QuickResult struct {
	Token Token
	Text  string
	Items []catalog.Item
	Err   error
}

// NewQuick creates a typeahead returning at most limit results.
func NewQuick(limit int, log *otel.Logger) *Quick {
	if limit <= 0 {
		limit = DefaultQuickLimit
	}
	cache, _ := lru.New[string, []catalog.Item](quickCacheSize)
	return &Quick{log: log, limit: limit, cache: cache}
}

// Input records new input text and returns the token the debounce tick
// must carry.
func (q *Quick) Input(text string) Token {
	q.token++
	q.text = text
	if strings.TrimSpace(text) == "" {
		q.results = nil
	}
	return q.token
}

// Fire is called when a debounce tick expires. It returns a request only
// when tok is still the latest input and the text is not blank. Cached
// results are applied immediately and no request is returned.
func (q *Quick) Fire(tok Token) (QuickRequest, bool) {
	if tok != q.token {
		return QuickRequest{}, false
	}
	key := normalize(q.text)
	if key == "" {
		return QuickRequest{}, false
	}
	if items, ok := q.cache.Get(key); ok {
		q.results = items
		return QuickRequest{}, false
	}
	q.log.Emit(otel.Event{
		Level: otel.LevelDebug, Kind: otel.KindQuickSearch, Comp: "quick",
		Token: uint64(tok), Query: q.text,
	})
	return QuickRequest{Token: tok, Text: q.text, Limit: q.limit}, true
}

// Commit applies a result. Results for a superseded token are dropped and
// Commit returns false. Successful results are cached by text either way.
func (q *Quick) Commit(res QuickResult) bool {
	if res.Err == nil {
		q.cache.Add(normalize(res.Text), res.Items)
	}
	if res.Token != q.token {
		q.log.Emit(otel.Event{
			Level: otel.LevelDebug, Kind: otel.KindQuickStale, Comp: "quick",
			Token: uint64(res.Token), Query: res.Text,
		})
		return false
	}
	if res.Err != nil {
		q.results = nil
		return true
	}
	q.results = res.Items
	return true
}

// Results returns the latest committed results.
func (q *Quick) Results() []catalog.Item { return q.results }

// Text returns the current input text.
func (q *Quick) Text() string { return q.text }

// Reset clears input and results and invalidates any pending tick.
func (q *Quick) Reset() {
	q.token++
	q.text = ""
	q.results = nil
}

// FetchQuick runs a typeahead search over titles.
func FetchQuick(ctx context.Context, gw Gateway, req QuickRequest) QuickResult {
	items, err := gw.Search(ctx, strings.TrimSpace(req.Text), catalog.CategoryTitles, req.Limit, 0)
	if err != nil {
		return QuickResult{Token: req.Token, Text: req.Text, Err: fmt.Errorf("quick search: %w", err)}
	}
	return QuickResult{Token: req.Token, Text: req.Text, Items: items}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
