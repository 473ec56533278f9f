// Package session owns the lifecycle of a catalog browse session.
//
// The Controller is a synchronous state machine driven by one goroutine
// (the UI loop). It never performs I/O itself: operations that need the
// gateway return a request value, the caller runs FetchStart or FetchPage
// off the loop, and hands the result back through CommitStart or
// CommitPage. Results carry the token of the session that issued them, so
// late responses from a superseded session are dropped.
//
//	Idle -> Loading -> Ready <-> LoadingMore
//	           \-> Error -> (new query) -> Loading
package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/filter"
	"github.com/abelbrown/arcade/internal/otel"
	"github.com/abelbrown/arcade/internal/ranking"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 50

// State is the controller lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateLoadingMore
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadingMore:
		return "loading more"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Empty explains why the visible list is empty.
type Empty int

const (
	EmptyNone      Empty = iota // list is not empty, or nothing was searched yet
	EmptyFailed                 // the search itself failed
	EmptyNoResults              // the search matched nothing
	EmptyFiltered               // items are loaded but filters hide all of them
)

// Status is a snapshot of the session for status lines and tests.
type Status struct {
	State    State
	QueryID  string
	Query    string
	Category catalog.Category
	Sort     ranking.Key
	Shown    int
	Loaded   int
	Total    int
	HasMore  bool
	Active   int // active filter count
	Err      error
	PageErr  error
}

// Controller orchestrates query, category, filters, sort key and the
// session accumulator, and exposes the derived view.
type Controller struct {
	log      *otel.Logger
	pageSize int

	query    string
	category catalog.Category
	filters  filter.Filters
	sortKey  ranking.Key

	state   State
	token   Token
	queryID string
	acc     *Accumulator
	err     error
	pageErr error

	// Derived results are recomputed when rev moves past the cached rev.
	rev       uint64
	viewRev   uint64
	view      []catalog.Item
	itemsRev  uint64
	facetsRev uint64
	facets    filter.Facets
}

// NewController creates an idle controller. A nil logger discards events.
func NewController(pageSize int, log *otel.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		log:      log,
		pageSize: pageSize,
		category: catalog.CategoryAll,
		sortKey:  ranking.Relevance,
		acc:      NewAccumulator(pageSize),
		rev:      1,
		itemsRev: 1,
	}
}

// Submit starts a brand-new session for query. Filters, minimum rating
// and title are cleared; the sort key and category are kept.
func (c *Controller) Submit(query string) StartRequest {
	c.query = strings.TrimSpace(query)
	c.filters = filter.Filters{}
	return c.begin()
}

// SetCategory switches category. When a session exists it is restarted
// under the new category with filters preserved. ok is false when nothing
// needs fetching.
func (c *Controller) SetCategory(cat catalog.Category) (req StartRequest, ok bool) {
	if !cat.Valid() || cat == c.category {
		return StartRequest{}, false
	}
	c.category = cat
	c.touch()
	if c.state == StateIdle {
		return StartRequest{}, false
	}
	return c.begin(), true
}

func (c *Controller) begin() StartRequest {
	c.token++
	c.queryID = uuid.NewString()
	c.acc = NewAccumulator(c.pageSize)
	c.err = nil
	c.pageErr = nil
	c.state = StateLoading
	c.itemsChanged()

	c.log.Emit(otel.Event{
		Level: otel.LevelInfo, Kind: otel.KindSessionStart, Comp: "session",
		QueryID: c.queryID, Token: uint64(c.token), Query: c.query, Category: string(c.category),
	})
	return StartRequest{
		Token:    c.token,
		QueryID:  c.queryID,
		Query:    c.query,
		Category: c.category,
		PageSize: c.pageSize,
	}
}

// CommitStart applies a start result. It returns false when the result
// is stale and was dropped.
func (c *Controller) CommitStart(res StartResult) bool {
	if res.Token != c.token || c.state != StateLoading {
		c.log.Emit(otel.Event{
			Level: otel.LevelDebug, Kind: otel.KindSessionStale, Comp: "session",
			Token: uint64(res.Token), Msg: "start result dropped",
		})
		return false
	}

	if res.Err != nil {
		c.acc.Start(nil, 0)
		c.err = res.Err
		c.state = StateError
		c.itemsChanged()
		c.log.Emit(otel.Event{
			Level: otel.LevelError, Kind: otel.KindSessionError, Comp: "session",
			QueryID: c.queryID, Token: uint64(res.Token), Dur: res.Dur, Err: res.Err.Error(),
		})
		return true
	}

	c.acc.Start(res.Items, res.Total)
	c.state = StateReady
	c.itemsChanged()
	c.log.Emit(otel.Event{
		Level: otel.LevelInfo, Kind: otel.KindSessionReady, Comp: "session",
		QueryID: c.queryID, Token: uint64(res.Token), Dur: res.Dur,
		Count: c.acc.Len(), Total: c.acc.Total(),
	})
	return true
}

// LoadMore requests the next page. ok is false, and nothing changes, when
// a page is already in flight, there is nothing more to load, or no
// session is ready. A previous page error is cleared.
func (c *Controller) LoadMore() (req PageRequest, ok bool) {
	if c.state != StateReady || !c.acc.HasMore() {
		c.log.Emit(otel.Event{
			Level: otel.LevelDebug, Kind: otel.KindPageSkip, Comp: "session",
			QueryID: c.queryID, Token: uint64(c.token), Msg: c.state.String(),
		})
		return PageRequest{}, false
	}

	c.state = StateLoadingMore
	c.pageErr = nil
	c.touch()
	req = PageRequest{
		Token:    c.token,
		QueryID:  c.queryID,
		Query:    c.query,
		Category: c.category,
		Offset:   c.acc.Len(),
		PageSize: c.pageSize,
	}
	c.log.Emit(otel.Event{
		Level: otel.LevelInfo, Kind: otel.KindPageStart, Comp: "session",
		QueryID: c.queryID, Token: uint64(c.token), Count: req.Offset,
	})
	return req, true
}

// CommitPage applies a load-more result. A failed page leaves the loaded
// items and hasMore untouched and records a retryable error. It returns
// false when the result was dropped.
func (c *Controller) CommitPage(res PageResult) bool {
	if res.Token != c.token || c.state != StateLoadingMore || res.Offset != c.acc.Len() {
		c.log.Emit(otel.Event{
			Level: otel.LevelDebug, Kind: otel.KindSessionStale, Comp: "session",
			Token: uint64(res.Token), Count: res.Offset, Msg: "page result dropped",
		})
		return false
	}

	c.state = StateReady
	if res.Err != nil {
		c.pageErr = res.Err
		c.touch()
		c.log.Emit(otel.Event{
			Level: otel.LevelWarn, Kind: otel.KindPageError, Comp: "session",
			QueryID: c.queryID, Token: uint64(res.Token), Dur: res.Dur, Err: res.Err.Error(),
		})
		return true
	}

	c.acc.Append(res.Items)
	c.itemsChanged()
	c.log.Emit(otel.Event{
		Level: otel.LevelInfo, Kind: otel.KindPageComplete, Comp: "session",
		QueryID: c.queryID, Token: uint64(res.Token), Dur: res.Dur,
		Count: c.acc.Len(), Total: c.acc.Total(),
	})
	return true
}

// ToggleFacet selects or deselects one facet value.
func (c *Controller) ToggleFacet(facet filter.Facet, value string) {
	c.filters.Toggle(facet, value)
	c.touch()
}

// SetMinRating sets the minimum rating, clamped to 0..MaxRating.
func (c *Controller) SetMinRating(r float64) {
	c.filters.MinRating = min(max(r, 0), catalog.MaxRating)
	c.touch()
}

// SetTitle sets the title substring filter.
func (c *Controller) SetTitle(s string) {
	c.filters.Title = s
	c.touch()
}

// SetSort changes the sort key. Unknown keys are ignored.
func (c *Controller) SetSort(k ranking.Key) {
	if _, ok := ranking.ParseKey(string(k)); !ok {
		return
	}
	c.sortKey = k
	c.touch()
}

// ClearFilters removes every facet selection, the minimum rating and the
// title filter.
func (c *Controller) ClearFilters() {
	c.filters = filter.Filters{}
	c.touch()
}

// View returns the accumulated items after filtering and sorting. The
// result is cached until an input changes; callers must not modify it.
func (c *Controller) View() []catalog.Item {
	if c.viewRev != c.rev {
		c.view = ranking.Sort(filter.Apply(c.acc.Items(), c.filters), c.sortKey, c.query)
		c.viewRev = c.rev
	}
	return c.view
}

// Facets returns the facet values present in the loaded window.
func (c *Controller) Facets() filter.Facets {
	if c.facetsRev != c.itemsRev {
		c.facets = filter.Extract(c.acc.Items())
		c.facetsRev = c.itemsRev
	}
	return c.facets
}

// Empty reports why the view is empty, or EmptyNone if it is not.
func (c *Controller) Empty() Empty {
	switch c.state {
	case StateError:
		return EmptyFailed
	case StateReady, StateLoadingMore:
		if len(c.View()) > 0 {
			return EmptyNone
		}
		if c.acc.Len() == 0 {
			return EmptyNoResults
		}
		return EmptyFiltered
	}
	return EmptyNone
}

// Status returns a snapshot of the session.
func (c *Controller) Status() Status {
	return Status{
		State:    c.state,
		QueryID:  c.queryID,
		Query:    c.query,
		Category: c.category,
		Sort:     c.sortKey,
		Shown:    len(c.View()),
		Loaded:   c.acc.Len(),
		Total:    c.acc.Total(),
		HasMore:  c.acc.HasMore(),
		Active:   c.filters.Active(),
		Err:      c.err,
		PageErr:  c.pageErr,
	}
}

// Filters returns a copy of the active filters.
func (c *Controller) Filters() filter.Filters { return c.filters.Clone() }

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Query returns the submitted query text.
func (c *Controller) Query() string { return c.query }

// Category returns the selected category.
func (c *Controller) Category() catalog.Category { return c.category }

// Sort returns the selected sort key.
func (c *Controller) Sort() ranking.Key { return c.sortKey }

// Token returns the current session token.
func (c *Controller) Token() Token { return c.token }

func (c *Controller) touch() { c.rev++ }

func (c *Controller) itemsChanged() {
	c.itemsRev++
	c.rev++
}
