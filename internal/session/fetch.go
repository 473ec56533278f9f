package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/arcade/internal/catalog"
)

// Gateway is the remote search API. *gateway.Client implements it.
type Gateway interface {
	Search(ctx context.Context, query string, category catalog.Category, limit, offset int) ([]catalog.Item, error)
	Count(ctx context.Context, query string, category catalog.Category) (int, error)
}

// Token identifies a session or request. Tokens increase monotonically;
// a result whose token is not the current one is stale.
type Token uint64

// StartRequest describes the first fetch of a new session.
type StartRequest struct {
	Token    Token
	QueryID  string
	Query    string
	Category catalog.Category
	PageSize int
}

// StartResult is the outcome of a StartRequest.
type StartResult struct {
	Token Token
	Items []catalog.Item
	Total int
	Err   error
	Dur   time.Duration
}

// PageRequest describes one load-more fetch.
type PageRequest struct {
	Token    Token
	QueryID  string
	Query    string
	Category catalog.Category
	Offset   int
	PageSize int
}

// PageResult is the outcome of a PageRequest.
type PageResult struct {
	Token  Token
	Offset int
	Items  []catalog.Item
	Err    error
	Dur    time.Duration
}

// FetchStart runs the first-page search and the count concurrently and
// waits for both. If either fails the result carries no items, a zero
// total and the error.
func FetchStart(ctx context.Context, gw Gateway, req StartRequest) StartResult {
	began := time.Now()

	var items []catalog.Item
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = gw.Search(gctx, req.Query, req.Category, req.PageSize, 0)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = gw.Count(gctx, req.Query, req.Category)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return StartResult{Token: req.Token, Err: err, Dur: time.Since(began)}
	}
	return StartResult{Token: req.Token, Items: items, Total: total, Dur: time.Since(began)}
}

// FetchPage fetches the page at req.Offset.
func FetchPage(ctx context.Context, gw Gateway, req PageRequest) PageResult {
	began := time.Now()
	items, err := gw.Search(ctx, req.Query, req.Category, req.PageSize, req.Offset)
	if err != nil {
		return PageResult{Token: req.Token, Offset: req.Offset, Err: fmt.Errorf("load more: %w", err), Dur: time.Since(began)}
	}
	return PageResult{Token: req.Token, Offset: req.Offset, Items: items, Dur: time.Since(began)}
}
