// Package gateway is the HTTP client for the remote catalog search API.
//
// The gateway exposes two endpoints:
//
//	GET /search?query&category&limit&offset  -> ordered JSON array of items
//	GET /search/count?query&category         -> JSON integer
//
// The client knows nothing about sessions or sequence indices; it returns
// items in the order the server sent them.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"golang.org/x/time/rate"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/otel"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// ErrStatus matches any non-success HTTP response from the gateway.
var ErrStatus = errors.New("gateway: unexpected status")

// StatusError carries the HTTP status of a failed gateway call.
type StatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration // from a 429 Retry-After header, capped at 30s
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway error (status %d): %s", e.Code, e.Body)
}

// Is makes errors.Is(err, ErrStatus) true for every StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Client talks to the search gateway.
type Client struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	encoder  *schema.Encoder
	backoffs []time.Duration
	log      *otel.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit caps outgoing requests per second. Zero or negative disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 2)
	}
}

// WithBackoffs sets the retry schedule. An empty schedule disables retries.
func WithBackoffs(backoffs ...time.Duration) Option {
	return func(c *Client) { c.backoffs = backoffs }
}

// WithLogger attaches an event logger for retry events.
func WithLogger(l *otel.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a gateway client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(10), 2),
		encoder:  schema.NewEncoder(),
		backoffs: []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns one page of items for the query, in server order.
func (c *Client) Search(ctx context.Context, query string, category catalog.Category, limit, offset int) ([]catalog.Item, error) {
	params := catalog.SearchParams{Query: query, Category: category, Limit: limit, Offset: offset}
	body, err := c.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}
	return decodeItems(body)
}

// Count returns the total number of items matching the query.
func (c *Client) Count(ctx context.Context, query string, category catalog.Category) (int, error) {
	params := catalog.SearchParams{Query: query, Category: category}
	body, err := c.get(ctx, "/search/count", params)
	if err != nil {
		return 0, err
	}
	return decodeCount(body)
}

func (c *Client) get(ctx context.Context, path string, params catalog.SearchParams) ([]byte, error) {
	if params.Category == "" {
		params.Category = catalog.CategoryAll
	}
	q := url.Values{}
	if err := c.encoder.Encode(params, q); err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	endpoint := c.baseURL + path + "?" + q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return c.doWithRetry(ctx, endpoint)
}

// doWithRetry performs a GET, retrying transport errors, 429 and 5xx on the
// client's backoff schedule. Retry-After is honored on 429.
func (c *Client) doWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	maxRetries := len(c.backoffs)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffs[attempt-1]
			var se *StatusError
			if errors.As(lastErr, &se) && se.RetryAfter > delay {
				delay = se.RetryAfter
			}
			c.logRetry(attempt, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "arcade/0.1")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read response: %w", readErr)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		se := &StatusError{Code: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), 200)}
		if resp.StatusCode == http.StatusTooManyRequests {
			se.RetryAfter = retryAfter(resp.Header.Get("Retry-After"))
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = se
			continue
		}
		// Non-retryable (400, 404, ...).
		return nil, se
	}

	if maxRetries == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("gateway request failed after %d retries: %w", maxRetries, lastErr)
}

// retryAfter parses a Retry-After header in seconds, capped at 30s.
func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return 0
	}
	return min(time.Duration(seconds)*time.Second, 30*time.Second)
}

func (c *Client) logRetry(attempt int, err error) {
	if c.log == nil {
		return
	}
	e := otel.Event{Level: otel.LevelWarn, Kind: otel.KindGatewayRetry, Comp: "gateway", Count: attempt}
	if err != nil {
		e.Err = err.Error()
	}
	c.log.Emit(e)
}

// decodeCount accepts a bare integer or an object with a "count" or "total" field.
func decodeCount(body []byte) (int, error) {
	var n int
	if err := json.Unmarshal(body, &n); err == nil {
		return max(n, 0), nil
	}
	var obj struct {
		Count *int `json:"count"`
		Total *int `json:"total"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	switch {
	case obj.Count != nil:
		return max(*obj.Count, 0), nil
	case obj.Total != nil:
		return max(*obj.Total, 0), nil
	}
	return 0, fmt.Errorf("parse count: no count field in %q", truncate(string(body), 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
