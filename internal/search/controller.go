// Package search orchestrates query submission, paginated results, and
// debounced autocomplete over the API client. Rendering is delegated to
// an injected Renderer; the controller owns only the flow.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ethnosapp/ethnos/internal/api"
	"github.com/ethnosapp/ethnos/internal/logging"
)

// DebounceDelay is how long a suggestion query must sit unchanged before
// the network is hit.
const DebounceDelay = 200 * time.Millisecond

// MinSuggestionQuery is the minimum query length for autocomplete.
const MinSuggestionQuery = 2

// Fetcher is the slice of the API client the controller needs.
type Fetcher interface {
	SearchWorks(ctx context.Context, params api.SearchParams) (*api.SearchResponse, error)
	Autocomplete(ctx context.Context, query string, limit int) ([]api.Suggestion, error)
}

// Renderer receives controller output. The CLI renders to the terminal;
// tests capture calls.
type Renderer interface {
	Results(resp *api.SearchResponse, params api.SearchParams)
	Suggestions(suggestions []api.Suggestion, query string)
	SearchError(message string)
}

// Controller drives a search session: one query at a time, offset
// pagination, debounced suggestions.
type Controller struct {
	fetcher  Fetcher
	renderer Renderer
	log      logging.Logger

	mu        sync.Mutex
	params    api.SearchParams
	total     int
	isLoading bool

	debounce      *time.Timer
	suggestLimit  int
	debounceDelay time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithSuggestionLimit caps the number of autocomplete entries requested.
func WithSuggestionLimit(n int) Option {
	return func(c *Controller) { c.suggestLimit = n }
}

// WithDebounce overrides the suggestion debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounceDelay = d }
}

// New creates a Controller.
func New(fetcher Fetcher, renderer Renderer, opts ...Option) *Controller {
	c := &Controller{
		fetcher:       fetcher,
		renderer:      renderer,
		log:           logging.NopLogger{},
		suggestLimit:  api.DefaultSuggestionLimit,
		debounceDelay: DebounceDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs a search with the given parameters. A submission while a
// previous one is in flight is dropped. Fetch failures are rendered as a
// user-facing error, never returned.
func (c *Controller) Submit(ctx context.Context, params api.SearchParams) {
	c.mu.Lock()
	if c.isLoading {
		c.mu.Unlock()
		return
	}
	c.isLoading = true
	if params.Page < 1 {
		params.Page = 1
	}
	c.params = params
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.isLoading = false
		c.mu.Unlock()
	}()

	resp, err := c.fetcher.SearchWorks(ctx, params)
	if err != nil {
		c.log.Warn(ctx, "search failed", "query", params.Query, "error", err)
		c.renderer.SearchError("Erro ao realizar busca. Tente novamente.")
		return
	}

	c.mu.Lock()
	c.total = resp.Total
	c.mu.Unlock()

	c.renderer.Results(resp, params)
}

// GoToPage re-runs the current query on another page. Page numbers below
// one are ignored, as are calls while a search is in flight.
func (c *Controller) GoToPage(ctx context.Context, page int) {
	c.mu.Lock()
	if page < 1 || c.isLoading {
		c.mu.Unlock()
		return
	}
	params := c.params
	params.Page = page
	c.mu.Unlock()

	c.Submit(ctx, params)
}

// Page returns the current 1-based page.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.params.Page < 1 {
		return 1
	}
	return c.params.Page
}

// TotalPages derives the page count from the last result total and the
// current page size.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	perPage := c.params.PerPage
	if perPage <= 0 {
		perPage = api.DefaultPerPage
	}
	if c.total == 0 {
		return 0
	}
	return (c.total + perPage - 1) / perPage
}

// Suggest schedules a debounced autocomplete fetch for the query. Queries
// shorter than two characters cancel any pending fetch and render an
// empty suggestion set. A new call supersedes a pending one.
func (c *Controller) Suggest(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	if len(query) < MinSuggestionQuery {
		c.mu.Unlock()
		c.renderer.Suggestions(nil, query)
		return
	}
	c.debounce = time.AfterFunc(c.debounceDelay, func() {
		c.fetchSuggestions(ctx, query)
	})
	c.mu.Unlock()
}

// SuggestNow fetches suggestions immediately, bypassing the debounce.
// The CLI uses it for one-shot suggestion commands.
func (c *Controller) SuggestNow(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if len(query) < MinSuggestionQuery {
		c.renderer.Suggestions(nil, query)
		return
	}
	c.fetchSuggestions(ctx, query)
}

func (c *Controller) fetchSuggestions(ctx context.Context, query string) {
	suggestions, err := c.fetcher.Autocomplete(ctx, query, c.suggestLimit)
	if err != nil {
		c.log.Debug(ctx, "autocomplete failed", "query", query, "error", err)
		c.renderer.Suggestions(nil, query)
		return
	}
	c.renderer.Suggestions(suggestions, query)
}
