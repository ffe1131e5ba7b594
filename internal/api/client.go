// Package api implements the resilient client for the Ethnos literature
// API: cache read-through, per-attempt timeouts, bounded retry with linear
// backoff, and application-level error surfacing.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ethnosapp/ethnos/internal/cache"
	"github.com/ethnosapp/ethnos/internal/logging"
	"github.com/ethnosapp/ethnos/internal/work"
)

const (
	// BaseURL is the Ethnos API base URL.
	BaseURL = "https://api.ethnos.app/v2"

	// DefaultTimeout bounds each individual request attempt.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 2

	// DefaultBaseDelay is the backoff unit: the wait after attempt n is
	// n * DefaultBaseDelay.
	DefaultBaseDelay = time.Second

	// RateLimit is 10 requests per second, matching API guidance.
	RateLimit = 10.0

	// DefaultPerPage is the default search page size.
	DefaultPerPage = 25

	// DefaultSuggestionLimit is the default autocomplete result count.
	DefaultSuggestionLimit = 6

	// MaxBatchIDs caps a details batch, matching the server-side limit.
	MaxBatchIDs = 100
)

// ResponseCache is the read-through cache consulted before any network
// access. Both cache.Cache and cache.Durable satisfy it.
type ResponseCache interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, value json.RawMessage)
	Clear()
	Len() int
}

// Client is a rate-limited, caching, retrying client for the Ethnos API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      ResponseCache
	log        logging.Logger

	baseURL    string
	apiKey     string
	timeout    time.Duration
	baseDelay  time.Duration
	maxRetries int

	// sleep waits between attempts; replaced in tests to observe delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache sets the response cache.
func WithCache(rc ResponseCache) ClientOption {
	return func(c *Client) { c.cache = rc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log logging.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets the retry bound and backoff unit.
func WithRetry(maxRetries int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
	}
}

// NewClient creates an Ethnos API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		log:        logging.NopLogger{},
		baseURL:    BaseURL,
		timeout:    DefaultTimeout,
		baseDelay:  DefaultBaseDelay,
		maxRetries: DefaultMaxRetries,
		sleep:      sleepCtx,
	}

	if key := os.Getenv("ETHNOS_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cache == nil {
		c.cache = cache.New[json.RawMessage](cache.DefaultTTL, cache.DefaultMaxEntries)
	}
	return c
}

// Cache exposes the response cache for management commands.
func (c *Client) Cache() ResponseCache { return c.cache }

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// envelope detects the application-level error marker in a response body.
type envelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// request performs a cached GET against endpoint. On a cache hit the
// network is never touched. Otherwise it attempts the call up to
// maxRetries+1 times, each attempt bounded by the per-attempt timeout,
// waiting attempt*baseDelay between attempts. The parsed payload of a
// success is cached before being returned.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	key := cache.Key(endpoint, params)
	if cached, ok := c.cache.Get(key); ok {
		c.log.Debug(ctx, "cache hit", "endpoint", endpoint)
		return cached, nil
	}

	maxAttempts := c.maxRetries + 1
	var lastErr error
	var lastTimeout bool

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, timedOut, err := c.attempt(ctx, endpoint, params)
		if err == nil {
			c.cache.Set(key, body)
			return body, nil
		}
		lastErr = err
		lastTimeout = timedOut

		if timedOut {
			c.log.Warn(ctx, "request timeout", "endpoint", endpoint, "attempt", attempt, "max_attempts", maxAttempts)
		} else {
			c.log.Warn(ctx, "request failed", "endpoint", endpoint, "attempt", attempt, "max_attempts", maxAttempts, "error", err)
		}

		if attempt < maxAttempts {
			delay := time.Duration(attempt) * c.baseDelay
			c.log.Debug(ctx, "retrying", "endpoint", endpoint, "delay", delay)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
	}

	if lastTimeout {
		return nil, fmt.Errorf("%w after %d attempts: %s", ErrTimeout, maxAttempts, endpoint)
	}
	return nil, lastErr
}

// attempt performs one bounded network call. The bool reports whether the
// failure was this attempt's timeout.
func (c *Client) attempt(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("rate limiter: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ethnos-cli/1.0 (Academic Research Tool)")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return nil, true, fmt.Errorf("attempt timed out: %w", attemptCtx.Err())
		}
		return nil, false, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return nil, true, fmt.Errorf("attempt timed out: %w", attemptCtx.Err())
		}
		return nil, false, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	// A success status can still carry an application-level error envelope.
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Status == "error" {
		msg := env.Error
		if msg == "" {
			msg = "API returned error status"
		}
		return nil, false, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: msg}
	}

	return json.RawMessage(body), false, nil
}

// SearchWorks performs a works search.
func (c *Client) SearchWorks(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	raw, err := c.request(ctx, "/works/", params.Values())
	if err != nil {
		return nil, err
	}
	var resp SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}
	return &resp, nil
}

// GetWorkDetails fetches the full record for a work, used to enrich saved
// items during export.
func (c *Client) GetWorkDetails(ctx context.Context, id int) (*work.EnrichedWork, error) {
	raw, err := c.request(ctx, "/works/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Data *work.EnrichedWork `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: parsing work %d: %v", ErrInvalidResponse, id, err)
	}
	if wrapper.Data == nil || wrapper.Data.ID == 0 {
		return nil, fmt.Errorf("%w: work %d", ErrNotFound, id)
	}
	return wrapper.Data, nil
}

// Autocomplete fetches search suggestions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	raw, err := c.request(ctx, "/autocomplete", params)
	if err != nil {
		return nil, err
	}
	var resp SuggestionsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing suggestions: %v", ErrInvalidResponse, err)
	}
	return resp.Suggestions, nil
}

// GetVenues lists venues with offset pagination.
func (c *Client) GetVenues(ctx context.Context, limit, offset int) (*VenuesResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	raw, err := c.request(ctx, "/venues/", params)
	if err != nil {
		return nil, err
	}
	var resp VenuesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing venues: %v", ErrInvalidResponse, err)
	}
	return &resp, nil
}

// GetVenue fetches the full record for a single venue.
func (c *Client) GetVenue(ctx context.Context, id string) (*VenueDetail, error) {
	raw, err := c.request(ctx, "/venues/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Data *VenueDetail `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: parsing venue %s: %v", ErrInvalidResponse, id, err)
	}
	if wrapper.Data == nil || wrapper.Data.Name == "" {
		return nil, fmt.Errorf("%w: venue %s", ErrNotFound, id)
	}
	return wrapper.Data, nil
}

// GetVenueWorks lists the works published in a venue.
func (c *Client) GetVenueWorks(ctx context.Context, venueID string, limit, offset int) (*SearchResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	raw, err := c.request(ctx, "/venues/"+url.PathEscape(venueID)+"/works", params)
	if err != nil {
		return nil, err
	}
	var resp SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing venue works: %v", ErrInvalidResponse, err)
	}
	return &resp, nil
}

// SearchAuthors searches authors by name.
func (c *Client) SearchAuthors(ctx context.Context, name string, limit int) (*AuthorsResponse, error) {
	params := url.Values{}
	params.Set("name", name)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	raw, err := c.request(ctx, "/authors/search", params)
	if err != nil {
		return nil, err
	}
	var resp AuthorsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing authors: %v", ErrInvalidResponse, err)
	}
	return &resp, nil
}

// GetAuthorWorks lists works by an author.
func (c *Client) GetAuthorWorks(ctx context.Context, authorID string, limit, offset int) (*SearchResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	raw, err := c.request(ctx, "/authors/"+url.PathEscape(authorID)+"/works", params)
	if err != nil {
		return nil, err
	}
	var resp SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing author works: %v", ErrInvalidResponse, err)
	}
	return &resp, nil
}

// FetchDetailsBatch fetches full records for the given work ids as an
// unordered batch of independent requests. Each fetch fails on its own
// without cancelling its siblings; ids whose fetch failed are simply
// absent from the result map.
func (c *Client) FetchDetailsBatch(ctx context.Context, ids []int) map[int]*work.EnrichedWork {
	if len(ids) > MaxBatchIDs {
		ids = ids[:MaxBatchIDs]
	}

	var mu sync.Mutex
	results := make(map[int]*work.EnrichedWork, len(ids))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w, err := c.GetWorkDetails(ctx, id)
			if err != nil {
				c.log.Warn(ctx, "enrichment fetch failed", "work_id", id, "error", err)
				return
			}
			mu.Lock()
			results[id] = w
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return results
}

// ResolveByDOI finds a work by searching for its DOI. Used by the PDF
// import path.
func (c *Client) ResolveByDOI(ctx context.Context, doi string) (*WorkSummary, error) {
	resp, err := c.SearchWorks(ctx, SearchParams{Query: doi, PerPage: 1})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: doi %s", ErrNotFound, doi)
	}
	return &resp.Data[0], nil
}
