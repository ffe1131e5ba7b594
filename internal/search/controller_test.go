package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethnosapp/ethnos/internal/api"
)

type stubFetcher struct {
	mu sync.Mutex

	searchResp  *api.SearchResponse
	searchErr   error
	searchCalls []api.SearchParams
	searchGate  chan struct{} // when set, SearchWorks blocks until closed

	suggestions  []api.Suggestion
	suggestErr   error
	suggestCalls []string
}

func (f *stubFetcher) SearchWorks(_ context.Context, params api.SearchParams) (*api.SearchResponse, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, params)
	gate := f.searchGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResp, nil
}

func (f *stubFetcher) Autocomplete(_ context.Context, query string, _ int) ([]api.Suggestion, error) {
	f.mu.Lock()
	f.suggestCalls = append(f.suggestCalls, query)
	f.mu.Unlock()
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestions, nil
}

func (f *stubFetcher) suggestQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.suggestCalls...)
}

type captureRenderer struct {
	mu sync.Mutex

	results     []*api.SearchResponse
	resultsArgs []api.SearchParams
	suggestions [][]api.Suggestion
	queries     []string
	errors      []string
}

func (r *captureRenderer) Results(resp *api.SearchResponse, params api.SearchParams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, resp)
	r.resultsArgs = append(r.resultsArgs, params)
}

func (r *captureRenderer) Suggestions(s []api.Suggestion, query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suggestions = append(r.suggestions, s)
	r.queries = append(r.queries, query)
}

func (r *captureRenderer) SearchError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *captureRenderer) suggestionCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.suggestions)
}

func TestSubmitRendersResults(t *testing.T) {
	fetcher := &stubFetcher{searchResp: &api.SearchResponse{
		Total: 2,
		Data:  []api.WorkSummary{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
	}}
	renderer := &captureRenderer{}
	ctrl := New(fetcher, renderer)

	ctrl.Submit(context.Background(), api.SearchParams{Query: "xingu"})

	if len(renderer.results) != 1 {
		t.Fatalf("results rendered = %d, want 1", len(renderer.results))
	}
	if renderer.results[0].Total != 2 {
		t.Errorf("total = %d", renderer.results[0].Total)
	}
	if got := renderer.resultsArgs[0].Page; got != 1 {
		t.Errorf("page normalized to %d, want 1", got)
	}
	if len(renderer.errors) != 0 {
		t.Errorf("errors = %v", renderer.errors)
	}
}

func TestSubmitRendersErrorOnFailure(t *testing.T) {
	fetcher := &stubFetcher{searchErr: errors.New("boom")}
	renderer := &captureRenderer{}
	ctrl := New(fetcher, renderer)

	ctrl.Submit(context.Background(), api.SearchParams{Query: "xingu"})

	if len(renderer.results) != 0 {
		t.Error("no results should render on failure")
	}
	if len(renderer.errors) != 1 || renderer.errors[0] != "Erro ao realizar busca. Tente novamente." {
		t.Errorf("errors = %v", renderer.errors)
	}
}

func TestSubmitDropsConcurrentSubmission(t *testing.T) {
	gate := make(chan struct{})
	fetcher := &stubFetcher{
		searchResp: &api.SearchResponse{Total: 1},
		searchGate: gate,
	}
	renderer := &captureRenderer{}
	ctrl := New(fetcher, renderer)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Submit(context.Background(), api.SearchParams{Query: "first"})
	}()

	// Wait for the first submission to reach the fetcher.
	deadline := time.Now().Add(time.Second)
	for {
		fetcher.mu.Lock()
		n := len(fetcher.searchCalls)
		fetcher.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first submission never started")
		}
		time.Sleep(time.Millisecond)
	}

	// This one must be dropped by the isLoading guard.
	ctrl.Submit(context.Background(), api.SearchParams{Query: "second"})

	close(gate)
	wg.Wait()

	if n := len(fetcher.searchCalls); n != 1 {
		t.Errorf("search calls = %d, want 1 (second dropped)", n)
	}
	if len(renderer.results) != 1 {
		t.Errorf("results = %d, want 1", len(renderer.results))
	}
}

func TestGoToPageResubmitsQuery(t *testing.T) {
	fetcher := &stubFetcher{searchResp: &api.SearchResponse{Total: 100}}
	renderer := &captureRenderer{}
	ctrl := New(fetcher, renderer)

	ctx := context.Background()
	ctrl.Submit(ctx, api.SearchParams{Query: "maize", PerPage: 10})
	ctrl.GoToPage(ctx, 3)

	if len(fetcher.searchCalls) != 2 {
		t.Fatalf("search calls = %d, want 2", len(fetcher.searchCalls))
	}
	got := fetcher.searchCalls[1]
	if got.Query != "maize" || got.Page != 3 {
		t.Errorf("second call = %+v", got)
	}
	if ctrl.Page() != 3 {
		t.Errorf("Page() = %d, want 3", ctrl.Page())
	}
}

func TestGoToPageIgnoresInvalidPage(t *testing.T) {
	fetcher := &stubFetcher{searchResp: &api.SearchResponse{Total: 10}}
	ctrl := New(fetcher, &captureRenderer{})

	ctrl.GoToPage(context.Background(), 0)
	ctrl.GoToPage(context.Background(), -4)

	if len(fetcher.searchCalls) != 0 {
		t.Errorf("search calls = %d, want 0", len(fetcher.searchCalls))
	}
}

func TestTotalPages(t *testing.T) {
	fetcher := &stubFetcher{searchResp: &api.SearchResponse{Total: 101}}
	ctrl := New(fetcher, &captureRenderer{})

	if got := ctrl.TotalPages(); got != 0 {
		t.Errorf("TotalPages before any search = %d, want 0", got)
	}

	ctrl.Submit(context.Background(), api.SearchParams{Query: "q", PerPage: 25})
	if got := ctrl.TotalPages(); got != 5 {
		t.Errorf("TotalPages = %d, want 5 (101/25 rounded up)", got)
	}

	fetcher.searchResp = &api.SearchResponse{Total: 100}
	ctrl.Submit(context.Background(), api.SearchParams{Query: "q", PerPage: 25})
	if got := ctrl.TotalPages(); got != 4 {
		t.Errorf("TotalPages = %d, want 4", got)
	}
}

func TestSuggestShortQueryRendersEmpty(t *testing.T) {
	fetcher := &stubFetcher{}
	renderer := &captureRenderer{}
	ctrl := New(fetcher, renderer, WithDebounce(time.Millisecond))

	ctrl.Suggest(context.Background(), "a")
	ctrl.Suggest(context.Background(), "  x ") // one char after trimming

	time.Sleep(20 * time.Millisecond)
	if n := len(fetcher.suggestQueries()); n != 0 {
		t.Errorf("autocomplete calls = %d, want 0", n)
	}
	if renderer.suggestionCalls() != 2 {
		t.Errorf("suggestion renders = %d, want 2 empty renders", renderer.suggestionCalls())
	}
	if renderer.suggestions[0] != nil {
		t.Error("short query should render an empty suggestion set")
	}
}

func TestSuggestDebounceSupersedesPending(t *testing.T) {
	fetcher := &stubFetcher{suggestions: []api.Suggestion{{Text: "ethnography"}}}
	renderer := &captureRenderer{}
	ctrl := New(fetcher, renderer, WithDebounce(30*time.Millisecond))

	ctx := context.Background()
	ctrl.Suggest(ctx, "et")
	ctrl.Suggest(ctx, "eth")
	ctrl.Suggest(ctx, "ethn")

	time.Sleep(120 * time.Millisecond)

	got := fetcher.suggestQueries()
	if len(got) != 1 || got[0] != "ethn" {
		t.Errorf("autocomplete calls = %v, want only the last query", got)
	}
	if renderer.suggestionCalls() != 1 {
		t.Errorf("suggestion renders = %d, want 1", renderer.suggestionCalls())
	}
}

func TestSuggestNowBypassesDebounce(t *testing.T) {
	fetcher := &stubFetcher{suggestions: []api.Suggestion{{Text: "kinship", Type: "title"}}}
	renderer := &captureRenderer{}
	ctrl := New(fetcher, renderer)

	ctrl.SuggestNow(context.Background(), "kin")

	if got := fetcher.suggestQueries(); len(got) != 1 || got[0] != "kin" {
		t.Errorf("autocomplete calls = %v", got)
	}
	if renderer.suggestionCalls() != 1 || renderer.suggestions[0][0].Text != "kinship" {
		t.Errorf("suggestions = %v", renderer.suggestions)
	}
}

func TestSuggestFailureRendersEmpty(t *testing.T) {
	fetcher := &stubFetcher{suggestErr: errors.New("down")}
	renderer := &captureRenderer{}
	ctrl := New(fetcher, renderer)

	ctrl.SuggestNow(context.Background(), "ethno")

	if renderer.suggestionCalls() != 1 {
		t.Fatalf("suggestion renders = %d, want 1", renderer.suggestionCalls())
	}
	if renderer.suggestions[0] != nil {
		t.Error("failed autocomplete should render an empty set")
	}
}
