package analysis

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/reason"
)

// fakeReasoner returns canned responses keyed by request phase and records
// every call.
type fakeReasoner struct {
	responses map[string]string
	errPhases map[string]bool
	calls     []reason.Request
}

func (f *fakeReasoner) Complete(_ context.Context, req reason.Request) (string, error) {
	f.calls = append(f.calls, req)
	if f.errPhases[req.Phase] {
		return "", eris.New("fake: reasoner down")
	}
	resp, ok := f.responses[req.Phase]
	if !ok {
		return "", eris.New("fake: no response for phase " + req.Phase)
	}
	return resp, nil
}

func (f *fakeReasoner) callCount(phase string) int {
	n := 0
	for _, c := range f.calls {
		if c.Phase == phase {
			n++
		}
	}
	return n
}

type fakeSearcher struct {
	results []model.SearchResult
	queries [][]string
}

func (f *fakeSearcher) SearchMany(_ context.Context, queries []string) []model.SearchResult {
	f.queries = append(f.queries, queries)
	return f.results
}

type fakeFetcher struct {
	pages []*model.ParsedPage
	urls  [][]string
}

func (f *fakeFetcher) FetchAll(_ context.Context, urls []string) []*model.ParsedPage {
	f.urls = append(f.urls, urls)
	return f.pages
}
