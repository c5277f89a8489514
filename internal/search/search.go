package search

import (
	"context"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/source"
	"github.com/lovsentralen/saksanalyse/pkg/serper"
)

// defaultQueryDelay spaces successive external queries to respect the
// search API's rate limits.
const defaultQueryDelay = 200 * time.Millisecond

// defaultResultCount is the per-query result count requested upstream.
const defaultResultCount = 10

// Searcher executes planned queries against the search API, filters
// blacklisted domains, and ranks by source trust tier.
type Searcher struct {
	client  serper.Client
	limiter *rate.Limiter
	count   int
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithQueryDelay overrides the throttle between successive queries.
func WithQueryDelay(d time.Duration) SearcherOption {
	return func(s *Searcher) {
		if d > 0 {
			s.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithResultCount overrides the per-query result count.
func WithResultCount(n int) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.count = n
		}
	}
}

// NewSearcher creates a Searcher over a serper client.
func NewSearcher(client serper.Client, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(defaultQueryDelay), 1),
		count:   defaultResultCount,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SearchOne runs a single query and maps results, excluding blacklisted
// domains entirely.
func (s *Searcher) SearchOne(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	resp, err := s.client.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(resp.Organic))
	for _, item := range resp.Organic {
		if source.Blacklisted(item.Link) {
			continue
		}
		results = append(results, model.SearchResult{
			Title:       item.Title,
			URL:         item.Link,
			Snippet:     item.Snippet,
			DisplayLink: displayLink(item.Link),
		})
	}
	return results, nil
}

// SearchMany runs queries strictly sequentially with an inter-query
// throttle. Per-query failures are logged and skipped; results are deduped
// globally by exact URL (first seen wins) and stably sorted ascending by
// source priority.
func (s *Searcher) SearchMany(ctx context.Context, queries []string) []model.SearchResult {
	var all []model.SearchResult
	seen := make(map[string]struct{})

	for _, query := range queries {
		if err := s.limiter.Wait(ctx); err != nil {
			zap.L().Warn("search: throttle interrupted", zap.Error(err))
			break
		}

		results, err := s.SearchOne(ctx, query, s.count)
		if err != nil {
			zap.L().Warn("search: query failed", zap.String("query", query), zap.Error(err))
			continue
		}

		for _, r := range results {
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			all = append(all, r)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return source.Priority(all[i].URL) < source.Priority(all[j].URL)
	})
	return all
}

func displayLink(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
