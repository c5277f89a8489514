package page

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lovsentralen/saksanalyse/internal/model"
)

const (
	// defaultTimeout bounds a single page fetch so slow sources cannot
	// stall a batch.
	defaultTimeout = 10 * time.Second

	// fetchConcurrency is the fixed batch size for FetchAll.
	fetchConcurrency = 5

	// maxBodyBytes bounds how much HTML is read per page.
	maxBodyBytes = 2 << 20
)

// Fetcher retrieves and parses legal-source pages.
type Fetcher struct {
	client         *http.Client
	keepRepealed   bool
	concurrency    int
	userAgent      string
	acceptLanguage string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout overrides the per-fetch timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = hc
	}
}

// KeepRepealed retains pages flagged as repealed in FetchAll output instead
// of dropping them.
func KeepRepealed() FetcherOption {
	return func(f *Fetcher) {
		f.keepRepealed = true
	}
}

// WithConcurrency overrides the FetchAll batch size.
func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// NewFetcher creates a Fetcher with bounded timeouts and Norwegian
// language preference.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:         &http.Client{Timeout: defaultTimeout},
		concurrency:    fetchConcurrency,
		userAgent:      "Mozilla/5.0 (compatible; Lovsentralen/1.0; +https://lovsentralen.no)",
		acceptLanguage: "nb-NO,nb;q=0.9,no;q=0.8,nn;q=0.7,en;q=0.6",
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch retrieves and parses a single URL. Returns nil on network failure,
// timeout or non-2xx status; callers treat nil as "skip this URL".
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) *model.ParsedPage {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		zap.L().Warn("page: bad url", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", f.acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		zap.L().Warn("page: fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Warn("page: non-2xx status", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		zap.L().Warn("page: read body failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}

	parsed, err := Parse(rawURL, string(body))
	if err != nil {
		zap.L().Warn("page: parse failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	return parsed
}

// FetchAll retrieves URLs in fixed-size concurrent batches, silently drops
// failed fetches, and by default drops (and logs) repealed pages. Result
// order is not guaranteed; consumers rank by source priority.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []*model.ParsedPage {
	var pages []*model.ParsedPage
	var repealedCount int

	for start := 0; start < len(urls); start += f.concurrency {
		end := start + f.concurrency
		if end > len(urls) {
			end = len(urls)
		}
		batch := urls[start:end]
		results := make([]*model.ParsedPage, len(batch))

		g, gCtx := errgroup.WithContext(ctx)
		for i, u := range batch {
			g.Go(func() error {
				results[i] = f.Fetch(gCtx, u)
				return nil
			})
		}
		_ = g.Wait()

		for _, p := range results {
			if p == nil {
				continue
			}
			if p.IsRepealed && !f.keepRepealed {
				repealedCount++
				zap.L().Info("page: repealed source filtered",
					zap.String("url", p.URL),
					zap.String("title", p.Title),
					zap.String("reason", p.RepealedReason),
				)
				continue
			}
			pages = append(pages, p)
		}
	}

	if repealedCount > 0 {
		zap.L().Info("page: repealed sources dropped", zap.Int("count", repealedCount))
	}
	return pages
}
