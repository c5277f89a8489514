package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lovsentralen/saksanalyse/internal/analysis"
	"github.com/lovsentralen/saksanalyse/internal/page"
	"github.com/lovsentralen/saksanalyse/internal/reason"
	"github.com/lovsentralen/saksanalyse/internal/search"
	"github.com/lovsentralen/saksanalyse/internal/store"
	anthropicpkg "github.com/lovsentralen/saksanalyse/pkg/anthropic"
	"github.com/lovsentralen/saksanalyse/pkg/serper"
)

// appEnv holds the initialized store, clients and pipeline shared by the
// analyze/clarify/serve commands.
type appEnv struct {
	Store    store.Store
	Pipeline *analysis.Pipeline
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv sets up the store, API clients and the analysis pipeline.
// Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	if cfg.Serper.Key == "" {
		_ = st.Close()
		return nil, eris.New("SAKSANALYSE_SERPER_KEY is required")
	}
	if cfg.Anthropic.Key == "" {
		_ = st.Close()
		return nil, eris.New("SAKSANALYSE_ANTHROPIC_KEY is required")
	}

	serperClient := serper.NewClient(cfg.Serper.Key,
		serper.WithBaseURL(cfg.Serper.BaseURL),
		serper.WithLocale(cfg.Serper.Country, cfg.Serper.Language),
	)
	searcher := search.NewSearcher(serperClient,
		search.WithQueryDelay(time.Duration(cfg.Search.QueryDelayMS)*time.Millisecond),
		search.WithResultCount(cfg.Search.ResultCount),
	)
	fetcher := page.NewFetcher(
		page.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		page.WithConcurrency(cfg.Fetch.Concurrency),
	)

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	reasoner := reason.NewClient(anthropicClient, cfg.Anthropic.Model)

	return &appEnv{
		Store: st,
		Pipeline: analysis.NewPipeline(st, reasoner, searcher, fetcher,
			analysis.WithMaxQueries(cfg.Search.MaxQueries),
			analysis.WithMaxPages(cfg.Pipeline.MaxPages),
			analysis.WithExcerptsPerIssue(cfg.Pipeline.ExcerptsPerIssue),
			analysis.WithRepairIterations(cfg.Pipeline.RepairIterations),
		),
	}, nil
}

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store.database_url is required for the postgres driver")
		}
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
