package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/hiretools/catalog-cli/internal/fetcher"
	"github.com/hiretools/catalog-cli/internal/store"
)

// initStore opens the configured store backend.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// newCatalogFetcher builds the rate-limited HTTP fetcher used by the scrape
// and enrich commands.
func newCatalogFetcher() *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: cfg.Scrape.UserAgent,
		Timeout:   time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
		Interval:  time.Duration(cfg.Scrape.DelaySecs) * time.Second,
	})
}
