package store

import (
	"context"

	"github.com/hiretools/catalog-cli/internal/model"
)

// Store defines the persistence interface for the catalog pipeline.
type Store interface {
	// Runs
	CreateScrapeRun(ctx context.Context) (*model.ScrapeRun, error)
	CompleteScrapeRun(ctx context.Context, runID string, status model.RunStatus, pages, products int) error
	ListScrapeRuns(ctx context.Context, limit int) ([]model.ScrapeRun, error)

	// Products
	UpsertProducts(ctx context.Context, products []model.EnrichedProduct) (int, error)
	ListProducts(ctx context.Context) ([]model.EnrichedProduct, error)
	CountProducts(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
