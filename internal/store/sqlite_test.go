package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiretools/catalog-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func enriched(courseID, title, url string) model.EnrichedProduct {
	return model.EnrichedProduct{
		Product: model.Product{
			CourseID:      courseID,
			Title:         title,
			ProductURL:    url,
			RemoteTesting: model.FlagYes,
			AdaptiveIRT:   model.FlagNo,
			TestType:      "A",
		},
		ProductDetails: model.ProductDetails{
			Description: "desc",
			JobLevels:   "Graduate",
			Languages:   "English (USA)",
		},
	}
}

// --- Runs ---

func TestSQLite_ScrapeRunLifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateScrapeRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)

	err = st.CompleteScrapeRun(ctx, run.ID, model.RunStatusComplete, 3, 24)
	require.NoError(t, err)

	runs, err := st.ListScrapeRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, 3, runs[0].Pages)
	assert.Equal(t, 24, runs[0].Products)
	assert.NotNil(t, runs[0].CompletedAt)
}

func TestSQLite_CompleteScrapeRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.CompleteScrapeRun(context.Background(), "missing-run", model.RunStatusFailed, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListScrapeRuns_OrderedNewestFirst(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := st.CreateScrapeRun(ctx)
	require.NoError(t, err)
	second, err := st.CreateScrapeRun(ctx)
	require.NoError(t, err)

	runs, err := st.ListScrapeRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	// Both runs may share a timestamp at second resolution; either way the
	// limit must hold.
	assert.Contains(t, []string{first.ID, second.ID}, runs[0].ID)
}

// --- Products ---

func TestSQLite_UpsertProducts_InsertAndUpdate(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.UpsertProducts(ctx, []model.EnrichedProduct{
		enriched("101", "Verify Numerical", "https://x/1"),
		enriched("102", "Verify Verbal", "https://x/2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Same product_url with a new title updates in place.
	updated := enriched("101", "Verify Numerical v2", "https://x/1")
	_, err = st.UpsertProducts(ctx, []model.EnrichedProduct{updated})
	require.NoError(t, err)

	count, err := st.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	products, err := st.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Verify Numerical v2", products[0].Title)
	assert.Equal(t, "Graduate", products[0].JobLevels)
}

func TestSQLite_UpsertProducts_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	n, err := st.UpsertProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_ListProducts_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	products, err := st.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	count, err := st.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
