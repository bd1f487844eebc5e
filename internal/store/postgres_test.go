package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiretools/catalog-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateScrapeRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO scrape_runs`).
		WithArgs(pgxmock.AnyArg(), "running", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateScrapeRun(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteScrapeRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE scrape_runs SET`).
		WithArgs("complete", 3, 24, pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteScrapeRun(context.Background(), "run-1", model.RunStatusComplete, 3, 24)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteScrapeRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE scrape_runs SET`).
		WithArgs("failed", 0, 0, pgxmock.AnyArg(), "missing-run").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteScrapeRun(context.Background(), "missing-run", model.RunStatusFailed, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListScrapeRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	started := time.Now().UTC()
	completed := started.Add(time.Minute)
	mock.ExpectQuery(`SELECT id, status, pages, products, started_at, completed_at FROM scrape_runs`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "status", "pages", "products", "started_at", "completed_at"},
		).
			AddRow("run-2", "complete", 3, 24, started, &completed).
			AddRow("run-1", "failed", 1, 0, started.Add(-time.Hour), (*time.Time)(nil)))

	runs, err := s.ListScrapeRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.NotNil(t, runs[0].CompletedAt)
	assert.Equal(t, model.RunStatusFailed, runs[1].Status)
	assert.Nil(t, runs[1].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertProducts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_products"}, productColumns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "products" .* ON CONFLICT`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := s.UpsertProducts(context.Background(), []model.EnrichedProduct{
		enriched("101", "Verify Numerical", "https://x/1"),
		enriched("102", "Verify Verbal", "https://x/2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertProducts_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	n, err := s.UpsertProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProducts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT course_id, title, product_url, .* FROM products`).
		WillReturnRows(pgxmock.NewRows([]string{
			"course_id", "title", "product_url", "remote_testing", "adaptive_irt", "test_type",
			"description", "job_levels", "languages", "assessment_length", "completion_time_minutes", "full_test_type",
		}).AddRow("101", "Verify Numerical", "https://x/1", "Yes", "No", "A",
			"desc", "Graduate", "English (USA)", "", "25", "Ability & Aptitude"))

	products, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Verify Numerical", products[0].Title)
	assert.Equal(t, "25", products[0].CompletionTimeMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountProducts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(24))

	count, err := s.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 24, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
