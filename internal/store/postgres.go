package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/hiretools/catalog-cli/internal/db"
	"github.com/hiretools/catalog-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// productColumns is the column order used for bulk product upserts.
var productColumns = []string{
	"course_id", "title", "product_url", "remote_testing", "adaptive_irt", "test_type",
	"description", "job_levels", "languages", "assessment_length", "completion_time_minutes",
	"full_test_type", "updated_at",
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scrape_runs (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	status       TEXT NOT NULL DEFAULT 'running',
	pages        INTEGER NOT NULL DEFAULT 0,
	products     INTEGER NOT NULL DEFAULT 0,
	started_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS products (
	course_id               TEXT NOT NULL,
	title                   TEXT NOT NULL,
	product_url             TEXT NOT NULL UNIQUE,
	remote_testing          TEXT NOT NULL DEFAULT '',
	adaptive_irt            TEXT NOT NULL DEFAULT '',
	test_type               TEXT NOT NULL DEFAULT '',
	description             TEXT NOT NULL DEFAULT '',
	job_levels              TEXT NOT NULL DEFAULT '',
	languages               TEXT NOT NULL DEFAULT '',
	assessment_length       TEXT NOT NULL DEFAULT '',
	completion_time_minutes TEXT NOT NULL DEFAULT '',
	full_test_type          TEXT NOT NULL DEFAULT '',
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_scrape_runs_status ON scrape_runs(status);
CREATE INDEX IF NOT EXISTS idx_products_course_id ON products(course_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateScrapeRun(ctx context.Context) (*model.ScrapeRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrape_runs (id, status, started_at) VALUES ($1, $2, $3)`,
		id, string(model.RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert scrape run")
	}

	return &model.ScrapeRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		StartedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteScrapeRun(ctx context.Context, runID string, status model.RunStatus, pages, products int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE scrape_runs SET status = $1, pages = $2, products = $3, completed_at = $4 WHERE id = $5`,
		string(status), pages, products, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete scrape run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("scrape run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) ListScrapeRuns(ctx context.Context, limit int) ([]model.ScrapeRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, status, pages, products, started_at, completed_at FROM scrape_runs
		 ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scrape runs")
	}
	defer rows.Close()

	var runs []model.ScrapeRun
	for rows.Next() {
		var r model.ScrapeRun
		var completedAt *time.Time
		if err := rows.Scan(&r.ID, &r.Status, &r.Pages, &r.Products, &r.StartedAt, &completedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan scrape run")
		}
		r.CompletedAt = completedAt
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list scrape runs iterate")
}

func (s *PostgresStore) UpsertProducts(ctx context.Context, products []model.EnrichedProduct) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.CourseID, p.Title, p.ProductURL, p.RemoteTesting, p.AdaptiveIRT, p.TestType,
			p.Description, p.JobLevels, p.Languages, p.AssessmentLength, p.CompletionTimeMinutes,
			p.FullTestType, now,
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "products",
		Columns:      productColumns,
		ConflictKeys: []string{"product_url"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert products")
	}
	return int(n), nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]model.EnrichedProduct, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT course_id, title, product_url, remote_testing, adaptive_irt, test_type,
		        description, job_levels, languages, assessment_length, completion_time_minutes, full_test_type
		 FROM products ORDER BY course_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list products")
	}
	defer rows.Close()

	var products []model.EnrichedProduct
	for rows.Next() {
		var p model.EnrichedProduct
		if err := rows.Scan(
			&p.CourseID, &p.Title, &p.ProductURL, &p.RemoteTesting, &p.AdaptiveIRT, &p.TestType,
			&p.Description, &p.JobLevels, &p.Languages, &p.AssessmentLength, &p.CompletionTimeMinutes, &p.FullTestType,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan product")
		}
		products = append(products, p)
	}
	return products, eris.Wrap(rows.Err(), "postgres: list products iterate")
}

func (s *PostgresStore) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, eris.Wrap(err, "postgres: count products")
}
