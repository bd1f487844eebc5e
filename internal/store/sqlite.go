package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/hiretools/catalog-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scrape_runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	pages        INTEGER NOT NULL DEFAULT 0,
	products     INTEGER NOT NULL DEFAULT 0,
	started_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME
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
	updated_at              DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scrape_runs_status ON scrape_runs(status);
CREATE INDEX IF NOT EXISTS idx_products_course_id ON products(course_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateScrapeRun(ctx context.Context) (*model.ScrapeRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_runs (id, status, started_at) VALUES (?, ?, ?)`,
		id, string(model.RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert scrape run")
	}

	return &model.ScrapeRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		StartedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteScrapeRun(ctx context.Context, runID string, status model.RunStatus, pages, products int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scrape_runs SET status = ?, pages = ?, products = ?, completed_at = ? WHERE id = ?`,
		string(status), pages, products, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete scrape run %s", runID)
	}
	return checkRowsAffected(res, "scrape run", runID)
}

func (s *SQLiteStore) ListScrapeRuns(ctx context.Context, limit int) ([]model.ScrapeRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, pages, products, started_at, completed_at FROM scrape_runs
		 ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scrape runs")
	}
	defer rows.Close()

	var runs []model.ScrapeRun
	for rows.Next() {
		var r model.ScrapeRun
		var completedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Status, &r.Pages, &r.Products, &r.StartedAt, &completedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan scrape run")
		}
		if completedAt.Valid {
			t := completedAt.Time
			r.CompletedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list scrape runs iterate")
}

func (s *SQLiteStore) UpsertProducts(ctx context.Context, products []model.EnrichedProduct) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products
		 (course_id, title, product_url, remote_testing, adaptive_irt, test_type,
		  description, job_levels, languages, assessment_length, completion_time_minutes, full_test_type, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (product_url) DO UPDATE SET
		   course_id = excluded.course_id,
		   title = excluded.title,
		   remote_testing = excluded.remote_testing,
		   adaptive_irt = excluded.adaptive_irt,
		   test_type = excluded.test_type,
		   description = excluded.description,
		   job_levels = excluded.job_levels,
		   languages = excluded.languages,
		   assessment_length = excluded.assessment_length,
		   completion_time_minutes = excluded.completion_time_minutes,
		   full_test_type = excluded.full_test_type,
		   updated_at = excluded.updated_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.CourseID, p.Title, p.ProductURL, p.RemoteTesting, p.AdaptiveIRT, p.TestType,
			p.Description, p.JobLevels, p.Languages, p.AssessmentLength, p.CompletionTimeMinutes, p.FullTestType, now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert product %s", p.ProductURL)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert tx")
	}
	return len(products), nil
}

func (s *SQLiteStore) ListProducts(ctx context.Context) ([]model.EnrichedProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT course_id, title, product_url, remote_testing, adaptive_irt, test_type,
		        description, job_levels, languages, assessment_length, completion_time_minutes, full_test_type
		 FROM products ORDER BY course_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list products")
	}
	defer rows.Close()

	var products []model.EnrichedProduct
	for rows.Next() {
		var p model.EnrichedProduct
		if err := rows.Scan(
			&p.CourseID, &p.Title, &p.ProductURL, &p.RemoteTesting, &p.AdaptiveIRT, &p.TestType,
			&p.Description, &p.JobLevels, &p.Languages, &p.AssessmentLength, &p.CompletionTimeMinutes, &p.FullTestType,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan product")
		}
		products = append(products, p)
	}
	return products, eris.Wrap(rows.Err(), "sqlite: list products iterate")
}

func (s *SQLiteStore) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, eris.Wrap(err, "sqlite: count products")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
