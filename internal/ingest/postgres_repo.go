package ingest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository keeps the history of catalog rounds.
type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	UpdateRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const sql = `
		INSERT INTO catalog_runs (id, started_at, status, subjects)
		VALUES ($1, $2, $3, $4)`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, sql, run.ID, run.StartedAt, run.Status, strings.Join(run.Subjects, ","))
	return err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE catalog_runs SET
			finished_at = $1,
			status = $2,
			books_fetched = $3,
			books_unique = $4,
			genre_groups = $5,
			failed_subjects = $6,
			error = $7
		WHERE id = $8`

	failures, err := json.Marshal(run.FailedSubjects)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err = r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.BooksFetched, run.BooksUnique,
		run.GenreGroups, failures, run.Error, run.ID)
	return err
}

func (r *PostgresRepo) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	const sql = `
		SELECT id, started_at, finished_at, status, subjects, books_fetched,
		       books_unique, genre_groups, failed_subjects, error
		FROM catalog_runs
		ORDER BY started_at DESC
		LIMIT $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			subjects string
			failures []byte
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &subjects,
			&run.BooksFetched, &run.BooksUnique, &run.GenreGroups, &failures, &run.Error); err != nil {
			return nil, err
		}
		if subjects != "" {
			run.Subjects = strings.Split(subjects, ",")
		}
		if len(failures) > 0 {
			if err := json.Unmarshal(failures, &run.FailedSubjects); err != nil {
				return nil, err
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// MemoryRepo keeps the most recent runs in process memory.
type MemoryRepo struct {
	mu   sync.Mutex
	runs []Run
	max  int
}

func NewMemoryRepo(max int) *MemoryRepo {
	return &MemoryRepo{max: max}
}

func (m *MemoryRepo) CreateRun(_ context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append([]Run{*run}, m.runs...)
	if m.max > 0 && len(m.runs) > m.max {
		m.runs = m.runs[:m.max]
	}
	return nil
}

func (m *MemoryRepo) UpdateRun(_ context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == run.ID {
			m.runs[i] = *run
			return nil
		}
	}
	return nil
}

func (m *MemoryRepo) ListRuns(_ context.Context, limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}
	return append([]Run(nil), m.runs[:limit]...), nil
}
