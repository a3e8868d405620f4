package favorite

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists values in the user_kv table.
type PostgresStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *PostgresStore) Get(ctx context.Context, owner, key string) (string, error) {
	const query = `SELECT value FROM user_kv WHERE owner_id = $1 AND key = $2`

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	var value string
	err := s.db.QueryRow(timeoutCtx, query, owner, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, owner, key, value string) error {
	const upsertSQL = `
		INSERT INTO user_kv (owner_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()`

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.Exec(timeoutCtx, upsertSQL, owner, key, value)
	return err
}
