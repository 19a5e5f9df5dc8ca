package score

import (
	"context"
	"database/sql"
	"errors"
)

// sqlKV stores keys in the kv table created by the db migrations.
type sqlKV struct{ db *sql.DB }

// NewSQLKV returns a KV backed by the kv table of db.
func NewSQLKV(db *sql.DB) KV { return &sqlKV{db: db} }

func (s *sqlKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *sqlKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value,
	)
	return err
}
