package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Postgres is the secondary remote tier: a single key-value table, with
// expiry handled lazily on read.
type Postgres struct {
	db *sqlx.DB
}

var _ Backend = (*Postgres)(nil)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	expires_at TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgres opens a connection pool for the given DSN and ensures the
// key-value table exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, err
	}
	p := &Postgres{db: db}
	if err := p.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgresWithDB wraps an existing handle, for tests. The schema is not
// created.
func NewPostgresWithDB(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, kvSchema)
	return err
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: time.Now().UTC().Add(ttl), Valid: true}
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = now()
	`, key, value, expiresAt)
	return err
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt sql.NullTime
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM kv_entries WHERE key = $1
	`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid && !expiresAt.Time.After(time.Now().UTC()) {
		// Expired: remove lazily and report absent.
		_, _ = p.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
		return nil, ErrNotFound
	}
	return value, nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

func (p *Postgres) Exists(ctx context.Context, key string) (bool, error) {
	_, err := p.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Postgres) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT key FROM kv_entries
		WHERE key LIKE $1 AND (expires_at IS NULL OR expires_at > now())
		ORDER BY key
	`, likePattern(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (p *Postgres) Expire(ctx context.Context, key string, ttl time.Duration) error {
	result, err := p.db.ExecContext(ctx, `
		UPDATE kv_entries SET expires_at = $2 WHERE key = $1
	`, key, time.Now().UTC().Add(ttl))
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) TTL(ctx context.Context, key string) (time.Duration, error) {
	var expiresAt sql.NullTime
	err := p.db.QueryRowContext(ctx, `
		SELECT expires_at FROM kv_entries WHERE key = $1
	`, key).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if !expiresAt.Valid {
		return TTLNone, nil
	}

	remaining := time.Until(expiresAt.Time)
	if remaining <= 0 {
		return 0, ErrNotFound
	}
	return remaining, nil
}

func (p *Postgres) IncrBy(ctx context.Context, key string, amount int64) (int64, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var current int64
	var raw []byte
	err = tx.QueryRowContext(ctx, `
		SELECT value FROM kv_entries WHERE key = $1 FOR UPDATE
	`, key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = 0
	case err != nil:
		return 0, err
	default:
		current, err = strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, err
		}
	}

	next := current + amount
	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`, key, []byte(strconv.FormatInt(next, 10)))
	if err != nil {
		return 0, err
	}
	return next, tx.Commit()
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// likePattern escapes LIKE metacharacters in prefix and appends the
// wildcard.
func likePattern(prefix string) string {
	escaped := make([]byte, 0, len(prefix)+4)
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c == '%' || c == '_' || c == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, c)
	}
	return string(escaped) + "%"
}
