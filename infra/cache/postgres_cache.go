package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/certen/evmscan/infra"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS evmscan_cache (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

// PostgresCache is the optional Postgres-backed Cache, for sharing cached
// responses across processes. Construction follows the teacher's
// pkg/database.Client shape: a functional-option config, a pooled *sql.DB,
// and a fail-fast PingContext before the constructor returns.
type PostgresCache struct {
	db *sql.DB
}

var _ infra.Cache = (*PostgresCache)(nil)

// Option configures a PostgresCache at construction.
type Option func(*sql.DB)

// WithMaxOpenConns caps the connection pool size.
func WithMaxOpenConns(n int) Option {
	return func(db *sql.DB) { db.SetMaxOpenConns(n) }
}

// WithConnMaxLifetime bounds how long a pooled connection may be reused.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *sql.DB) { db.SetConnMaxLifetime(d) }
}

// NewPostgresCache opens a connection pool against dsn, ensures the cache
// table exists, and pings the database before returning — a connection
// failure surfaces at construction, not on the first cached request.
func NewPostgresCache(ctx context.Context, dsn string, opts ...Option) (*PostgresCache, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("infra/cache: opening postgres connection: %w", err)
	}

	for _, opt := range opts {
		opt(db)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("infra/cache: pinging postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("infra/cache: creating cache table: %w", err)
	}

	return &PostgresCache{db: db}, nil
}

// Get returns the cached value for key if present and not expired. A
// database error is treated as a miss, per the Cache port's contract.
func (c *PostgresCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	row := c.db.QueryRowContext(ctx,
		`SELECT value FROM evmscan_cache WHERE key = $1 AND expires_at > now()`, key)
	if err := row.Scan(&value); err != nil {
		return nil, false
	}
	return value, true
}

// Set upserts value under key with the given TTL. The upsert makes
// concurrent writers to the same key serialize at the row level instead of
// racing, satisfying the single-writer-per-key requirement.
func (c *PostgresCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_, _ = c.db.ExecContext(ctx, `
		INSERT INTO evmscan_cache (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, value, time.Now().Add(ttl))
}

// Close releases the underlying connection pool.
func (c *PostgresCache) Close() error {
	return c.db.Close()
}
