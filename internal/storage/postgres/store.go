// Package postgres implements the storage interface against a Postgres
// database, which is what the planner's remote store actually is. Row
// scoping is applied on every statement: reads and mutations carry a
// user_id predicate, so a row owned by another identity behaves as if it
// does not exist.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/sidworks/gp/internal/storage"
)

var _ storage.RemoteStore = (*Store)(nil)

// Store is a Postgres-backed RemoteStore.
type Store struct {
	db *sql.DB
}

// connectTimeout bounds the connect-time ping retries. Domain operations are
// never retried; only connection establishment gets backoff.
const connectTimeout = 15 * time.Second

// Open connects to the database at dsn, applies the schema, and returns the
// store. The initial ping is retried with exponential backoff so a store
// that is still starting up does not fail the whole session.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ping := func() error { return db.PingContext(ctx) }
	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(connectTimeout),
	), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying pool for integration test hooks.
func (s *Store) DB() *sql.DB { return s.db }
