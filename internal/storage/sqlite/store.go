// Package sqlite implements the storage interface against a local SQLite
// file. It backs the planner's offline mode: same contract as the remote
// Postgres store, but ids are minted client-side since there is no server
// to assign them, and timestamps are written by this process.
//
// Dates and timestamps are stored as ISO-8601 text to keep the driver's
// type handling out of the contract.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/sidworks/gp/internal/storage"
)

var _ storage.RemoteStore = (*Store)(nil)

// Store is a SQLite-backed RemoteStore.
type Store struct {
	db   *sql.DB
	path string
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id        TEXT PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		role      TEXT NOT NULL DEFAULT 'user'
	)`,
	`CREATE TABLE IF NOT EXISTS yearly_goals (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		title            TEXT NOT NULL,
		category         TEXT NOT NULL DEFAULT '',
		year             INTEGER NOT NULL,
		smart_statement  TEXT NOT NULL,
		benefits_text    TEXT NOT NULL DEFAULT '',
		obstacles_text   TEXT NOT NULL DEFAULT '',
		solutions_text   TEXT NOT NULL DEFAULT '',
		progress_percent INTEGER NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'active',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_goals (
		id               TEXT PRIMARY KEY,
		yearly_goal_id   TEXT NOT NULL,
		user_id          TEXT NOT NULL,
		month_date       TEXT NOT NULL,
		title            TEXT NOT NULL,
		objective_text   TEXT NOT NULL DEFAULT '',
		success_metric   TEXT NOT NULL DEFAULT '',
		review_notes     TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'planned',
		progress_percent INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_goals (
		id               TEXT PRIMARY KEY,
		monthly_goal_id  TEXT NOT NULL,
		user_id          TEXT NOT NULL,
		week_start_date  TEXT NOT NULL,
		title            TEXT NOT NULL,
		objective_text   TEXT NOT NULL DEFAULT '',
		obstacle_plan    TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'planned',
		progress_percent INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS baby_steps (
		id             TEXT PRIMARY KEY,
		weekly_goal_id TEXT NOT NULL,
		user_id        TEXT NOT NULL,
		title          TEXT NOT NULL,
		notes          TEXT NOT NULL DEFAULT '',
		due_date       TEXT,
		priority       TEXT NOT NULL DEFAULT 'medium',
		status         TEXT NOT NULL DEFAULT 'todo',
		position       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_yearly_goals_user ON yearly_goals (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_monthly_goals_parent ON monthly_goals (yearly_goal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_goals_parent ON weekly_goals (monthly_goal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_baby_steps_parent ON baby_steps (weekly_goal_id, created_at)`,
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema. Use ":memory:" for an ephemeral database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection avoids SQLITE_BUSY on concurrent writers; the
	// planner is single-session anyway.
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }
