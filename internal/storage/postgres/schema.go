package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema mirrors the remote store's tables. Descendant cleanup on yearly
// delete is declared here (ON DELETE CASCADE) but the client never depends
// on it; referential behavior is the store's concern.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id        UUID PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		role      TEXT NOT NULL DEFAULT 'user'
	)`,
	`CREATE TABLE IF NOT EXISTS yearly_goals (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id          UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		category         TEXT NOT NULL DEFAULT '',
		year             INTEGER NOT NULL,
		smart_statement  TEXT NOT NULL,
		benefits_text    TEXT NOT NULL DEFAULT '',
		obstacles_text   TEXT NOT NULL DEFAULT '',
		solutions_text   TEXT NOT NULL DEFAULT '',
		progress_percent INTEGER NOT NULL DEFAULT 0 CHECK (progress_percent BETWEEN 0 AND 100),
		status           TEXT NOT NULL DEFAULT 'active',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_goals (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		yearly_goal_id   UUID NOT NULL REFERENCES yearly_goals(id) ON DELETE CASCADE,
		user_id          UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		month_date       DATE NOT NULL,
		title            TEXT NOT NULL,
		objective_text   TEXT NOT NULL DEFAULT '',
		success_metric   TEXT NOT NULL DEFAULT '',
		review_notes     TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'planned',
		progress_percent INTEGER NOT NULL DEFAULT 0 CHECK (progress_percent BETWEEN 0 AND 100),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_goals (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		monthly_goal_id  UUID NOT NULL REFERENCES monthly_goals(id) ON DELETE CASCADE,
		user_id          UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		week_start_date  DATE NOT NULL,
		title            TEXT NOT NULL,
		objective_text   TEXT NOT NULL DEFAULT '',
		obstacle_plan    TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'planned',
		progress_percent INTEGER NOT NULL DEFAULT 0 CHECK (progress_percent BETWEEN 0 AND 100),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS baby_steps (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		weekly_goal_id UUID NOT NULL REFERENCES weekly_goals(id) ON DELETE CASCADE,
		user_id        UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		title          TEXT NOT NULL,
		notes          TEXT NOT NULL DEFAULT '',
		due_date       DATE,
		priority       TEXT NOT NULL DEFAULT 'medium',
		status         TEXT NOT NULL DEFAULT 'todo',
		position       INTEGER NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_yearly_goals_user ON yearly_goals (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_monthly_goals_user ON monthly_goals (user_id, month_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_monthly_goals_parent ON monthly_goals (yearly_goal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_goals_user ON weekly_goals (user_id, week_start_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_goals_parent ON weekly_goals (monthly_goal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_baby_steps_parent ON baby_steps (weekly_goal_id, created_at)`,
}

func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
