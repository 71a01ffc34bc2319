package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
)

// Updatable columns per table. Partial updates naming anything else are
// rejected with ErrUnknownField before touching the database.
var (
	yearlyCols = colSet("title", "category", "year", "smart_statement",
		"benefits_text", "obstacles_text", "solutions_text",
		"progress_percent", "status")
	monthlyCols = colSet("title", "month_date", "objective_text",
		"success_metric", "review_notes", "progress_percent", "status")
	weeklyCols = colSet("title", "week_start_date", "objective_text",
		"obstacle_plan", "progress_percent", "status")
	stepCols = colSet("title", "notes", "due_date", "priority", "status")
)

func colSet(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}

// UpsertProfile inserts or updates the profile row keyed by id.
func (s *Store) UpsertProfile(ctx context.Context, profile *types.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, role = EXCLUDED.role`,
		profile.ID, profile.FullName, profile.Role)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile fetches a profile by id.
func (s *Store) GetProfile(ctx context.Context, id string) (*types.Profile, error) {
	var p types.Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, role FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.FullName, &p.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

const yearlySelect = `SELECT id, user_id, title, category, year, smart_statement,
	benefits_text, obstacles_text, solutions_text, progress_percent, status,
	created_at, updated_at FROM yearly_goals`

func scanYearly(row interface{ Scan(...interface{}) error }) (*types.YearlyGoal, error) {
	var g types.YearlyGoal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Category, &g.Year,
		&g.SmartStatement, &g.BenefitsText, &g.ObstaclesText, &g.SolutionsText,
		&g.ProgressPercent, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListYearlyGoals returns the identity's yearly goals, newest first.
func (s *Store) ListYearlyGoals(ctx context.Context, userID string) ([]*types.YearlyGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		yearlySelect+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list yearly goals: %w", err)
	}
	defer rows.Close()

	var out []*types.YearlyGoal
	for rows.Next() {
		g, err := scanYearly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan yearly goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetYearlyGoal fetches one yearly goal scoped to the identity.
func (s *Store) GetYearlyGoal(ctx context.Context, userID, id string) (*types.YearlyGoal, error) {
	g, err := scanYearly(s.db.QueryRowContext(ctx,
		yearlySelect+` WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get yearly goal: %w", err)
	}
	return g, nil
}

// CreateYearlyGoal inserts the goal; the database assigns id and timestamps.
func (s *Store) CreateYearlyGoal(ctx context.Context, goal *types.YearlyGoal) (*types.YearlyGoal, error) {
	created := *goal
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO yearly_goals (user_id, title, category, year, smart_statement,
			benefits_text, obstacles_text, solutions_text, progress_percent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		goal.UserID, goal.Title, goal.Category, goal.Year, goal.SmartStatement,
		goal.BenefitsText, goal.ObstaclesText, goal.SolutionsText,
		goal.ProgressPercent, goal.Status).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create yearly goal: %w", err)
	}
	return &created, nil
}

// UpdateYearlyGoal applies a partial update scoped to the identity.
func (s *Store) UpdateYearlyGoal(ctx context.Context, userID, id string, updates storage.Fields) error {
	return s.update(ctx, "yearly_goals", yearlyCols, userID, id, updates)
}

// DeleteYearlyGoal removes the goal. Cascade behavior is declared in the
// schema, not performed by the client.
func (s *Store) DeleteYearlyGoal(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM yearly_goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete yearly goal: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

const monthlySelect = `SELECT id, yearly_goal_id, user_id, month_date, title,
	objective_text, success_metric, review_notes, status, progress_percent,
	created_at, updated_at FROM monthly_goals`

func scanMonthly(row interface{ Scan(...interface{}) error }) (*types.MonthlyGoal, error) {
	var g types.MonthlyGoal
	err := row.Scan(&g.ID, &g.YearlyGoalID, &g.UserID, &g.MonthDate, &g.Title,
		&g.ObjectiveText, &g.SuccessMetric, &g.ReviewNotes, &g.Status,
		&g.ProgressPercent, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListMonthlyGoals returns all monthly goals for the identity, by month
// anchor descending.
func (s *Store) ListMonthlyGoals(ctx context.Context, userID string) ([]*types.MonthlyGoal, error) {
	return s.queryMonthly(ctx,
		monthlySelect+` WHERE user_id = $1 ORDER BY month_date DESC`, userID)
}

// ListMonthlyGoalsByParent returns the monthly goals under one yearly goal.
func (s *Store) ListMonthlyGoalsByParent(ctx context.Context, userID, yearlyGoalID string) ([]*types.MonthlyGoal, error) {
	return s.queryMonthly(ctx,
		monthlySelect+` WHERE user_id = $1 AND yearly_goal_id = $2 ORDER BY month_date DESC`,
		userID, yearlyGoalID)
}

func (s *Store) queryMonthly(ctx context.Context, query string, args ...interface{}) ([]*types.MonthlyGoal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list monthly goals: %w", err)
	}
	defer rows.Close()

	var out []*types.MonthlyGoal
	for rows.Next() {
		g, err := scanMonthly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monthly goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetMonthlyGoal fetches one monthly goal scoped to the identity.
func (s *Store) GetMonthlyGoal(ctx context.Context, userID, id string) (*types.MonthlyGoal, error) {
	g, err := scanMonthly(s.db.QueryRowContext(ctx,
		monthlySelect+` WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get monthly goal: %w", err)
	}
	return g, nil
}

// CreateMonthlyGoal inserts the goal; the database assigns id and timestamps.
func (s *Store) CreateMonthlyGoal(ctx context.Context, goal *types.MonthlyGoal) (*types.MonthlyGoal, error) {
	created := *goal
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO monthly_goals (yearly_goal_id, user_id, month_date, title,
			objective_text, success_metric, review_notes, status, progress_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		goal.YearlyGoalID, goal.UserID, goal.MonthDate, goal.Title,
		goal.ObjectiveText, goal.SuccessMetric, goal.ReviewNotes,
		goal.Status, goal.ProgressPercent).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create monthly goal: %w", err)
	}
	return &created, nil
}

// UpdateMonthlyGoal applies a partial update scoped to the identity.
func (s *Store) UpdateMonthlyGoal(ctx context.Context, userID, id string, updates storage.Fields) error {
	return s.update(ctx, "monthly_goals", monthlyCols, userID, id, updates)
}

const weeklySelect = `SELECT id, monthly_goal_id, user_id, week_start_date, title,
	objective_text, obstacle_plan, status, progress_percent, created_at,
	updated_at FROM weekly_goals`

func scanWeekly(row interface{ Scan(...interface{}) error }) (*types.WeeklyGoal, error) {
	var g types.WeeklyGoal
	err := row.Scan(&g.ID, &g.MonthlyGoalID, &g.UserID, &g.WeekStartDate,
		&g.Title, &g.ObjectiveText, &g.ObstaclePlan, &g.Status,
		&g.ProgressPercent, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListWeeklyGoals returns all weekly goals for the identity, by week start
// descending.
func (s *Store) ListWeeklyGoals(ctx context.Context, userID string) ([]*types.WeeklyGoal, error) {
	return s.queryWeekly(ctx,
		weeklySelect+` WHERE user_id = $1 ORDER BY week_start_date DESC`, userID)
}

// ListWeeklyGoalsByParent returns the weekly goals under one monthly goal.
func (s *Store) ListWeeklyGoalsByParent(ctx context.Context, userID, monthlyGoalID string) ([]*types.WeeklyGoal, error) {
	return s.queryWeekly(ctx,
		weeklySelect+` WHERE user_id = $1 AND monthly_goal_id = $2 ORDER BY week_start_date DESC`,
		userID, monthlyGoalID)
}

func (s *Store) queryWeekly(ctx context.Context, query string, args ...interface{}) ([]*types.WeeklyGoal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weekly goals: %w", err)
	}
	defer rows.Close()

	var out []*types.WeeklyGoal
	for rows.Next() {
		g, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weekly goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetWeeklyGoal fetches one weekly goal scoped to the identity.
func (s *Store) GetWeeklyGoal(ctx context.Context, userID, id string) (*types.WeeklyGoal, error) {
	g, err := scanWeekly(s.db.QueryRowContext(ctx,
		weeklySelect+` WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get weekly goal: %w", err)
	}
	return g, nil
}

// CreateWeeklyGoal inserts the goal; the database assigns id and timestamps.
func (s *Store) CreateWeeklyGoal(ctx context.Context, goal *types.WeeklyGoal) (*types.WeeklyGoal, error) {
	created := *goal
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO weekly_goals (monthly_goal_id, user_id, week_start_date, title,
			objective_text, obstacle_plan, status, progress_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		goal.MonthlyGoalID, goal.UserID, goal.WeekStartDate, goal.Title,
		goal.ObjectiveText, goal.ObstaclePlan, goal.Status, goal.ProgressPercent).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create weekly goal: %w", err)
	}
	return &created, nil
}

// UpdateWeeklyGoal applies a partial update scoped to the identity.
func (s *Store) UpdateWeeklyGoal(ctx context.Context, userID, id string, updates storage.Fields) error {
	return s.update(ctx, "weekly_goals", weeklyCols, userID, id, updates)
}

const stepSelect = `SELECT id, weekly_goal_id, user_id, title, notes, due_date,
	priority, status, position, created_at, updated_at FROM baby_steps`

func scanStep(row interface{ Scan(...interface{}) error }) (*types.BabyStep, error) {
	var st types.BabyStep
	var due sql.NullTime
	err := row.Scan(&st.ID, &st.WeeklyGoalID, &st.UserID, &st.Title, &st.Notes,
		&due, &st.Priority, &st.Status, &st.Position, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		st.DueDate = &due.Time
	}
	return &st, nil
}

// ListBabySteps returns the steps under one weekly goal, oldest first.
func (s *Store) ListBabySteps(ctx context.Context, userID, weeklyGoalID string) ([]*types.BabyStep, error) {
	rows, err := s.db.QueryContext(ctx,
		stepSelect+` WHERE user_id = $1 AND weekly_goal_id = $2 ORDER BY created_at ASC`,
		userID, weeklyGoalID)
	if err != nil {
		return nil, fmt.Errorf("list baby steps: %w", err)
	}
	defer rows.Close()

	var out []*types.BabyStep
	for rows.Next() {
		st, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan baby step: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetBabyStep fetches one step scoped to the identity.
func (s *Store) GetBabyStep(ctx context.Context, userID, id string) (*types.BabyStep, error) {
	st, err := scanStep(s.db.QueryRowContext(ctx,
		stepSelect+` WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get baby step: %w", err)
	}
	return st, nil
}

// CreateBabyStep inserts the step. The position ordinal is assigned in the
// same statement (max+1 within the weekly goal).
func (s *Store) CreateBabyStep(ctx context.Context, step *types.BabyStep) (*types.BabyStep, error) {
	created := *step
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO baby_steps (weekly_goal_id, user_id, title, notes, due_date,
			priority, status, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			COALESCE((SELECT MAX(position) FROM baby_steps WHERE weekly_goal_id = $1), 0) + 1)
		RETURNING id, position, created_at, updated_at`,
		step.WeeklyGoalID, step.UserID, step.Title, step.Notes, step.DueDate,
		step.Priority, step.Status).
		Scan(&created.ID, &created.Position, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create baby step: %w", err)
	}
	return &created, nil
}

// UpdateBabyStep applies a partial update scoped to the identity.
func (s *Store) UpdateBabyStep(ctx context.Context, userID, id string, updates storage.Fields) error {
	return s.update(ctx, "baby_steps", stepCols, userID, id, updates)
}

// update builds a partial UPDATE from the fields map. Column order is
// sorted so generated SQL is deterministic.
func (s *Store) update(ctx context.Context, table string, allowed map[string]bool, userID, id string, updates storage.Fields) error {
	if len(updates) == 0 {
		return nil
	}
	cols := make([]string, 0, len(updates))
	for col := range updates {
		if !allowed[col] {
			return fmt.Errorf("%w: %s for %s", storage.ErrUnknownField, col, table)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := "UPDATE " + table + " SET "
	args := make([]interface{}, 0, len(cols)+2)
	for i, col := range cols {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, updates[col])
	}
	query += fmt.Sprintf(", updated_at = now() WHERE id = $%d AND user_id = $%d",
		len(cols)+1, len(cols)+2)
	args = append(args, id, userID)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return rowsAffectedOrNotFound(res)
}

func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
