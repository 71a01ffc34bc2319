// Package types defines core data structures for the gp goal planner.
package types

import "time"

// Profile is the per-identity row provisioned on first sign-in.
// Keyed by the auth identity's id; the upsert conflict target is ID.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// DefaultRole is assigned to every provisioned profile.
const DefaultRole = "user"

// YearlyGoal is the root of the planning hierarchy.
type YearlyGoal struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	Title           string       `json:"title"`
	Category        string       `json:"category,omitempty"`
	Year            int          `json:"year"`
	SmartStatement  string       `json:"smart_statement"`
	BenefitsText    string       `json:"benefits_text,omitempty"`
	ObstaclesText   string       `json:"obstacles_text,omitempty"`
	SolutionsText   string       `json:"solutions_text,omitempty"`
	ProgressPercent int          `json:"progress_percent"`
	Status          YearlyStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// MonthlyGoal belongs to exactly one YearlyGoal.
// MonthDate anchors the goal to a calendar month (first of the month).
type MonthlyGoal struct {
	ID              string        `json:"id"`
	YearlyGoalID    string        `json:"yearly_goal_id"`
	UserID          string        `json:"user_id"`
	MonthDate       time.Time     `json:"month_date"`
	Title           string        `json:"title"`
	ObjectiveText   string        `json:"objective_text,omitempty"`
	SuccessMetric   string        `json:"success_metric,omitempty"`
	ReviewNotes     string        `json:"review_notes,omitempty"`
	Status          MonthlyStatus `json:"status"`
	ProgressPercent int           `json:"progress_percent"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// WeeklyGoal belongs to exactly one MonthlyGoal.
type WeeklyGoal struct {
	ID              string       `json:"id"`
	MonthlyGoalID   string       `json:"monthly_goal_id"`
	UserID          string       `json:"user_id"`
	WeekStartDate   time.Time    `json:"week_start_date"`
	Title           string       `json:"title"`
	ObjectiveText   string       `json:"objective_text,omitempty"`
	ObstaclePlan    string       `json:"obstacle_plan,omitempty"`
	Status          WeeklyStatus `json:"status"`
	ProgressPercent int          `json:"progress_percent"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// BabyStep is the task-level leaf under a WeeklyGoal.
// Position is assigned at creation (max+1 within the weekly goal) and is
// never recomputed; listings order by creation time ascending, so the two
// orders agree.
type BabyStep struct {
	ID            string       `json:"id"`
	WeeklyGoalID  string       `json:"weekly_goal_id"`
	UserID        string       `json:"user_id"`
	Title         string       `json:"title"`
	Notes         string       `json:"notes,omitempty"`
	DueDate       *time.Time   `json:"due_date,omitempty"`
	Priority      StepPriority `json:"priority"`
	Status        StepStatus   `json:"status"`
	Position      int          `json:"position"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ClampProgress clamps a progress value to the valid [0, 100] range.
// Input is clamped before submission; the hierarchy never reconciles a
// parent's progress with its children's.
func ClampProgress(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
