package planner

import (
	"context"
	"time"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
	"github.com/sidworks/gp/internal/validation"
)

// WeeklyInput is the caller-supplied portion of a new weekly goal.
type WeeklyInput struct {
	MonthlyGoalID string
	Title         string
	WeekStartDate time.Time
	Objective     string
	ObstaclePlan  string
}

// ListWeekly returns all of the user's weekly goals, most recent week
// first.
func (p *Planner) ListWeekly(ctx context.Context) ([]*types.WeeklyGoal, error) {
	goals, err := p.store.ListWeeklyGoals(ctx, p.userID)
	if err != nil {
		return nil, p.wrap("list weekly goals", err)
	}
	return goals, nil
}

// ListWeeklyByMonthly returns the weekly goals under one monthly goal.
func (p *Planner) ListWeeklyByMonthly(ctx context.Context, monthlyGoalID string) ([]*types.WeeklyGoal, error) {
	goals, err := p.store.ListWeeklyGoalsByParent(ctx, p.userID, monthlyGoalID)
	if err != nil {
		return nil, p.wrap("list weekly goals", err)
	}
	return goals, nil
}

// GetWeekly returns one weekly goal.
func (p *Planner) GetWeekly(ctx context.Context, id string) (*types.WeeklyGoal, error) {
	goal, err := p.store.GetWeeklyGoal(ctx, p.userID, id)
	if err != nil {
		return nil, p.wrap("get weekly goal", err)
	}
	return goal, nil
}

// CreateWeekly validates in and stores the goal under its monthly parent.
// The week anchor is normalized to the Monday of its week.
func (p *Planner) CreateWeekly(ctx context.Context, in WeeklyInput) (*types.WeeklyGoal, error) {
	parentID, err := validation.Required("monthly goal", in.MonthlyGoalID)
	if err != nil {
		return nil, err
	}
	title, err := validation.Required("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.WeekStartDate.IsZero() {
		return nil, &validation.ValidationError{Field: "week start", Reason: "is required"}
	}
	goal := &types.WeeklyGoal{
		MonthlyGoalID: parentID,
		UserID:        p.userID,
		WeekStartDate: StartOfWeek(in.WeekStartDate),
		Title:         title,
		ObjectiveText: validation.Optional(in.Objective),
		ObstaclePlan:  validation.Optional(in.ObstaclePlan),
		Status:        types.WeeklyPlanned,
	}
	stored, err := p.store.CreateWeeklyGoal(ctx, goal)
	if err != nil {
		return nil, p.wrap("create weekly goal", err)
	}
	return stored, nil
}

// UpdateWeekly applies a partial update to one weekly goal.
func (p *Planner) UpdateWeekly(ctx context.Context, id string, updates storage.Fields) error {
	if len(updates) == 0 {
		return nil
	}
	return p.wrap("update weekly goal", p.store.UpdateWeeklyGoal(ctx, p.userID, id, updates))
}

// SetWeeklyStatus validates and stores a status transition.
func (p *Planner) SetWeeklyStatus(ctx context.Context, id string, raw string) (types.WeeklyStatus, error) {
	status, err := types.ParseWeeklyStatus(raw)
	if err != nil {
		return "", err
	}
	uerr := p.store.UpdateWeeklyGoal(ctx, p.userID, id, storage.Fields{"status": status})
	if uerr != nil {
		return "", p.wrap("update weekly goal", uerr)
	}
	return status, nil
}

// StartOfWeek returns the Monday of t's week at midnight UTC.
func StartOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}
