package planner

import (
	"context"
	"time"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
	"github.com/sidworks/gp/internal/validation"
)

// UnknownGoalTitle labels monthly goals whose yearly parent is missing
// from the fetched set (deleted parent, or a partial fetch).
const UnknownGoalTitle = "Unknown Goal"

// MonthlyInput is the caller-supplied portion of a new monthly goal.
type MonthlyInput struct {
	YearlyGoalID  string
	Title         string
	MonthDate     time.Time
	Objective     string
	SuccessMetric string
}

// ListMonthly returns all of the user's monthly goals, most recent month
// first.
func (p *Planner) ListMonthly(ctx context.Context) ([]*types.MonthlyGoal, error) {
	goals, err := p.store.ListMonthlyGoals(ctx, p.userID)
	if err != nil {
		return nil, p.wrap("list monthly goals", err)
	}
	return goals, nil
}

// ListMonthlyByYearly returns the monthly goals under one yearly goal.
func (p *Planner) ListMonthlyByYearly(ctx context.Context, yearlyGoalID string) ([]*types.MonthlyGoal, error) {
	goals, err := p.store.ListMonthlyGoalsByParent(ctx, p.userID, yearlyGoalID)
	if err != nil {
		return nil, p.wrap("list monthly goals", err)
	}
	return goals, nil
}

// GetMonthly returns one monthly goal.
func (p *Planner) GetMonthly(ctx context.Context, id string) (*types.MonthlyGoal, error) {
	goal, err := p.store.GetMonthlyGoal(ctx, p.userID, id)
	if err != nil {
		return nil, p.wrap("get monthly goal", err)
	}
	return goal, nil
}

// CreateMonthly validates in and stores the goal under its yearly parent.
// The month anchor is normalized to the first of the month.
func (p *Planner) CreateMonthly(ctx context.Context, in MonthlyInput) (*types.MonthlyGoal, error) {
	parentID, err := validation.Required("yearly goal", in.YearlyGoalID)
	if err != nil {
		return nil, err
	}
	title, err := validation.Required("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.MonthDate.IsZero() {
		return nil, &validation.ValidationError{Field: "month", Reason: "is required"}
	}
	goal := &types.MonthlyGoal{
		YearlyGoalID:  parentID,
		UserID:        p.userID,
		MonthDate:     firstOfMonth(in.MonthDate),
		Title:         title,
		ObjectiveText: validation.Optional(in.Objective),
		SuccessMetric: validation.Optional(in.SuccessMetric),
		Status:        types.MonthlyPlanned,
	}
	stored, err := p.store.CreateMonthlyGoal(ctx, goal)
	if err != nil {
		return nil, p.wrap("create monthly goal", err)
	}
	return stored, nil
}

// UpdateMonthly applies a partial update to one monthly goal.
func (p *Planner) UpdateMonthly(ctx context.Context, id string, updates storage.Fields) error {
	if len(updates) == 0 {
		return nil
	}
	return p.wrap("update monthly goal", p.store.UpdateMonthlyGoal(ctx, p.userID, id, updates))
}

// SetReviewNotes records end-of-month review notes on a monthly goal.
func (p *Planner) SetReviewNotes(ctx context.Context, id, notes string) error {
	return p.wrap("update monthly goal",
		p.store.UpdateMonthlyGoal(ctx, p.userID, id, storage.Fields{"review_notes": validation.Optional(notes)}))
}

// SetMonthlyStatus validates and stores a status transition.
func (p *Planner) SetMonthlyStatus(ctx context.Context, id string, raw string) (types.MonthlyStatus, error) {
	status, err := types.ParseMonthlyStatus(raw)
	if err != nil {
		return "", err
	}
	uerr := p.store.UpdateMonthlyGoal(ctx, p.userID, id, storage.Fields{"status": status})
	if uerr != nil {
		return "", p.wrap("update monthly goal", uerr)
	}
	return status, nil
}

// MonthlyGroup is one heading's slice of a monthly listing.
type MonthlyGroup struct {
	YearlyTitle string
	Goals       []*types.MonthlyGoal
}

// GroupMonthlyByYearly buckets monthly goals under their yearly parent's
// title. The title is the bucket key, so two yearly goals sharing a title
// merge into one heading. Groups appear in order of each title's first
// appearance in monthly, so the listing's most-recent-first order carries
// through. Orphans are bucketed under UnknownGoalTitle rather than dropped.
func GroupMonthlyByYearly(monthly []*types.MonthlyGoal, yearly []*types.YearlyGoal) []MonthlyGroup {
	titles := make(map[string]string, len(yearly))
	for _, y := range yearly {
		titles[y.ID] = y.Title
	}

	index := make(map[string]int)
	var groups []MonthlyGroup
	for _, m := range monthly {
		title, ok := titles[m.YearlyGoalID]
		if !ok {
			title = UnknownGoalTitle
		}
		i, seen := index[title]
		if !seen {
			i = len(groups)
			index[title] = i
			groups = append(groups, MonthlyGroup{YearlyTitle: title})
		}
		groups[i].Goals = append(groups[i].Goals, m)
	}
	return groups
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
