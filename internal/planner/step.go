package planner

import (
	"context"
	"time"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
	"github.com/sidworks/gp/internal/validation"
)

// StepInput is the caller-supplied portion of a new baby step.
type StepInput struct {
	WeeklyGoalID string
	Title        string
	Notes        string
	DueDate      *time.Time
	Priority     string
}

// ListSteps returns the baby steps under one weekly goal in creation
// order, which matches their assigned positions.
func (p *Planner) ListSteps(ctx context.Context, weeklyGoalID string) ([]*types.BabyStep, error) {
	steps, err := p.store.ListBabySteps(ctx, p.userID, weeklyGoalID)
	if err != nil {
		return nil, p.wrap("list baby steps", err)
	}
	return steps, nil
}

// GetStep returns one baby step.
func (p *Planner) GetStep(ctx context.Context, id string) (*types.BabyStep, error) {
	step, err := p.store.GetBabyStep(ctx, p.userID, id)
	if err != nil {
		return nil, p.wrap("get baby step", err)
	}
	return step, nil
}

// CreateStep validates in and stores the step under its weekly parent.
// Priority defaults to medium; the store assigns the position.
func (p *Planner) CreateStep(ctx context.Context, in StepInput) (*types.BabyStep, error) {
	parentID, err := validation.Required("weekly goal", in.WeeklyGoalID)
	if err != nil {
		return nil, err
	}
	title, err := validation.Required("title", in.Title)
	if err != nil {
		return nil, err
	}
	priority := types.PriorityMedium
	if in.Priority != "" {
		priority, err = types.ParseStepPriority(in.Priority)
		if err != nil {
			return nil, err
		}
	}
	step := &types.BabyStep{
		WeeklyGoalID: parentID,
		UserID:       p.userID,
		Title:        title,
		Notes:        validation.Optional(in.Notes),
		DueDate:      in.DueDate,
		Priority:     priority,
		Status:       types.StepTodo,
	}
	stored, err := p.store.CreateBabyStep(ctx, step)
	if err != nil {
		return nil, p.wrap("create baby step", err)
	}
	return stored, nil
}

// UpdateStep applies a partial update to one baby step.
func (p *Planner) UpdateStep(ctx context.Context, id string, updates storage.Fields) error {
	if len(updates) == 0 {
		return nil
	}
	return p.wrap("update baby step", p.store.UpdateBabyStep(ctx, p.userID, id, updates))
}

// SetStepStatus validates and stores a status transition.
func (p *Planner) SetStepStatus(ctx context.Context, id string, raw string) (types.StepStatus, error) {
	status, err := types.ParseStepStatus(raw)
	if err != nil {
		return "", err
	}
	uerr := p.store.UpdateBabyStep(ctx, p.userID, id, storage.Fields{"status": status})
	if uerr != nil {
		return "", p.wrap("update baby step", uerr)
	}
	return status, nil
}

// SetStepPriority validates and stores a priority change.
func (p *Planner) SetStepPriority(ctx context.Context, id string, raw string) (types.StepPriority, error) {
	priority, err := types.ParseStepPriority(raw)
	if err != nil {
		return "", err
	}
	uerr := p.store.UpdateBabyStep(ctx, p.userID, id, storage.Fields{"priority": priority})
	if uerr != nil {
		return "", p.wrap("update baby step", uerr)
	}
	return priority, nil
}

// SetStepDue sets or clears (nil) a step's due date.
func (p *Planner) SetStepDue(ctx context.Context, id string, due *time.Time) error {
	var val interface{}
	if due != nil {
		val = *due
	}
	return p.wrap("update baby step",
		p.store.UpdateBabyStep(ctx, p.userID, id, storage.Fields{"due_date": val}))
}
