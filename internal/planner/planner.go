// Package planner is the domain layer over the remote store: validation,
// defaulting, and error shaping for the four-level goal hierarchy
// (yearly goal -> monthly goal -> weekly goal -> baby step).
//
// Every Planner is bound to one authenticated user; row scoping is pushed
// down to the store on every call.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
	"github.com/sidworks/gp/internal/validation"
)

// QueryError wraps a store failure. The store's own message is preserved
// verbatim so transport diagnostics survive to the surface.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Planner executes goal-hierarchy operations for one user.
type Planner struct {
	store  storage.RemoteStore
	userID string
}

// New binds a planner to store for userID.
func New(store storage.RemoteStore, userID string) *Planner {
	return &Planner{store: store, userID: userID}
}

// UserID reports the bound identity.
func (p *Planner) UserID() string { return p.userID }

// wrap shapes a store error for callers. Not-found passes through
// unwrapped so errors.Is(err, storage.ErrNotFound) keeps working;
// everything else becomes a QueryError.
func (p *Planner) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return &QueryError{Op: op, Err: err}
}

// YearlyInput is the caller-supplied portion of a new yearly goal.
type YearlyInput struct {
	Title          string
	Category       string
	Year           int
	SmartStatement string
	Benefits       string
	Obstacles      string
	Solutions      string
}

// ListYearly returns the user's yearly goals, newest first.
func (p *Planner) ListYearly(ctx context.Context) ([]*types.YearlyGoal, error) {
	goals, err := p.store.ListYearlyGoals(ctx, p.userID)
	if err != nil {
		return nil, p.wrap("list yearly goals", err)
	}
	return goals, nil
}

// GetYearly returns one yearly goal.
func (p *Planner) GetYearly(ctx context.Context, id string) (*types.YearlyGoal, error) {
	goal, err := p.store.GetYearlyGoal(ctx, p.userID, id)
	if err != nil {
		return nil, p.wrap("get yearly goal", err)
	}
	return goal, nil
}

// CreateYearly validates in, fills defaults, and stores the goal. The
// returned value is the stored row, ids and timestamps included.
func (p *Planner) CreateYearly(ctx context.Context, in YearlyInput) (*types.YearlyGoal, error) {
	title, err := validation.Required("title", in.Title)
	if err != nil {
		return nil, err
	}
	smart, err := validation.Required("SMART statement", in.SmartStatement)
	if err != nil {
		return nil, err
	}
	year := in.Year
	if year == 0 {
		year = time.Now().Year()
	}
	goal := &types.YearlyGoal{
		UserID:         p.userID,
		Title:          title,
		Category:       validation.Optional(in.Category),
		Year:           year,
		SmartStatement: smart,
		BenefitsText:   validation.Optional(in.Benefits),
		ObstaclesText:  validation.Optional(in.Obstacles),
		SolutionsText:  validation.Optional(in.Solutions),
		Status:         types.YearlyActive,
	}
	stored, err := p.store.CreateYearlyGoal(ctx, goal)
	if err != nil {
		return nil, p.wrap("create yearly goal", err)
	}
	return stored, nil
}

// UpdateYearly applies a partial update to one yearly goal.
func (p *Planner) UpdateYearly(ctx context.Context, id string, updates storage.Fields) error {
	if len(updates) == 0 {
		return nil
	}
	return p.wrap("update yearly goal", p.store.UpdateYearlyGoal(ctx, p.userID, id, updates))
}

// SetYearlyProgress clamps pct to [0, 100] and stores it. Returns the
// value actually stored.
func (p *Planner) SetYearlyProgress(ctx context.Context, id string, pct int) (int, error) {
	clamped := types.ClampProgress(pct)
	err := p.store.UpdateYearlyGoal(ctx, p.userID, id, storage.Fields{"progress_percent": clamped})
	if err != nil {
		return 0, p.wrap("update yearly goal", err)
	}
	return clamped, nil
}

// SetYearlyStatus validates and stores a status transition.
func (p *Planner) SetYearlyStatus(ctx context.Context, id string, raw string) (types.YearlyStatus, error) {
	status, err := types.ParseYearlyStatus(raw)
	if err != nil {
		return "", err
	}
	uerr := p.store.UpdateYearlyGoal(ctx, p.userID, id, storage.Fields{"status": status})
	if uerr != nil {
		return "", p.wrap("update yearly goal", uerr)
	}
	return status, nil
}

// DeleteYearly removes one yearly goal. Deletion exists only at this
// level of the hierarchy.
func (p *Planner) DeleteYearly(ctx context.Context, id string) error {
	return p.wrap("delete yearly goal", p.store.DeleteYearlyGoal(ctx, p.userID, id))
}
