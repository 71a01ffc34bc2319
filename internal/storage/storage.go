// Package storage defines the remote store contract for the goal planner.
//
// Concrete implementations live in the postgres, sqlite, and memory
// sub-packages. This package holds the interface and value types referenced
// by both the implementations and their consumers (internal/planner,
// cmd/gp, etc.).
//
// Every operation is scoped to an owning identity. The store, not the
// caller, is the authority for row visibility: a read or mutation with the
// wrong userID behaves as if the row does not exist. Entity ids and
// timestamps are assigned by the store at creation and are immutable.
package storage

import (
	"context"
	"errors"

	"github.com/sidworks/gp/internal/types"
)

// ErrNotFound is returned when a single-row lookup matches zero rows.
// Distinct from transport/query failures so callers can branch on it.
var ErrNotFound = errors.New("not found")

// ErrUnknownField is returned when a partial update names a column the
// entity does not have.
var ErrUnknownField = errors.New("unknown field")

// Fields is a partial-field update by column name. Last writer wins; there
// is no optimistic concurrency token.
type Fields map[string]interface{}

// RemoteStore is the row-level-scoped persistence collaborator.
//
// List orderings are a user-facing contract: yearly goals by creation time
// descending, monthly and weekly goals by their date anchor descending,
// baby steps by creation time ascending.
type RemoteStore interface {
	// Profiles
	UpsertProfile(ctx context.Context, profile *types.Profile) error
	GetProfile(ctx context.Context, id string) (*types.Profile, error)

	// Yearly goals
	ListYearlyGoals(ctx context.Context, userID string) ([]*types.YearlyGoal, error)
	GetYearlyGoal(ctx context.Context, userID, id string) (*types.YearlyGoal, error)
	CreateYearlyGoal(ctx context.Context, goal *types.YearlyGoal) (*types.YearlyGoal, error)
	UpdateYearlyGoal(ctx context.Context, userID, id string, updates Fields) error
	DeleteYearlyGoal(ctx context.Context, userID, id string) error

	// Monthly goals
	ListMonthlyGoals(ctx context.Context, userID string) ([]*types.MonthlyGoal, error)
	ListMonthlyGoalsByParent(ctx context.Context, userID, yearlyGoalID string) ([]*types.MonthlyGoal, error)
	GetMonthlyGoal(ctx context.Context, userID, id string) (*types.MonthlyGoal, error)
	CreateMonthlyGoal(ctx context.Context, goal *types.MonthlyGoal) (*types.MonthlyGoal, error)
	UpdateMonthlyGoal(ctx context.Context, userID, id string, updates Fields) error

	// Weekly goals
	ListWeeklyGoals(ctx context.Context, userID string) ([]*types.WeeklyGoal, error)
	ListWeeklyGoalsByParent(ctx context.Context, userID, monthlyGoalID string) ([]*types.WeeklyGoal, error)
	GetWeeklyGoal(ctx context.Context, userID, id string) (*types.WeeklyGoal, error)
	CreateWeeklyGoal(ctx context.Context, goal *types.WeeklyGoal) (*types.WeeklyGoal, error)
	UpdateWeeklyGoal(ctx context.Context, userID, id string, updates Fields) error

	// Baby steps
	ListBabySteps(ctx context.Context, userID, weeklyGoalID string) ([]*types.BabyStep, error)
	GetBabyStep(ctx context.Context, userID, id string) (*types.BabyStep, error)
	CreateBabyStep(ctx context.Context, step *types.BabyStep) (*types.BabyStep, error)
	UpdateBabyStep(ctx context.Context, userID, id string, updates Fields) error

	// Lifecycle
	Close() error
}
