// Package memory implements the storage interface with in-process maps.
//
// Used by package tests and as a scratch backend. Rows are copied on the way
// in and out so callers never share memory with the store. FailNext injects
// a failure into the next operation, which is how tests simulate a remote
// rejection without a network.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
)

var _ storage.RemoteStore = (*Store)(nil)

// Store is a mutex-guarded in-memory RemoteStore.
type Store struct {
	mu sync.Mutex

	profiles map[string]*types.Profile
	yearly   map[string]*types.YearlyGoal
	monthly  map[string]*types.MonthlyGoal
	weekly   map[string]*types.WeeklyGoal
	steps    map[string]*types.BabyStep

	// seq breaks created_at ties so list ordering stays deterministic even
	// when two rows are created within the same clock tick.
	seq   map[string]int
	next  int
	fail  error
	clock func() time.Time
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		profiles: make(map[string]*types.Profile),
		yearly:   make(map[string]*types.YearlyGoal),
		monthly:  make(map[string]*types.MonthlyGoal),
		weekly:   make(map[string]*types.WeeklyGoal),
		steps:    make(map[string]*types.BabyStep),
		seq:      make(map[string]int),
		clock:    time.Now,
	}
}

// SetClock overrides the timestamp source. Test hook.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// FailNext makes the next store operation return err instead of running.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *Store) takeFailure() error {
	if s.fail != nil {
		err := s.fail
		s.fail = nil
		return err
	}
	return nil
}

// Close implements storage.RemoteStore.
func (s *Store) Close() error { return nil }

// UpsertProfile inserts or replaces the profile row keyed by ID.
func (s *Store) UpsertProfile(_ context.Context, profile *types.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	cp := *profile
	s.profiles[profile.ID] = &cp
	return nil
}

// GetProfile fetches a profile by id.
func (s *Store) GetProfile(_ context.Context, id string) (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ProfileCount reports the number of profile rows. Test hook.
func (s *Store) ProfileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

// ListYearlyGoals returns the identity's yearly goals, newest first.
func (s *Store) ListYearlyGoals(_ context.Context, userID string) ([]*types.YearlyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	var out []*types.YearlyGoal
	for _, g := range s.yearly {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}

// GetYearlyGoal fetches a single yearly goal scoped to the identity.
func (s *Store) GetYearlyGoal(_ context.Context, userID, id string) (*types.YearlyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	g, ok := s.yearly[id]
	if !ok || g.UserID != userID {
		return nil, storage.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

// CreateYearlyGoal stores the goal, assigning id and timestamps.
func (s *Store) CreateYearlyGoal(_ context.Context, goal *types.YearlyGoal) (*types.YearlyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	cp := *goal
	s.stamp(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
	s.yearly[cp.ID] = &cp
	out := cp
	return &out, nil
}

// UpdateYearlyGoal applies a partial update by column name. The update is
// staged on a copy and swapped in whole, so a rejected column leaves the
// stored row untouched.
func (s *Store) UpdateYearlyGoal(_ context.Context, userID, id string, updates storage.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	g, ok := s.yearly[id]
	if !ok || g.UserID != userID {
		return storage.ErrNotFound
	}
	cp := *g
	var err error
	for col, val := range updates {
		switch col {
		case "title":
			cp.Title, err = column[string]("yearly_goals", col, val)
		case "category":
			cp.Category, err = column[string]("yearly_goals", col, val)
		case "year":
			cp.Year, err = column[int]("yearly_goals", col, val)
		case "smart_statement":
			cp.SmartStatement, err = column[string]("yearly_goals", col, val)
		case "benefits_text":
			cp.BenefitsText, err = column[string]("yearly_goals", col, val)
		case "obstacles_text":
			cp.ObstaclesText, err = column[string]("yearly_goals", col, val)
		case "solutions_text":
			cp.SolutionsText, err = column[string]("yearly_goals", col, val)
		case "progress_percent":
			cp.ProgressPercent, err = column[int]("yearly_goals", col, val)
		case "status":
			cp.Status, err = column[types.YearlyStatus]("yearly_goals", col, val)
		default:
			return unknownField("yearly_goals", col)
		}
		if err != nil {
			return err
		}
	}
	cp.UpdatedAt = s.clock()
	*g = cp
	return nil
}

// DeleteYearlyGoal removes the addressed row only. Descendant cleanup is the
// remote schema's concern, so the memory backend leaves children in place,
// which is also what the orphan-grouping tests rely on.
func (s *Store) DeleteYearlyGoal(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	g, ok := s.yearly[id]
	if !ok || g.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.yearly, id)
	return nil
}

// ListMonthlyGoals returns all of the identity's monthly goals, by month
// anchor descending.
func (s *Store) ListMonthlyGoals(_ context.Context, userID string) ([]*types.MonthlyGoal, error) {
	return s.listMonthly(userID, "")
}

// ListMonthlyGoalsByParent returns the monthly goals under one yearly goal.
func (s *Store) ListMonthlyGoalsByParent(_ context.Context, userID, yearlyGoalID string) ([]*types.MonthlyGoal, error) {
	return s.listMonthly(userID, yearlyGoalID)
}

func (s *Store) listMonthly(userID, yearlyGoalID string) ([]*types.MonthlyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	var out []*types.MonthlyGoal
	for _, g := range s.monthly {
		if g.UserID != userID {
			continue
		}
		if yearlyGoalID != "" && g.YearlyGoalID != yearlyGoalID {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MonthDate.Equal(out[j].MonthDate) {
			return out[i].MonthDate.After(out[j].MonthDate)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}

// GetMonthlyGoal fetches a single monthly goal scoped to the identity.
func (s *Store) GetMonthlyGoal(_ context.Context, userID, id string) (*types.MonthlyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	g, ok := s.monthly[id]
	if !ok || g.UserID != userID {
		return nil, storage.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

// CreateMonthlyGoal stores the goal, assigning id and timestamps.
func (s *Store) CreateMonthlyGoal(_ context.Context, goal *types.MonthlyGoal) (*types.MonthlyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	cp := *goal
	s.stamp(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
	s.monthly[cp.ID] = &cp
	out := cp
	return &out, nil
}

// UpdateMonthlyGoal applies a partial update by column name.
func (s *Store) UpdateMonthlyGoal(_ context.Context, userID, id string, updates storage.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	g, ok := s.monthly[id]
	if !ok || g.UserID != userID {
		return storage.ErrNotFound
	}
	cp := *g
	var err error
	for col, val := range updates {
		switch col {
		case "title":
			cp.Title, err = column[string]("monthly_goals", col, val)
		case "month_date":
			cp.MonthDate, err = column[time.Time]("monthly_goals", col, val)
		case "objective_text":
			cp.ObjectiveText, err = column[string]("monthly_goals", col, val)
		case "success_metric":
			cp.SuccessMetric, err = column[string]("monthly_goals", col, val)
		case "review_notes":
			cp.ReviewNotes, err = column[string]("monthly_goals", col, val)
		case "progress_percent":
			cp.ProgressPercent, err = column[int]("monthly_goals", col, val)
		case "status":
			cp.Status, err = column[types.MonthlyStatus]("monthly_goals", col, val)
		default:
			return unknownField("monthly_goals", col)
		}
		if err != nil {
			return err
		}
	}
	cp.UpdatedAt = s.clock()
	*g = cp
	return nil
}

// ListWeeklyGoals returns all of the identity's weekly goals, by week start
// descending.
func (s *Store) ListWeeklyGoals(_ context.Context, userID string) ([]*types.WeeklyGoal, error) {
	return s.listWeekly(userID, "")
}

// ListWeeklyGoalsByParent returns the weekly goals under one monthly goal.
func (s *Store) ListWeeklyGoalsByParent(_ context.Context, userID, monthlyGoalID string) ([]*types.WeeklyGoal, error) {
	return s.listWeekly(userID, monthlyGoalID)
}

func (s *Store) listWeekly(userID, monthlyGoalID string) ([]*types.WeeklyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	var out []*types.WeeklyGoal
	for _, g := range s.weekly {
		if g.UserID != userID {
			continue
		}
		if monthlyGoalID != "" && g.MonthlyGoalID != monthlyGoalID {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekStartDate.Equal(out[j].WeekStartDate) {
			return out[i].WeekStartDate.After(out[j].WeekStartDate)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}

// GetWeeklyGoal fetches a single weekly goal scoped to the identity.
func (s *Store) GetWeeklyGoal(_ context.Context, userID, id string) (*types.WeeklyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	g, ok := s.weekly[id]
	if !ok || g.UserID != userID {
		return nil, storage.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

// CreateWeeklyGoal stores the goal, assigning id and timestamps.
func (s *Store) CreateWeeklyGoal(_ context.Context, goal *types.WeeklyGoal) (*types.WeeklyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	cp := *goal
	s.stamp(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
	s.weekly[cp.ID] = &cp
	out := cp
	return &out, nil
}

// UpdateWeeklyGoal applies a partial update by column name.
func (s *Store) UpdateWeeklyGoal(_ context.Context, userID, id string, updates storage.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	g, ok := s.weekly[id]
	if !ok || g.UserID != userID {
		return storage.ErrNotFound
	}
	cp := *g
	var err error
	for col, val := range updates {
		switch col {
		case "title":
			cp.Title, err = column[string]("weekly_goals", col, val)
		case "week_start_date":
			cp.WeekStartDate, err = column[time.Time]("weekly_goals", col, val)
		case "objective_text":
			cp.ObjectiveText, err = column[string]("weekly_goals", col, val)
		case "obstacle_plan":
			cp.ObstaclePlan, err = column[string]("weekly_goals", col, val)
		case "progress_percent":
			cp.ProgressPercent, err = column[int]("weekly_goals", col, val)
		case "status":
			cp.Status, err = column[types.WeeklyStatus]("weekly_goals", col, val)
		default:
			return unknownField("weekly_goals", col)
		}
		if err != nil {
			return err
		}
	}
	cp.UpdatedAt = s.clock()
	*g = cp
	return nil
}

// ListBabySteps returns the steps under one weekly goal, oldest first.
func (s *Store) ListBabySteps(_ context.Context, userID, weeklyGoalID string) ([]*types.BabyStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	var out []*types.BabyStep
	for _, st := range s.steps {
		if st.UserID != userID || st.WeeklyGoalID != weeklyGoalID {
			continue
		}
		cp := *st
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

// GetBabyStep fetches a single step scoped to the identity.
func (s *Store) GetBabyStep(_ context.Context, userID, id string) (*types.BabyStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	st, ok := s.steps[id]
	if !ok || st.UserID != userID {
		return nil, storage.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

// CreateBabyStep stores the step, assigning id, timestamps, and the next
// position ordinal within its weekly goal.
func (s *Store) CreateBabyStep(_ context.Context, step *types.BabyStep) (*types.BabyStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	cp := *step
	s.stamp(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
	maxPos := 0
	for _, other := range s.steps {
		if other.WeeklyGoalID == cp.WeeklyGoalID && other.Position > maxPos {
			maxPos = other.Position
		}
	}
	cp.Position = maxPos + 1
	s.steps[cp.ID] = &cp
	out := cp
	return &out, nil
}

// UpdateBabyStep applies a partial update by column name.
func (s *Store) UpdateBabyStep(_ context.Context, userID, id string, updates storage.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	st, ok := s.steps[id]
	if !ok || st.UserID != userID {
		return storage.ErrNotFound
	}
	cp := *st
	var err error
	for col, val := range updates {
		switch col {
		case "title":
			cp.Title, err = column[string]("baby_steps", col, val)
		case "notes":
			cp.Notes, err = column[string]("baby_steps", col, val)
		case "due_date":
			if val == nil {
				cp.DueDate = nil
			} else {
				var due time.Time
				due, err = column[time.Time]("baby_steps", col, val)
				cp.DueDate = &due
			}
		case "priority":
			cp.Priority, err = column[types.StepPriority]("baby_steps", col, val)
		case "status":
			cp.Status, err = column[types.StepStatus]("baby_steps", col, val)
		default:
			return unknownField("baby_steps", col)
		}
		if err != nil {
			return err
		}
	}
	cp.UpdatedAt = s.clock()
	*st = cp
	return nil
}

func (s *Store) stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := s.clock()
	*createdAt = now
	*updatedAt = now
	s.next++
	s.seq[*id] = s.next
}

// column asserts an update value's dynamic type. The SQL backends surface
// a mismatch as a driver error; here it is a plain error so a bad fixture
// fails loudly without mutating the row.
func column[T any](table, col string, val interface{}) (T, error) {
	v, ok := val.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s.%s: unsupported value of type %T", table, col, val)
	}
	return v, nil
}

func unknownField(table, col string) error {
	if strings.TrimSpace(col) == "" {
		col = "(empty)"
	}
	return &fieldError{table: table, col: col}
}

type fieldError struct {
	table string
	col   string
}

func (e *fieldError) Error() string {
	return "unknown field " + e.col + " for " + e.table
}

func (e *fieldError) Unwrap() error { return storage.ErrUnknownField }
