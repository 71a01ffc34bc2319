package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/storage/memory"
	"github.com/sidworks/gp/internal/types"
	"github.com/sidworks/gp/internal/validation"
)

const testUser = "u-1"

func newPlanner(t *testing.T) (*Planner, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(store, testUser), store
}

func mustCreateYearly(t *testing.T, p *Planner, title string) *types.YearlyGoal {
	t.Helper()
	goal, err := p.CreateYearly(context.Background(), YearlyInput{Title: title, SmartStatement: "measurable by December"})
	if err != nil {
		t.Fatalf("CreateYearly(%q): %v", title, err)
	}
	return goal
}

func TestCreateYearlyDefaults(t *testing.T) {
	p, _ := newPlanner(t)
	goal, err := p.CreateYearly(context.Background(), YearlyInput{
		Title:          "  Run a marathon  ",
		SmartStatement: "Finish under 4h30 by October",
	})
	if err != nil {
		t.Fatalf("CreateYearly: %v", err)
	}
	if goal.Title != "Run a marathon" {
		t.Fatalf("Title = %q, want trimmed", goal.Title)
	}
	if goal.Status != types.YearlyActive {
		t.Fatalf("Status = %q, want active", goal.Status)
	}
	if goal.ProgressPercent != 0 {
		t.Fatalf("ProgressPercent = %d, want 0", goal.ProgressPercent)
	}
	if goal.Year != time.Now().Year() {
		t.Fatalf("Year = %d, want current year", goal.Year)
	}
	if goal.ID == "" || goal.CreatedAt.IsZero() {
		t.Fatal("stored row should carry id and timestamps")
	}
}

func TestCreateYearlyRejectsBlankTitle(t *testing.T) {
	p, _ := newPlanner(t)
	_, err := p.CreateYearly(context.Background(), YearlyInput{Title: "   ", SmartStatement: "s"})
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.ValidationError, got %v", err)
	}
	if verr.Field != "title" {
		t.Fatalf("Field = %q", verr.Field)
	}
}

func TestCreateYearlyRejectsBlankSmartStatement(t *testing.T) {
	p, _ := newPlanner(t)
	_, err := p.CreateYearly(context.Background(), YearlyInput{Title: "t", SmartStatement: "   "})
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.ValidationError, got %v", err)
	}
	if verr.Field != "SMART statement" {
		t.Fatalf("Field = %q", verr.Field)
	}
}

func TestListYearlyNewestFirst(t *testing.T) {
	p, store := newPlanner(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	})

	mustCreateYearly(t, p, "first")
	mustCreateYearly(t, p, "second")
	mustCreateYearly(t, p, "third")

	goals, err := p.ListYearly(context.Background())
	if err != nil {
		t.Fatalf("ListYearly: %v", err)
	}
	var titles []string
	for _, g := range goals {
		titles = append(titles, g.Title)
	}
	want := []string{"third", "second", "first"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("order = %v, want %v", titles, want)
		}
	}
}

func TestSetYearlyProgressClamps(t *testing.T) {
	p, _ := newPlanner(t)
	goal := mustCreateYearly(t, p, "g")

	tests := []struct{ in, want int }{
		{150, 100},
		{-5, 0},
		{42, 42},
	}
	for _, tt := range tests {
		got, err := p.SetYearlyProgress(context.Background(), goal.ID, tt.in)
		if err != nil {
			t.Fatalf("SetYearlyProgress(%d): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("SetYearlyProgress(%d) = %d, want %d", tt.in, got, tt.want)
		}
		stored, err := p.GetYearly(context.Background(), goal.ID)
		if err != nil {
			t.Fatalf("GetYearly: %v", err)
		}
		if stored.ProgressPercent != tt.want {
			t.Fatalf("stored progress = %d, want %d", stored.ProgressPercent, tt.want)
		}
	}
}

func TestSetYearlyStatusRejectsUnknown(t *testing.T) {
	p, _ := newPlanner(t)
	goal := mustCreateYearly(t, p, "g")
	if _, err := p.SetYearlyStatus(context.Background(), goal.ID, "finished"); err == nil {
		t.Fatal("unknown status should be rejected before reaching the store")
	}
	if _, err := p.SetYearlyStatus(context.Background(), goal.ID, "completed"); err != nil {
		t.Fatalf("SetYearlyStatus: %v", err)
	}
	stored, _ := p.GetYearly(context.Background(), goal.ID)
	if stored.Status != types.YearlyCompleted {
		t.Fatalf("Status = %q", stored.Status)
	}
}

func TestNotFoundPassesThrough(t *testing.T) {
	p, _ := newPlanner(t)
	_, err := p.GetYearly(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := p.DeleteYearly(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestQueryErrorPreservesStoreMessage(t *testing.T) {
	p, store := newPlanner(t)
	store.FailNext(errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	_, err := p.ListYearly(context.Background())
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("expected *QueryError, got %T", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("store message lost: %q", err.Error())
	}
}

func TestRowScopingHidesOtherUsers(t *testing.T) {
	store := memory.New()
	mine := New(store, "u-1")
	theirs := New(store, "u-2")

	goal := mustCreateYearly(t, mine, "private")

	if _, err := theirs.GetYearly(context.Background(), goal.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("cross-user read should look like not-found, got %v", err)
	}
	if err := theirs.DeleteYearly(context.Background(), goal.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("cross-user delete should look like not-found, got %v", err)
	}
	goals, err := theirs.ListYearly(context.Background())
	if err != nil {
		t.Fatalf("ListYearly: %v", err)
	}
	if len(goals) != 0 {
		t.Fatalf("other user sees %d goals", len(goals))
	}
}

func TestCreateMonthlyNormalizesMonth(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "parent")

	goal, err := p.CreateMonthly(context.Background(), MonthlyInput{
		YearlyGoalID: parent.ID,
		Title:        "March push",
		MonthDate:    time.Date(2026, 3, 17, 14, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !goal.MonthDate.Equal(want) {
		t.Fatalf("MonthDate = %v, want %v", goal.MonthDate, want)
	}
	if goal.Status != types.MonthlyPlanned {
		t.Fatalf("Status = %q", goal.Status)
	}
}

func TestListMonthlyMostRecentMonthFirst(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "parent")

	for _, m := range []struct {
		title string
		month time.Month
	}{
		{"January", time.January},
		{"March", time.March},
		{"February", time.February},
	} {
		_, err := p.CreateMonthly(context.Background(), MonthlyInput{
			YearlyGoalID: parent.ID,
			Title:        m.title,
			MonthDate:    time.Date(2024, m.month, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("CreateMonthly(%s): %v", m.title, err)
		}
	}

	goals, err := p.ListMonthly(context.Background())
	if err != nil {
		t.Fatalf("ListMonthly: %v", err)
	}
	want := []string{"March", "February", "January"}
	for i := range want {
		if goals[i].Title != want[i] {
			got := make([]string, len(goals))
			for j, g := range goals {
				got[j] = g.Title
			}
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSetReviewNotes(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "parent")
	goal, err := p.CreateMonthly(context.Background(), MonthlyInput{
		YearlyGoalID: parent.ID, Title: "m", MonthDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}
	if err := p.SetReviewNotes(context.Background(), goal.ID, "  shipped two weeks late  "); err != nil {
		t.Fatalf("SetReviewNotes: %v", err)
	}
	stored, _ := p.GetMonthly(context.Background(), goal.ID)
	if stored.ReviewNotes != "shipped two weeks late" {
		t.Fatalf("ReviewNotes = %q", stored.ReviewNotes)
	}
}

func TestGroupMonthlyByYearly(t *testing.T) {
	yearly := []*types.YearlyGoal{
		{ID: "y-1", Title: "Run a marathon"},
		{ID: "y-2", Title: "Learn Spanish"},
	}
	monthly := []*types.MonthlyGoal{
		{ID: "m-1", YearlyGoalID: "y-2", Title: "March vocab"},
		{ID: "m-2", YearlyGoalID: "y-1", Title: "March long runs"},
		{ID: "m-3", YearlyGoalID: "y-2", Title: "February vocab"},
		{ID: "m-4", YearlyGoalID: "y-gone", Title: "orphan"},
	}

	groups := GroupMonthlyByYearly(monthly, yearly)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].YearlyTitle != "Learn Spanish" || len(groups[0].Goals) != 2 {
		t.Fatalf("group 0 = %+v", groups[0])
	}
	if groups[1].YearlyTitle != "Run a marathon" || len(groups[1].Goals) != 1 {
		t.Fatalf("group 1 = %+v", groups[1])
	}
	if groups[2].YearlyTitle != UnknownGoalTitle {
		t.Fatalf("orphan group title = %q, want %q", groups[2].YearlyTitle, UnknownGoalTitle)
	}
	if groups[2].Goals[0].ID != "m-4" {
		t.Fatal("orphan goal should be kept, not dropped")
	}
}

func TestGroupMonthlyMergesSameTitledParents(t *testing.T) {
	yearly := []*types.YearlyGoal{
		{ID: "y-1", Title: "Get fit"},
		{ID: "y-2", Title: "Get fit"},
	}
	monthly := []*types.MonthlyGoal{
		{ID: "m-1", YearlyGoalID: "y-1", Title: "March runs"},
		{ID: "m-2", YearlyGoalID: "y-2", Title: "March swims"},
	}

	groups := GroupMonthlyByYearly(monthly, yearly)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want one merged bucket per title", len(groups))
	}
	if groups[0].YearlyTitle != "Get fit" || len(groups[0].Goals) != 2 {
		t.Fatalf("group = %+v", groups[0])
	}
}

func TestOrphanedMonthlyGoalsSurviveParentDelete(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "doomed")
	_, err := p.CreateMonthly(context.Background(), MonthlyInput{
		YearlyGoalID: parent.ID, Title: "still here", MonthDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}
	if err := p.DeleteYearly(context.Background(), parent.ID); err != nil {
		t.Fatalf("DeleteYearly: %v", err)
	}

	monthly, err := p.ListMonthly(context.Background())
	if err != nil {
		t.Fatalf("ListMonthly: %v", err)
	}
	yearly, err := p.ListYearly(context.Background())
	if err != nil {
		t.Fatalf("ListYearly: %v", err)
	}
	groups := GroupMonthlyByYearly(monthly, yearly)
	if len(groups) != 1 || groups[0].YearlyTitle != UnknownGoalTitle {
		t.Fatalf("groups = %+v, want single %q bucket", groups, UnknownGoalTitle)
	}
}

func TestCreateWeeklyNormalizesToMonday(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "y")
	m, err := p.CreateMonthly(context.Background(), MonthlyInput{
		YearlyGoalID: parent.ID, Title: "m", MonthDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}

	// 2026-03-19 is a Thursday; its week starts Monday 2026-03-16.
	w, err := p.CreateWeekly(context.Background(), WeeklyInput{
		MonthlyGoalID: m.ID,
		Title:         "week 12",
		WeekStartDate: time.Date(2026, 3, 19, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateWeekly: %v", err)
	}
	want := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	if !w.WeekStartDate.Equal(want) {
		t.Fatalf("WeekStartDate = %v, want %v", w.WeekStartDate, want)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)}, // already Monday
		{time.Date(2026, 3, 22, 23, 0, 0, 0, time.UTC), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)}, // Sunday
		{time.Date(2026, 3, 18, 8, 0, 0, 0, time.UTC), time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)},  // Wednesday
	}
	for _, tt := range tests {
		if got := StartOfWeek(tt.in); !got.Equal(tt.want) {
			t.Fatalf("StartOfWeek(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStepLifecycle(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "y")
	m, err := p.CreateMonthly(context.Background(), MonthlyInput{
		YearlyGoalID: parent.ID, Title: "m", MonthDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}
	w, err := p.CreateWeekly(context.Background(), WeeklyInput{
		MonthlyGoalID: m.ID, Title: "w", WeekStartDate: time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateWeekly: %v", err)
	}

	first, err := p.CreateStep(context.Background(), StepInput{WeeklyGoalID: w.ID, Title: "book track time"})
	if err != nil {
		t.Fatalf("CreateStep: %v", err)
	}
	if first.Priority != types.PriorityMedium || first.Status != types.StepTodo {
		t.Fatalf("defaults = %q/%q", first.Priority, first.Status)
	}
	if first.Position != 1 {
		t.Fatalf("Position = %d, want 1", first.Position)
	}
	second, err := p.CreateStep(context.Background(), StepInput{WeeklyGoalID: w.ID, Title: "buy shoes", Priority: "high"})
	if err != nil {
		t.Fatalf("CreateStep: %v", err)
	}
	if second.Position != 2 {
		t.Fatalf("Position = %d, want 2", second.Position)
	}
	if second.Priority != types.PriorityHigh {
		t.Fatalf("Priority = %q", second.Priority)
	}

	steps, err := p.ListSteps(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("ListSteps: %v", err)
	}
	if len(steps) != 2 || steps[0].ID != first.ID || steps[1].ID != second.ID {
		t.Fatalf("listing should be creation-ordered, got %+v", steps)
	}

	if _, err := p.SetStepStatus(context.Background(), first.ID, "done"); err != nil {
		t.Fatalf("SetStepStatus: %v", err)
	}
	due := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	if err := p.SetStepDue(context.Background(), first.ID, &due); err != nil {
		t.Fatalf("SetStepDue: %v", err)
	}
	got, _ := p.GetStep(context.Background(), first.ID)
	if got.Status != types.StepDone || got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("step = %+v", got)
	}
	if err := p.SetStepDue(context.Background(), first.ID, nil); err != nil {
		t.Fatalf("SetStepDue(nil): %v", err)
	}
	got, _ = p.GetStep(context.Background(), first.ID)
	if got.DueDate != nil {
		t.Fatal("due date should be cleared")
	}
}

func TestUpdateUnknownFieldRejected(t *testing.T) {
	p, _ := newPlanner(t)
	goal := mustCreateYearly(t, p, "g")
	err := p.UpdateYearly(context.Background(), goal.ID, storage.Fields{"owner": "someone"})
	if !errors.Is(err, storage.ErrUnknownField) {
		t.Fatalf("want ErrUnknownField, got %v", err)
	}
}

func TestWeeklyExecutionUpdate(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "y")
	m, err := p.CreateMonthly(context.Background(), MonthlyInput{
		YearlyGoalID: parent.ID, Title: "m", MonthDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}
	w, err := p.CreateWeekly(context.Background(), WeeklyInput{
		MonthlyGoalID: m.ID, Title: "w",
		WeekStartDate: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateWeekly: %v", err)
	}

	err = p.UpdateWeekly(context.Background(), w.ID, storage.Fields{
		"objective_text":   "ship the draft",
		"obstacle_plan":    "block mornings",
		"status":           types.WeeklyActive,
		"progress_percent": 60,
	})
	if err != nil {
		t.Fatalf("UpdateWeekly: %v", err)
	}

	got, err := p.GetWeekly(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("GetWeekly: %v", err)
	}
	if got.ObjectiveText != "ship the draft" || got.ObstaclePlan != "block mornings" {
		t.Fatalf("weekly = %+v", got)
	}
	if got.Status != types.WeeklyActive || got.ProgressPercent != 60 {
		t.Fatalf("status/progress = %q/%d", got.Status, got.ProgressPercent)
	}
}

func TestUpdateMonthlyPartial(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "y")
	m, err := p.CreateMonthly(context.Background(), MonthlyInput{
		YearlyGoalID: parent.ID, Title: "m", MonthDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}
	err = p.UpdateMonthly(context.Background(), m.ID, storage.Fields{
		"objective_text": "two chapters",
		"success_metric": "pages written",
	})
	if err != nil {
		t.Fatalf("UpdateMonthly: %v", err)
	}
	got, err := p.GetMonthly(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetMonthly: %v", err)
	}
	if got.ObjectiveText != "two chapters" || got.SuccessMetric != "pages written" {
		t.Fatalf("monthly = %+v", got)
	}
	if got.Title != "m" {
		t.Fatalf("Title = %q, untouched fields must survive", got.Title)
	}
}

func TestUserIDBinding(t *testing.T) {
	p, _ := newPlanner(t)
	if p.UserID() != testUser {
		t.Fatalf("UserID = %q, want %q", p.UserID(), testUser)
	}
}

func TestUpdateStepNotes(t *testing.T) {
	p, _ := newPlanner(t)
	parent := mustCreateYearly(t, p, "y")
	m, err := p.CreateMonthly(context.Background(), MonthlyInput{
		YearlyGoalID: parent.ID, Title: "m", MonthDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}
	w, err := p.CreateWeekly(context.Background(), WeeklyInput{
		MonthlyGoalID: m.ID, Title: "w",
		WeekStartDate: time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateWeekly: %v", err)
	}
	step, err := p.CreateStep(context.Background(), StepInput{WeeklyGoalID: w.ID, Title: "s"})
	if err != nil {
		t.Fatalf("CreateStep: %v", err)
	}

	if err := p.UpdateStep(context.Background(), step.ID, storage.Fields{"notes": "bring the checklist"}); err != nil {
		t.Fatalf("UpdateStep: %v", err)
	}
	got, err := p.GetStep(context.Background(), step.ID)
	if err != nil {
		t.Fatalf("GetStep: %v", err)
	}
	if got.Notes != "bring the checklist" {
		t.Fatalf("Notes = %q", got.Notes)
	}
}
