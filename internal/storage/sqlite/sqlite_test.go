package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTimeEncodingOrdersLexicographically(t *testing.T) {
	// List ordering relies on text comparison of stored timestamps, so the
	// encoding must sort the same as the times themselves.
	times := []time.Time{
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		time.Date(2026, 1, 2, 3, 4, 5, 600000000, time.UTC),
		time.Date(2026, 1, 2, 3, 4, 5, 650000000, time.UTC),
		time.Date(2026, 11, 30, 23, 59, 59, 999999999, time.UTC),
	}
	for i := 1; i < len(times); i++ {
		a, b := encodeTime(times[i-1]), encodeTime(times[i])
		assert.Less(t, a, b, "encoding must preserve order")
		assert.Len(t, a, len(b), "encoding must be fixed width")
	}
	for _, tt := range times {
		decoded, err := decodeTime(encodeTime(tt))
		require.NoError(t, err)
		assert.True(t, decoded.Equal(tt))
	}
}

func TestYearlyGoalRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.CreateYearlyGoal(ctx, &types.YearlyGoal{
		UserID:         "u-1",
		Title:          "Run a marathon",
		Year:           2026,
		SmartStatement: "Finish under 4h30 by October",
		Status:         types.YearlyActive,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := s.GetYearlyGoal(ctx, "u-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run a marathon", got.Title)
	assert.Equal(t, types.YearlyActive, got.Status)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))

	_, err = s.GetYearlyGoal(ctx, "someone-else", created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateReencodesDateColumns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	y, err := s.CreateYearlyGoal(ctx, &types.YearlyGoal{UserID: "u-1", Title: "y", Year: 2026})
	require.NoError(t, err)
	m, err := s.CreateMonthlyGoal(ctx, &types.MonthlyGoal{
		UserID:       "u-1",
		YearlyGoalID: y.ID,
		Title:        "m",
		MonthDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:       types.MonthlyPlanned,
	})
	require.NoError(t, err)

	newMonth := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	err = s.UpdateMonthlyGoal(ctx, "u-1", m.ID, storage.Fields{"month_date": newMonth})
	require.NoError(t, err)

	got, err := s.GetMonthlyGoal(ctx, "u-1", m.ID)
	require.NoError(t, err)
	assert.True(t, got.MonthDate.Equal(newMonth))
}

func TestListMonthlyByMonthAnchorDescending(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	y, err := s.CreateYearlyGoal(ctx, &types.YearlyGoal{UserID: "u-1", Title: "y", Year: 2024})
	require.NoError(t, err)
	for _, m := range []time.Month{time.January, time.March, time.February} {
		_, err := s.CreateMonthlyGoal(ctx, &types.MonthlyGoal{
			UserID:       "u-1",
			YearlyGoalID: y.ID,
			Title:        m.String(),
			MonthDate:    time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC),
			Status:       types.MonthlyPlanned,
		})
		require.NoError(t, err)
	}

	goals, err := s.ListMonthlyGoals(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, "March", goals[0].Title)
	assert.Equal(t, "February", goals[1].Title)
	assert.Equal(t, "January", goals[2].Title)
}

func TestBabyStepPositionsAndDueDate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	y, err := s.CreateYearlyGoal(ctx, &types.YearlyGoal{UserID: "u-1", Title: "y", Year: 2026})
	require.NoError(t, err)
	m, err := s.CreateMonthlyGoal(ctx, &types.MonthlyGoal{
		UserID: "u-1", YearlyGoalID: y.ID, Title: "m",
		MonthDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Status: types.MonthlyPlanned,
	})
	require.NoError(t, err)
	w, err := s.CreateWeeklyGoal(ctx, &types.WeeklyGoal{
		UserID: "u-1", MonthlyGoalID: m.ID, Title: "w",
		WeekStartDate: time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), Status: types.WeeklyPlanned,
	})
	require.NoError(t, err)

	first, err := s.CreateBabyStep(ctx, &types.BabyStep{
		UserID: "u-1", WeeklyGoalID: w.ID, Title: "one",
		Priority: types.PriorityMedium, Status: types.StepTodo,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)

	second, err := s.CreateBabyStep(ctx, &types.BabyStep{
		UserID: "u-1", WeeklyGoalID: w.ID, Title: "two",
		Priority: types.PriorityHigh, Status: types.StepTodo,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)

	due := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateBabyStep(ctx, "u-1", first.ID, storage.Fields{"due_date": due}))
	got, err := s.GetBabyStep(ctx, "u-1", first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	require.NoError(t, s.UpdateBabyStep(ctx, "u-1", first.ID, storage.Fields{"due_date": nil}))
	got, err = s.GetBabyStep(ctx, "u-1", first.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)

	steps, err := s.ListBabySteps(ctx, "u-1", w.ID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "one", steps[0].Title)
	assert.Equal(t, "two", steps[1].Title)
}

func TestUpdateUnknownColumnRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	y, err := s.CreateYearlyGoal(ctx, &types.YearlyGoal{UserID: "u-1", Title: "y", Year: 2026})
	require.NoError(t, err)

	err = s.UpdateYearlyGoal(ctx, "u-1", y.ID, storage.Fields{"owner": "x"})
	assert.ErrorIs(t, err, storage.ErrUnknownField)
}

func TestProfileUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProfile(ctx, &types.Profile{ID: "u-1", FullName: "Sam", Role: "user"}))
	require.NoError(t, s.UpsertProfile(ctx, &types.Profile{ID: "u-1", FullName: "Sam Okoye", Role: "user"}))

	got, err := s.GetProfile(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Sam Okoye", got.FullName)
}
