package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
)

const storeScopeName = "github.com/sidworks/gp/storage"

// InstrumentedStore wraps storage.RemoteStore with OTel tracing and
// metrics. Every method gets a span and is counted in gp.store.* metrics.
// Use WrapStore to create one; it returns the original store unchanged
// when telemetry is disabled.
type InstrumentedStore struct {
	inner  storage.RemoteStore
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapStore returns s decorated with OTel instrumentation.
// When telemetry is disabled, s is returned as-is with zero overhead.
func WrapStore(s storage.RemoteStore) storage.RemoteStore {
	if !Enabled() {
		return s
	}
	m := Meter(storeScopeName)
	ops, _ := m.Int64Counter("gp.store.operations",
		metric.WithDescription("Total store operations executed"),
	)
	dur, _ := m.Float64Histogram("gp.store.operation.duration",
		metric.WithDescription("Store operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("gp.store.errors",
		metric.WithDescription("Total store operation errors"),
	)
	return &InstrumentedStore{
		inner:  s,
		tracer: Tracer(storeScopeName),
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

// op starts a span and records a metric for the named store operation.
func (s *InstrumentedStore) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("db.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "store."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (s *InstrumentedStore) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedStore) UpsertProfile(ctx context.Context, profile *types.Profile) error {
	attrs := []attribute.KeyValue{attribute.String("gp.user.id", profile.ID)}
	ctx, span, t := s.op(ctx, "UpsertProfile", attrs...)
	err := s.inner.UpsertProfile(ctx, profile)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) GetProfile(ctx context.Context, id string) (*types.Profile, error) {
	attrs := []attribute.KeyValue{attribute.String("gp.user.id", id)}
	ctx, span, t := s.op(ctx, "GetProfile", attrs...)
	v, err := s.inner.GetProfile(ctx, id)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) ListYearlyGoals(ctx context.Context, userID string) ([]*types.YearlyGoal, error) {
	ctx, span, t := s.op(ctx, "ListYearlyGoals")
	v, err := s.inner.ListYearlyGoals(ctx, userID)
	if err == nil {
		span.SetAttributes(attribute.Int("gp.result.count", len(v)))
	}
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) GetYearlyGoal(ctx context.Context, userID, id string) (*types.YearlyGoal, error) {
	attrs := []attribute.KeyValue{attribute.String("gp.goal.id", id)}
	ctx, span, t := s.op(ctx, "GetYearlyGoal", attrs...)
	v, err := s.inner.GetYearlyGoal(ctx, userID, id)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) CreateYearlyGoal(ctx context.Context, goal *types.YearlyGoal) (*types.YearlyGoal, error) {
	ctx, span, t := s.op(ctx, "CreateYearlyGoal")
	v, err := s.inner.CreateYearlyGoal(ctx, goal)
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) UpdateYearlyGoal(ctx context.Context, userID, id string, updates storage.Fields) error {
	attrs := []attribute.KeyValue{
		attribute.String("gp.goal.id", id),
		attribute.Int("gp.update.count", len(updates)),
	}
	ctx, span, t := s.op(ctx, "UpdateYearlyGoal", attrs...)
	err := s.inner.UpdateYearlyGoal(ctx, userID, id, updates)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) DeleteYearlyGoal(ctx context.Context, userID, id string) error {
	attrs := []attribute.KeyValue{attribute.String("gp.goal.id", id)}
	ctx, span, t := s.op(ctx, "DeleteYearlyGoal", attrs...)
	err := s.inner.DeleteYearlyGoal(ctx, userID, id)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) ListMonthlyGoals(ctx context.Context, userID string) ([]*types.MonthlyGoal, error) {
	ctx, span, t := s.op(ctx, "ListMonthlyGoals")
	v, err := s.inner.ListMonthlyGoals(ctx, userID)
	if err == nil {
		span.SetAttributes(attribute.Int("gp.result.count", len(v)))
	}
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) ListMonthlyGoalsByParent(ctx context.Context, userID, yearlyGoalID string) ([]*types.MonthlyGoal, error) {
	attrs := []attribute.KeyValue{attribute.String("gp.goal.parent", yearlyGoalID)}
	ctx, span, t := s.op(ctx, "ListMonthlyGoalsByParent", attrs...)
	v, err := s.inner.ListMonthlyGoalsByParent(ctx, userID, yearlyGoalID)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) GetMonthlyGoal(ctx context.Context, userID, id string) (*types.MonthlyGoal, error) {
	attrs := []attribute.KeyValue{attribute.String("gp.goal.id", id)}
	ctx, span, t := s.op(ctx, "GetMonthlyGoal", attrs...)
	v, err := s.inner.GetMonthlyGoal(ctx, userID, id)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) CreateMonthlyGoal(ctx context.Context, goal *types.MonthlyGoal) (*types.MonthlyGoal, error) {
	ctx, span, t := s.op(ctx, "CreateMonthlyGoal")
	v, err := s.inner.CreateMonthlyGoal(ctx, goal)
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) UpdateMonthlyGoal(ctx context.Context, userID, id string, updates storage.Fields) error {
	attrs := []attribute.KeyValue{
		attribute.String("gp.goal.id", id),
		attribute.Int("gp.update.count", len(updates)),
	}
	ctx, span, t := s.op(ctx, "UpdateMonthlyGoal", attrs...)
	err := s.inner.UpdateMonthlyGoal(ctx, userID, id, updates)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) ListWeeklyGoals(ctx context.Context, userID string) ([]*types.WeeklyGoal, error) {
	ctx, span, t := s.op(ctx, "ListWeeklyGoals")
	v, err := s.inner.ListWeeklyGoals(ctx, userID)
	if err == nil {
		span.SetAttributes(attribute.Int("gp.result.count", len(v)))
	}
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) ListWeeklyGoalsByParent(ctx context.Context, userID, monthlyGoalID string) ([]*types.WeeklyGoal, error) {
	attrs := []attribute.KeyValue{attribute.String("gp.goal.parent", monthlyGoalID)}
	ctx, span, t := s.op(ctx, "ListWeeklyGoalsByParent", attrs...)
	v, err := s.inner.ListWeeklyGoalsByParent(ctx, userID, monthlyGoalID)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) GetWeeklyGoal(ctx context.Context, userID, id string) (*types.WeeklyGoal, error) {
	attrs := []attribute.KeyValue{attribute.String("gp.goal.id", id)}
	ctx, span, t := s.op(ctx, "GetWeeklyGoal", attrs...)
	v, err := s.inner.GetWeeklyGoal(ctx, userID, id)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) CreateWeeklyGoal(ctx context.Context, goal *types.WeeklyGoal) (*types.WeeklyGoal, error) {
	ctx, span, t := s.op(ctx, "CreateWeeklyGoal")
	v, err := s.inner.CreateWeeklyGoal(ctx, goal)
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) UpdateWeeklyGoal(ctx context.Context, userID, id string, updates storage.Fields) error {
	attrs := []attribute.KeyValue{
		attribute.String("gp.goal.id", id),
		attribute.Int("gp.update.count", len(updates)),
	}
	ctx, span, t := s.op(ctx, "UpdateWeeklyGoal", attrs...)
	err := s.inner.UpdateWeeklyGoal(ctx, userID, id, updates)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) ListBabySteps(ctx context.Context, userID, weeklyGoalID string) ([]*types.BabyStep, error) {
	attrs := []attribute.KeyValue{attribute.String("gp.goal.parent", weeklyGoalID)}
	ctx, span, t := s.op(ctx, "ListBabySteps", attrs...)
	v, err := s.inner.ListBabySteps(ctx, userID, weeklyGoalID)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) GetBabyStep(ctx context.Context, userID, id string) (*types.BabyStep, error) {
	attrs := []attribute.KeyValue{attribute.String("gp.step.id", id)}
	ctx, span, t := s.op(ctx, "GetBabyStep", attrs...)
	v, err := s.inner.GetBabyStep(ctx, userID, id)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) CreateBabyStep(ctx context.Context, step *types.BabyStep) (*types.BabyStep, error) {
	ctx, span, t := s.op(ctx, "CreateBabyStep")
	v, err := s.inner.CreateBabyStep(ctx, step)
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) UpdateBabyStep(ctx context.Context, userID, id string, updates storage.Fields) error {
	attrs := []attribute.KeyValue{
		attribute.String("gp.step.id", id),
		attribute.Int("gp.update.count", len(updates)),
	}
	ctx, span, t := s.op(ctx, "UpdateBabyStep", attrs...)
	err := s.inner.UpdateBabyStep(ctx, userID, id, updates)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
