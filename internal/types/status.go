package types

import "fmt"

// Status and priority values are closed enumerations per entity kind.
// Unknown values are rejected at the input boundary by the Parse helpers
// rather than coerced or passed through.

// YearlyStatus is the lifecycle state of a YearlyGoal.
type YearlyStatus string

const (
	YearlyActive    YearlyStatus = "active"
	YearlyPaused    YearlyStatus = "paused"
	YearlyCompleted YearlyStatus = "completed"
	YearlyArchived  YearlyStatus = "archived"
)

// IsValid returns true for a recognized yearly goal status.
func (s YearlyStatus) IsValid() bool {
	switch s {
	case YearlyActive, YearlyPaused, YearlyCompleted, YearlyArchived:
		return true
	}
	return false
}

// ParseYearlyStatus validates a raw status string.
func ParseYearlyStatus(raw string) (YearlyStatus, error) {
	s := YearlyStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid yearly goal status %q (expected active, paused, completed, or archived)", raw)
	}
	return s, nil
}

// MonthlyStatus is the lifecycle state of a MonthlyGoal.
type MonthlyStatus string

const (
	MonthlyPlanned        MonthlyStatus = "planned"
	MonthlyActive         MonthlyStatus = "active"
	MonthlyCompleted      MonthlyStatus = "completed"
	MonthlyCarriedForward MonthlyStatus = "carried_forward"
)

// IsValid returns true for a recognized monthly goal status.
func (s MonthlyStatus) IsValid() bool {
	switch s {
	case MonthlyPlanned, MonthlyActive, MonthlyCompleted, MonthlyCarriedForward:
		return true
	}
	return false
}

// ParseMonthlyStatus validates a raw status string.
func ParseMonthlyStatus(raw string) (MonthlyStatus, error) {
	s := MonthlyStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid monthly goal status %q (expected planned, active, completed, or carried_forward)", raw)
	}
	return s, nil
}

// WeeklyStatus is the lifecycle state of a WeeklyGoal.
type WeeklyStatus string

const (
	WeeklyPlanned   WeeklyStatus = "planned"
	WeeklyActive    WeeklyStatus = "active"
	WeeklyCompleted WeeklyStatus = "completed"
	WeeklyMissed    WeeklyStatus = "missed"
)

// IsValid returns true for a recognized weekly goal status.
func (s WeeklyStatus) IsValid() bool {
	switch s {
	case WeeklyPlanned, WeeklyActive, WeeklyCompleted, WeeklyMissed:
		return true
	}
	return false
}

// ParseWeeklyStatus validates a raw status string.
func ParseWeeklyStatus(raw string) (WeeklyStatus, error) {
	s := WeeklyStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid weekly goal status %q (expected planned, active, completed, or missed)", raw)
	}
	return s, nil
}

// StepStatus is the execution state of a BabyStep.
type StepStatus string

const (
	StepTodo       StepStatus = "todo"
	StepInProgress StepStatus = "in_progress"
	StepDone       StepStatus = "done"
)

// IsValid returns true for a recognized baby step status.
func (s StepStatus) IsValid() bool {
	switch s {
	case StepTodo, StepInProgress, StepDone:
		return true
	}
	return false
}

// ParseStepStatus validates a raw status string.
func ParseStepStatus(raw string) (StepStatus, error) {
	s := StepStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid baby step status %q (expected todo, in_progress, or done)", raw)
	}
	return s, nil
}

// StepPriority is the priority of a BabyStep.
type StepPriority string

const (
	PriorityLow    StepPriority = "low"
	PriorityMedium StepPriority = "medium"
	PriorityHigh   StepPriority = "high"
)

// IsValid returns true for a recognized priority.
func (p StepPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParseStepPriority validates a raw priority string.
func ParseStepPriority(raw string) (StepPriority, error) {
	p := StepPriority(raw)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority %q (expected low, medium, or high)", raw)
	}
	return p, nil
}
