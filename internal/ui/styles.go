// Package ui provides terminal styling for gp CLI output.
// Adaptive light/dark colors via lipgloss; plain text when not a TTY.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sidworks/gp/internal/types"
)

// NO_COLOR and piped output drop styling entirely; the layout stays the
// same either way.
func init() {
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

var (
	ColorDone = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorActive = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
)

var (
	DoneStyle   = lipgloss.NewStyle().Foreground(ColorDone)
	ActiveStyle = lipgloss.NewStyle().Foreground(ColorActive)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorActive)
)

// Tree characters for hierarchy display
const (
	TreeChild  = "⎿ "
	TreeIndent = "  "
)

// RenderHeader renders a section header (yearly goal title, group label).
func RenderHeader(s string) string {
	return HeaderStyle.Render(s)
}

// RenderMuted renders secondary text (ids, dates).
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderStatus colors a status by its meaning across all four levels.
func RenderStatus(status string) string {
	switch status {
	case string(types.YearlyCompleted), string(types.StepDone):
		return DoneStyle.Render(status)
	case string(types.YearlyActive), string(types.StepInProgress):
		return ActiveStyle.Render(status)
	case string(types.YearlyPaused), string(types.MonthlyCarriedForward), string(types.WeeklyMissed):
		return WarnStyle.Render(status)
	case string(types.YearlyArchived):
		return MutedStyle.Render(status)
	default:
		return status
	}
}

// RenderPriority colors a step priority.
func RenderPriority(p types.StepPriority) string {
	switch p {
	case types.PriorityHigh:
		return FailStyle.Render(string(p))
	case types.PriorityLow:
		return MutedStyle.Render(string(p))
	default:
		return string(p)
	}
}

// ProgressBar renders pct as a fixed-width bar, e.g. [██████----] 60%.
func ProgressBar(pct int, width int) string {
	if width <= 0 {
		width = 10
	}
	filled := pct * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(DoneStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(MutedStyle.Render(strings.Repeat("-", width-filled)))
	b.WriteString("]")
	return b.String()
}
