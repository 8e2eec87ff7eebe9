// Package theme holds the lipgloss styles shared by the terminal views.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/dailytasks/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Heatmap cell colors from empty to fully completed.
var (
	HeatNone = lipgloss.AdaptiveColor{Dark: "#2D333B", Light: "#EBEDF0"}
	HeatLow  = lipgloss.Color("#9BE9A8")
	HeatMid  = lipgloss.Color("#40C463")
	HeatHigh = lipgloss.Color("#216E39")
)

// HeaderStyle is used for section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// ListItemStyle is the base style for rows in the daily checklist.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the row under the cursor.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DoneStyle renders completed tasks and subtasks.
var DoneStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle is used for inline error messages.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// Checkbox renders a completion marker.
func Checkbox(done bool) string {
	if done {
		return lipgloss.NewStyle().Foreground(ColorGreen).Render("[x]")
	}
	return "[ ]"
}

// PercentStyle colors a completion percentage.
func PercentStyle(percent int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case percent >= 100:
		return base.Foreground(ColorGreen)
	case percent >= 50:
		return base.Foreground(ColorYellow)
	case percent > 0:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// HeatColor picks the heatmap cell color for a percentage.
func HeatColor(percent int) lipgloss.TerminalColor {
	switch {
	case percent > 80:
		return HeatHigh
	case percent > 40:
		return HeatMid
	case percent > 0:
		return HeatLow
	default:
		return HeatNone
	}
}

// RenderHeatmap draws the history as a row of colored cells, oldest first.
func RenderHeatmap(history []model.DayPercent) string {
	var b strings.Builder
	for _, p := range history {
		b.WriteString(lipgloss.NewStyle().Foreground(HeatColor(p.Percent)).Render("■"))
	}
	if n := len(history); n > 0 {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("  %s .. %s", history[0].Date, history[n-1].Date)))
	}
	return b.String()
}

// RenderSummary lays out the cumulative statistics as a bordered panel.
func RenderSummary(s model.Summary) string {
	rows := []string{
		fmt.Sprintf("Today          %s", PercentStyle(s.TodayPercent).Render(fmt.Sprintf("%d%%", s.TodayPercent))),
		fmt.Sprintf("Success rate   %d%%", s.SuccessRate),
		fmt.Sprintf("Tasks          %d", s.TotalCreated),
		fmt.Sprintf("Completed      %d", s.TotalCompletedEver),
		fmt.Sprintf("Weekly slots   %d", s.TotalScheduledDays),
		fmt.Sprintf("Streak         %d days", s.CurrentStreak),
	}
	if s.BestDay != nil {
		rows = append(rows, fmt.Sprintf("Best day       %s (%d%%)", s.BestDay.Date, s.BestDay.Percent))
	}
	return BorderStyle.Render(strings.Join(rows, "\n"))
}
