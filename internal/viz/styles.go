package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for diagnostic output on stderr.
var (
	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	ErrorText = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	WarningText = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	ProgressFill  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	ProgressEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("#333344"))
)

func Error(format string, args ...any) string {
	return ErrorText.Render("Error:") + " " + fmt.Sprintf(format, args...)
}

func Warning(format string, args ...any) string {
	return WarningText.Render("Warning:") + " " + fmt.Sprintf(format, args...)
}

func Metric(label string, value any) string {
	return MetricLabel.Render(label+":") + " " + MetricValue.Render(fmt.Sprint(value))
}

// ProgressBar renders pct (0..100) as a bar of the given width.
func ProgressBar(pct float64, width int) string {
	pct = max(0, min(100, pct))
	filled := int(pct / 100 * float64(width))
	return ProgressFill.Render(strings.Repeat("█", filled)) +
		ProgressEmpty.Render(strings.Repeat("░", width-filled))
}

// ProgressLine returns the carriage-return progress line for
// remaining/total unclaimed primaries.
func ProgressLine(remaining, total int) string {
	pct := 100.0
	if total > 0 {
		pct = 100 * (1 - float64(remaining)/float64(total))
	}
	return fmt.Sprintf(" \rProgress %s %6.2f%%", ProgressBar(pct, 30), pct)
}
