// Package tui provides the terminal dashboard for staffboard.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andst/staffboard/internal/model"
)

// Color palette for the TUI dashboard. App and survey keep their colors
// across every panel so the active tab is recognisable at a glance.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorApp     = lipgloss.Color("#3B82F6") // Blue
	ColorSurvey  = lipgloss.Color("#F97316") // Orange
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorWarning = lipgloss.Color("#F59E0B") // Yellow
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorBorder  = lipgloss.Color("#4B5563") // Dark gray
)

// CategoryColor returns the accent color of a category.
func CategoryColor(c model.Category) lipgloss.Color {
	if c == model.CategorySurvey {
		return ColorSurvey
	}
	return ColorApp
}

// Base styles for the TUI.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// StyleSubtitle is used for subtitles and secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleMuted is used for muted text.
	StyleMuted = StyleSubtitle

	// StyleName is used for staff names.
	StyleName = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleCount is used for counts.
	StyleCount = lipgloss.NewStyle().
			Bold(true)

	// StyleTab and StyleActiveTab render the category tabs.
	StyleTab = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2)

	StyleActiveTab = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Padding(0, 2)

	// StyleWarning is used for status messages.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleError is used for error messages.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleSuccess is used for reached targets.
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// StyleHelp is used for help text at the bottom.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Box styles for different sections.
var (
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleCompleteBox = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSuccess).
				Padding(0, 1)
)

// ProgressBar creates a progress bar string in the success color.
func ProgressBar(percentage float64, width int) string {
	return ColoredBar(percentage, width, ColorSuccess)
}

// ColoredBar creates a bar filled to percentage of width in color.
func ColoredBar(percentage float64, width int, color lipgloss.Color) string {
	percentage = min(max(percentage, 0), 100)
	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	filledStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", empty))
}
