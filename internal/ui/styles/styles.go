package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theogf/peeplab/internal/types"
)

// Colors
var (
	ColorRed     = lipgloss.Color("#FF5555")
	ColorGreen   = lipgloss.Color("#50FA7B")
	ColorYellow  = lipgloss.Color("#F1FA8C")
	ColorBlue    = lipgloss.Color("#8BE9FD")
	ColorPurple  = lipgloss.Color("#BD93F9")
	ColorOrange  = lipgloss.Color("#FFB86C")
	ColorPink    = lipgloss.Color("#FF79C6")
	ColorGray    = lipgloss.Color("#6272A4")
	ColorWhite   = lipgloss.Color("#F8F8F2")
	ColorSubtle  = lipgloss.Color("#44475A")
	ColorBg      = lipgloss.Color("#282A36")
	ColorBgLight = lipgloss.Color("#44475A")
)

// Styles contains all the lipgloss styles for the UI
type Styles struct {
	Title         lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailure lipgloss.Style
	StatusPending lipgloss.Style
	StatusRunning lipgloss.Style
	Selected      lipgloss.Style
	Normal        lipgloss.Style
	Dimmed        lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	Error         lipgloss.Style
	Branch        lipgloss.Style
	Author        lipgloss.Style
	Duration      lipgloss.Style
	LogLine       lipgloss.Style
	LogLineNumber lipgloss.Style
	LogTimestamp  lipgloss.Style
	SearchMatch   lipgloss.Style
}

// DefaultStyles returns the default styles for the UI
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(ColorGreen),

		StatusFailure: lipgloss.NewStyle().
			Foreground(ColorRed),

		StatusPending: lipgloss.NewStyle().
			Foreground(ColorGray),

		StatusRunning: lipgloss.NewStyle().
			Foreground(ColorYellow),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Background(ColorBgLight).
			Foreground(ColorWhite),

		Normal: lipgloss.NewStyle().
			Foreground(ColorWhite),

		Dimmed: lipgloss.NewStyle().
			Foreground(ColorGray),

		HelpKey: lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(ColorGray),

		Error: lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true),

		Branch: lipgloss.NewStyle().
			Foreground(ColorPink),

		Author: lipgloss.NewStyle().
			Foreground(ColorBlue),

		Duration: lipgloss.NewStyle().
			Foreground(ColorOrange),

		LogLine: lipgloss.NewStyle().
			Foreground(ColorWhite),

		LogLineNumber: lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(6).
			Align(lipgloss.Right),

		LogTimestamp: lipgloss.NewStyle().
			Foreground(ColorGray),

		SearchMatch: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBg).
			Background(ColorYellow),
	}
}

// StatusIcon returns the icon for a pipeline or job status.
func StatusIcon(status string) string {
	switch status {
	case types.StatusSuccess:
		return "✓"
	case types.StatusFailed:
		return "✗"
	case types.StatusRunning:
		return "⟳"
	case types.StatusPending, types.StatusCreated:
		return "○"
	case types.StatusCanceled:
		return "⊘"
	case types.StatusSkipped:
		return "⊝"
	case types.StatusManual:
		return "⊙"
	default:
		return "•"
	}
}

// StatusStyle returns the style for a pipeline or job status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	switch status {
	case types.StatusSuccess:
		return s.StatusSuccess
	case types.StatusFailed:
		return s.StatusFailure
	case types.StatusRunning:
		return s.StatusRunning
	default:
		return s.StatusPending
	}
}
