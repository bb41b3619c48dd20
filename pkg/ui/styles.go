package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. Severity colors match the export heatmaps.
var (
	ColorBg        = lipgloss.Color("#282A36")
	ColorText      = lipgloss.Color("#F8F8F2")
	ColorSubtext   = lipgloss.Color("#BFBFBF")
	ColorMuted     = lipgloss.Color("#6272A4")
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorInfo      = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")
	ColorBorder    = lipgloss.Color("#44475A")
	ColorHighlight = lipgloss.Color("#44475A")
)

var (
	// PanelStyle frames the list and detail panes.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// FocusedPanelStyle marks the pane receiving key input.
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SubtextStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StatusErrStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(ColorHighlight).
				Foreground(ColorText).
				Bold(true)

	HintStyle = lipgloss.NewStyle().Faint(true)
)

// ConclusionStyle returns the display style for a group conclusion badge.
func ConclusionStyle(redFlag, ineffective bool) lipgloss.Style {
	switch {
	case ineffective:
		return lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	case redFlag:
		return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
}
