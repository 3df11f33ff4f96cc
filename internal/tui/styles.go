package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Palette. Adaptive colors keep the UI readable on light terminals.
var (
	ColorPrimary    = lipgloss.AdaptiveColor{Light: "28", Dark: "35"}
	ColorMuted      = lipgloss.AdaptiveColor{Light: "245", Dark: "241"}
	ColorBackground = lipgloss.AdaptiveColor{Light: "254", Dark: "236"}
	ColorAlert      = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	ColorWarning    = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}

	colorRowFg = lipgloss.Color("230")
	colorRowBg = lipgloss.Color("29")
	colorRule  = lipgloss.Color("240")
)

var (
	// HeaderStyle renders the app title in the top bar.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Background(ColorBackground).Padding(0, 1)

	// ContentStyle pads the active view.
	ContentStyle = lipgloss.NewStyle().Padding(1, 2)

	KeyStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	DescStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	LabelStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle   = lipgloss.NewStyle().Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorAlert)
	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)

	// InputStyle frames the search box.
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)

// TableStyles returns the styles shared by the company and news tables.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorRule)
	s.Selected = s.Selected.
		Bold(true).
		Foreground(colorRowFg).
		Background(colorRowBg)
	return s
}
