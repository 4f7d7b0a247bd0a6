// Package tui: Lipgloss styles for the dtogen browser theme.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all theme-aware Lipgloss styles.
type Styles struct {
	Detail     lipgloss.Style
	PanelTitle lipgloss.Style
	Modal      lipgloss.Style
	ModalTitle lipgloss.Style
}

// newStyles returns the browser theme styles.
func newStyles() Styles {
	surface := lipgloss.Color("#221D19")
	primary := lipgloss.Color("#D08C3F")
	warning := lipgloss.Color("#E8B46A")
	muted := lipgloss.Color("#6B625A")
	text := lipgloss.Color("#EDE6DD")

	return Styles{
		Detail: lipgloss.NewStyle().
			Foreground(text).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(primary).Bold(true).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).
			BorderForeground(muted).Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Background(surface).Foreground(text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),

		ModalTitle: lipgloss.NewStyle().
			Foreground(warning).Bold(true),
	}
}
