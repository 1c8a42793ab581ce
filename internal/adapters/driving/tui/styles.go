package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains pre-configured lipgloss styles for the reader.
type Styles struct {
	// Title style for headers.
	Title lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for the highlighted list row.
	Selected lipgloss.Style

	// Highlight style for anchored text in the reader.
	Highlight lipgloss.Style

	// Focused style for the focused anchor.
	Focused lipgloss.Style

	// Status style for the bottom bar.
	Status lipgloss.Style

	// ErrorText style for error messages.
	ErrorText lipgloss.Style
}

// DefaultStyles returns the default reader styles.
func DefaultStyles() *Styles {
	var (
		primary = lipgloss.Color("#7C3AED")
		muted   = lipgloss.Color("#6C7086")
		yellow  = lipgloss.Color("#F9E2AF")
		red     = lipgloss.Color("#F38BA8")
		border  = lipgloss.Color("#45475A")
	)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Normal:    lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(primary),
		Highlight: lipgloss.NewStyle().Foreground(yellow),
		Focused:   lipgloss.NewStyle().Bold(true).Foreground(yellow).Underline(true),
		Status: lipgloss.NewStyle().
			Foreground(muted).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(border),
		ErrorText: lipgloss.NewStyle().Foreground(red),
	}
}
