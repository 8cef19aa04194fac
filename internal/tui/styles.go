package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared across panes. The accent comes
// from the user settings.
type Styles struct {
	Accent lipgloss.Color

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Dim       lipgloss.Style
	Selected  lipgloss.Style
	Playing   lipgloss.Style
	Status    lipgloss.Style
	ErrorText lipgloss.Style

	ActivePane   lipgloss.Style
	InactivePane lipgloss.Style
	LyricActive  lipgloss.Style
	LyricOther   lipgloss.Style
}

// Base palette
var (
	white     = lipgloss.Color("#F9FAFB")
	lightGray = lipgloss.Color("#9CA3AF")
	dimGray   = lipgloss.Color("#6B7280")
	red       = lipgloss.Color("#EF4444")
)

// NewStyles builds the style set for the given accent color.
func NewStyles(accent string) Styles {
	ac := lipgloss.Color(accent)
	return Styles{
		Accent: ac,

		Title:     lipgloss.NewStyle().Foreground(white).Bold(true),
		Subtitle:  lipgloss.NewStyle().Foreground(lightGray),
		Dim:       lipgloss.NewStyle().Foreground(dimGray),
		Selected:  lipgloss.NewStyle().Foreground(white).Background(ac).Padding(0, 1),
		Playing:   lipgloss.NewStyle().Foreground(ac).Bold(true),
		Status:    lipgloss.NewStyle().Foreground(ac),
		ErrorText: lipgloss.NewStyle().Foreground(red),

		ActivePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ac).
			Padding(0, 1),
		InactivePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimGray).
			Padding(0, 1),
		LyricActive: lipgloss.NewStyle().Foreground(ac).Bold(true),
		LyricOther:  lipgloss.NewStyle().Foreground(dimGray),
	}
}
