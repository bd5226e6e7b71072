package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the command output
type Theme struct {
	Name string

	// Base colors
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// TokyoNight is the dark theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
}

// TokyoNightDay is the light theme
var TokyoNightDay = Theme{
	Name: "Tokyo Night Day",

	Foreground:    lipgloss.Color("#3760bf"),
	ForegroundDim: lipgloss.Color("#848cb5"),

	Primary:   lipgloss.Color("#2e7de9"),
	Secondary: lipgloss.Color("#9854f1"),

	Success: lipgloss.Color("#587539"),
	Warning: lipgloss.Color("#8c6c3e"),
	Error:   lipgloss.Color("#f52a65"),
}

// ForName returns the theme for a configured name. "system" follows the
// terminal background.
func ForName(name string) Theme {
	switch name {
	case "dark":
		return TokyoNight
	case "light":
		return TokyoNightDay
	}
	if lipgloss.HasDarkBackground() {
		return TokyoNight
	}
	return TokyoNightDay
}

// Styles holds the pre-computed styles for command output
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	ID      lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Done    lipgloss.Style
	Pending lipgloss.Style
}

// NewStyles creates styles based on a theme
func NewStyles(t Theme) *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ID: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Width(5).
			Align(lipgloss.Right).
			MarginRight(1),

		Label: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Width(12),

		Success: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		Failure: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(t.Warning),

		Done: lipgloss.NewStyle().
			Foreground(t.Success),

		Pending: lipgloss.NewStyle().
			Foreground(t.Foreground),
	}
}

// Ok renders a success notification
func (s *Styles) Ok(msg string) string {
	return s.Success.Render("✔") + " " + msg
}

// Fail renders a failure notification
func (s *Styles) Fail(msg string) string {
	return s.Failure.Render("✖") + " " + msg
}
