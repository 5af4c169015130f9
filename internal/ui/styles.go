package ui

import (
	"github.com/charmbracelet/lipgloss"

	"cardlens/internal/config"
)

// Styles holds the Lip Gloss styles for the viewer, built from the theme
// colors in the application config.
type Styles struct {
	Title    lipgloss.Style
	CardID   lipgloss.Style
	Fallback lipgloss.Style

	ScenePane lipgloss.Style
	SceneIdle lipgloss.Style

	ButtonEnabled  lipgloss.Style
	ButtonDisabled lipgloss.Style

	StatusInfo   lipgloss.Style
	StatusNotice lipgloss.Style
	StatusError  lipgloss.Style

	Link   lipgloss.Style
	Footer lipgloss.Style
}

// NewStyles builds viewer styles from the theme config. Empty color values
// fall back to the built-in defaults.
func NewStyles(theme config.ThemeConfig) Styles {
	defaults := config.Defaults().Theme
	pick := func(v, fallback string) lipgloss.Color {
		if v == "" {
			v = fallback
		}
		return lipgloss.Color(v)
	}

	highlight := pick(theme.Highlight, defaults.Highlight)
	subtle := pick(theme.Subtle, defaults.Subtle)
	errColor := pick(theme.Error, defaults.Error)
	success := pick(theme.Success, defaults.Success)

	button := lipgloss.NewStyle().Padding(0, 2).Bold(true)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(highlight),
		CardID:   lipgloss.NewStyle().Foreground(subtle),
		Fallback: lipgloss.NewStyle().Foreground(errColor).Italic(true),

		ScenePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1),
		SceneIdle: lipgloss.NewStyle().Foreground(subtle).Italic(true),

		ButtonEnabled: button.
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(highlight),
		ButtonDisabled: button.
			Foreground(subtle).
			Background(lipgloss.Color("#2D2D2D")),

		StatusInfo:   lipgloss.NewStyle().Foreground(success),
		StatusNotice: lipgloss.NewStyle().Foreground(subtle).Italic(true),
		StatusError:  lipgloss.NewStyle().Foreground(errColor).Bold(true),

		Link:   lipgloss.NewStyle().Foreground(highlight).Underline(true),
		Footer: lipgloss.NewStyle().Foreground(subtle),
	}
}
