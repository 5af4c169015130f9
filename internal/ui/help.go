package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// helpMarkdown is the help overlay content, rendered through glamour.
const helpMarkdown = `# cardlens viewer

## Lifecycle

| Key | Action |
|-----|--------|
| s | start tracking |
| x | stop tracking |
| u | unmute and play videos |

## Simulated tracking

| Key | Action |
|-----|--------|
| f | target found |
| l | target lost |

## General

| Key | Action |
|-----|--------|
| r | reload card config |
| ctrl+x | toggle log overlay |
| ? | toggle this help |
| q | quit |

Clicking the Start/Stop/Unmute controls with the mouse works too.
`

// noMarginStyle removes glamour's document margins so the overlay box fits.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// helpOverlay renders keybinding help from markdown.
type helpOverlay struct {
	visible  bool
	rendered string
	styles   Styles
}

// newHelpOverlay pre-renders the help text. style is "dark" or "light";
// WithStylePath is used instead of WithAutoStyle to avoid the terminal
// background query racing with Bubble Tea's input loop.
func newHelpOverlay(width int, style string, styles Styles) helpOverlay {
	if style == "" {
		style = "dark"
	}
	if width <= 0 || width > 80 {
		width = 80
	}

	rendered := helpMarkdown
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, renderErr := r.Render(helpMarkdown); renderErr == nil {
			rendered = out
		}
	}

	return helpOverlay{rendered: rendered, styles: styles}
}

func (h helpOverlay) Visible() bool {
	return h.visible
}

func (h *helpOverlay) Toggle() {
	h.visible = !h.visible
}

func (h helpOverlay) View() string {
	if !h.visible {
		return ""
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6B6B6B")).
		Padding(0, 1)
	return box.Render(strings.TrimRight(h.rendered, "\n"))
}
