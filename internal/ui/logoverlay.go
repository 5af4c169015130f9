package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cardlens/internal/log"
)

const (
	logViewportMaxHeight = 20
	logViewportMinHeight = 5
	logBoxMaxWidth       = 120
	logBoxMinWidth       = 40
)

// logOverlay is an in-app viewer for recent log entries. It tails the log
// broker while visible and supports level filtering.
type logOverlay struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
	listener *log.LogListener
	styles   Styles
}

func newLogOverlay(ctx context.Context, styles Styles) logOverlay {
	return logOverlay{
		minLevel: log.LevelDebug,
		listener: log.NewListener(ctx),
		styles:   styles,
	}
}

// StartListening arms the log tail; nil when logging is not initialized.
func (o logOverlay) StartListening() tea.Cmd {
	if o.listener == nil {
		return nil
	}
	return o.listener.Listen()
}

func (o logOverlay) Visible() bool {
	return o.visible
}

func (o *logOverlay) Toggle() {
	o.visible = !o.visible
	if o.visible {
		o.refreshViewport()
		o.viewport.GotoBottom()
	}
}

func (o *logOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.refreshViewport()
}

// Update handles key input and incoming log events.
func (o logOverlay) Update(msg tea.Msg) (logOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case log.LogEvent:
		if o.visible {
			atBottom := o.viewport.AtBottom()
			o.refreshViewport()
			if atBottom {
				o.viewport.GotoBottom()
			}
		}
		return o, o.StartListening()

	case tea.KeyMsg:
		if !o.visible {
			return o, nil
		}
		switch msg.String() {
		case "c":
			log.ClearBuffer()
			o.refreshViewport()
		case "d":
			o.minLevel = log.LevelDebug
			o.refreshViewport()
		case "i":
			o.minLevel = log.LevelInfo
			o.refreshViewport()
		case "w":
			o.minLevel = log.LevelWarn
			o.refreshViewport()
		case "e":
			o.minLevel = log.LevelError
			o.refreshViewport()
		case "j", "down":
			o.viewport.ScrollDown(1)
		case "k", "up":
			o.viewport.ScrollUp(1)
		case "g":
			o.viewport.GotoTop()
		case "G":
			o.viewport.GotoBottom()
		case "ctrl+x", "esc":
			o.visible = false
		}
	}
	return o, nil
}

// View renders the overlay box.
func (o logOverlay) View() string {
	if !o.visible {
		return ""
	}

	boxWidth := o.boxWidth()
	divider := o.styles.Footer.Render(strings.Repeat("─", boxWidth))

	var b strings.Builder
	b.WriteString(o.styles.Title.Render(" Logs"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(o.viewport.View())
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(o.styles.Footer.Render(" filter: d/i/w/e · c clear · j/k scroll · esc close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6B6B6B")).
		Width(boxWidth)
	return box.Render(b.String())
}

func (o *logOverlay) refreshViewport() {
	if o.width == 0 || o.height == 0 {
		return
	}
	contentWidth := o.boxWidth() - 2
	contentHeight := min(logViewportMaxHeight, max(logViewportMinHeight, o.height-8))

	o.viewport.Width = contentWidth
	o.viewport.Height = contentHeight
	o.viewport.SetContent(o.buildContent())
}

func (o logOverlay) buildContent() string {
	var lines []string
	for _, entry := range log.GetRecentLogs(1000) {
		if o.entryLevel(entry) < o.minLevel {
			continue
		}
		lines = append(lines, strings.TrimRight(entry, "\n"))
	}
	if len(lines) == 0 {
		return o.styles.SceneIdle.Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

// entryLevel recovers the level from a rendered entry for filtering.
func (o logOverlay) entryLevel(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return log.LevelError
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	default:
		return log.LevelDebug
	}
}

func (o logOverlay) boxWidth() int {
	w := o.width - 4
	return min(logBoxMaxWidth, max(logBoxMinWidth, w))
}
