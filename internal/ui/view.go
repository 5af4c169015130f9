package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"cardlens/internal/lifecycle"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	sections := []string{
		m.headerView(),
		m.sceneView(),
		m.controlsView(),
		m.linkView(),
	}
	if m.cfg.UI.ShowStatusBar {
		sections = append(sections, m.statusView())
	}
	sections = append(sections, m.footerView())

	view := strings.Join(sections, "\n")

	if m.logOverlay.Visible() {
		view = m.centerOverlay(m.logOverlay.View())
	} else if m.help.Visible() {
		view = m.centerOverlay(m.help.View())
	}

	return zone.Scan(view)
}

func (m Model) headerView() string {
	header := m.styles.Title.Render("cardlens") + " " +
		m.styles.CardID.Render(m.resolution.ID)
	if m.resolution.Fallback {
		header += " " + m.styles.Fallback.Render(fmt.Sprintf("(%q not found)", m.resolution.Requested))
	}
	return header
}

func (m Model) sceneView() string {
	width := max(40, m.width-4)

	content := strings.TrimRight(m.renderer.View(m.ctrl.Snapshot()), "\n")
	if content == "" {
		content = m.styles.SceneIdle.Render("no card loaded")
	}

	return m.styles.ScenePane.Width(width).Render(content)
}

// controlsView renders the Start/Stop/Unmute buttons. Each is zone-marked so
// mouse clicks land; a control disabled for the current state still renders,
// dimmed.
func (m Model) controlsView() string {
	state := m.ctrl.State()

	start := m.styles.ButtonDisabled.Render("Start")
	if state == lifecycle.StateIdle {
		start = m.styles.ButtonEnabled.Render("Start")
	}
	stop := m.styles.ButtonDisabled.Render("Stop")
	if state != lifecycle.StateIdle {
		stop = m.styles.ButtonEnabled.Render("Stop")
	}

	controls := []string{
		zone.Mark(zoneStart, start),
		zone.Mark(zoneStop, stop),
	}

	// The unmute control only exists when the card actually has video
	// layers; it is the user-gesture path around autoplay restrictions.
	if m.ctrl.HasVideo() {
		controls = append(controls, zone.Mark(zoneUnmute, m.styles.ButtonEnabled.Render("Unmute")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(controls, " "))
}

func (m Model) linkView() string {
	return m.styles.Footer.Render("Instagram: ") +
		m.styles.Link.Render(m.resolution.Definition.Instagram())
}

func (m Model) statusView() string {
	var prefix string
	if m.ctrl.State() == lifecycle.StateScanning {
		prefix = m.spinner.View()
	}

	style := m.styles.StatusInfo
	switch m.status.Kind {
	case lifecycle.StatusNotice:
		style = m.styles.StatusNotice
	case lifecycle.StatusError:
		style = m.styles.StatusError
	}

	text := m.status.Message
	if text == "" {
		text = m.ctrl.State().String()
	}
	width := max(20, m.width-lipgloss.Width(prefix)-2)
	return prefix + style.Render(truncate.StringWithTail(text, uint(width), "…"))
}

func (m Model) footerView() string {
	hints := []string{"s start", "x stop", "f/l simulate", "? help"}
	if m.debug {
		hints = append(hints, "ctrl+x logs")
	}
	hints = append(hints, "q quit")
	return m.styles.Footer.Render(strings.Join(hints, " · "))
}

func (m Model) centerOverlay(overlayView string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlayView)
}
