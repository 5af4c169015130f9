// Package ui contains the terminal viewer for the overlay lifecycle engine.
// The viewer drives a lifecycle controller against the text renderer and a
// simulated tracking engine, showing the spawned scene, lifecycle controls
// and a status readout.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"cardlens/internal/card"
	"cardlens/internal/config"
	"cardlens/internal/lifecycle"
	"cardlens/internal/log"
	"cardlens/internal/pubsub"
	"cardlens/internal/scene"
	"cardlens/internal/tracking"
	"cardlens/internal/watcher"
)

// Zone ids for mouse-clickable controls.
const (
	zoneStart  = "cardlens-start"
	zoneStop   = "cardlens-stop"
	zoneUnmute = "cardlens-unmute"
)

// frameInterval is the scene repaint cadence while tracking is active.
const frameInterval = 100 * time.Millisecond

// Config wires the viewer to its collaborators.
type Config struct {
	Controller *lifecycle.Controller
	Renderer   *scene.TextRenderer
	Tracker    *tracking.Sim
	Resolution card.Resolution
	Source     string
	AppConfig  config.Config
	Watcher    *watcher.Watcher // nil unless watch mode is on
	Debug      bool
}

// Model is the root viewer state.
type Model struct {
	ctrl     *lifecycle.Controller
	renderer *scene.TextRenderer
	tracker  *tracking.Sim

	resolution card.Resolution
	source     string
	cfg        config.Config
	keys       KeyMap
	styles     Styles

	width  int
	height int

	status  lifecycle.Status
	spinner spinner.Model

	help       helpOverlay
	logOverlay logOverlay
	debug      bool

	ctx    context.Context
	cancel context.CancelFunc

	statusListener *pubsub.ContinuousListener[lifecycle.Status]
	trackListener  *pubsub.ContinuousListener[tracking.TargetEvent]
	reloadListener *pubsub.ContinuousListener[watcher.ReloadEvent]
	watcherHandle  *watcher.Watcher
}

// frameMsg drives scene repaints while tracking is active.
type frameMsg time.Time

// startResultMsg reports the outcome of an asynchronous start call.
type startResultMsg struct{ err error }

// reloadDoneMsg carries a freshly loaded card resolution.
type reloadDoneMsg struct {
	resolution card.Resolution
	err        error
}

// New creates the viewer model. The controller must already have its card
// loaded and tracker attached.
func New(c Config) Model {
	ctx, cancel := context.WithCancel(context.Background())
	styles := NewStyles(c.AppConfig.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusInfo

	m := Model{
		ctrl:           c.Controller,
		renderer:       c.Renderer,
		tracker:        c.Tracker,
		resolution:     c.Resolution,
		source:         c.Source,
		cfg:            c.AppConfig,
		keys:           DefaultKeyMap(),
		styles:         styles,
		spinner:        sp,
		help:           newHelpOverlay(76, c.AppConfig.UI.MarkdownStyle, styles),
		logOverlay:     newLogOverlay(ctx, styles),
		debug:          c.Debug,
		ctx:            ctx,
		cancel:         cancel,
		statusListener: pubsub.NewContinuousListener(ctx, c.Controller.Status()),
		trackListener:  pubsub.NewContinuousListener(ctx, c.Tracker.Events()),
		watcherHandle:  c.Watcher,
	}

	if c.Watcher != nil {
		m.reloadListener = pubsub.NewContinuousListener(ctx, c.Watcher.Broker())
	}

	// An unknown requested id fell back to the default card. Surface that
	// exactly once, at startup; later status updates replace it.
	if c.Resolution.Fallback {
		m.status = lifecycle.Status{
			Kind:    lifecycle.StatusNotice,
			Message: fmt.Sprintf("unknown card %q, showing %q", c.Resolution.Requested, c.Resolution.ID),
		}
		log.Warn(log.CatUI, "requested card unknown, using default",
			"requested", c.Resolution.Requested, "default", c.Resolution.ID)
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.statusListener.Listen(),
		m.trackListener.Listen(),
		m.spinner.Tick,
	}
	if m.reloadListener != nil {
		cmds = append(cmds, m.reloadListener.Listen())
	}
	if m.debug {
		if cmd := m.logOverlay.StartListening(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		// Repaint only; View reads the scene tree directly.
		return m, m.frameTick()

	case pubsub.Event[lifecycle.Status]:
		m.status = msg.Payload
		return m, m.statusListener.Listen()

	case pubsub.Event[tracking.TargetEvent]:
		switch msg.Payload.Kind {
		case tracking.TargetFound:
			m.ctrl.OnTargetFound()
		case tracking.TargetLost:
			m.ctrl.OnTargetLost()
		}
		return m, tea.Batch(m.trackListener.Listen(), m.frameTick())

	case pubsub.Event[watcher.ReloadEvent]:
		log.Info(log.CatUI, "card config changed on disk, reloading", "path", msg.Payload.Path)
		return m, tea.Batch(m.reloadListener.Listen(), m.reloadCmd())

	case log.LogEvent:
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd

	case startResultMsg:
		// Failures already reach the status bar through the broker.
		return m, nil

	case reloadDoneMsg:
		return m.applyReload(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.debug && key.Matches(msg, m.keys.Logs) {
		m.logOverlay.Toggle()
		return m, nil
	}
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Start):
		return m, m.startCmd()

	case key.Matches(msg, m.keys.Stop):
		return m, m.stopCmd()

	case key.Matches(msg, m.keys.Unmute):
		if m.ctrl.HasVideo() {
			m.ctrl.UnmuteAndPlayVideos()
		}
		return m, nil

	case key.Matches(msg, m.keys.Found):
		if err := m.tracker.EmitFound(); err != nil {
			m.status = lifecycle.Status{Kind: lifecycle.StatusNotice, Message: "tracking is not running"}
		}
		return m, nil

	case key.Matches(msg, m.keys.Lost):
		if err := m.tracker.EmitLost(); err != nil {
			m.status = lifecycle.Status{Kind: lifecycle.StatusNotice, Message: "tracking is not running"}
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd()
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	if z := zone.Get(zoneStart); z != nil && z.InBounds(msg) {
		return m, m.startCmd()
	}
	if z := zone.Get(zoneStop); z != nil && z.InBounds(msg) {
		return m, m.stopCmd()
	}
	if m.ctrl.HasVideo() {
		if z := zone.Get(zoneUnmute); z != nil && z.InBounds(msg) {
			m.ctrl.UnmuteAndPlayVideos()
			return m, nil
		}
	}
	return m, nil
}

// startCmd runs the lifecycle start off the update loop; engine startup can
// take a while and must not block input.
func (m Model) startCmd() tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg {
			return startResultMsg{err: ctrl.Start(ctx)}
		},
		m.frameTick(),
	)
}

func (m Model) stopCmd() tea.Cmd {
	ctrl := m.ctrl
	ctx := m.ctx
	return func() tea.Msg {
		_ = ctrl.Stop(ctx)
		return nil
	}
}

// reloadCmd re-reads the card config from the source and re-resolves the
// current card id.
func (m Model) reloadCmd() tea.Cmd {
	source := m.source
	requested := m.resolution.Requested
	defaultID := m.cfg.DefaultCard
	ctx := m.ctx
	return func() tea.Msg {
		cfg, err := card.Load(ctx, source)
		if err != nil {
			return reloadDoneMsg{err: err}
		}
		resolver, err := card.NewResolver(cfg, defaultID)
		if err != nil {
			return reloadDoneMsg{err: err}
		}
		return reloadDoneMsg{resolution: resolver.Resolve(requested)}
	}
}

// applyReload stops any active tracking and swaps in the new card content.
func (m Model) applyReload(msg reloadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = lifecycle.Status{
			Kind:    lifecycle.StatusError,
			Message: fmt.Sprintf("reload failed: %v", msg.err),
		}
		log.ErrorErr(log.CatUI, "card config reload failed", msg.err)
		return m, nil
	}

	_ = m.ctrl.Stop(m.ctx)
	m.resolution = msg.resolution
	m.ctrl.LoadCard(m.ctx, msg.resolution.Definition.Layers)
	m.status = lifecycle.Status{
		Kind:    lifecycle.StatusInfo,
		Message: fmt.Sprintf("card %q reloaded", msg.resolution.ID),
	}
	log.Info(log.CatUI, "card reloaded", "id", msg.resolution.ID,
		"layers", len(msg.resolution.Definition.ActiveLayers()))
	return m, nil
}

func (m Model) frameTick() tea.Cmd {
	if m.ctrl.State() == lifecycle.StateIdle {
		return nil
	}
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Close releases listeners and the lifecycle controller. Call after the
// program exits.
func (m Model) Close() error {
	m.cancel()
	var err error
	if m.watcherHandle != nil {
		err = m.watcherHandle.Stop()
	}
	m.ctrl.Close()
	return err
}
