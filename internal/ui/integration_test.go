package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"cardlens/internal/card"
	"cardlens/internal/compositor"
	"cardlens/internal/config"
	"cardlens/internal/lifecycle"
	"cardlens/internal/media"
	"cardlens/internal/overlay"
	"cardlens/internal/scene"
	"cardlens/internal/tracking"
)

// TestViewer_StartFoundQuit drives the full program loop: start tracking,
// simulate a found target, then quit.
func TestViewer_StartFoundQuit(t *testing.T) {
	renderer := scene.NewTextRenderer()
	registry := media.NewRegistry()
	factory := overlay.NewFactory(registry, &overlay.StubLoader{}, overlay.Options{})

	ctrl := lifecycle.New(lifecycle.Config{
		Factory:    factory,
		Renderer:   renderer,
		Compositor: compositor.New(renderer, true),
		Scheduler:  lifecycle.TimerScheduler{},
	})
	tracker := tracking.NewSim()
	ctrl.AttachTracker(tracker)

	def := testDefinition()
	ctrl.LoadCard(context.Background(), def.Layers)

	m := New(Config{
		Controller: ctrl,
		Renderer:   renderer,
		Tracker:    tracker,
		Resolution: card.Resolution{ID: "card_001", Requested: "card_001", Definition: def},
		Source:     "cards.json",
		AppConfig:  config.Defaults(),
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("card_001"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Scanning for your card"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Card found!"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	_ = m.Close()
}
