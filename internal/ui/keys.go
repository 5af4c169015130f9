package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer keybindings.
type KeyMap struct {
	Start  key.Binding
	Stop   key.Binding
	Unmute key.Binding

	// Simulated tracking events for development without a camera.
	Found key.Binding
	Lost  key.Binding

	Reload key.Binding
	Help   key.Binding
	Logs   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start tracking"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop tracking"),
		),
		Unmute: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unmute videos"),
		),
		Found: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "simulate target found"),
		),
		Lost: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "simulate target lost"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload card config"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "toggle logs"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
