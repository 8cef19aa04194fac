package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the player
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding

	// Transport
	Toggle   key.Binding
	Next     key.Binding
	Previous key.Binding
	SeekBack key.Binding
	SeekFwd  key.Binding
	VolUp    key.Binding
	VolDown  key.Binding
	Mute     key.Binding
	Loop     key.Binding

	// Queue
	Shuffle  key.Binding
	Remove   key.Binding
	Clear    key.Binding
	Filter   key.Binding
	Favorite key.Binding

	// Panes
	Lyrics     key.Binding
	Visualizer key.Binding

	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play selected"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p/←", "previous"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "seek -5s"),
		),
		SeekFwd: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "seek +5s"),
		),
		VolUp: key.NewBinding(
			key.WithKeys("]", "+"),
			key.WithHelp("]", "volume up"),
		),
		VolDown: key.NewBinding(
			key.WithKeys("[", "-"),
			key.WithHelp("[", "volume down"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Loop: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "loop track"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shuffle"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove from queue"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear queue"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite"),
		),
		Lyrics: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "lyrics pane"),
		),
		Visualizer: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "visualizer pane"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
