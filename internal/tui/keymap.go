package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the main view.
type KeyMap struct {
	Quit        key.Binding
	Command     key.Binding
	AddEvent    key.Binding
	Cancel      key.Binding
	Listen      key.Binding
	Mute        key.Binding
	Export      key.Binding
	PrevDay     key.Binding
	NextDay     key.Binding
	Today       key.Binding
	CycleFriend key.Binding
	MarkRead    key.Binding
	Help        key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Command: key.NewBinding(
		key.WithKeys("i", "/"),
		key.WithHelp("i", "type a command"),
	),
	AddEvent: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add event"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Listen: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "start/stop listening"),
	),
	Mute: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mute voice"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export calendar"),
	),
	PrevDay: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous day"),
	),
	NextDay: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next day"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	CycleFriend: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next friend"),
	),
	MarkRead: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "mark thread read"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Command, k.Listen, k.Mute, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Command, k.AddEvent, k.Listen, k.Mute, k.Export},
		{k.PrevDay, k.NextDay, k.Today, k.CycleFriend, k.MarkRead},
		{k.Help, k.Cancel, k.Quit},
	}
}
