package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the desktop keybindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Launch   key.Binding
	Focus    key.Binding
	Cycle    key.Binding
	Minimize key.Binding
	Zoom     key.Binding
	Restore  key.Binding
	Close    key.Binding
	Back     key.Binding
	Forward  key.Binding
	Rename   key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launch, k.Focus, k.Cycle, k.Minimize, k.Zoom, k.Close, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus, k.Cycle},
		{k.Launch, k.Minimize, k.Zoom, k.Restore, k.Close},
		{k.Back, k.Forward, k.Rename},
		{k.Reload, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Launch: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "open dock app"),
		),
		Focus: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "focus"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle windows"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "minimize"),
		),
		Zoom: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "zoom"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
		Close: key.NewBinding(
			key.WithKeys("w", "x"),
			key.WithHelp("w", "close"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "forward"),
		),
		Rename: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "rename"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
