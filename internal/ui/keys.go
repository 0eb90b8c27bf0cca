package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap contains all keyboard shortcuts of the page view
type KeyMap struct {
	Back     key.Binding
	Click    key.Binding
	Forward  key.Binding
	Help     key.Binding
	Navigate key.Binding
	Quit     key.Binding
	Replace  key.Binding
}

// NewKeyMap creates the default key bindings
func NewKeyMap() KeyMap {
	return KeyMap{
		Back: key.NewBinding(
			key.WithKeys("alt+left", "ctrl+b"),
			key.WithHelp("ctrl+b", "back"),
		),
		Click: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "click widget"),
		),
		Forward: key.NewBinding(
			key.WithKeys("alt+right", "ctrl+f"),
			key.WithHelp("ctrl+f", "forward"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Navigate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		Replace: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("alt+enter", "replace entry"),
		),
	}
}

// ShortHelp returns the bindings shown in the bottom bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Navigate, k.Back, k.Forward, k.Click, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Navigate, k.Replace, k.Back, k.Forward},
		{k.Click, k.Help, k.Quit},
	}
}
