package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open    key.Binding
	Analyze key.Binding
	Copy    key.Binding
	Close   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Open: key.NewBinding(
		key.WithKeys("o", "f"),
		key.WithHelp("o", "choose file"),
	),
	Analyze: key.NewBinding(
		key.WithKeys("a", "enter"),
		key.WithHelp("a/enter", "analyze"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy recommendations"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close picker"),
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
