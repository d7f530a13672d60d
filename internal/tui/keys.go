// internal/tui/keys.go
//
// Key bindings, shown by the help line at the bottom of the screen.

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextSlot key.Binding
	PrevSlot key.Binding
	Place    key.Binding
	Enter    key.Binding
	Hint     key.Binding
	Restart  key.Binding
	Language key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		NextSlot: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next slot")),
		PrevSlot: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev slot")),
		Place:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "place")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start/submit")),
		Hint:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hint")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Language: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "en/ru")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Place, k.NextSlot, k.Hint, k.Restart, k.Language, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.PrevSlot}}
}
