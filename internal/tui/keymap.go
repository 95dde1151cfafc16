package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Advance key.Binding
	Quit    key.Binding
}

// Advance carries no key list: every key that is not a quit key advances
// the stage. The binding exists for the help footer.
var keys = keyMap{
	Advance: key.NewBinding(
		key.WithHelp("any key", "next stage"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Advance, k.Quit}}
}
