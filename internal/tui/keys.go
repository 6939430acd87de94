package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Select     key.Binding
	Back       key.Binding
	Copy       key.Binding
	Open       key.Binding
	NewLink    key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	Suggest    key.Binding
	UseSuggest []key.Binding
	Refresh    key.Binding
	Filter     key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	useSuggest := make([]key.Binding, 5)
	for i := range useSuggest {
		k := "alt+" + string(rune('1'+i))
		useSuggest[i] = key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, "use idea "+string(rune('1'+i))),
		)
	}

	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("l/enter", "analytics"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "h", "left", "backspace"),
			key.WithHelp("h/esc", "back"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy short URL"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open destination"),
		),
		NewLink: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "new link"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "shorten"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "AI slug ideas"),
		),
		UseSuggest: useSuggest,
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new AI report"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
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
