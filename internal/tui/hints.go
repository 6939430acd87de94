package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Hint is one key shown in the bottom bar or a panel.
type Hint struct {
	Key  string
	Desc string
}

// hint labels a binding with a short description. The key text comes from
// the binding's help so remapped keys show up correctly.
func hint(b key.Binding, desc string) Hint {
	return Hint{Key: b.Help().Key, Desc: desc}
}

// renderHints renders the bottom bar: "j/k:move y:copy".
func (a App) renderHints(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints inside a panel: "y copy  o open".
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// contextualHints lists what the keys do in the current mode and view.
func (a App) contextualHints() []Hint {
	k := a.keys

	switch a.mode {
	case ModeForm:
		return a.formHints()
	case ModeFilter:
		return []Hint{{Key: "enter", Desc: "apply"}, hint(k.Cancel, "clear")}
	case ModeHelp:
		return []Hint{{Key: "?/esc", Desc: "close"}}
	}

	if a.view == ViewAnalytics {
		return []Hint{
			hint(k.Back, "back"),
			hint(k.Copy, "copy"),
			hint(k.Open, "open"),
			hint(k.Refresh, "report"),
			hint(k.Help, "help"),
			hint(k.Quit, "quit"),
		}
	}

	hints := []Hint{
		{Key: "j/k", Desc: "move"},
		hint(k.Select, "analytics"),
		hint(k.Copy, "copy"),
		hint(k.Open, "open"),
		hint(k.Filter, "filter"),
		hint(k.NewLink, "new"),
	}
	if a.filter.Query != "" {
		hints = append(hints, hint(k.Cancel, "clear filter"))
	}
	return append(hints, hint(k.Help, "help"), hint(k.Quit, "quit"))
}

func (a App) formHints() []Hint {
	k := a.keys
	hints := []Hint{hint(k.NextField, "next"), hint(k.Submit, "shorten")}
	if a.suggester != nil {
		hints = append(hints, hint(k.Suggest, "AI slugs"))
	}
	if n := min(len(a.form.Suggestions), len(k.UseSuggest)); n > 0 {
		hints = append(hints, Hint{Key: "alt+1.." + strconv.Itoa(n), Desc: "use idea"})
	}
	return append(hints, hint(k.Cancel, "done"))
}

// helpSections groups bindings for the help overlay.
func (a App) helpSections() []helpSection {
	k := a.keys
	return []helpSection{
		{"dashboard", []key.Binding{k.Down, k.Up, k.Top, k.Bottom, k.Select, k.NewLink, k.Copy, k.Open, k.Filter}},
		{"form", []key.Binding{k.NextField, k.PrevField, k.Submit, k.Suggest, useSuggestHelp(k.UseSuggest)}},
		{"analytics", []key.Binding{k.Back, k.Refresh}},
	}
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

// useSuggestHelp folds the alt+N bindings into one help row.
func useSuggestHelp(bindings []key.Binding) key.Binding {
	return key.NewBinding(key.WithHelp("alt+1.."+strconv.Itoa(len(bindings)), "use idea"))
}
