package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Focus   key.Binding
	Swap    key.Binding
	Copy    key.Binding
	Speak   key.Binding
	Voice   key.Binding
	History key.Binding
	Quit    key.Binding

	// pickers
	Prev   key.Binding
	Next   key.Binding
	Search key.Binding
	Accept key.Binding
	Cancel key.Binding

	// history panel
	Up     key.Binding
	Down   key.Binding
	Delete key.Binding
	Clear  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Focus:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
		Swap:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "swap")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Speak:   key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "speak")),
		Voice:   key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "voice")),
		History: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "history")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),

		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "change")),
		Next:   key.NewBinding(key.WithKeys("right", "l")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Clear:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
	}
}

// keyHelp adapts the bindings for the focused area to help.KeyMap.
type keyHelp struct {
	keys  keyMap
	focus focus
}

func (h keyHelp) ShortHelp() []key.Binding {
	k := h.keys
	switch h.focus {
	case focusSource, focusTarget:
		return []key.Binding{k.Prev, k.Search, k.Focus, k.Swap, k.Quit}
	case focusHistory:
		return []key.Binding{k.Up, k.Delete, k.Clear, k.Focus, k.Quit}
	default:
		return []key.Binding{k.Focus, k.Swap, k.Copy, k.Speak, k.Voice, k.History, k.Quit}
	}
}

func (h keyHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
