package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Tab      key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Enter    key.Binding
	Cancel   key.Binding
	Search   key.Binding
	Tail     key.Binding
	Copy     key.Binding
	Save     key.Binding
	Load     key.Binding
	Delete   key.Binding
	Preset   key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "top")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "follow")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/run")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find group")),
		Tail:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tail")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save preset")),
		Load:     key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "load preset")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Preset:   key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "time preset")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Search, k.Tail, k.Copy, k.Save, k.Load, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Up, k.Down, k.Enter, k.Cancel},
		{k.PageUp, k.PageDown, k.Home, k.End},
		{k.Search, k.Tail, k.Copy, k.Preset},
		{k.Save, k.Load, k.Delete, k.Quit},
	}
}
