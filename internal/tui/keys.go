package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Presets   key.Binding
	Open      key.Binding
	Close     key.Binding
	FlickDown key.Binding
	FlickUp   key.Binding
	Yank      key.Binding
	Diff      key.Binding
	View      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Presets:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "preset")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Close:     key.NewBinding(key.WithKeys("c", "esc"), key.WithHelp("c/esc", "close")),
		FlickDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "flick down")),
		FlickUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "flick up")),
		Yank:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy state")),
		Diff:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "reload diff")),
		View:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "diff layout")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Presets, k.Open, k.Close, k.FlickDown, k.FlickUp, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Presets, k.Open, k.Close},
		{k.FlickDown, k.FlickUp},
		{k.Yank, k.Diff, k.View, k.Help, k.Quit},
	}
}
