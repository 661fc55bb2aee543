package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	AngleLeft  key.Binding
	AngleRight key.Binding
	PowerUp    key.Binding
	PowerDown  key.Binding
	Launch     key.Binding
	NewGame    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "move right"),
		),
		AngleLeft: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "angle left"),
		),
		AngleRight: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "angle right"),
		),
		PowerUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "more power"),
		),
		PowerDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "less power"),
		),
		Launch: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "roll"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launch, k.PowerUp, k.NewGame, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.AngleLeft, k.AngleRight},
		{k.PowerUp, k.PowerDown, k.Launch},
		{k.NewGame, k.Help, k.Quit},
	}
}
