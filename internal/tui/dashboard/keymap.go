package dashboard

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines dashboard keybindings
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	PrevTab key.Binding
	NextTab key.Binding
	Refresh key.Binding
	Auto    key.Binding
	Help    key.Binding
	Quit    key.Binding
	Num0    key.Binding
	Num1    key.Binding
	Num2    key.Binding
	Num3    key.Binding
	Num4    key.Binding
	Num5    key.Binding
}

var dashKeys = KeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PrevTab: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous tab")),
	NextTab: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh focused panel")),
	Auto:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle auto-refresh")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Num0:    key.NewBinding(key.WithKeys("0")),
	Num1:    key.NewBinding(key.WithKeys("1")),
	Num2:    key.NewBinding(key.WithKeys("2")),
	Num3:    key.NewBinding(key.WithKeys("3")),
	Num4:    key.NewBinding(key.WithKeys("4")),
	Num5:    key.NewBinding(key.WithKeys("5")),
}
