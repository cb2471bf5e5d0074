package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings. Screen-local keys are handled by
// each view and listed in its footer hints.
type KeyMap struct {
	// Screens
	Dashboard key.Binding
	Projects  key.Binding
	Tasks     key.Binding

	// General
	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Projects: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "projects"),
		),
		Tasks: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "tasks"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dashboard, k.Projects, k.Tasks},
		{k.ThemeCycle, k.Help, k.Back, k.Quit},
	}
}
