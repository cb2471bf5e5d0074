package theme

import "github.com/charmbracelet/lipgloss"

// Dracula theme - Dark theme with vibrant colors
// https://draculatheme.com/
var Dracula = Theme{
	Name: "dracula",

	Background: lipgloss.Color("#282A36"),
	Foreground: lipgloss.Color("#F8F8F2"),
	Subtle:     lipgloss.Color("#6272A4"),
	Highlight:  lipgloss.Color("#44475A"),
	Border:     lipgloss.Color("#6272A4"),

	Primary:   lipgloss.Color("#BD93F9"), // Purple
	Secondary: lipgloss.Color("#FF79C6"), // Pink
	Info:      lipgloss.Color("#8BE9FD"), // Cyan

	Success: lipgloss.Color("#50FA7B"),
	Warning: lipgloss.Color("#F1FA8C"),
	Error:   lipgloss.Color("#FF5555"),

	PriorityLow:    lipgloss.Color("#50FA7B"),
	PriorityMedium: lipgloss.Color("#FFB86C"), // Orange
	PriorityHigh:   lipgloss.Color("#FF5555"),

	StatusTodo:       lipgloss.Color("#F8F8F2"),
	StatusInProgress: lipgloss.Color("#8BE9FD"),
	StatusDone:       lipgloss.Color("#50FA7B"),
}
