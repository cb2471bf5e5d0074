package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dori/promanager/internal/model"
)

// Theme defines the color scheme for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Priority colors
	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color

	// Status colors
	StatusTodo       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color
}

// PriorityColor returns the color for a task priority
func (t Theme) PriorityColor(p model.Priority) lipgloss.Color {
	switch p {
	case model.PriorityHigh:
		return t.PriorityHigh
	case model.PriorityMedium:
		return t.PriorityMedium
	default:
		return t.PriorityLow
	}
}

// StatusColor returns the color for a task status
func (t Theme) StatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusInProgress:
		return t.StatusInProgress
	case model.StatusDone:
		return t.StatusDone
	default:
		return t.StatusTodo
	}
}

// Styles holds pre-computed lipgloss styles based on a theme. Each screen
// receives its own copy; there is no package-level active theme.
type Styles struct {
	Theme Theme

	// Base styles
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style

	// Task styles
	TaskNormal   lipgloss.Style
	TaskSelected lipgloss.Style
	TaskDone     lipgloss.Style
	TaskOverdue  lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	DueDate  lipgloss.Style
	Priority lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Placeholder  lipgloss.Style

	// Panel styles
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	StatValue  lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		App: lipgloss.NewStyle().
			Foreground(t.Foreground),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		TaskSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true).
			Padding(0, 1),

		TaskOverdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Priority: lipgloss.NewStyle().
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(t.Success),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Placeholder: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatValue: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),

		StatusBar: lipgloss.NewStyle().
			Background(t.Highlight).
			Foreground(t.Foreground).
			Padding(0, 1),

		StatusKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatusValue: lipgloss.NewStyle().
			Foreground(t.Foreground),
	}
}

// PriorityBadge renders a priority in its color
func (s Styles) PriorityBadge(p model.Priority) string {
	return s.Priority.Foreground(s.Theme.PriorityColor(p)).Render(p.Label())
}

// StatusBadge renders a status in its color
func (s Styles) StatusBadge(st model.Status) string {
	return lipgloss.NewStyle().Foreground(s.Theme.StatusColor(st)).Render(st.Label())
}

// Swatch renders a colored dot for a project color
func (s Styles) Swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, error) {
	for _, t := range Available() {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}

// Next returns the theme after t in Available, wrapping around
func Next(t Theme) Theme {
	themes := Available()
	for i, candidate := range themes {
		if candidate.Name == t.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
