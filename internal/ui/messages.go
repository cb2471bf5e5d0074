package ui

// Screen represents the active screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenProjects
	ScreenTasks
)

// String returns the display name for a screen
func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenProjects:
		return "Projects"
	case ScreenTasks:
		return "Tasks"
	default:
		return "Unknown"
	}
}

// ParseScreen maps a --screen flag value to a Screen
func ParseScreen(name string) (Screen, bool) {
	switch name {
	case "", "dashboard":
		return ScreenDashboard, true
	case "projects":
		return ScreenProjects, true
	case "tasks":
		return ScreenTasks, true
	}
	return ScreenDashboard, false
}

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
