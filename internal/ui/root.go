package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/promanager/internal/ui/theme"
	"github.com/dori/promanager/internal/ui/views"
)

// RootModel is the main application model that manages screens
type RootModel struct {
	keys   KeyMap
	help   help.Model
	theme  theme.Theme
	styles theme.Styles
	width  int
	height int

	current     Screen
	dashboard   views.DashboardView
	projects    views.ProjectsView
	tasks       views.TasksView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model starting on screen
func NewRootModel(deps views.Deps, t theme.Theme, screen Screen) RootModel {
	h := help.New()
	h.ShowAll = true
	styles := theme.NewStyles(t)

	return RootModel{
		keys:      DefaultKeyMap(),
		help:      h,
		theme:     t,
		styles:    styles,
		current:   screen,
		dashboard: views.NewDashboardView(deps, styles),
		projects:  views.NewProjectsView(deps, styles),
		tasks:     views.NewTasksView(deps, styles),
	}
}

// Screen returns the active screen
func (m RootModel) Screen() Screen { return m.current }

// Theme returns the active theme
func (m RootModel) Theme() theme.Theme { return m.theme }

// Init loads the starting screen
func (m RootModel) Init() tea.Cmd {
	return m.initScreen()
}

func (m RootModel) initScreen() tea.Cmd {
	switch m.current {
	case ScreenProjects:
		return m.projects.Init()
	case ScreenTasks:
		return m.tasks.Init()
	default:
		return m.dashboard.Init()
	}
}

func (m RootModel) isInputMode() bool {
	switch m.current {
	case ScreenDashboard:
		return m.dashboard.IsInputMode()
	case ScreenProjects:
		return m.projects.IsInputMode()
	case ScreenTasks:
		return m.tasks.IsInputMode()
	}
	return false
}

// switchTo changes screen and reloads it
func (m RootModel) switchTo(s Screen) (RootModel, tea.Cmd) {
	m.current = s
	m.helpVisible = false
	return m, m.initScreen()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (1 line) and footer (3 lines)
		contentHeight := m.height - 4
		m.dashboard = m.dashboard.SetSize(m.width, contentHeight)
		m.projects = m.projects.SetSize(m.width, contentHeight)
		m.tasks = m.tasks.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			return m.cycleTheme()
		}

		if isInputMode {
			break
		}

		if m.helpVisible {
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.helpVisible = false
				return m, nil
			}
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			return m, nil
		case key.Matches(msg, m.keys.Dashboard):
			return m.switchTo(ScreenDashboard)
		case key.Matches(msg, m.keys.Projects):
			return m.switchTo(ScreenProjects)
		case key.Matches(msg, m.keys.Tasks):
			m.tasks = m.tasks.SetProject(nil)
			return m.switchTo(ScreenTasks)
		}

	case SwitchScreenMsg:
		return m.switchTo(msg.Screen)

	case views.OpenProjectMsg:
		p := msg.Project
		m.tasks = m.tasks.SetProject(&p)
		return m.switchTo(ScreenTasks)

	case views.ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case views.StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	var next tea.Model
	switch m.current {
	case ScreenDashboard:
		next, cmd = m.dashboard.Update(msg)
		m.dashboard = next.(views.DashboardView)
	case ScreenProjects:
		next, cmd = m.projects.Update(msg)
		m.projects = next.(views.ProjectsView)
	case ScreenTasks:
		next, cmd = m.tasks.Update(msg)
		m.tasks = next.(views.TasksView)
	}
	return m, cmd
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	// Reserve: 1 line for header + 3 lines for footer
	contentHeight := m.height - 4
	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.current {
		case ScreenDashboard:
			content = m.dashboard.View()
		case ScreenProjects:
			content = m.projects.View()
		case ScreenTasks:
			content = m.tasks.View()
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := m.styles
	t := m.theme

	title := styles.Header.Render("promanager")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)

	label := m.current.String()
	if m.current == ScreenTasks {
		label = m.tasks.Title()
	}
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", label))
	themeIndicator := viewStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	gap := max(0, m.width-lipgloss.Width(leftSide)-lipgloss.Width(themeIndicator))

	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderFooter renders the status line and the screen's key hints
func (m RootModel) renderFooter() string {
	t := m.theme

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	if m.helpVisible {
		lines = append(lines, m.styles.HelpDesc.Render("Press ? or esc to close"))
		return strings.Join(lines, "\n")
	}

	switch m.current {
	case ScreenDashboard:
		lines = append(lines, m.dashboard.Hints()...)
	case ScreenProjects:
		lines = append(lines, m.projects.Hints()...)
	case ScreenTasks:
		lines = append(lines, m.tasks.Hints()...)
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := m.theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("promanager help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	sections := []struct {
		title string
		keys  [][]string
	}{
		{"Lists", [][]string{
			{"↑/k ↓/j", "Navigate up/down"},
			{"g / G", "Go to top/bottom"},
			{"r", "Reload from the backend"},
		}},
		{"Tasks", [][]string{
			{"a", "Add task (dashboard: quick add)"},
			{"enter / e", "Edit task"},
			{"tab", "Toggle completed"},
			{"p / s", "Cycle priority / status"},
			{"f", "Active or all tasks"},
			{"d", "Delete task"},
		}},
		{"Projects", [][]string{
			{"a", "Add project"},
			{"e", "Rename project"},
			{"enter", "Show the project's tasks"},
			{"d", "Delete project and its tasks"},
		}},
		{"Quick add", [][]string{
			{"!high", "Priority (!low, !medium, !high)"},
			{"due:<date>", "today, tomorrow, friday, 2025-01-15"},
			{"#name", "Put the task in a project"},
		}},
	}
	for _, sec := range sections {
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, kv := range sec.keys {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// cycleTheme switches to the next theme and restyles every screen
func (m RootModel) cycleTheme() (RootModel, tea.Cmd) {
	m.theme = theme.Next(m.theme)
	m.styles = theme.NewStyles(m.theme)
	m.dashboard = m.dashboard.SetStyles(m.styles)
	m.projects = m.projects.SetStyles(m.styles)
	m.tasks = m.tasks.SetStyles(m.styles)

	name := m.theme.Name
	return m, func() tea.Msg { return ThemeChangedMsg{ThemeName: name} }
}
