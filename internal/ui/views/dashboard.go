package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/model"
	"github.com/dori/promanager/internal/ui/theme"
)

// dashboardPreview is how many projects and upcoming tasks are listed
const dashboardPreview = 5

type dashboardLoadedMsg struct {
	data gateway.Dashboard
	now  time.Time
	err  error
}

// DashboardView shows the stats cards, today's tasks and a preview of
// projects and upcoming work.
type DashboardView struct {
	deps   Deps
	styles theme.Styles
	width  int
	height int

	state    LoadState
	err      error
	now      time.Time
	data     gateway.Dashboard
	projects map[string]model.Project

	cursor int
	adding bool
	input  textinput.Model
}

// NewDashboardView creates a dashboard in the loading state
func NewDashboardView(deps Deps, styles theme.Styles) DashboardView {
	ti := textinput.New()
	ti.Placeholder = "Write report !high due:tomorrow #work"
	ti.CharLimit = 256

	return DashboardView{
		deps:   deps,
		styles: styles,
		state:  StateLoading,
		input:  ti,
	}
}

// Init loads the dashboard
func (v DashboardView) Init() tea.Cmd {
	return v.load()
}

// State returns the load state
func (v DashboardView) State() LoadState { return v.state }

// Data returns the last successfully loaded dashboard
func (v DashboardView) Data() gateway.Dashboard { return v.data }

// IsInputMode returns true while the quick-add line is open
func (v DashboardView) IsInputMode() bool { return v.adding }

// SetSize updates the view dimensions
func (v DashboardView) SetSize(width, height int) DashboardView {
	v.width = width
	v.height = height
	v.input.Width = width - 4
	return v
}

// SetStyles swaps the styles after a theme change
func (v DashboardView) SetStyles(s theme.Styles) DashboardView {
	v.styles = s
	return v
}

func (v DashboardView) load() tea.Cmd {
	deps := v.deps
	return func() tea.Msg {
		now := deps.now()
		data, err := gateway.LoadDashboard(context.Background(), deps.API)
		if err == nil && deps.Notifier != nil {
			if _, nerr := deps.Notifier.SendOverdueReminder(data.Stats.OverdueTasks); nerr != nil {
				deps.Log.Warn().Err(nerr).Msg("overdue reminder failed")
			}
			if _, nerr := deps.Notifier.SendDueToday(openCount(data.Today)); nerr != nil {
				deps.Log.Warn().Err(nerr).Msg("due today reminder failed")
			}
		}
		return dashboardLoadedMsg{data: data, now: now, err: err}
	}
}

func openCount(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Update handles messages for the dashboard
func (v DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.err != nil {
			v.state = StateFailed
			v.err = msg.err
			return v, nil
		}
		v.state = StateReady
		v.err = nil
		v.data = msg.data
		v.now = msg.now
		v.projects = indexProjects(msg.data.Projects)
		v.cursor = clampCursor(v.cursor, len(v.data.Today))
		return v, nil

	case taskChangedMsg:
		if msg.err != nil {
			// Keep the previous snapshot
			v.state = StateReady
			return v, errorCmd(msg.err)
		}
		return v, v.load()

	case taskDeletedMsg:
		if msg.err != nil {
			v.state = StateReady
			return v, errorCmd(msg.err)
		}
		return v, v.load()

	case tea.KeyMsg:
		if v.adding {
			return v.handleAddMode(msg)
		}
		return v.handleNormalMode(msg)
	}

	if v.adding {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v DashboardView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.data.Today)-1 {
			v.cursor++
		}
	case "r":
		v.state = StateLoading
		return v, v.load()
	case "a":
		v.adding = true
		v.input.SetValue("")
		v.input.Focus()
	case "tab", " ", "x":
		if v.state != StateReady || len(v.data.Today) == 0 {
			return v, nil
		}
		v.state = StateLoading
		return v, toggleTask(v.deps.API, v.data.Today[v.cursor])
	}
	return v, nil
}

func (v DashboardView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.adding = false
		v.input.Blur()
		return v, nil
	case "enter":
		text := strings.TrimSpace(v.input.Value())
		v.adding = false
		v.input.Blur()
		if text == "" {
			return v, nil
		}
		v.state = StateLoading
		return v, quickAdd(v.deps.API, text, v.deps.now())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the dashboard
func (v DashboardView) View() string {
	s := v.styles

	if v.state == StateFailed {
		return s.Error.Render("Failed to load dashboard: "+v.err.Error()) + "\n\n" +
			hints(s, "r", "retry")
	}
	if v.state == StateLoading && v.now.IsZero() {
		return s.Label.Render("Loading dashboard...")
	}

	var sections []string
	if v.adding {
		sections = append(sections, s.InputFocused.Render(v.input.View()), "")
	}

	sections = append(sections, v.renderCards(), "")

	title := "Today"
	if v.state == StateLoading {
		title += s.Label.Render(" (refreshing)")
	}
	sections = append(sections, s.PanelTitle.Render(title))
	if len(v.data.Today) == 0 {
		sections = append(sections, s.Label.Render("  Nothing due today"))
	}
	for i, task := range v.data.Today {
		sections = append(sections, renderTask(s, task, v.now, i == v.cursor, v.projects))
	}
	sections = append(sections, "")

	projects := v.renderProjects()
	upcoming := v.renderUpcoming()
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, projects, "  ", upcoming))

	return strings.Join(sections, "\n")
}

// renderCards renders the stat counters side by side
func (v DashboardView) renderCards() string {
	s := v.styles
	t := s.Theme

	cardStyle := s.Panel.Width(14)
	card := func(value int, label string, color lipgloss.Color) string {
		return cardStyle.Render(
			s.StatValue.Foreground(color).Render(fmt.Sprintf("%d", value)) + "\n" +
				s.Label.Render(label),
		)
	}

	stats := v.data.Stats
	overdueColor := t.Foreground
	if stats.OverdueTasks > 0 {
		overdueColor = t.Error
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card(stats.TotalTasks, "Total", t.Primary),
		card(stats.CompletedTasks, "Completed", t.Success),
		card(stats.PendingTasks, "Pending", t.Info),
		card(stats.TodayTasks, "Today", t.Warning),
		card(stats.OverdueTasks, "Overdue", overdueColor),
	)
}

func (v DashboardView) renderProjects() string {
	s := v.styles
	lines := []string{s.PanelTitle.Render("Projects")}
	if len(v.data.Projects) == 0 {
		lines = append(lines, s.Label.Render("No projects yet"))
	}
	for i, p := range v.data.Projects {
		if i == dashboardPreview {
			lines = append(lines, s.Label.Render(fmt.Sprintf("+%d more", len(v.data.Projects)-dashboardPreview)))
			break
		}
		lines = append(lines, s.Swatch(p.Color)+" "+p.Name)
	}
	return s.Panel.Width(30).Render(strings.Join(lines, "\n"))
}

func (v DashboardView) renderUpcoming() string {
	s := v.styles
	lines := []string{s.PanelTitle.Render("Upcoming")}
	if len(v.data.Upcoming) == 0 {
		lines = append(lines, s.Label.Render("Nothing scheduled"))
	}
	for i, task := range v.data.Upcoming {
		if i == dashboardPreview {
			lines = append(lines, s.Label.Render(fmt.Sprintf("+%d more", len(v.data.Upcoming)-dashboardPreview)))
			break
		}
		lines = append(lines, renderTask(s, task, v.now, false, v.projects))
	}
	return s.Panel.Render(strings.Join(lines, "\n"))
}

// Hints returns the footer key hints for the dashboard
func (v DashboardView) Hints() []string {
	s := v.styles
	if v.adding {
		return []string{hints(s, "enter", "add", "esc", "cancel", "!high due:date #project", "markers")}
	}
	return []string{
		hints(s, "a", "quick add", "tab", "toggle done", "j/k", "navigate", "r", "refresh"),
		hints(s, "1-3", "screens", "C-t", "theme", "?", "help"),
	}
}
