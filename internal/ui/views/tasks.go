package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/promanager/internal/model"
	"github.com/dori/promanager/internal/ui/theme"
)

// TasksMode represents the current input mode of the tasks view
type TasksMode int

const (
	TasksModeNormal TasksMode = iota
	TasksModeForm
	TasksModeConfirmDelete
)

// TaskFilter represents which tasks are shown
type TaskFilter int

const (
	FilterActive TaskFilter = iota // hide completed tasks
	FilterAll
)

func (f TaskFilter) String() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterAll:
		return "All"
	default:
		return "Unknown"
	}
}

type tasksLoadedMsg struct {
	tasks    []model.Task
	projects []model.Project
	now      time.Time
	err      error
}

// TasksView lists all tasks or the tasks of one project
type TasksView struct {
	deps   Deps
	styles theme.Styles
	width  int
	height int

	state    LoadState
	err      error
	now      time.Time
	project  *model.Project
	all      []model.Task
	visible  []model.Task
	projects []model.Project
	index    map[string]model.Project

	filter       TaskFilter
	cursor       int
	scrollOffset int

	mode TasksMode
	form TaskForm
}

// NewTasksView creates the tasks screen showing every task
func NewTasksView(deps Deps, styles theme.Styles) TasksView {
	return TasksView{
		deps:   deps,
		styles: styles,
		state:  StateLoading,
	}
}

// Init loads tasks and projects
func (v TasksView) Init() tea.Cmd {
	return v.load()
}

// State returns the load state
func (v TasksView) State() LoadState { return v.state }

// Mode returns the current input mode
func (v TasksView) Mode() TasksMode { return v.mode }

// Visible returns the tasks after filtering
func (v TasksView) Visible() []model.Task { return v.visible }

// Project returns the project being shown, or nil for all tasks
func (v TasksView) Project() *model.Project { return v.project }

// Form returns the open task form
func (v TasksView) Form() TaskForm { return v.form }

// IsInputMode returns true while the form or a confirmation is open
func (v TasksView) IsInputMode() bool { return v.mode != TasksModeNormal }

// SetProject scopes the view to project; nil shows every task
func (v TasksView) SetProject(p *model.Project) TasksView {
	v.project = p
	v.cursor = 0
	v.scrollOffset = 0
	v.mode = TasksModeNormal
	v.state = StateLoading
	v.all, v.visible = nil, nil
	return v
}

// SetSize updates the view dimensions
func (v TasksView) SetSize(width, height int) TasksView {
	v.width = width
	v.height = height
	return v
}

// SetStyles swaps the styles after a theme change
func (v TasksView) SetStyles(s theme.Styles) TasksView {
	v.styles = s
	v.form.styles = s
	return v
}

func (v TasksView) load() tea.Cmd {
	deps := v.deps
	var projectID string
	if v.project != nil {
		projectID = v.project.ID
	}
	return func() tea.Msg {
		ctx := context.Background()
		now := deps.now()

		projects, err := deps.API.GetProjects(ctx)
		if err != nil {
			return tasksLoadedMsg{err: err}
		}

		var tasks []model.Task
		if projectID != "" {
			tasks, err = deps.API.GetTasksByProject(ctx, projectID)
		} else {
			tasks, err = deps.API.GetTasks(ctx)
		}
		if err != nil {
			return tasksLoadedMsg{err: err}
		}
		return tasksLoadedMsg{tasks: tasks, projects: projects, now: now}
	}
}

func (v *TasksView) applyFilter() {
	v.visible = make([]model.Task, 0, len(v.all))
	for _, t := range v.all {
		if v.filter == FilterActive && t.Completed {
			continue
		}
		v.visible = append(v.visible, t)
	}
	v.cursor = clampCursor(v.cursor, len(v.visible))
	v.ensureCursorVisible()
}

// visibleTaskCount returns how many rows fit in the viewport
func (v TasksView) visibleTaskCount() int {
	available := v.height - 4
	if available < 1 {
		available = 1
	}
	return available
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *TasksView) ensureCursorVisible() {
	visible := v.visibleTaskCount()
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}
	maxOffset := max(0, len(v.visible)-visible)
	v.scrollOffset = min(max(0, v.scrollOffset), maxOffset)
}

func (v TasksView) selected() (model.Task, bool) {
	if len(v.visible) == 0 {
		return model.Task{}, false
	}
	return v.visible[v.cursor], true
}

// Update handles messages for the tasks view
func (v TasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.err != nil {
			v.state = StateFailed
			v.err = msg.err
			return v, nil
		}
		v.state = StateReady
		v.err = nil
		v.now = msg.now
		v.all = msg.tasks
		v.projects = msg.projects
		v.index = indexProjects(msg.projects)
		v.applyFilter()
		return v, nil

	case taskChangedMsg:
		if msg.err != nil {
			v.state = StateReady
			if v.mode == TasksModeForm {
				// Keep the form open so nothing typed is lost
				v.form = v.form.WithError(msg.err)
				return v, nil
			}
			return v, errorCmd(msg.err)
		}
		v.mode = TasksModeNormal
		return v, v.load()

	case taskDeletedMsg:
		if msg.err != nil {
			v.state = StateReady
			return v, errorCmd(msg.err)
		}
		return v, tea.Batch(v.load(), statusCmd("Task deleted"))

	case tea.KeyMsg:
		switch v.mode {
		case TasksModeForm:
			return v.handleFormMode(msg)
		case TasksModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	return v, nil
}

func (v TasksView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	api := v.deps.API

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.visible)-1 {
			v.cursor++
		}
	case "g":
		v.cursor = 0
	case "G":
		v.cursor = clampCursor(len(v.visible)-1, len(v.visible))
	case "pgup", "ctrl+u":
		v.cursor = clampCursor(v.cursor-max(1, v.visibleTaskCount()/2), len(v.visible))
	case "pgdown", "ctrl+d":
		v.cursor = clampCursor(v.cursor+max(1, v.visibleTaskCount()/2), len(v.visible))

	case "f":
		if v.filter == FilterActive {
			v.filter = FilterAll
		} else {
			v.filter = FilterActive
		}
		v.applyFilter()
		return v, statusCmd("Showing: %s", v.filter)

	case "r":
		v.state = StateLoading
		return v, v.load()

	case "esc":
		if v.project != nil {
			v = v.SetProject(nil)
			return v, v.load()
		}

	case "a":
		var projectID string
		if v.project != nil {
			projectID = v.project.ID
		}
		v.form = NewTaskForm(v.styles, v.projects, projectID)
		v.mode = TasksModeForm

	case "e", "enter":
		if t, ok := v.selected(); ok {
			v.form = EditTaskForm(v.styles, v.projects, t, v.deps.now())
			v.mode = TasksModeForm
		}

	case "tab", " ", "x":
		if t, ok := v.selected(); ok && v.state == StateReady {
			v.state = StateLoading
			return v, toggleTask(api, t)
		}

	case "p":
		if t, ok := v.selected(); ok && v.state == StateReady {
			next := t.Priority.Next()
			v.state = StateLoading
			return v, updateTask(api, model.UpdateTask{ID: t.ID, Priority: &next})
		}

	case "s":
		if t, ok := v.selected(); ok && v.state == StateReady {
			next := t.Status.Next()
			v.state = StateLoading
			return v, updateTask(api, model.UpdateTask{ID: t.ID, Status: &next})
		}

	case "d":
		if _, ok := v.selected(); ok {
			v.mode = TasksModeConfirmDelete
		}
	}

	v.ensureCursorVisible()
	return v, nil
}

func (v TasksView) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = TasksModeNormal
		return v, nil
	case "enter":
		now := v.deps.now()
		if v.form.IsEdit() {
			in, err := v.form.Edit(now)
			if err != nil {
				v.form = v.form.WithError(err)
				return v, nil
			}
			if in.IsEmpty() {
				v.mode = TasksModeNormal
				return v, statusCmd("No changes")
			}
			v.state = StateLoading
			return v, updateTask(v.deps.API, in)
		}
		in, err := v.form.Create(now)
		if err != nil {
			v.form = v.form.WithError(err)
			return v, nil
		}
		v.state = StateLoading
		return v, createTask(v.deps.API, in)
	}

	var cmd tea.Cmd
	v.form, cmd = v.form.Update(msg)
	return v, cmd
}

func (v TasksView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = TasksModeNormal
		if t, ok := v.selected(); ok {
			v.state = StateLoading
			return v, deleteTask(v.deps.API, t.ID)
		}
	case "n", "N", "esc":
		v.mode = TasksModeNormal
	}
	return v, nil
}

// Title returns the heading for the current scope
func (v TasksView) Title() string {
	if v.project != nil {
		return v.project.Name
	}
	return "All tasks"
}

// View renders the tasks view
func (v TasksView) View() string {
	s := v.styles

	switch {
	case v.state == StateFailed:
		return s.Error.Render("Failed to load tasks: "+v.err.Error()) + "\n\n" +
			hints(s, "r", "retry")
	case v.state == StateLoading && v.all == nil:
		return s.Label.Render("Loading tasks...")
	}

	if v.mode == TasksModeForm {
		return v.form.View()
	}

	var b strings.Builder
	header := s.PanelTitle.Render(v.Title()) +
		s.Label.Render(fmt.Sprintf("  %s · %d shown", v.filter, len(v.visible)))
	b.WriteString(header)
	b.WriteString("\n\n")

	if len(v.visible) == 0 {
		b.WriteString(s.Label.Render("No tasks. Press a to add one."))
		return b.String()
	}

	end := min(len(v.visible), v.scrollOffset+v.visibleTaskCount())
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(renderTask(s, v.visible[i], v.now, i == v.cursor, v.index))
		b.WriteString("\n")
	}

	if v.mode == TasksModeConfirmDelete {
		if t, ok := v.selected(); ok {
			b.WriteString("\n")
			b.WriteString(s.Error.Render(fmt.Sprintf("Delete %q? (y/n)", t.Title)))
		}
	}
	return b.String()
}

// Hints returns the footer key hints for the tasks view
func (v TasksView) Hints() []string {
	s := v.styles
	switch v.mode {
	case TasksModeForm:
		return []string{hints(s, "enter", "save", "tab", "next field", "space/←→", "cycle", "esc", "cancel")}
	case TasksModeConfirmDelete:
		return []string{hints(s, "y", "delete", "n", "keep")}
	}
	line2 := hints(s, "f", "filter", "r", "refresh", "1-3", "screens", "?", "help")
	if v.project != nil {
		line2 = hints(s, "esc", "all tasks") + s.HelpSeparator.Render(" │ ") + line2
	}
	return []string{
		hints(s, "a", "add", "enter", "edit", "tab", "done", "p", "priority", "s", "status", "d", "del"),
		line2,
	}
}
