package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/promanager/internal/agenda"
	"github.com/dori/promanager/internal/model"
	"github.com/dori/promanager/internal/ui/theme"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldProject
	fieldStatus
	fieldPriority
	fieldDue
	fieldCount
)

// TaskForm edits every task field. Enum fields cycle in place; the due text
// is parsed when the form is submitted.
type TaskForm struct {
	styles  theme.Styles
	editing *model.Task

	title textinput.Model
	desc  textinput.Model
	due   textinput.Model

	projects   []model.Project
	projectIdx int // -1 means no project
	status     model.Status
	priority   model.Priority

	// dueText is the due field as the form was opened
	dueText string

	focus int
	err   string
}

func newTaskForm(styles theme.Styles, projects []model.Project) TaskForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 1024

	due := textinput.New()
	due.Placeholder = "today, tomorrow, friday, 2025-01-15"
	due.CharLimit = 64

	f := TaskForm{
		styles:     styles,
		title:      title,
		desc:       desc,
		due:        due,
		projects:   projects,
		projectIdx: -1,
		status:     model.StatusTodo,
		priority:   model.PriorityMedium,
	}
	f.focusField(fieldTitle)
	return f
}

// NewTaskForm creates an empty form, preselecting projectID when set
func NewTaskForm(styles theme.Styles, projects []model.Project, projectID string) TaskForm {
	f := newTaskForm(styles, projects)
	f.projectIdx = f.indexOf(projectID)
	return f
}

// EditTaskForm creates a form filled from task. The due date is shown as a
// calendar date in now's location.
func EditTaskForm(styles theme.Styles, projects []model.Project, task model.Task, now time.Time) TaskForm {
	f := newTaskForm(styles, projects)
	f.editing = &task
	f.title.SetValue(task.Title)
	if task.Description != nil {
		f.desc.SetValue(*task.Description)
	}
	if task.ProjectID != nil {
		f.projectIdx = f.indexOf(*task.ProjectID)
	}
	f.status = task.Status
	f.priority = task.Priority
	if task.DueDate != nil {
		f.dueText = task.DueDate.In(now.Location()).Format("2006-01-02")
		f.due.SetValue(f.dueText)
	}
	return f
}

// IsEdit returns true if the form edits an existing task
func (f TaskForm) IsEdit() bool { return f.editing != nil }

// Err returns the inline validation message
func (f TaskForm) Err() string { return f.err }

func (f TaskForm) indexOf(projectID string) int {
	for i, p := range f.projects {
		if p.ID == projectID {
			return i
		}
	}
	return -1
}

func (f *TaskForm) focusField(field int) {
	f.focus = field
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	case fieldDue:
		f.due.Focus()
	}
}

// Update handles a key press inside the form
func (f TaskForm) Update(msg tea.KeyMsg) (TaskForm, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.focusField((f.focus + 1) % fieldCount)
		return f, nil
	case "shift+tab", "up":
		f.focusField((f.focus + fieldCount - 1) % fieldCount)
		return f, nil
	}

	switch f.focus {
	case fieldProject, fieldStatus, fieldPriority:
		switch msg.String() {
		case " ", "right", "l":
			f.cycle(1)
		case "left", "h":
			f.cycle(-1)
		}
		return f, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
	}
	return f, cmd
}

func (f *TaskForm) cycle(step int) {
	switch f.focus {
	case fieldProject:
		// -1 (none) is part of the cycle
		n := len(f.projects) + 1
		f.projectIdx = (f.projectIdx+1+step+n)%n - 1
	case fieldStatus:
		f.status = cycleValue(model.Statuses(), f.status, step)
	case fieldPriority:
		f.priority = cycleValue(model.Priorities(), f.priority, step)
	}
}

func cycleValue[T comparable](values []T, current T, step int) T {
	for i, v := range values {
		if v == current {
			return values[(i+step+len(values))%len(values)]
		}
	}
	return values[0]
}

func (f TaskForm) projectID() *string {
	if f.projectIdx < 0 || f.projectIdx >= len(f.projects) {
		return nil
	}
	id := f.projects[f.projectIdx].ID
	return &id
}

func (f TaskForm) parseDue(now time.Time) (*time.Time, error) {
	text := strings.TrimSpace(f.due.Value())
	if text == "" {
		return nil, nil
	}
	due, err := agenda.ParseDue(text, now)
	if err != nil {
		return nil, fmt.Errorf("%w: due %v", model.ErrInvalidInput, err)
	}
	return &due, nil
}

// Create builds a validated CreateTask from the form
func (f TaskForm) Create(now time.Time) (model.CreateTask, error) {
	due, err := f.parseDue(now)
	if err != nil {
		return model.CreateTask{}, err
	}
	in := model.CreateTask{
		Title:     strings.TrimSpace(f.title.Value()),
		ProjectID: f.projectID(),
		Status:    f.status,
		Priority:  f.priority,
		DueDate:   due,
	}
	if d := strings.TrimSpace(f.desc.Value()); d != "" {
		in.Description = &d
	}
	return in, in.Validate()
}

// Edit builds a validated UpdateTask holding only the fields that differ
// from the task being edited. Blank or untouched due text and no project
// leave the stored values alone, so the stored due instant is kept.
func (f TaskForm) Edit(now time.Time) (model.UpdateTask, error) {
	if f.editing == nil {
		return model.UpdateTask{}, fmt.Errorf("%w: form is not editing a task", model.ErrInvalidInput)
	}
	old := f.editing
	in := model.UpdateTask{ID: old.ID}

	if text := strings.TrimSpace(f.due.Value()); text != f.dueText {
		due, err := f.parseDue(now)
		if err != nil {
			return model.UpdateTask{}, err
		}
		in.DueDate = due
	}
	if title := strings.TrimSpace(f.title.Value()); title != old.Title {
		in.Title = &title
	}
	var oldDesc string
	if old.Description != nil {
		oldDesc = *old.Description
	}
	if desc := strings.TrimSpace(f.desc.Value()); desc != oldDesc {
		in.Description = &desc
	}
	if id := f.projectID(); id != nil && (old.ProjectID == nil || *id != *old.ProjectID) {
		in.ProjectID = id
	}
	if f.status != old.Status {
		status := f.status
		in.Status = &status
	}
	if f.priority != old.Priority {
		priority := f.priority
		in.Priority = &priority
	}
	return in, in.Validate()
}

// WithError returns the form showing err inline
func (f TaskForm) WithError(err error) TaskForm {
	f.err = fieldMessage(err)
	return f
}

// View renders the form
func (f TaskForm) View() string {
	s := f.styles

	title := "New task"
	if f.IsEdit() {
		title = "Edit task"
	}
	lines := []string{s.PanelTitle.Render(title)}

	input := func(field int, m textinput.Model) string {
		if f.focus == field {
			return s.InputFocused.Render(m.View())
		}
		return s.Input.Render(m.View())
	}
	choice := func(field int, label, value string) string {
		marker := "  "
		if f.focus == field {
			marker = s.HelpKey.Render("> ")
		}
		return marker + s.Label.Render(fmt.Sprintf("%-9s", label)) + " < " + value + " >"
	}

	project := "None"
	if id := f.projectID(); id != nil {
		p := f.projects[f.projectIdx]
		project = s.Swatch(p.Color) + " " + p.Name
	}

	lines = append(lines,
		input(fieldTitle, f.title),
		input(fieldDescription, f.desc),
		choice(fieldProject, "Project", project),
		choice(fieldStatus, "Status", s.StatusBadge(f.status)),
		choice(fieldPriority, "Priority", s.PriorityBadge(f.priority)),
		input(fieldDue, f.due),
	)
	if f.err != "" {
		lines = append(lines, s.Error.Render(f.err))
	}
	return s.Panel.Render(strings.Join(lines, "\n"))
}
