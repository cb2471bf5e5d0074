// Package views holds one view-model per screen. Each model owns its state
// and talks to the backend only through the gateway it is given.
package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/dori/promanager/internal/agenda"
	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/model"
	"github.com/dori/promanager/internal/notify"
	"github.com/dori/promanager/internal/ui/theme"
)

// Deps are the collaborators a screen needs
type Deps struct {
	API      gateway.API
	Clock    agenda.Clock
	Policy   agenda.Policy
	Notifier *notify.Notifier // optional
	Log      zerolog.Logger
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

// LoadState tracks a screen's data lifecycle
type LoadState int

const (
	StateLoading LoadState = iota
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Messages shared with the root model

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// OpenProjectMsg asks the root to show a single project's tasks
type OpenProjectMsg struct {
	Project model.Project
}

// Mutation results

type taskChangedMsg struct {
	task model.Task
	err  error
}

type taskDeletedMsg struct {
	id  string
	err error
}

type projectChangedMsg struct {
	project model.Project
	err     error
}

type projectDeletedMsg struct {
	id  string
	err error
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

func statusCmd(format string, args ...any) tea.Cmd {
	msg := fmt.Sprintf(format, args...)
	return func() tea.Msg {
		return StatusMsg{Message: msg}
	}
}

func createTask(api gateway.API, in model.CreateTask) tea.Cmd {
	return func() tea.Msg {
		task, err := api.CreateTask(context.Background(), in)
		return taskChangedMsg{task: task, err: err}
	}
}

func updateTask(api gateway.API, in model.UpdateTask) tea.Cmd {
	return func() tea.Msg {
		task, err := api.UpdateTask(context.Background(), in)
		return taskChangedMsg{task: task, err: err}
	}
}

func toggleTask(api gateway.API, t model.Task) tea.Cmd {
	return func() tea.Msg {
		task, err := api.MarkTaskComplete(context.Background(), t.ID, !t.Completed)
		return taskChangedMsg{task: task, err: err}
	}
}

func deleteTask(api gateway.API, id string) tea.Cmd {
	return func() tea.Msg {
		err := api.DeleteTask(context.Background(), id)
		return taskDeletedMsg{id: id, err: err}
	}
}

// quickAdd parses a quick-add line and creates the task, resolving a
// #project marker by name first.
func quickAdd(api gateway.API, text string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		q, err := agenda.ParseQuickAdd(text, now)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		if q.Project != "" {
			p, err := gateway.FindProject(ctx, api, q.Project)
			if err != nil {
				return taskChangedMsg{err: err}
			}
			q.Task.ProjectID = &p.ID
		}
		task, err := api.CreateTask(ctx, q.Task)
		return taskChangedMsg{task: task, err: err}
	}
}

// clampCursor keeps cursor inside [0, n)
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func priorityMark(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!"
	case model.PriorityMedium:
		return "-"
	default:
		return "."
	}
}

// dueColor picks the due-date color: overdue, today, tomorrow, later
func dueColor(t theme.Theme, task *model.Task, now time.Time) lipgloss.Color {
	switch {
	case agenda.IsOverdue(task, now):
		return t.Error
	case agenda.IsToday(task, now):
		return t.Warning
	case agenda.IsTomorrow(task, now):
		return t.Info
	}
	return t.Subtle
}

// renderTask renders one task row: checkbox, priority mark, title and
// metadata. Overdue and today coloring uses the same rules as the stats.
func renderTask(s theme.Styles, task model.Task, now time.Time, isCursor bool, projects map[string]model.Project) string {
	t := s.Theme

	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}
	priority := lipgloss.NewStyle().
		Foreground(t.PriorityColor(task.Priority)).
		Render(priorityMark(task.Priority))

	overdue := agenda.IsOverdue(&task, now)
	titleStyle := s.TaskNormal
	switch {
	case task.Completed:
		titleStyle = s.TaskDone
	case overdue:
		titleStyle = s.TaskOverdue
	}
	if isCursor {
		titleStyle = titleStyle.Background(t.Highlight)
	}

	var meta []string
	if task.Status == model.StatusInProgress {
		meta = append(meta, s.StatusBadge(task.Status))
	}
	if task.ProjectID != nil {
		if p, ok := projects[*task.ProjectID]; ok {
			meta = append(meta, lipgloss.NewStyle().
				Foreground(lipgloss.Color(p.Color)).
				Render("["+p.Name+"]"))
		}
	}
	if task.DueDate != nil {
		dueStyle := lipgloss.NewStyle().Foreground(dueColor(t, &task, now))
		meta = append(meta, dueStyle.Render(agenda.FormatDue(*task.DueDate, now)))
	}

	cursor := " "
	if isCursor {
		cursor = ">"
	}
	line := fmt.Sprintf("%s%s %s %s", cursor, checkbox, priority, titleStyle.Render(task.Title))
	if len(meta) > 0 {
		line += " " + strings.Join(meta, " ")
	}
	return line
}

func indexProjects(projects []model.Project) map[string]model.Project {
	out := make(map[string]model.Project, len(projects))
	for _, p := range projects {
		out[p.ID] = p
	}
	return out
}

// hints renders "key desc │ key desc" lines the way the footer does
func hints(s theme.Styles, pairs ...string) string {
	sep := s.HelpSeparator.Render(" │ ")
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+s.HelpDesc.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, sep)
}
