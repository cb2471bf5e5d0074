package views

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/gateway/gatewaytest"
	"github.com/dori/promanager/internal/model"
)

func seededTasks(t *testing.T) (*gatewaytest.Fake, model.Project, TasksView) {
	t.Helper()
	fake := gatewaytest.New(at(12, 10))
	work := fake.AddProject(model.Project{Name: "Work", Color: "#3B82F6"})
	fake.AddTask(model.Task{Title: "archived", Completed: true})
	fake.AddTask(model.Task{Title: "late", DueDate: ptr(at(10, 9)), ProjectID: &work.ID})
	fake.AddTask(model.Task{Title: "fresh", Priority: model.PriorityLow})

	v := NewTasksView(newDeps(fake), testStyles()).SetSize(80, 30)
	m, _ := settle(t, v, v.Init())
	return fake, work, m.(TasksView)
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestTasksFilter(t *testing.T) {
	_, _, v := seededTasks(t)

	assert.Equal(t, []string{"fresh", "late"}, titles(v.Visible()), "active tasks by default")

	m, msgs := press(t, v, "f")
	assert.Equal(t, []string{"fresh", "late", "archived"}, titles(m.(TasksView).Visible()))
	assert.Contains(t, msgs, StatusMsg{Message: "Showing: All"})
}

func TestTasksOverdueHighlightedInView(t *testing.T) {
	_, _, v := seededTasks(t)
	out := v.View()
	assert.Contains(t, out, "late")
	assert.Contains(t, out, "Mar 10, 2025")
	assert.Contains(t, out, "[Work]")
}

func TestTasksScopedToProject(t *testing.T) {
	fake, work, v := seededTasks(t)
	fake.Reset()

	v = v.SetProject(&work)
	m, _ := settle(t, v, v.Init())
	v = m.(TasksView)

	assert.Equal(t, 1, fake.Count(gateway.OpGetTasksByProject))
	assert.Zero(t, fake.Count(gateway.OpGetTasks))
	assert.Equal(t, []string{"late"}, titles(v.Visible()))
	assert.Equal(t, "Work", v.Title())

	m, _ = press(t, v, "esc")
	v = m.(TasksView)
	assert.Nil(t, v.Project())
	assert.Len(t, v.Visible(), 2)
}

func TestTasksCycleAndToggle(t *testing.T) {
	fake, _, v := seededTasks(t)

	m, _ := press(t, v, "p")
	m, _ = press(t, m, "s")
	v = m.(TasksView)
	fresh := v.Visible()[0]
	assert.Equal(t, model.PriorityMedium, fresh.Priority)
	assert.Equal(t, model.StatusInProgress, fresh.Status)

	m, _ = press(t, v, "tab")
	v = m.(TasksView)
	assert.Equal(t, []string{"late"}, titles(v.Visible()), "completed task leaves the active filter")
	assert.Equal(t, 1, fake.Count(gateway.OpMarkTaskComplete))
}

func TestTasksAddThroughForm(t *testing.T) {
	_, work, v := seededTasks(t)

	m, _ := press(t, v, "a")
	require.Equal(t, TasksModeForm, m.(TasksView).Mode())
	m = typeText(m, "plan sprint")
	m, _ = press(t, m, "tab") // description
	m, _ = press(t, m, "tab") // project
	m, _ = press(t, m, " ")
	m, _ = press(t, m, "tab") // status
	m, _ = press(t, m, "tab") // priority
	m, _ = press(t, m, " ")
	m, _ = press(t, m, "tab") // due
	m = typeText(m, "tomorrow")
	m, msgs := press(t, m, "enter")
	v = m.(TasksView)

	assert.Empty(t, errorsIn(msgs))
	assert.Equal(t, TasksModeNormal, v.Mode())
	created := v.Visible()[0]
	assert.Equal(t, "plan sprint", created.Title)
	assert.Equal(t, model.PriorityHigh, created.Priority)
	require.NotNil(t, created.ProjectID)
	assert.Equal(t, work.ID, *created.ProjectID)
	require.NotNil(t, created.DueDate)
	assert.True(t, at(13, 0).Equal(*created.DueDate))
}

func TestTasksFormValidation(t *testing.T) {
	fake, _, v := seededTasks(t)

	m, _ := press(t, v, "a")
	m, _ = press(t, m, "enter")
	assert.Equal(t, "title is required", m.(TasksView).Form().Err())

	m = typeText(m, "x")
	m, _ = press(t, m, "shift+tab") // wraps to due
	m = typeText(m, "someday")
	m, _ = press(t, m, "enter")
	v = m.(TasksView)

	assert.Equal(t, TasksModeForm, v.Mode())
	assert.Contains(t, v.Form().Err(), "unrecognized due date")
	assert.Zero(t, fake.Count(gateway.OpCreateTask))
}

func TestTasksFormBackendFailureKeepsForm(t *testing.T) {
	fake, _, v := seededTasks(t)
	fake.FailOn(gateway.OpCreateTask, model.NotFound("project", "p9"))

	m, _ := press(t, v, "a")
	m = typeText(m, "orphan")
	m, msgs := press(t, m, "enter")
	v = m.(TasksView)

	assert.Empty(t, errorsIn(msgs))
	assert.Equal(t, TasksModeForm, v.Mode())
	assert.Contains(t, v.Form().Err(), "not found")
}

func TestTasksEdit(t *testing.T) {
	_, _, v := seededTasks(t)

	m, _ := press(t, v, "enter")
	require.True(t, m.(TasksView).Form().IsEdit())
	m, _ = press(t, m, "ctrl+u")
	m = typeText(m, "fresher")
	m, _ = press(t, m, "enter")

	assert.Equal(t, "fresher", m.(TasksView).Visible()[0].Title)
}

func TestTasksEditWithoutChangesSkipsUpdate(t *testing.T) {
	fake, _, v := seededTasks(t)
	fake.Reset()

	m, _ := press(t, v, "e")
	m, msgs := press(t, m, "enter")

	assert.Equal(t, TasksModeNormal, m.(TasksView).Mode())
	assert.Contains(t, msgs, StatusMsg{Message: "No changes"})
	assert.Zero(t, fake.Count(gateway.OpUpdateTask))
}

func TestTasksDelete(t *testing.T) {
	fake, _, v := seededTasks(t)

	m, _ := press(t, v, "d")
	require.Equal(t, TasksModeConfirmDelete, m.(TasksView).Mode())
	assert.Contains(t, m.View(), `Delete "fresh"?`)
	m, msgs := press(t, m, "y")

	assert.Contains(t, msgs, StatusMsg{Message: "Task deleted"})
	assert.Equal(t, []string{"late"}, titles(m.(TasksView).Visible()))
	assert.Equal(t, 1, fake.Count(gateway.OpDeleteTask))
}

func TestTasksLoadFailure(t *testing.T) {
	fake := gatewaytest.New(at(12, 10))
	fake.FailOn(gateway.OpGetProjects, errors.New("offline"))

	v := NewTasksView(newDeps(fake), testStyles())
	m, _ := settle(t, v, v.Init())

	assert.Equal(t, StateFailed, m.(TasksView).State())
	assert.Contains(t, m.View(), "offline")
}

func TestTasksKeysIgnoredWhileEmpty(t *testing.T) {
	fake := gatewaytest.New(at(12, 10))
	v := NewTasksView(newDeps(fake), testStyles())
	m, _ := settle(t, v, v.Init())
	fake.Reset()

	for _, k := range []string{"tab", "p", "s", "d", "e", "j", "G"} {
		var cmd tea.Cmd
		m, cmd = m.Update(keyMsg(k))
		assert.Nil(t, cmd, k)
	}
	assert.Empty(t, fake.Calls())
	assert.Contains(t, m.View(), "No tasks")
}
