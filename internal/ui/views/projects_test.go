package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/gateway/gatewaytest"
	"github.com/dori/promanager/internal/model"
)

func seededProjects(t *testing.T) (*gatewaytest.Fake, ProjectsView) {
	t.Helper()
	fake := gatewaytest.New(at(12, 10))
	home := fake.AddProject(model.Project{Name: "Home", Color: "#10B981"})
	work := fake.AddProject(model.Project{Name: "Work", Color: "#3B82F6"})
	fake.AddTask(model.Task{Title: "report", ProjectID: &work.ID, Completed: true})
	fake.AddTask(model.Task{Title: "review", ProjectID: &work.ID})
	fake.AddTask(model.Task{Title: "dishes", ProjectID: &home.ID})

	v := NewProjectsView(newDeps(fake), testStyles())
	m, _ := settle(t, v, v.Init())
	return fake, m.(ProjectsView)
}

func TestProjectsLoadWithCounts(t *testing.T) {
	_, v := seededProjects(t)

	require.Equal(t, StateReady, v.State())
	projects := v.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "Work", projects[0].Name)
	assert.Equal(t, 2, projects[0].TaskCount)
	assert.Equal(t, 1, projects[0].CompletedCount)
	assert.Contains(t, v.View(), "1/2 done")
}

func TestProjectsAdd(t *testing.T) {
	fake, v := seededProjects(t)

	m, _ := press(t, v, "a")
	require.Equal(t, ProjectsModeAdd, m.(ProjectsView).Mode())
	m = typeText(m, "Garden")
	m, _ = press(t, m, "ctrl+n")
	m, msgs := press(t, m, "enter")
	v = m.(ProjectsView)

	assert.Equal(t, ProjectsModeNormal, v.Mode())
	assert.Contains(t, msgs, StatusMsg{Message: `Saved "Garden"`})
	require.Len(t, v.Projects(), 3)

	created := v.Projects()[0]
	assert.Equal(t, "Garden", created.Name)
	assert.Equal(t, model.ProjectColors()[3], created.Color, "palette index follows project count, then cycles")
	assert.Equal(t, 1, fake.Count(gateway.OpCreateProject))
}

func TestProjectsAddRejectsBlankName(t *testing.T) {
	fake, v := seededProjects(t)

	m, _ := press(t, v, "a")
	m = typeText(m, "   ")
	m, _ = press(t, m, "enter")
	v = m.(ProjectsView)

	assert.Equal(t, ProjectsModeAdd, v.Mode(), "form stays open")
	assert.Contains(t, v.View(), "name is required")
	assert.Zero(t, fake.Count(gateway.OpCreateProject))
}

func TestProjectsRename(t *testing.T) {
	_, v := seededProjects(t)

	m, _ := press(t, v, "e")
	require.Equal(t, ProjectsModeEdit, m.(ProjectsView).Mode())
	m, _ = press(t, m, "ctrl+u")
	m = typeText(m, "Office")
	m, _ = press(t, m, "enter")

	assert.Equal(t, "Office", m.(ProjectsView).Projects()[0].Name)
}

func TestProjectsDeleteConfirm(t *testing.T) {
	fake, v := seededProjects(t)

	m, _ := press(t, v, "d")
	require.Equal(t, ProjectsModeConfirmDelete, m.(ProjectsView).Mode())
	assert.Contains(t, m.View(), `Delete "Work" and its 2 task(s)?`)
	m, _ = press(t, m, "n")
	assert.Equal(t, ProjectsModeNormal, m.(ProjectsView).Mode())
	assert.Zero(t, fake.Count(gateway.OpDeleteProject))

	m, _ = press(t, m, "d")
	m, msgs := press(t, m, "y")
	v = m.(ProjectsView)

	assert.Contains(t, msgs, StatusMsg{Message: "Project deleted"})
	require.Len(t, v.Projects(), 1)
	assert.Equal(t, "Home", v.Projects()[0].Name)

	tasks, err := fake.GetTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "the project's tasks go with it")
}

func TestProjectsDeleteFailure(t *testing.T) {
	fake, v := seededProjects(t)
	boom := errors.New("locked")
	fake.FailOn(gateway.OpDeleteProject, boom)

	m, _ := press(t, v, "d")
	m, msgs := press(t, m, "y")

	errs := errorsIn(msgs)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.Len(t, m.(ProjectsView).Projects(), 2)
}

func TestProjectsOpen(t *testing.T) {
	_, v := seededProjects(t)

	m, _ := press(t, v, "j")
	_, msgs := press(t, m, "enter")

	require.Len(t, msgs, 1)
	open, ok := msgs[0].(OpenProjectMsg)
	require.True(t, ok)
	assert.Equal(t, "Home", open.Project.Name)
}
