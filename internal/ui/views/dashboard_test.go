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
	"github.com/dori/promanager/internal/notify"
)

func seededDashboard(t *testing.T) (*gatewaytest.Fake, model.Project, DashboardView) {
	t.Helper()
	fake := gatewaytest.New(at(12, 10))
	work := fake.AddProject(model.Project{Name: "Work", Color: "#3B82F6"})
	fake.AddTask(model.Task{Title: "ship release", DueDate: ptr(at(12, 18)), ProjectID: &work.ID})
	fake.AddTask(model.Task{Title: "pay rent", DueDate: ptr(at(10, 9))})
	fake.AddTask(model.Task{Title: "dentist", DueDate: ptr(at(14, 9))})
	fake.AddTask(model.Task{Title: "someday"})

	v := NewDashboardView(newDeps(fake), testStyles())
	require.Equal(t, StateLoading, v.State())
	m, _ := settle(t, v, v.Init())
	return fake, work, m.(DashboardView)
}

func TestDashboardLoads(t *testing.T) {
	_, _, v := seededDashboard(t)

	require.Equal(t, StateReady, v.State())
	d := v.Data()
	assert.Equal(t, model.TaskStats{
		TotalTasks:   4,
		PendingTasks: 4,
		TodayTasks:   1,
		OverdueTasks: 1,
	}, d.Stats)
	require.Len(t, d.Today, 1)
	assert.Equal(t, "ship release", d.Today[0].Title)
	require.Len(t, d.Upcoming, 1)
	assert.Equal(t, "dentist", d.Upcoming[0].Title)

	out := v.View()
	assert.Contains(t, out, "ship release")
	assert.Contains(t, out, "[Work]")
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "dentist")
}

func TestDashboardToggleReloads(t *testing.T) {
	fake, _, v := seededDashboard(t)
	fake.Reset()

	m, msgs := press(t, v, "tab")
	v = m.(DashboardView)

	assert.Empty(t, errorsIn(msgs))
	assert.Equal(t, 1, fake.Count(gateway.OpMarkTaskComplete))
	assert.Equal(t, 1, fake.Count(gateway.OpGetTaskStats), "mutation is followed by a reload")
	assert.Equal(t, StateReady, v.State())
	assert.Equal(t, 1, v.Data().Stats.CompletedTasks)
	require.Len(t, v.Data().Today, 1, "completed tasks due today stay listed")
	assert.True(t, v.Data().Today[0].Completed)
}

func TestDashboardMutationFailureKeepsSnapshot(t *testing.T) {
	fake, _, v := seededDashboard(t)
	boom := errors.New("backend down")
	fake.FailOn(gateway.OpMarkTaskComplete, boom)
	fake.Reset()

	m, msgs := press(t, v, "tab")
	v = m.(DashboardView)

	errs := errorsIn(msgs)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.Equal(t, StateReady, v.State())
	assert.False(t, v.Data().Today[0].Completed)
	assert.Zero(t, fake.Count(gateway.OpGetTaskStats), "no reload after a failed mutation")
}

func TestDashboardLoadFailureAndRetry(t *testing.T) {
	fake := gatewaytest.New(at(12, 10))
	fake.FailOn(gateway.OpGetTodayTasks, errors.New("timeout"))

	v := NewDashboardView(newDeps(fake), testStyles())
	m, _ := settle(t, v, v.Init())
	v = m.(DashboardView)
	assert.Equal(t, StateFailed, v.State())
	assert.Contains(t, v.View(), "Failed to load dashboard: timeout")

	fake.FailOn(gateway.OpGetTodayTasks, nil)
	m, _ = press(t, v, "r")
	assert.Equal(t, StateReady, m.(DashboardView).State())
}

func TestDashboardQuickAdd(t *testing.T) {
	fake, work, v := seededDashboard(t)

	m, _ := press(t, v, "a")
	require.True(t, m.(DashboardView).IsInputMode())
	m = typeText(m, "Call the bank !high due:today #work")
	m, msgs := press(t, m, "enter")
	v = m.(DashboardView)

	assert.Empty(t, errorsIn(msgs))
	assert.False(t, v.IsInputMode())
	require.Len(t, v.Data().Today, 2)

	tasks, err := fake.GetTasks(context.Background())
	require.NoError(t, err)
	created := tasks[0]
	assert.Equal(t, "Call the bank", created.Title)
	assert.Equal(t, model.PriorityHigh, created.Priority)
	require.NotNil(t, created.ProjectID)
	assert.Equal(t, work.ID, *created.ProjectID)
}

func TestDashboardQuickAddUnknownProject(t *testing.T) {
	fake, _, v := seededDashboard(t)

	m, _ := press(t, v, "a")
	m = typeText(m, "water plants #garden")
	_, msgs := press(t, m, "enter")

	errs := errorsIn(msgs)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], model.ErrNotFound)
	assert.Zero(t, fake.Count(gateway.OpCreateTask))
}

func TestDashboardQuickAddEscape(t *testing.T) {
	fake, _, v := seededDashboard(t)

	m, _ := press(t, v, "a")
	m = typeText(m, "never mind")
	m, _ = press(t, m, "esc")

	assert.False(t, m.(DashboardView).IsInputMode())
	assert.Zero(t, fake.Count(gateway.OpCreateTask))
}

func TestDashboardOverdueReminder(t *testing.T) {
	fake := gatewaytest.New(at(12, 10))
	fake.AddTask(model.Task{Title: "pay rent", DueDate: ptr(at(10, 9))})

	var sent [][]string
	deps := newDeps(fake)
	deps.Notifier = notify.NewNotifier(true, notify.WithRunner(func(name string, args ...string) error {
		sent = append(sent, args)
		return nil
	}))

	v := NewDashboardView(deps, testStyles())
	m, _ := settle(t, v, v.Init())
	m, _ = press(t, m, "r")
	assert.Equal(t, StateReady, m.(DashboardView).State())

	require.Len(t, sent, 1, "the same overdue count is reported once")
	assert.Contains(t, sent[0], "1 task is overdue")
}

func TestDashboardDueTodayReminder(t *testing.T) {
	fake := gatewaytest.New(at(12, 10))
	fake.AddTask(model.Task{Title: "standup", DueDate: ptr(at(12, 9))})
	fake.AddTask(model.Task{Title: "email", DueDate: ptr(at(12, 15))})
	fake.AddTask(model.Task{Title: "done already", DueDate: ptr(at(12, 8)), Completed: true})

	var sent [][]string
	deps := newDeps(fake)
	deps.Notifier = notify.NewNotifier(true, notify.WithRunner(func(name string, args ...string) error {
		sent = append(sent, args)
		return nil
	}))

	v := NewDashboardView(deps, testStyles())
	m, _ := settle(t, v, v.Init())
	_, _ = press(t, m, "r")

	require.Len(t, sent, 1, "no overdue tasks, and the today count is reported once")
	assert.Contains(t, sent[0], "2 open task(s) due today")
}
