package gateway_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/gateway/gatewaytest"
	"github.com/dori/promanager/internal/model"
)

var testZone = time.FixedZone("UTC-5", -5*60*60)

func at(day, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, testZone)
}

func ptr[T any](v T) *T { return &v }

func TestValidationNeverReachesBackend(t *testing.T) {
	ctx := context.Background()
	fake := gatewaytest.New(at(12, 10))
	gw := gateway.New(fake)

	calls := []func() error{
		func() error {
			_, err := gw.CreateProject(ctx, model.CreateProject{Name: " ", Color: "#fff"})
			return err
		},
		func() error {
			_, err := gw.UpdateProject(ctx, model.UpdateProject{})
			return err
		},
		func() error { return gw.DeleteProject(ctx, "") },
		func() error {
			_, err := gw.CreateTask(ctx, model.CreateTask{Title: "", Status: model.StatusTodo, Priority: model.PriorityLow})
			return err
		},
		func() error {
			_, err := gw.CreateTask(ctx, model.CreateTask{Title: "x", Status: "nope", Priority: model.PriorityLow})
			return err
		},
		func() error {
			_, err := gw.GetTasksByProject(ctx, "  ")
			return err
		},
		func() error {
			_, err := gw.UpdateTask(ctx, model.UpdateTask{ID: "t", Title: ptr("")})
			return err
		},
		func() error { return gw.DeleteTask(ctx, "") },
		func() error {
			_, err := gw.MarkTaskComplete(ctx, "", true)
			return err
		},
	}

	for i, call := range calls {
		err := call()
		assert.ErrorIs(t, err, model.ErrInvalidInput, "call %d", i)
	}
	assert.Empty(t, fake.Calls())
}

func TestCallsForwardOnce(t *testing.T) {
	ctx := context.Background()
	fake := gatewaytest.New(at(12, 10))
	gw := gateway.New(fake)

	p, err := gw.CreateProject(ctx, model.CreateProject{Name: "Home", Color: "#3B82F6"})
	require.NoError(t, err)
	task, err := gw.CreateTask(ctx, model.CreateTask{
		Title:     "Water plants",
		ProjectID: &p.ID,
		Status:    model.StatusTodo,
		Priority:  model.PriorityLow,
		DueDate:   ptr(at(12, 18)),
	})
	require.NoError(t, err)

	done, err := gw.MarkTaskComplete(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	stats, err := gw.GetTaskStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 1, stats.TodayTasks)

	byProject, err := gw.GetTasksByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, byProject, 1)

	require.NoError(t, gw.DeleteProject(ctx, p.ID))

	assert.Equal(t, []string{
		gateway.OpCreateProject,
		gateway.OpCreateTask,
		gateway.OpMarkTaskComplete,
		gateway.OpGetTaskStats,
		gateway.OpGetTasksByProject,
		gateway.OpDeleteProject,
	}, fake.Calls())
}

func TestBackendErrorsKeepTheirKind(t *testing.T) {
	ctx := context.Background()
	fake := gatewaytest.New(at(12, 10))
	gw := gateway.New(fake)

	_, err := gw.UpdateTask(ctx, model.UpdateTask{ID: "missing", Title: ptr("x")})
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, err.Error(), gateway.OpUpdateTask)

	boom := errors.New("connection reset")
	fake.FailOn(gateway.OpGetTasks, boom)
	_, err = gw.GetTasks(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, fake.Count(gateway.OpGetTasks), "no retry")
}

type slowAPI struct {
	gateway.API
}

func (slowAPI) GetTasks(ctx context.Context) ([]model.Task, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestTimeout(t *testing.T) {
	gw := gateway.New(slowAPI{}, gateway.WithTimeout(20*time.Millisecond))

	_, err := gw.GetTasks(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	fake := gatewaytest.New(at(12, 10))
	gw := gateway.New(fake, gateway.WithLogger(zerolog.New(&buf)))

	err := gw.DeleteTask(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrNotFound)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"op":"delete_task"`)
	assert.Contains(t, out, `"component":"gateway"`)
}
