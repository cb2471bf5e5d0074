package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
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

func now() time.Time {
	return time.Date(2025, time.March, 12, 10, 0, 0, 0, testZone)
}

func setup(t *testing.T) (*Client, *gatewaytest.Fake, *httptest.Server) {
	t.Helper()
	fake := gatewaytest.New(now())
	srv := httptest.NewServer(NewServer(gateway.New(fake), zerolog.Nop()))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/"), fake, srv
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, fake, _ := setup(t)

	desc := "weekly groceries"
	p, err := client.CreateProject(ctx, model.CreateProject{Name: "Errands", Description: &desc, Color: "#10B981"})
	require.NoError(t, err)
	assert.Equal(t, "Errands", p.Name)
	require.NotNil(t, p.Description)

	due := now().Add(6 * time.Hour)
	task, err := client.CreateTask(ctx, model.CreateTask{
		Title:     "Buy milk",
		ProjectID: &p.ID,
		Status:    model.StatusTodo,
		Priority:  model.PriorityHigh,
		DueDate:   &due,
	})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.True(t, due.Equal(*task.DueDate))

	done, err := client.MarkTaskComplete(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.NotNil(t, done.CompletedAt)

	today, err := client.GetTodayTasks(ctx)
	require.NoError(t, err)
	require.Len(t, today, 1)

	upcoming, err := client.GetUpcomingTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, upcoming)
	assert.Empty(t, upcoming)

	stats, err := client.GetTaskStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStats{TotalTasks: 1, CompletedTasks: 1, TodayTasks: 1}, stats)

	byProject, err := client.GetTasksByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	renamed, err := client.UpdateProject(ctx, model.UpdateProject{ID: p.ID, Name: strPtr("Chores")})
	require.NoError(t, err)
	assert.Equal(t, "Chores", renamed.Name)

	title := "Buy oat milk"
	updated, err := client.UpdateTask(ctx, model.UpdateTask{ID: task.ID, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	require.NoError(t, client.DeleteTask(ctx, task.ID))
	require.NoError(t, client.DeleteProject(ctx, p.ID))

	projects, err := client.GetProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
	tasks, err := client.GetTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.Equal(t, 1, fake.Count(gateway.OpMarkTaskComplete), "one backend call per client call")
}

func strPtr(s string) *string { return &s }

func TestErrorMapping(t *testing.T) {
	ctx := context.Background()
	client, fake, _ := setup(t)

	t.Run("not found", func(t *testing.T) {
		err := client.DeleteTask(ctx, "missing")
		require.ErrorIs(t, err, model.ErrNotFound)

		var rerr *Error
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, http.StatusNotFound, rerr.Status)
		assert.Equal(t, gateway.OpDeleteTask, rerr.Op)
	})

	t.Run("invalid input is rejected before the backend", func(t *testing.T) {
		fake.Reset()
		_, err := client.CreateProject(ctx, model.CreateProject{Name: "  ", Color: "#000000"})
		require.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Empty(t, fake.Calls())
	})

	t.Run("internal", func(t *testing.T) {
		fake.FailOn(gateway.OpGetTaskStats, errors.New("disk full"))
		defer fake.FailOn(gateway.OpGetTaskStats, nil)

		_, err := client.GetTaskStats(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrNotFound)
		assert.NotErrorIs(t, err, model.ErrInvalidInput)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestUnknownOperationAndMalformedBody(t *testing.T) {
	_, _, srv := setup(t)

	resp, err := http.Post(srv.URL+"/rpc/drop_everything", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var eb errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&eb))
	assert.Equal(t, CodeUnknownOperation, eb.Code)

	resp2, err := http.Post(srv.URL+"/rpc/"+gateway.OpCreateTask, "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	var eb2 errorBody
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&eb2))
	assert.Equal(t, CodeInvalidInput, eb2.Code)
}

func TestWrongMethodGetsJSONError(t *testing.T) {
	_, fake, srv := setup(t)

	resp, err := http.Get(srv.URL + "/rpc/" + gateway.OpGetTasks)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var eb errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&eb))
	assert.Equal(t, CodeMethodNotAllowed, eb.Code)
	assert.Contains(t, eb.Error, "GET")
	assert.Empty(t, fake.Calls())
}

func TestHealthAndPing(t *testing.T) {
	client, _, srv := setup(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, client.Ping(context.Background()))
}

func TestTransportFailureIsReturnedAsIs(t *testing.T) {
	client, _, srv := setup(t)
	srv.Close()

	_, err := client.GetTasks(context.Background())
	require.Error(t, err)

	var rerr *Error
	assert.False(t, errors.As(err, &rerr))
	assert.Error(t, client.Ping(context.Background()))
}
