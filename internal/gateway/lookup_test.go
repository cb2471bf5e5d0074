package gateway_test

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

func TestLoadProjectCounts(t *testing.T) {
	fake := gatewaytest.New(at(12, 10))
	home := fake.AddProject(model.Project{Name: "Home", Color: "#10B981"})
	work := fake.AddProject(model.Project{Name: "Work", Color: "#3B82F6"})
	fake.AddTask(model.Task{Title: "a", ProjectID: &work.ID, Completed: true})
	fake.AddTask(model.Task{Title: "b", ProjectID: &work.ID})
	fake.AddTask(model.Task{Title: "loose"})

	counts, err := gateway.LoadProjectCounts(context.Background(), fake)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, work.ID, counts[0].ID, "newest project first")
	assert.Equal(t, 2, counts[0].TaskCount)
	assert.Equal(t, 1, counts[0].CompletedCount)
	assert.Equal(t, home.ID, counts[1].ID)
	assert.Zero(t, counts[1].TaskCount)
}

func TestLoadProjectCountsError(t *testing.T) {
	fake := gatewaytest.New(at(12, 10))
	boom := errors.New("offline")
	fake.FailOn(gateway.OpGetTasks, boom)

	_, err := gateway.LoadProjectCounts(context.Background(), fake)
	assert.ErrorIs(t, err, boom)
}

func TestFindProject(t *testing.T) {
	fake := gatewaytest.New(at(12, 10))
	work := fake.AddProject(model.Project{Name: "Side Work", Color: "#3B82F6"})
	ctx := context.Background()

	p, err := gateway.FindProject(ctx, fake, "  side work ")
	require.NoError(t, err)
	assert.Equal(t, work.ID, p.ID)

	_, err = gateway.FindProject(ctx, fake, "garden")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = gateway.FindProject(ctx, fake, " ")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
