package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/promanager/internal/model"
)

func TestComputeStatsScenario(t *testing.T) {
	now := at(12, 10, 0)
	tasks := []model.Task{
		task(ptr(at(12, 18, 0)), false), // today
		task(ptr(at(11, 18, 0)), false), // yesterday
		task(ptr(at(11, 18, 0)), true),  // yesterday, done
		task(ptr(at(13, 18, 0)), false), // tomorrow
	}

	got := ComputeStats(tasks, now, DefaultPolicy())
	assert.Equal(t, model.TaskStats{
		TotalTasks:     4,
		CompletedTasks: 1,
		PendingTasks:   3,
		TodayTasks:     1,
		OverdueTasks:   1,
	}, got)
}

func TestComputeStatsCompletedTodayPolicy(t *testing.T) {
	now := at(12, 10, 0)
	tasks := []model.Task{
		task(ptr(at(12, 8, 0)), true),
		task(ptr(at(12, 20, 0)), false),
	}

	counted := ComputeStats(tasks, now, Policy{CountCompletedToday: true})
	assert.Equal(t, 2, counted.TodayTasks)

	excluded := ComputeStats(tasks, now, Policy{CountCompletedToday: false})
	assert.Equal(t, 1, excluded.TodayTasks)
}

func TestComputeStatsUndatedNeverBucketed(t *testing.T) {
	tasks := []model.Task{task(nil, false), task(nil, true)}
	for day := 1; day <= 28; day++ {
		s := ComputeStats(tasks, at(day, 12, 0), DefaultPolicy())
		require.Zero(t, s.TodayTasks)
		require.Zero(t, s.OverdueTasks)
		require.Equal(t, 2, s.TotalTasks)
	}

	e := NewEngine(Policy{CountCompletedToday: true})
	assert.Empty(t, e.Today(tasks, at(12, 0, 0)))
	assert.Empty(t, e.Upcoming(tasks, at(12, 0, 0)))
	assert.Empty(t, e.Overdue(tasks, at(12, 0, 0)))
}

func TestComputeStatsPendingInvariant(t *testing.T) {
	now := at(12, 10, 0)
	var tasks []model.Task
	for i := 0; i < 40; i++ {
		var due = ptr(at(1+i%28, i%24, 0))
		if i%5 == 0 {
			due = nil
		}
		tasks = append(tasks, task(due, i%3 == 0))

		s := ComputeStats(tasks, now, DefaultPolicy())
		require.Equal(t, s.TotalTasks, s.PendingTasks+s.CompletedTasks)
	}
}

func TestComputeStatsOrderIndependent(t *testing.T) {
	now := at(12, 10, 0)
	tasks := []model.Task{
		task(ptr(at(12, 8, 0)), true),
		task(ptr(at(3, 8, 0)), false),
		task(nil, false),
		task(ptr(at(15, 8, 0)), false),
	}
	reversed := []model.Task{tasks[3], tasks[2], tasks[1], tasks[0]}

	assert.Equal(t, ComputeStats(tasks, now, DefaultPolicy()), ComputeStats(reversed, now, DefaultPolicy()))
}

func TestOverdueMonotonicAsNowAdvances(t *testing.T) {
	tasks := []model.Task{task(ptr(at(10, 14, 0)), false)}

	prev := 0
	for day := 8; day <= 20; day++ {
		for hour := 0; hour < 24; hour += 6 {
			s := ComputeStats(tasks, at(day, hour, 0), DefaultPolicy())
			require.GreaterOrEqual(t, s.OverdueTasks, prev, "day=%d hour=%d", day, hour)
			prev = s.OverdueTasks
		}
	}
	assert.Equal(t, 1, prev)
}

func TestMarkingOverdueCompleteChangesOnlyCompletionCounts(t *testing.T) {
	now := at(12, 10, 0)
	tasks := []model.Task{
		task(ptr(at(9, 10, 0)), false),
		task(ptr(at(12, 10, 0)), false),
		task(nil, false),
	}

	before := ComputeStats(tasks, now, DefaultPolicy())
	require.Equal(t, 1, before.OverdueTasks)

	tasks[0].Completed = true
	after := ComputeStats(tasks, now, DefaultPolicy())

	assert.Equal(t, 0, after.OverdueTasks)
	assert.Equal(t, before.TotalTasks, after.TotalTasks)
	assert.Equal(t, before.TodayTasks, after.TodayTasks)
	assert.Equal(t, before.CompletedTasks+1, after.CompletedTasks)
	assert.Equal(t, before.PendingTasks-1, after.PendingTasks)
}

func TestEngineFilters(t *testing.T) {
	now := at(12, 10, 0)
	tasks := []model.Task{
		task(ptr(at(12, 8, 0)), true),
		task(ptr(at(12, 9, 0)), false),
		task(ptr(at(2, 8, 0)), false),
		task(ptr(at(14, 8, 0)), false),
		task(ptr(at(14, 9, 0)), true),
		task(ptr(at(28, 8, 0)), false),
	}
	for i := range tasks {
		tasks[i].ID = string(rune('a' + i))
	}

	e := NewEngine(DefaultPolicy())
	assert.Equal(t, []string{"a", "b"}, ids(e.Today(tasks, now)))
	assert.Equal(t, []string{"d"}, ids(e.Upcoming(tasks, now)))
	assert.Equal(t, []string{"c"}, ids(e.Overdue(tasks, now)))

	strict := NewEngine(Policy{CountCompletedToday: false, Upcoming: Window{}})
	assert.Equal(t, []string{"b"}, ids(strict.Today(tasks, now)))
	assert.Equal(t, []string{"d", "f"}, ids(strict.Upcoming(tasks, now)))
}

func TestSortByDue(t *testing.T) {
	tasks := []model.Task{
		{ID: "none"},
		{ID: "late", DueDate: ptr(at(20, 0, 0))},
		{ID: "early", DueDate: ptr(at(2, 0, 0))},
	}

	sorted := SortByDue(tasks)
	assert.Equal(t, []string{"early", "late", "none"}, ids(sorted))
	assert.Equal(t, "none", tasks[0].ID, "input left untouched")
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
