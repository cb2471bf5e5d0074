package agenda

import (
	"slices"
	"time"

	"github.com/dori/promanager/internal/model"
)

// Policy holds the choices the derivation rules leave open
type Policy struct {
	// CountCompletedToday includes completed tasks due today in today_tasks
	// and in the today list.
	CountCompletedToday bool
	Upcoming            Window
}

// DefaultPolicy counts completed today-due tasks and uses the default window
func DefaultPolicy() Policy {
	return Policy{
		CountCompletedToday: true,
		Upcoming:            DefaultWindow(),
	}
}

// ComputeStats derives the TaskStats snapshot for tasks at now
func ComputeStats(tasks []model.Task, now time.Time, p Policy) model.TaskStats {
	var s model.TaskStats
	for i := range tasks {
		t := &tasks[i]
		s.TotalTasks++
		if t.Completed {
			s.CompletedTasks++
		}

		switch Classify(t.DueDate, now) {
		case BucketToday:
			if !t.Completed || p.CountCompletedToday {
				s.TodayTasks++
			}
		case BucketOverdue:
			if !t.Completed {
				s.OverdueTasks++
			}
		}
	}
	s.PendingTasks = s.TotalTasks - s.CompletedTasks
	return s
}

// Engine applies a fixed Policy to task collections
type Engine struct {
	Policy Policy
}

// NewEngine creates an engine with the given policy
func NewEngine(p Policy) Engine {
	return Engine{Policy: p}
}

// Stats computes TaskStats for tasks at now
func (e Engine) Stats(tasks []model.Task, now time.Time) model.TaskStats {
	return ComputeStats(tasks, now, e.Policy)
}

// Today returns the tasks due today, keeping input order
func (e Engine) Today(tasks []model.Task, now time.Time) []model.Task {
	return filter(tasks, func(t *model.Task) bool {
		return IsToday(t, now) && (!t.Completed || e.Policy.CountCompletedToday)
	})
}

// Upcoming returns incomplete tasks due inside the policy window
func (e Engine) Upcoming(tasks []model.Task, now time.Time) []model.Task {
	return filter(tasks, func(t *model.Task) bool {
		return IsUpcoming(t, now, e.Policy.Upcoming)
	})
}

// Overdue returns incomplete tasks due before today
func (e Engine) Overdue(tasks []model.Task, now time.Time) []model.Task {
	return filter(tasks, func(t *model.Task) bool {
		return IsOverdue(t, now)
	})
}

func filter(tasks []model.Task, keep func(*model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for i := range tasks {
		if keep(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// SortByDue returns a copy ordered by due date ascending, undated tasks last
func SortByDue(tasks []model.Task) []model.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Compare(*b.DueDate)
	})
	return out
}
