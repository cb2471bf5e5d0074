// Package gatewaytest provides an in-memory gateway.API for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dori/promanager/internal/agenda"
	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/model"
)

// Fake is an in-memory backend. It records every call by operation name
type Fake struct {
	mu       sync.Mutex
	projects []model.Project
	tasks    []model.Task
	seq      int
	calls    []string
	fail     map[string]error

	Clock  agenda.Clock
	Policy agenda.Policy
}

// New creates an empty fake at the given instant
func New(now time.Time) *Fake {
	return &Fake{
		fail:   map[string]error{},
		Clock:  func() time.Time { return now },
		Policy: agenda.DefaultPolicy(),
	}
}

// FailOn makes op return err until cleared with a nil err
func (f *Fake) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

// Calls returns the operations invoked so far
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Count returns how many times op was invoked
func (f *Fake) Count(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// AddProject seeds a project without recording a call
func (f *Fake) AddProject(p model.Project) model.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = f.nextID("p")
	}
	f.projects = append([]model.Project{p}, f.projects...)
	return p
}

// AddTask seeds a task without recording a call
func (f *Fake) AddTask(t model.Task) model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = f.nextID("t")
	}
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	f.tasks = append([]model.Task{t}, f.tasks...)
	return t
}

var _ gateway.API = (*Fake)(nil)

func (f *Fake) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

// enter records op and returns the injected failure, if any. Caller holds mu.
func (f *Fake) enter(ctx context.Context, op string) error {
	f.calls = append(f.calls, op)
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.fail[op]
}

func (f *Fake) CreateProject(ctx context.Context, in model.CreateProject) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpCreateProject); err != nil {
		return model.Project{}, err
	}
	now := f.Clock()
	p := model.Project{
		ID:          f.nextID("p"),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Color:       in.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.projects = append([]model.Project{p}, f.projects...)
	return p, nil
}

func (f *Fake) GetProjects(ctx context.Context) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpGetProjects); err != nil {
		return nil, err
	}
	return append([]model.Project{}, f.projects...), nil
}

func (f *Fake) UpdateProject(ctx context.Context, in model.UpdateProject) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpUpdateProject); err != nil {
		return model.Project{}, err
	}
	for i := range f.projects {
		p := &f.projects[i]
		if p.ID != in.ID {
			continue
		}
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Description != nil {
			p.Description = in.Description
		}
		if in.Color != nil {
			p.Color = *in.Color
		}
		p.UpdatedAt = f.Clock()
		return *p, nil
	}
	return model.Project{}, model.NotFound("project", in.ID)
}

func (f *Fake) DeleteProject(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpDeleteProject); err != nil {
		return err
	}
	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			kept := f.tasks[:0]
			for _, t := range f.tasks {
				if !t.InProject(id) {
					kept = append(kept, t)
				}
			}
			f.tasks = kept
			return nil
		}
	}
	return model.NotFound("project", id)
}

func (f *Fake) CreateTask(ctx context.Context, in model.CreateTask) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpCreateTask); err != nil {
		return model.Task{}, err
	}
	now := f.Clock()
	t := model.Task{
		ID:          f.nextID("t"),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ProjectID:   in.ProjectID,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks = append([]model.Task{t}, f.tasks...)
	return t, nil
}

func (f *Fake) GetTasks(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpGetTasks); err != nil {
		return nil, err
	}
	return append([]model.Task{}, f.tasks...), nil
}

func (f *Fake) GetTasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpGetTasksByProject); err != nil {
		return nil, err
	}
	out := []model.Task{}
	for _, t := range f.tasks {
		if t.InProject(projectID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *Fake) UpdateTask(ctx context.Context, in model.UpdateTask) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpUpdateTask); err != nil {
		return model.Task{}, err
	}
	return f.update(in)
}

func (f *Fake) update(in model.UpdateTask) (model.Task, error) {
	for i := range f.tasks {
		t := &f.tasks[i]
		if t.ID != in.ID {
			continue
		}
		now := f.Clock()
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = in.Description
		}
		if in.ProjectID != nil {
			t.ProjectID = in.ProjectID
		}
		if in.Status != nil {
			t.Status = *in.Status
		}
		if in.Priority != nil {
			t.Priority = *in.Priority
		}
		if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		if in.Completed != nil {
			t.Completed = *in.Completed
			if t.Completed && t.CompletedAt == nil {
				t.CompletedAt = &now
			} else if !t.Completed {
				t.CompletedAt = nil
			}
		}
		t.UpdatedAt = now
		return *t, nil
	}
	return model.Task{}, model.NotFound("task", in.ID)
}

func (f *Fake) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpDeleteTask); err != nil {
		return err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return model.NotFound("task", id)
}

func (f *Fake) MarkTaskComplete(ctx context.Context, id string, completed bool) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpMarkTaskComplete); err != nil {
		return model.Task{}, err
	}
	return f.update(model.UpdateTask{ID: id, Completed: &completed})
}

func (f *Fake) GetTodayTasks(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpGetTodayTasks); err != nil {
		return nil, err
	}
	return agenda.SortByDue(agenda.NewEngine(f.Policy).Today(f.tasks, f.Clock())), nil
}

func (f *Fake) GetUpcomingTasks(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpGetUpcomingTasks); err != nil {
		return nil, err
	}
	return agenda.SortByDue(agenda.NewEngine(f.Policy).Upcoming(f.tasks, f.Clock())), nil
}

func (f *Fake) GetTaskStats(ctx context.Context) (model.TaskStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, gateway.OpGetTaskStats); err != nil {
		return model.TaskStats{}, err
	}
	return agenda.ComputeStats(f.tasks, f.Clock(), f.Policy), nil
}
