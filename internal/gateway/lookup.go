package gateway

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dori/promanager/internal/agenda"
	"github.com/dori/promanager/internal/model"
)

// LoadProjectCounts fetches projects and tasks together and joins them into
// per-project counters. Project order is the backend's.
func LoadProjectCounts(ctx context.Context, api API) ([]model.ProjectWithCounts, error) {
	var (
		projects []model.Project
		tasks    []model.Task
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = api.GetProjects(ctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = api.GetTasks(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return agenda.ProjectCounts(projects, tasks), nil
}

// FindProject returns the project whose name matches name, ignoring case and
// surrounding space. On duplicates the first in backend order wins.
func FindProject(ctx context.Context, api API, name string) (model.Project, error) {
	want := strings.TrimSpace(name)
	if want == "" {
		return model.Project{}, model.RequireID("project", want)
	}
	projects, err := api.GetProjects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	for _, p := range projects {
		if strings.EqualFold(strings.TrimSpace(p.Name), want) {
			return p, nil
		}
	}
	return model.Project{}, model.NotFound("project", want)
}
