package gateway

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dori/promanager/internal/model"
)

// Dashboard is everything the dashboard screen renders
type Dashboard struct {
	Stats    model.TaskStats
	Today    []model.Task
	Upcoming []model.Task
	Projects []model.Project
}

// LoadDashboard fetches stats, today, upcoming and projects concurrently.
// The result is only assembled once all four have succeeded; the first
// failure cancels the rest and is returned.
func LoadDashboard(ctx context.Context, api API) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := api.GetTaskStats(ctx)
		d.Stats = stats
		return err
	})
	g.Go(func() error {
		today, err := api.GetTodayTasks(ctx)
		d.Today = today
		return err
	})
	g.Go(func() error {
		upcoming, err := api.GetUpcomingTasks(ctx)
		d.Upcoming = upcoming
		return err
	})
	g.Go(func() error {
		projects, err := api.GetProjects(ctx)
		d.Projects = projects
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
