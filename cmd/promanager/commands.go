package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dori/promanager/internal/agenda"
	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/model"
)

// addTask creates a task from quick-add text
func addTask(ctx context.Context, api gateway.API, args []string, now time.Time, w io.Writer) error {
	if len(args) == 0 {
		return errors.New(`usage: promanager add <task>, e.g. promanager add "Buy groceries #home !high due:tomorrow"`)
	}

	q, err := agenda.ParseQuickAdd(strings.Join(args, " "), now)
	if err != nil {
		return err
	}

	var project model.Project
	if q.Project != "" {
		project, err = gateway.FindProject(ctx, api, q.Project)
		if err != nil {
			return err
		}
		q.Task.ProjectID = &project.ID
	}

	task, err := api.CreateTask(ctx, q.Task)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Created: %s\n", task.Title)
	if task.DueDate != nil {
		fmt.Fprintf(w, "Due: %s\n", agenda.FormatDue(*task.DueDate, now))
	}
	if task.Priority != model.PriorityMedium {
		fmt.Fprintf(w, "Priority: %s\n", task.Priority.Label())
	}
	if project.ID != "" {
		fmt.Fprintf(w, "Project: %s\n", project.Name)
	}
	return nil
}

// writeReport prints the today, upcoming or stats report
func writeReport(ctx context.Context, api gateway.API, name string, now time.Time, w io.Writer) error {
	if name == "stats" {
		stats, err := api.GetTaskStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, statsTable(stats))
		return nil
	}

	var (
		tasks []model.Task
		err   error
		title string
	)
	switch name {
	case "today":
		title = "Today"
		tasks, err = api.GetTodayTasks(ctx)
	case "upcoming":
		title = "Upcoming"
		tasks, err = api.GetUpcomingTasks(ctx)
	default:
		return fmt.Errorf("unknown report %q", name)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%d)\n", title, len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(w, "Nothing here.")
		return nil
	}

	projects, err := api.GetProjects(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, taskTable(tasks, projects, now))
	return nil
}

func taskTable(tasks []model.Task, projects []model.Project, now time.Time) string {
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		var project, due string
		if t.ProjectID != nil {
			project = names[*t.ProjectID]
		}
		if t.DueDate != nil {
			due = agenda.FormatDue(*t.DueDate, now)
		}
		rows = append(rows, []string{"[" + done + "]", t.Title, t.Priority.Label(), t.Status.Label(), project, due})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "Task", "Priority", "Status", "Project", "Due").
		Rows(rows...).
		String()
}

func statsTable(s model.TaskStats) string {
	itoa := strconv.Itoa
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Total", "Completed", "Pending", "Today", "Overdue").
		Row(itoa(s.TotalTasks), itoa(s.CompletedTasks), itoa(s.PendingTasks), itoa(s.TodayTasks), itoa(s.OverdueTasks)).
		String()
}
