package agenda

import "github.com/dori/promanager/internal/model"

// ProjectCounts pairs each project with the number of its tasks and how many
// of those are completed. Tasks outside the given projects are ignored.
func ProjectCounts(projects []model.Project, tasks []model.Task) []model.ProjectWithCounts {
	index := make(map[string]int, len(projects))
	out := make([]model.ProjectWithCounts, len(projects))
	for i, p := range projects {
		out[i].Project = p
		index[p.ID] = i
	}

	for i := range tasks {
		t := &tasks[i]
		if t.ProjectID == nil {
			continue
		}
		j, ok := index[*t.ProjectID]
		if !ok {
			continue
		}
		out[j].TaskCount++
		if t.Completed {
			out[j].CompletedCount++
		}
	}
	return out
}
