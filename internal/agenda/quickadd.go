package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/dori/promanager/internal/model"
)

// QuickAdd is a task parsed from a single line of text. Project holds the
// name given after '#'; resolving it to an id is up to the caller.
type QuickAdd struct {
	Task    model.CreateTask
	Project string
}

// ParseQuickAdd reads "title words !high due:tomorrow #project". Markers may
// appear anywhere; the remaining words form the title. Priority defaults to
// medium and status to todo.
func ParseQuickAdd(text string, now time.Time) (QuickAdd, error) {
	q := QuickAdd{Task: model.CreateTask{
		Status:   model.StatusTodo,
		Priority: model.PriorityMedium,
	}}

	var title []string
	for _, word := range strings.Fields(text) {
		lower := strings.ToLower(word)
		switch {
		case strings.HasPrefix(word, "!") && len(word) > 1:
			p, ok := quickPriority(lower[1:])
			if !ok {
				return QuickAdd{}, fmt.Errorf("%w: unknown priority %q", model.ErrInvalidInput, word)
			}
			q.Task.Priority = p

		case strings.HasPrefix(lower, "due:"):
			due, err := ParseDue(word[len("due:"):], now)
			if err != nil {
				return QuickAdd{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
			}
			q.Task.DueDate = &due

		case strings.HasPrefix(word, "#") && len(word) > 1:
			q.Project = word[1:]

		default:
			title = append(title, word)
		}
	}

	q.Task.Title = strings.Join(title, " ")
	if err := q.Task.Validate(); err != nil {
		return QuickAdd{}, err
	}
	return q, nil
}

func quickPriority(s string) (model.Priority, bool) {
	switch s {
	case "h", "high", "!":
		return model.PriorityHigh, true
	case "m", "med", "medium":
		return model.PriorityMedium, true
	case "l", "low":
		return model.PriorityLow, true
	}
	return "", false
}
