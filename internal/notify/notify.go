package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Runner executes an external command
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier handles sending desktop notifications
type Notifier struct {
	mu          sync.Mutex
	enabled     bool
	run         Runner
	lastOverdue int
	lastToday   int
}

// Option configures a Notifier
type Option func(*Notifier)

// WithRunner replaces the command runner, mainly for tests
func WithRunner(r Runner) Option {
	return func(n *Notifier) { n.run = r }
}

// NewNotifier creates a new notifier
func NewNotifier(enabled bool, opts ...Option) *Notifier {
	n := &Notifier{
		enabled: enabled,
		run:     execRunner,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.run("notify-send", notifyArgs(notification)...)
}

func notifyArgs(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "promanager")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// SendOverdueReminder reports overdue tasks. It only fires when count is
// positive and differs from the count last reported, so reloading the
// dashboard does not repeat the same reminder.
func (n *Notifier) SendOverdueReminder(count int) (bool, error) {
	n.mu.Lock()
	if count == n.lastOverdue || !n.enabled {
		n.lastOverdue = count
		n.mu.Unlock()
		return false, nil
	}
	n.lastOverdue = count
	n.mu.Unlock()

	if count <= 0 {
		return false, nil
	}

	body := "1 task is overdue"
	if count > 1 {
		body = fmt.Sprintf("%d tasks are overdue", count)
	}
	err := n.Send(Notification{
		Title:   "Overdue tasks",
		Body:    body,
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
	return err == nil, err
}

// SendDueToday announces how many open tasks are due today. Like the
// overdue reminder it fires only when the count changes.
func (n *Notifier) SendDueToday(count int) (bool, error) {
	n.mu.Lock()
	if count == n.lastToday || !n.enabled {
		n.lastToday = count
		n.mu.Unlock()
		return false, nil
	}
	n.lastToday = count
	n.mu.Unlock()

	if count <= 0 {
		return false, nil
	}

	err := n.Send(Notification{
		Title:   "Due today",
		Body:    fmt.Sprintf("%d open task(s) due today", count),
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "appointment-soon-symbolic",
	})
	return err == nil, err
}
