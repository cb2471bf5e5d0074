package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/promanager/internal/gateway/gatewaytest"
	"github.com/dori/promanager/internal/model"
	"github.com/dori/promanager/internal/ui/theme"
)

var testZone = time.FixedZone("UTC-5", -5*60*60)

// at returns an instant in March 2025; the 12th is a Wednesday
func at(day, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, testZone)
}

func ptr[T any](v T) *T { return &v }

func testStyles() theme.Styles { return theme.NewStyles(theme.Nord) }

func newDeps(fake *gatewaytest.Fake) Deps {
	return Deps{API: fake, Clock: fake.Clock, Policy: fake.Policy}
}

// keyMsg builds the key press whose String() is s
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText feeds text as one key event and drops the resulting cursor cmd
func typeText(m tea.Model, text string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// press sends a key and runs whatever commands follow to completion
func press(t *testing.T, m tea.Model, k string) (tea.Model, []tea.Msg) {
	t.Helper()
	m, cmd := m.Update(keyMsg(k))
	return settle(t, m, cmd)
}

// settle runs cmd and feeds each resulting message back into m until no
// commands remain. Messages meant for the root model are collected instead.
func settle(t *testing.T, m tea.Model, cmd tea.Cmd) (tea.Model, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "commands did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case StatusMsg, ErrorMsg, OpenProjectMsg:
			out = append(out, msg)
		default:
			var next tea.Cmd
			m, next = m.Update(msg)
			queue = append(queue, next)
		}
	}
	return m, out
}

func errorsIn(msgs []tea.Msg) []error {
	var errs []error
	for _, m := range msgs {
		if e, ok := m.(ErrorMsg); ok {
			errs = append(errs, e.Err)
		}
	}
	return errs
}

func TestDueColor(t *testing.T) {
	th := theme.Nord
	now := at(12, 10)

	tests := []struct {
		name string
		task model.Task
		want lipgloss.Color
	}{
		{"overdue", model.Task{DueDate: ptr(at(11, 9))}, th.Error},
		{"today", model.Task{DueDate: ptr(at(12, 8))}, th.Warning},
		{"tomorrow", model.Task{DueDate: ptr(at(13, 23))}, th.Info},
		{"later", model.Task{DueDate: ptr(at(20, 9))}, th.Subtle},
		{"completed overdue", model.Task{DueDate: ptr(at(11, 9)), Completed: true}, th.Subtle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dueColor(th, &tt.task, now))
		})
	}
}
