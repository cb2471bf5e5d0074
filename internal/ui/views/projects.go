package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/model"
	"github.com/dori/promanager/internal/ui/theme"
)

// ProjectsMode represents the current input mode of the projects view
type ProjectsMode int

const (
	ProjectsModeNormal ProjectsMode = iota
	ProjectsModeAdd
	ProjectsModeEdit
	ProjectsModeConfirmDelete
)

type projectsLoadedMsg struct {
	projects []model.ProjectWithCounts
	err      error
}

// ProjectsView lists projects with their task counters
type ProjectsView struct {
	deps   Deps
	styles theme.Styles
	width  int
	height int

	state    LoadState
	err      error
	projects []model.ProjectWithCounts
	cursor   int

	mode     ProjectsMode
	name     textinput.Model
	desc     textinput.Model
	focus    int // 0 name, 1 description
	colorIdx int
	formErr  string
}

// NewProjectsView creates the projects screen
func NewProjectsView(deps Deps, styles theme.Styles) ProjectsView {
	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 128

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 256

	return ProjectsView{
		deps:   deps,
		styles: styles,
		state:  StateLoading,
		name:   name,
		desc:   desc,
	}
}

// Init loads projects and counts
func (v ProjectsView) Init() tea.Cmd {
	return v.load()
}

// State returns the load state
func (v ProjectsView) State() LoadState { return v.state }

// Mode returns the current input mode
func (v ProjectsView) Mode() ProjectsMode { return v.mode }

// Projects returns the loaded projects
func (v ProjectsView) Projects() []model.ProjectWithCounts { return v.projects }

// IsInputMode returns true while a form or confirmation is open
func (v ProjectsView) IsInputMode() bool { return v.mode != ProjectsModeNormal }

// SetSize updates the view dimensions
func (v ProjectsView) SetSize(width, height int) ProjectsView {
	v.width = width
	v.height = height
	v.name.Width = width - 6
	v.desc.Width = width - 6
	return v
}

// SetStyles swaps the styles after a theme change
func (v ProjectsView) SetStyles(s theme.Styles) ProjectsView {
	v.styles = s
	return v
}

func (v ProjectsView) load() tea.Cmd {
	api := v.deps.API
	return func() tea.Msg {
		projects, err := gateway.LoadProjectCounts(context.Background(), api)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (v ProjectsView) selected() (model.ProjectWithCounts, bool) {
	if len(v.projects) == 0 {
		return model.ProjectWithCounts{}, false
	}
	return v.projects[v.cursor], true
}

// Update handles messages for the projects view
func (v ProjectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.err != nil {
			v.state = StateFailed
			v.err = msg.err
			return v, nil
		}
		v.state = StateReady
		v.err = nil
		v.projects = msg.projects
		v.cursor = clampCursor(v.cursor, len(v.projects))
		return v, nil

	case projectChangedMsg:
		if msg.err != nil {
			v.state = StateReady
			return v, errorCmd(msg.err)
		}
		return v, tea.Batch(v.load(), statusCmd("Saved %q", msg.project.Name))

	case projectDeletedMsg:
		if msg.err != nil {
			v.state = StateReady
			return v, errorCmd(msg.err)
		}
		return v, tea.Batch(v.load(), statusCmd("Project deleted"))

	case tea.KeyMsg:
		switch v.mode {
		case ProjectsModeAdd, ProjectsModeEdit:
			return v.handleFormMode(msg)
		case ProjectsModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	return v, nil
}

func (v ProjectsView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.projects)-1 {
			v.cursor++
		}
	case "g":
		v.cursor = 0
	case "G":
		v.cursor = clampCursor(len(v.projects)-1, len(v.projects))
	case "r":
		v.state = StateLoading
		return v, v.load()
	case "a":
		v.mode = ProjectsModeAdd
		v.formErr = ""
		v.focus = 0
		v.colorIdx = len(v.projects) % len(model.ProjectColors())
		v.name.SetValue("")
		v.desc.SetValue("")
		v.name.Focus()
		v.desc.Blur()
	case "e":
		p, ok := v.selected()
		if !ok {
			return v, nil
		}
		v.mode = ProjectsModeEdit
		v.formErr = ""
		v.focus = 0
		v.name.SetValue(p.Name)
		v.name.CursorEnd()
		v.name.Focus()
	case "d":
		if _, ok := v.selected(); ok {
			v.mode = ProjectsModeConfirmDelete
		}
	case "enter":
		if p, ok := v.selected(); ok {
			project := p.Project
			return v, func() tea.Msg { return OpenProjectMsg{Project: project} }
		}
	}
	return v, nil
}

func (v ProjectsView) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ProjectsModeNormal
		v.formErr = ""
		v.name.Blur()
		v.desc.Blur()
		return v, nil

	case "tab", "shift+tab":
		if v.mode == ProjectsModeAdd {
			v.focus = 1 - v.focus
			if v.focus == 0 {
				v.name.Focus()
				v.desc.Blur()
			} else {
				v.desc.Focus()
				v.name.Blur()
			}
		}
		return v, nil

	case "ctrl+n":
		if v.mode == ProjectsModeAdd {
			v.colorIdx = (v.colorIdx + 1) % len(model.ProjectColors())
		}
		return v, nil

	case "enter":
		return v.submit()
	}

	var cmd tea.Cmd
	if v.focus == 0 {
		v.name, cmd = v.name.Update(msg)
	} else {
		v.desc, cmd = v.desc.Update(msg)
	}
	return v, cmd
}

// submit validates the form locally; invalid input never reaches the backend
func (v ProjectsView) submit() (tea.Model, tea.Cmd) {
	api := v.deps.API

	if v.mode == ProjectsModeEdit {
		p, ok := v.selected()
		if !ok {
			v.mode = ProjectsModeNormal
			return v, nil
		}
		name := strings.TrimSpace(v.name.Value())
		in := model.UpdateProject{ID: p.ID, Name: &name}
		if err := in.Validate(); err != nil {
			v.formErr = fieldMessage(err)
			return v, nil
		}
		v.mode = ProjectsModeNormal
		v.state = StateLoading
		return v, func() tea.Msg {
			project, err := api.UpdateProject(context.Background(), in)
			return projectChangedMsg{project: project, err: err}
		}
	}

	in := model.CreateProject{
		Name:  strings.TrimSpace(v.name.Value()),
		Color: model.ProjectColors()[v.colorIdx],
	}
	if d := strings.TrimSpace(v.desc.Value()); d != "" {
		in.Description = &d
	}
	if err := in.Validate(); err != nil {
		v.formErr = fieldMessage(err)
		return v, nil
	}
	v.mode = ProjectsModeNormal
	v.state = StateLoading
	return v, func() tea.Msg {
		project, err := api.CreateProject(context.Background(), in)
		return projectChangedMsg{project: project, err: err}
	}
}

func (v ProjectsView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ProjectsModeNormal
		p, ok := v.selected()
		if !ok {
			return v, nil
		}
		v.state = StateLoading
		api := v.deps.API
		return v, func() tea.Msg {
			err := api.DeleteProject(context.Background(), p.ID)
			return projectDeletedMsg{id: p.ID, err: err}
		}
	case "n", "N", "esc":
		v.mode = ProjectsModeNormal
	}
	return v, nil
}

// fieldMessage turns a validation error into an inline form message
func fieldMessage(err error) string {
	var fe *model.FieldError
	if errors.As(err, &fe) {
		return fmt.Sprintf("%s %s", fe.Field, fe.Reason)
	}
	return err.Error()
}

// View renders the projects view
func (v ProjectsView) View() string {
	s := v.styles

	switch {
	case v.state == StateFailed:
		return s.Error.Render("Failed to load projects: "+v.err.Error()) + "\n\n" +
			hints(s, "r", "retry")
	case v.state == StateLoading && v.projects == nil:
		return s.Label.Render("Loading projects...")
	}

	var b strings.Builder

	if v.mode == ProjectsModeAdd || v.mode == ProjectsModeEdit {
		b.WriteString(v.renderForm())
		b.WriteString("\n\n")
	}

	if len(v.projects) == 0 {
		b.WriteString(s.Label.Render("No projects yet. Press a to create one."))
		return b.String()
	}

	for i, p := range v.projects {
		cursor := " "
		rowStyle := s.TaskNormal
		if i == v.cursor {
			cursor = ">"
			rowStyle = s.TaskSelected
		}
		counts := s.Label.Render(fmt.Sprintf("%d/%d done", p.CompletedCount, p.TaskCount))
		line := fmt.Sprintf("%s%s %s %s %s", cursor, s.Swatch(p.Color), rowStyle.Render(p.Name), counts, progressBar(s, p.Progress(), 10))
		b.WriteString(line)
		if p.Description != nil && i == v.cursor {
			b.WriteString("\n    ")
			b.WriteString(s.Subtitle.Render(*p.Description))
		}
		b.WriteString("\n")
	}

	if v.mode == ProjectsModeConfirmDelete {
		if p, ok := v.selected(); ok {
			b.WriteString("\n")
			b.WriteString(s.Error.Render(fmt.Sprintf("Delete %q and its %d task(s)? (y/n)", p.Name, p.TaskCount)))
		}
	}

	return b.String()
}

func (v ProjectsView) renderForm() string {
	s := v.styles
	title := "New project"
	if v.mode == ProjectsModeEdit {
		title = "Rename project"
	}

	lines := []string{s.PanelTitle.Render(title)}
	nameStyle, descStyle := s.Input, s.Input
	if v.focus == 0 {
		nameStyle = s.InputFocused
	} else {
		descStyle = s.InputFocused
	}
	lines = append(lines, nameStyle.Render(v.name.View()))
	if v.mode == ProjectsModeAdd {
		lines = append(lines, descStyle.Render(v.desc.View()))
		color := model.ProjectColors()[v.colorIdx]
		lines = append(lines, s.Label.Render("Color ")+s.Swatch(color)+s.Label.Render(" "+color))
	}
	if v.formErr != "" {
		lines = append(lines, s.Error.Render(v.formErr))
	}
	return strings.Join(lines, "\n")
}

func progressBar(s theme.Styles, ratio float64, width int) string {
	filled := int(ratio * float64(width))
	return s.Success.Render(strings.Repeat("█", filled)) +
		s.Label.Render(strings.Repeat("░", width-filled))
}

// Hints returns the footer key hints for the projects view
func (v ProjectsView) Hints() []string {
	s := v.styles
	switch v.mode {
	case ProjectsModeAdd:
		return []string{hints(s, "enter", "save", "tab", "field", "C-n", "color", "esc", "cancel")}
	case ProjectsModeEdit:
		return []string{hints(s, "enter", "save", "esc", "cancel")}
	case ProjectsModeConfirmDelete:
		return []string{hints(s, "y", "delete", "n", "keep")}
	}
	return []string{
		hints(s, "a", "add", "e", "rename", "d", "delete", "enter", "open tasks"),
		hints(s, "j/k", "navigate", "r", "refresh", "1-3", "screens", "?", "help"),
	}
}
