package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/tasklist"
)

type focus int

const (
	focusList focus = iota
	focusInput
)

// resultMsg carries a finished store request back to the event loop.
type resultMsg struct {
	res tasklist.Result
}

// Model is the bubbletea model of the task list screen.
type Model struct {
	ctx   context.Context
	store service.Store
	view  *tasklist.View

	cursor int
	focus  focus

	input   textinput.Model
	edit    textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// New creates the model. Store calls run with ctx; none is cancelled
// when the screen changes.
func New(ctx context.Context, store service.Store, opts ...tasklist.Option) *Model {
	input := textinput.New()
	input.Placeholder = "Add a new task"
	input.Prompt = "+ "
	input.CharLimit = 500

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 500

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = pendingStyle

	return &Model{
		ctx:     ctx,
		store:   store,
		view:    tasklist.New(store, opts...),
		input:   input,
		edit:    edit,
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(m.view.Load()))
}

// run executes req off the event loop.
func (m *Model) run(req tasklist.Request) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return resultMsg{res: tasklist.Execute(ctx, store, req)}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return m, m.applyResult(msg.res)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view.Dialog().Kind {
		case tasklist.DialogEdit:
			return m, m.handleEditKey(msg)
		case tasklist.DialogDelete:
			return m, m.handleDeleteKey(msg)
		}
		if m.focus == focusInput {
			return m, m.handleInputKey(msg)
		}
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m *Model) applyResult(res tasklist.Result) tea.Cmd {
	dialogBefore := m.view.Dialog()
	m.view.Apply(res)

	if res.Op == tasklist.OpCreate && res.Err == nil {
		m.input.SetValue(m.view.Input())
	}
	if dialogBefore.Kind == tasklist.DialogEdit && !m.view.Dialog().IsOpen() {
		m.edit.Blur()
	}
	m.clampCursor()
	return nil
}

func (m *Model) clampCursor() {
	n := len(m.view.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (service.Task, bool) {
	tasks := m.view.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return service.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Tasks())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			if req, ok := m.view.Toggle(task.ID); ok {
				return m, m.run(req)
			}
		}

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.selected(); ok && m.view.OpenEdit(task.ID) {
			m.edit.SetValue(m.view.Dialog().Text)
			m.edit.CursorEnd()
			return m, m.edit.Focus()
		}

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			m.view.OpenDelete(task.ID)
		}

	case key.Matches(msg, m.keys.Add):
		m.focus = focusInput
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Reload):
		return m, m.run(m.view.Load())
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if req, ok := m.view.Submit(); ok {
			return m.run(req)
		}
		return nil
	case key.Matches(msg, m.keys.Back):
		m.focus = focusList
		m.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.view.Input() {
		m.view.SetInput(v)
	}
	return cmd
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Save):
		if req, ok := m.view.SaveEdit(); ok {
			return m.run(req)
		}
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.view.CancelDialog()
		m.edit.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	if v := m.edit.Value(); v != m.view.Dialog().Text {
		m.view.SetEditText(v)
	}
	return cmd
}

func (m *Model) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if req, ok := m.view.ConfirmDelete(); ok {
			return m.run(req)
		}
	case key.Matches(msg, m.keys.Deny):
		m.view.CancelDialog()
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	title := "To-Do List"
	if m.view.Busy() {
		title += " " + m.spinner.View()
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.view.InputInvalid() {
		b.WriteString(errorStyle.Render("Please enter a task!"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tasks := m.view.Tasks()
	if len(tasks) == 0 {
		if m.view.Loading() {
			b.WriteString(emptyStyle.Render("loading..."))
		} else {
			b.WriteString(emptyStyle.Render("no tasks"))
		}
		b.WriteString("\n")
	}
	for i, task := range tasks {
		b.WriteString(m.renderTask(i, task))
		b.WriteString("\n")
	}

	if d := m.renderDialog(); d != "" {
		b.WriteString(d)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderTask(i int, task service.Task) string {
	pointer := "  "
	if i == m.cursor && m.focus == focusList {
		pointer = cursorStyle.Render("> ")
	}
	text := output.NormalizeText(task.Text)
	if task.Completed {
		text = completedStyle.Render(text)
	}
	line := fmt.Sprintf("%s%s %s", pointer, output.Checkbox(bool(task.Completed)), text)
	if m.view.Pending(task.ID) {
		line += " " + pendingStyle.Render("…")
	}
	return line
}

func (m *Model) renderDialog() string {
	d := m.view.Dialog()
	switch d.Kind {
	case tasklist.DialogEdit:
		body := dialogTitleStyle.Render("Edit Task") + "\n" + m.edit.View()
		if d.Invalid {
			body += "\n" + errorStyle.Render("Please enter a task.")
		}
		body += "\n" + m.help.ShortHelpView([]key.Binding{m.keys.Save, m.keys.Cancel})
		return dialogStyle.Render(body)
	case tasklist.DialogDelete:
		body := dialogTitleStyle.Render("Are you sure you want to delete this task?") +
			"\n" + m.help.ShortHelpView([]key.Binding{m.keys.Confirm, m.keys.Deny})
		return dialogStyle.Render(body)
	}
	return ""
}
