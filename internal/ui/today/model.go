// Package today is the interactive daily checklist shown by the tui command.
package today

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/dailytasks/internal/keys"
	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/theme"
)

// Tracker is the subset of the tracker service the checklist drives.
type Tracker interface {
	DueToday(ctx context.Context, userID string) ([]model.TaskView, error)
	ToggleTask(ctx context.Context, userID string, taskID int64) (bool, error)
	ToggleSubtask(ctx context.Context, userID string, taskID, subtaskID int64) (bool, error)
	ReorderTasks(ctx context.Context, userID string, taskIDs []int64) error
}

// TasksLoadedMsg is sent when the due list has been (re)loaded.
type TasksLoadedMsg struct {
	Tasks []model.TaskView
}

// ErrMsg carries a failed tracker call back into the update loop.
type ErrMsg struct {
	Err error
}

// row addresses one visible line: a task, or one of its subtasks when
// sub >= 0.
type row struct {
	task int
	sub  int
}

// Model is the Bubble Tea model of the daily checklist.
type Model struct {
	tracker  Tracker
	user     string
	date     string
	keys     *keys.KeyMap
	help     help.Model
	tasks    []model.TaskView
	expanded map[int64]bool
	cursor   int
	err      error
	width    int
}

// New creates the checklist for user. date is only used in the header.
func New(t Tracker, user, date string) Model {
	return Model{
		tracker:  t,
		user:     user,
		date:     date,
		keys:     keys.DefaultKeyMap(),
		help:     help.New(),
		expanded: make(map[int64]bool),
	}
}

// Init returns a command that loads today's tasks.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.tracker.DueToday(context.Background(), m.user)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// then runs fn and reloads the list when it succeeds.
func (m Model) then(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return ErrMsg{Err: err}
		}
		return m.load()()
	}
}

// Update handles messages for the checklist.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.tasks = msg.Tasks
		m.err = nil
		m.clampCursor()
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if len(rows) == 0 {
		return m, nil
	}
	cur := rows[m.cursor]
	task := m.tasks[cur.task]

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if cur.sub >= 0 {
			subID := task.Subtasks[cur.sub].ID
			return m, m.then(func(ctx context.Context) error {
				_, err := m.tracker.ToggleSubtask(ctx, m.user, task.ID, subID)
				return err
			})
		}
		return m, m.then(func(ctx context.Context) error {
			_, err := m.tracker.ToggleTask(ctx, m.user, task.ID)
			return err
		})

	case key.Matches(msg, m.keys.Expand):
		if task.SubtasksCount == 0 {
			return m, nil
		}
		m.expanded[task.ID] = !m.expanded[task.ID]
		m.cursor = m.rowOf(cur.task)
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		return m.move(cur.task, -1)

	case key.Matches(msg, m.keys.MoveDown):
		return m.move(cur.task, 1)
	}
	return m, nil
}

// move shifts the task at index i by delta positions and persists the new
// order for today.
func (m Model) move(i, delta int) (tea.Model, tea.Cmd) {
	j := i + delta
	if j < 0 || j >= len(m.tasks) {
		return m, nil
	}
	tasks := make([]model.TaskView, len(m.tasks))
	copy(tasks, m.tasks)
	tasks[i], tasks[j] = tasks[j], tasks[i]
	m.tasks = tasks
	m.cursor = m.rowOf(j)

	ids := make([]int64, len(tasks))
	for k, t := range tasks {
		ids[k] = t.ID
	}
	return m, m.then(func(ctx context.Context) error {
		return m.tracker.ReorderTasks(ctx, m.user, ids)
	})
}

// rows lists the visible lines: every task, followed by its subtasks when
// expanded.
func (m Model) rows() []row {
	var rows []row
	for i, t := range m.tasks {
		rows = append(rows, row{task: i, sub: -1})
		if m.expanded[t.ID] {
			for j := range t.Subtasks {
				rows = append(rows, row{task: i, sub: j})
			}
		}
	}
	return rows
}

// rowOf returns the visible line index of task i.
func (m Model) rowOf(i int) int {
	for n, r := range m.rows() {
		if r.task == i && r.sub < 0 {
			return n
		}
	}
	return 0
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the checklist.
func (m Model) View() string {
	var b strings.Builder

	done := 0
	for _, t := range m.tasks {
		if t.Completed {
			done++
		}
	}
	percent := model.TruncatedPercent(done, len(m.tasks))
	progress := theme.PercentStyle(percent).Render(fmt.Sprintf("%d/%d done", done, len(m.tasks)))
	b.WriteString(renderHeader(m.width, "Today "+m.date, progress))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(theme.HelpStyle.Render("  Nothing scheduled for today."))
		b.WriteString("\n")
	}

	for n, r := range m.rows() {
		t := m.tasks[r.task]
		var line string
		if r.sub < 0 {
			line = renderTask(t, m.expanded[t.ID])
		} else {
			st := t.Subtasks[r.sub]
			line = "    " + theme.Checkbox(st.Completed) + " " + doneText(st.Title, st.Completed)
		}
		if n == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderHeader puts title on the left and status on the right of a line
// width cells wide. Before the first WindowSizeMsg the two are just spaced.
func renderHeader(width int, title, status string) string {
	left := theme.HeaderStyle.Render(title)
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(status), 2)
	return lipgloss.JoinHorizontal(lipgloss.Center, left, strings.Repeat(" ", gap), status)
}

func renderTask(t model.TaskView, expanded bool) string {
	line := theme.Checkbox(t.Completed) + " " + doneText(t.Title, t.Completed)
	if t.SubtasksCount > 0 {
		marker := "▸"
		if expanded {
			marker = "▾"
		}
		line += theme.HelpStyle.Render(fmt.Sprintf(" %s %d%% of %d", marker, t.SubtaskCompletion, t.SubtasksCount))
	}
	return line
}

func doneText(s string, done bool) string {
	if done {
		return theme.DoneStyle.Render(s)
	}
	return s
}
