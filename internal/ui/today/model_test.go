package today

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/dailytasks/internal/model"
)

type fakeTracker struct {
	tasks    []model.TaskView
	toggled  []int64
	subs     []int64
	reorders [][]int64
	err      error
}

func (f *fakeTracker) DueToday(context.Context, string) ([]model.TaskView, error) {
	return f.tasks, f.err
}

func (f *fakeTracker) ToggleTask(_ context.Context, _ string, id int64) (bool, error) {
	f.toggled = append(f.toggled, id)
	return true, f.err
}

func (f *fakeTracker) ToggleSubtask(_ context.Context, _ string, _, subID int64) (bool, error) {
	f.subs = append(f.subs, subID)
	return true, f.err
}

func (f *fakeTracker) ReorderTasks(_ context.Context, _ string, ids []int64) error {
	f.reorders = append(f.reorders, ids)
	return f.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds a key and runs the resulting command, if any, back through
// Update.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

func loaded(t *testing.T, f *fakeTracker) Model {
	t.Helper()
	m := New(f, "user", "2026-10-14")
	next, _ := m.Update(m.Init()())
	return next.(Model)
}

func sampleTasks() []model.TaskView {
	return []model.TaskView{
		{ID: 1, Title: "Gym"},
		{ID: 2, Title: "Report", SubtasksCount: 2, Subtasks: []model.Subtask{
			{ID: 10, TaskID: 2, Title: "draft"},
			{ID: 11, TaskID: 2, Title: "send"},
		}},
	}
}

func TestToggleTaskUnderCursor(t *testing.T) {
	t.Parallel()
	f := &fakeTracker{tasks: sampleTasks()}
	m := loaded(t, f)

	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	assert.Equal(t, []int64{2}, f.toggled)
	assert.NoError(t, m.err)
}

func TestExpandAndToggleSubtask(t *testing.T) {
	t.Parallel()
	f := &fakeTracker{tasks: sampleTasks()}
	m := loaded(t, f)

	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.rows(), 4)

	m = press(t, m, runes("j"))
	m = press(t, m, runes("j"))
	m = press(t, m, runes("x"))

	assert.Equal(t, []int64{11}, f.subs)
	assert.Empty(t, f.toggled)
}

func TestMoveDownPersistsOrder(t *testing.T) {
	t.Parallel()
	f := &fakeTracker{tasks: sampleTasks()}
	m := loaded(t, f)

	next, cmd := m.Update(runes("J"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, int64(2), m.tasks[0].ID)
	assert.Equal(t, 1, m.cursor)

	cmd()
	require.Len(t, f.reorders, 1)
	assert.Equal(t, []int64{2, 1}, f.reorders[0])

	// Already last: nothing to persist.
	_, cmd = m.Update(runes("J"))
	assert.Nil(t, cmd)
}

func TestErrorsAreShown(t *testing.T) {
	t.Parallel()
	f := &fakeTracker{tasks: sampleTasks()}
	m := loaded(t, f)

	f.err = errors.New("storage failure")
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "storage failure")
}

func TestEmptyView(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakeTracker{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Contains(t, m.View(), "Nothing scheduled for today.")
}

func TestHeaderSpansWidth(t *testing.T) {
	t.Parallel()
	m := loaded(t, &fakeTracker{tasks: sampleTasks()})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(Model)

	header := strings.SplitN(m.View(), "\n", 2)[0]
	assert.Equal(t, 60, lipgloss.Width(header))
	assert.Contains(t, header, "0/2 done")
}
