package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nhle/dailytasks/internal/errors"
	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/store"
	"github.com/nhle/dailytasks/tests/testutil"
)

const (
	user  = testutil.TestUser
	other = testutil.OtherUser
	day   = "2026-10-14"
)

func createTask(t *testing.T, s *store.SQLStore, userID, title string, days []int, subtasks ...string) *model.Task {
	t.Helper()
	task := &model.Task{UserID: userID, Title: title, Active: true, Days: days}
	require.NoError(t, s.CreateTask(context.Background(), task, subtasks))
	return task
}

func TestCreateTask_PersistsDaysAndSubtasks(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Report", []int{5, 1, 5}, "draft", "  ", "send")
	assert.NotZero(t, task.ID)
	assert.True(t, task.HasSubtasks)
	assert.Equal(t, []int{1, 5}, task.Days)

	got, err := s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Report", got.Title)
	assert.Equal(t, []int{1, 5}, got.Days)
	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, "draft", got.Subtasks[0].Title)
	assert.Equal(t, 0, got.Subtasks[0].Priority)
	assert.Equal(t, "send", got.Subtasks[1].Title)
	assert.Equal(t, 1, got.Subtasks[1].Priority)
}

func TestGetTask_OwnershipIsNotFound(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, other, "Private", []int{1})

	_, err := s.GetTask(ctx, user, task.ID)
	assert.ErrorIs(t, err, apperrors.NotFoundTask)

	_, err = s.ToggleCompletion(ctx, user, task.ID, day)
	assert.ErrorIs(t, err, apperrors.NotFoundTask)

	recs, err := s.GetCompletions(ctx, day, []int64{task.ID})
	require.NoError(t, err)
	assert.Empty(t, recs, "a rejected toggle must not write a ledger row")
}

func TestListTasks_WeekdayFilterReturnsOneRowPerTask(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	daily := createTask(t, s, user, "Daily", []int{1, 2, 3, 4, 5, 6, 7})
	wed := createTask(t, s, user, "Gym", []int{3})
	createTask(t, s, user, "Weekend", []int{6, 7})
	archived := createTask(t, s, user, "Old", []int{3})
	_, err := s.ToggleArchive(ctx, user, archived.ID)
	require.NoError(t, err)
	createTask(t, s, other, "Theirs", []int{3})

	weekday := 3
	due, err := s.ListTasks(ctx, store.TaskFilter{UserID: user, ActiveOnly: true, Weekday: &weekday})
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, daily.ID, due[0].ID)
	assert.Len(t, due[0].Days, 7)
	assert.Equal(t, wed.ID, due[1].ID)

	all, err := s.ListTasks(ctx, store.TaskFilter{UserID: user})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListTasks_EmptyIsNotNil(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)

	tasks, err := s.ListTasks(context.Background(), store.TaskFilter{UserID: user})
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestSoftDeleteTask(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Gone", []int{3})
	require.NoError(t, s.SoftDeleteTask(ctx, user, task.ID))

	_, err := s.GetTask(ctx, user, task.ID)
	assert.ErrorIs(t, err, apperrors.NotFoundTask)
	assert.ErrorIs(t, s.SoftDeleteTask(ctx, user, task.ID), apperrors.NotFoundTask)
}

func TestToggleCompletion_UpsertWithNegation(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Gym", []int{3})

	completed, err := s.ToggleCompletion(ctx, user, task.ID, day)
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = s.ToggleCompletion(ctx, user, task.ID, day)
	require.NoError(t, err)
	assert.False(t, completed)

	recs, err := s.GetCompletions(ctx, day, []int64{task.ID})
	require.NoError(t, err)
	require.Contains(t, recs, task.ID)
	assert.False(t, recs[task.ID].Completed)
}

func TestToggleCompletion_CascadesToSubtasks(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Report", []int{3}, "a", "b")
	_, err := s.ToggleSubtask(ctx, user, task.ID, task.Subtasks[0].ID, day)
	require.NoError(t, err)

	// Ledger now reads false (one of two done), so the parent toggle marks all.
	completed, err := s.ToggleCompletion(ctx, user, task.ID, day)
	require.NoError(t, err)
	assert.True(t, completed)

	got, err := s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	for _, st := range got.Subtasks {
		assert.True(t, st.Completed, "subtask %q", st.Title)
	}

	completed, err = s.ToggleCompletion(ctx, user, task.ID, day)
	require.NoError(t, err)
	assert.False(t, completed)

	got, err = s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.Zero(t, model.CountCompleted(got.Subtasks))
}

func TestToggleSubtask_SyncsParentLedger(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Report", []int{3}, "a", "b")
	a, b := task.Subtasks[0].ID, task.Subtasks[1].ID

	ledger := func() model.CompletionRecord {
		recs, err := s.GetCompletions(ctx, day, []int64{task.ID})
		require.NoError(t, err)
		require.Contains(t, recs, task.ID)
		return recs[task.ID]
	}

	done, err := s.ToggleSubtask(ctx, user, task.ID, a, day)
	require.NoError(t, err)
	assert.True(t, done)
	assert.False(t, ledger().Completed)

	_, err = s.ToggleSubtask(ctx, user, task.ID, b, day)
	require.NoError(t, err)
	assert.True(t, ledger().Completed)

	_, err = s.ToggleSubtask(ctx, user, task.ID, 9999, day)
	assert.ErrorIs(t, err, apperrors.NotFoundSubtask)
}

func TestSubtaskLifecycle_MaintainsHasSubtasks(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Plain", []int{3})
	assert.False(t, task.HasSubtasks)

	first, err := s.CreateSubtask(ctx, user, task.ID, "one", day)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Priority)
	second, err := s.CreateSubtask(ctx, user, task.ID, "two", day)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Priority)

	got, err := s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.True(t, got.HasSubtasks)

	require.NoError(t, s.DeleteSubtask(ctx, user, task.ID, first.ID, day))
	got, err = s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.True(t, got.HasSubtasks)

	require.NoError(t, s.DeleteSubtask(ctx, user, task.ID, second.ID, day))
	got, err = s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.False(t, got.HasSubtasks)
	assert.Empty(t, got.Subtasks)

	err = s.DeleteSubtask(ctx, user, task.ID, second.ID, day)
	assert.ErrorIs(t, err, apperrors.NotFoundSubtask)
}

func TestCreateSubtask_ResyncsExistingLedgerRow(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Report", []int{3}, "a")
	_, err := s.ToggleSubtask(ctx, user, task.ID, task.Subtasks[0].ID, day)
	require.NoError(t, err)

	_, err = s.CreateSubtask(ctx, user, task.ID, "b", day)
	require.NoError(t, err)

	recs, err := s.GetCompletions(ctx, day, []int64{task.ID})
	require.NoError(t, err)
	assert.False(t, recs[task.ID].Completed)

	fresh := createTask(t, s, user, "Untouched", []int{3})
	_, err = s.CreateSubtask(ctx, user, fresh.ID, "x", day)
	require.NoError(t, err)
	recs, err = s.GetCompletions(ctx, day, []int64{fresh.ID})
	require.NoError(t, err)
	assert.NotContains(t, recs, fresh.ID)
}

func TestUpdateTask_ReplacesDaysAndSubtasks(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Report", []int{3}, "old")

	title := "Weekly report"
	days := []int{5, 1}
	subs := []string{"x", " ", "y", "z"}
	require.NoError(t, s.UpdateTask(ctx, user, task.ID, day, store.TaskPatch{
		Title: &title, Days: &days, Subtasks: &subs,
	}))

	got, err := s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, []int{1, 5}, got.Days)
	require.Len(t, got.Subtasks, 3)
	for i, st := range got.Subtasks {
		assert.Equal(t, i, st.Priority)
	}

	empty := []string{}
	require.NoError(t, s.UpdateTask(ctx, user, task.ID, day, store.TaskPatch{Subtasks: &empty}))
	got, err = s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.False(t, got.HasSubtasks)
	assert.Empty(t, got.Subtasks)
}

func TestUpdateTask_ReplacedSubtasksResyncLedger(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Report", []int{3}, "a")
	done, err := s.ToggleSubtask(ctx, user, task.ID, task.Subtasks[0].ID, day)
	require.NoError(t, err)
	require.True(t, done)

	subs := []string{"b"}
	require.NoError(t, s.UpdateTask(ctx, user, task.ID, day, store.TaskPatch{Subtasks: &subs}))

	recs, err := s.GetCompletions(ctx, day, []int64{task.ID})
	require.NoError(t, err)
	require.Contains(t, recs, task.ID)
	assert.False(t, recs[task.ID].Completed)

	completed, err := s.ToggleCompletion(ctx, user, task.ID, day)
	require.NoError(t, err)
	assert.True(t, completed)

	fresh := createTask(t, s, user, "Untouched", []int{3}, "x")
	require.NoError(t, s.UpdateTask(ctx, user, fresh.ID, day, store.TaskPatch{Subtasks: &subs}))
	recs, err = s.GetCompletions(ctx, day, []int64{fresh.ID})
	require.NoError(t, err)
	assert.NotContains(t, recs, fresh.ID)
}

func TestUpdateTask_FailureLeavesPriorState(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := createTask(t, s, user, "Report", []int{3}, "keep")

	subs := []string{"new"}
	bad := []int{3, 9}
	err := s.UpdateTask(ctx, user, task.ID, day, store.TaskPatch{Subtasks: &subs, Days: &bad})
	require.Error(t, err)

	got, err := s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got.Days)
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, "keep", got.Subtasks[0].Title)
}

func TestReorderTasks(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a := createTask(t, s, user, "A", []int{3})
	b := createTask(t, s, user, "B", []int{3})
	_, err := s.ToggleCompletion(ctx, user, a.ID, day)
	require.NoError(t, err)

	require.NoError(t, s.ReorderTasks(ctx, user, day, []int64{b.ID, a.ID}))
	recs, err := s.GetCompletions(ctx, day, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, recs[a.ID].Priority)
	assert.True(t, recs[a.ID].Completed, "reorder keeps completion")
	assert.Equal(t, 0, recs[b.ID].Priority)
	assert.False(t, recs[b.ID].Completed)

	foreign := createTask(t, s, other, "X", []int{3})
	err = s.ReorderTasks(ctx, user, day, []int64{a.ID, foreign.ID})
	assert.ErrorIs(t, err, apperrors.NotFoundTask)

	recs, err = s.GetCompletions(ctx, day, []int64{a.ID, foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, recs[a.ID].Priority, "rejected reorder writes nothing")
	assert.NotContains(t, recs, foreign.ID)
}

func TestStatsQueries(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a := createTask(t, s, user, "A", []int{1, 2, 3})
	b := createTask(t, s, user, "B", []int{3})
	deleted := createTask(t, s, user, "C", []int{3})

	for _, d := range []string{"2026-10-12", "2026-10-13", "2026-10-14"} {
		_, err := s.ToggleCompletion(ctx, user, a.ID, d)
		require.NoError(t, err)
	}
	_, err := s.ToggleCompletion(ctx, user, b.ID, "2026-10-14")
	require.NoError(t, err)
	_, err = s.ToggleCompletion(ctx, user, deleted.ID, "2026-10-14")
	require.NoError(t, err)
	require.NoError(t, s.SoftDeleteTask(ctx, user, deleted.ID))

	counts, err := s.CompletedCountsByDate(ctx, user, "2026-10-13", "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2026-10-13": 1, "2026-10-14": 2}, counts)

	totals, err := s.Totals(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, store.StatsTotals{Created: 2, CompletedEver: 4, ScheduledPairs: 4}, totals)
}

func TestMigrations_ReopenIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.db")

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	first, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first)
	createTask(t, s, user, "Gym", []int{1})
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	again, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	tasks, err := s.ListTasks(ctx, store.TaskFilter{UserID: user})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
