package store

import (
	"context"

	"github.com/nhle/dailytasks/internal/model"
)

// TaskFilter controls which tasks ListTasks returns. Deleted tasks are never
// returned and UserID is always required.
type TaskFilter struct {
	UserID     string
	ActiveOnly bool
	Weekday    *int // ISO weekday the task must recur on, or nil (any)
}

// TaskPatch carries the optional fields of a task update. A nil field is
// left untouched; a non-nil Subtasks replaces the whole subtask list.
type TaskPatch struct {
	Title    *string
	Days     *[]int
	Active   *bool
	Subtasks *[]string
}

// StatsTotals are the cumulative counters behind the statistics summary.
type StatsTotals struct {
	Created        int `db:"created"`
	CompletedEver  int `db:"completed_ever"`
	ScheduledPairs int `db:"scheduled_pairs"`
}

// Store defines the persistence interface for recurring tasks, their
// subtasks, and the per-day completion ledger. Every method scoped to a task
// verifies that the task exists, is not deleted, and belongs to userID, and
// returns a task-not-found error otherwise without writing anything.
type Store interface {
	// === Tasks ===

	CreateTask(ctx context.Context, task *model.Task, subtasks []string) error
	UpdateTask(ctx context.Context, userID string, id int64, date string, patch TaskPatch) error
	SoftDeleteTask(ctx context.Context, userID string, id int64) error
	ToggleArchive(ctx context.Context, userID string, id int64) (bool, error)
	GetTask(ctx context.Context, userID string, id int64) (*model.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)

	// === Subtasks ===

	CreateSubtask(ctx context.Context, userID string, taskID int64, title, date string) (*model.Subtask, error)
	UpdateSubtask(ctx context.Context, userID string, taskID, subtaskID int64, date string, patch model.SubtaskPatch) (*model.Subtask, error)
	DeleteSubtask(ctx context.Context, userID string, taskID, subtaskID int64, date string) error
	ToggleSubtask(ctx context.Context, userID string, taskID, subtaskID int64, date string) (bool, error)

	// === Completion ledger ===

	GetCompletions(ctx context.Context, date string, taskIDs []int64) (map[int64]model.CompletionRecord, error)
	ToggleCompletion(ctx context.Context, userID string, taskID int64, date string) (bool, error)
	ReorderTasks(ctx context.Context, userID, date string, taskIDs []int64) error

	// === Statistics ===

	CompletedCountsByDate(ctx context.Context, userID, from, to string) (map[string]int, error)
	Totals(ctx context.Context, userID string) (StatsTotals, error)

	Ping(ctx context.Context) error
	Close() error
}
