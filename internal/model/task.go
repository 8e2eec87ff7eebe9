package model

import (
	"slices"
	"time"
)

// ISO weekday numbers used by recurrence sets (Monday = 1 .. Sunday = 7).
const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

// Task is a recurring task owned by a single user.
type Task struct {
	// ID is the auto-incremented identifier; ordering ties break on it.
	ID int64 `json:"id" db:"id"`

	// UserID is the opaque identity of the owning user.
	UserID string `json:"-" db:"user_id"`

	// Title is the human-readable label shown in every view.
	Title string `json:"title" db:"title"`

	// Active is false once the task is archived.
	Active bool `json:"active" db:"active"`

	// Deleted marks a soft-deleted task. Deleted tasks never leave the store.
	Deleted bool `json:"-" db:"deleted"`

	// HasSubtasks mirrors whether at least one subtask row exists.
	HasSubtasks bool `json:"has_subtasks" db:"has_subtasks"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Days is the recurrence set, populated by queries that join task_days.
	Days []int `json:"days" db:"-"`

	// Subtasks is populated by queries that load the subtask list.
	Subtasks []Subtask `json:"subtasks" db:"-"`
}

// ValidWeekday reports whether d is an ISO weekday number.
func ValidWeekday(d int) bool {
	return d >= Monday && d <= Sunday
}

// NormalizeDays returns the sorted, de-duplicated recurrence set.
func NormalizeDays(days []int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out
}

// RecursOn reports whether the task is scheduled on the given ISO weekday.
func (t Task) RecursOn(weekday int) bool {
	return slices.Contains(t.Days, weekday)
}
