package model

import "time"

// Subtask is a checklist entry within a task.
// Its lifecycle is bound to the parent task (CASCADE delete).
type Subtask struct {
	ID        int64     `json:"id" db:"id"`
	TaskID    int64     `json:"task_id" db:"task_id"`
	Title     string    `json:"title" db:"title"`
	Completed bool      `json:"completed" db:"completed"`
	Priority  int       `json:"priority" db:"priority"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// SubtaskPatch carries the optional fields of a subtask update.
type SubtaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// AllCompleted reports whether the list is non-empty and every entry is done.
func AllCompleted(subtasks []Subtask) bool {
	if len(subtasks) == 0 {
		return false
	}
	for _, st := range subtasks {
		if !st.Completed {
			return false
		}
	}
	return true
}

// CountCompleted returns the number of completed subtasks.
func CountCompleted(subtasks []Subtask) int {
	n := 0
	for _, st := range subtasks {
		if st.Completed {
			n++
		}
	}
	return n
}
