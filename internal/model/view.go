package model

// TaskView is a task as it appears in the daily view: joined with the day's
// ledger entry and carrying its derived completion.
type TaskView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Active      bool      `json:"active"`
	Days        []int     `json:"days"`
	Completed   bool      `json:"completed"`
	Priority    int       `json:"priority"`
	HasSubtasks bool      `json:"has_subtasks"`
	Subtasks    []Subtask `json:"subtasks"`

	SubtasksCount     int `json:"subtasks_count"`
	SubtaskCompletion int `json:"subtask_completion"`
}

// NewTaskView joins a task with its ledger record for the day. rec may be nil.
func NewTaskView(t Task, rec *CompletionRecord) TaskView {
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []Subtask{}
	}
	days := t.Days
	if days == nil {
		days = []int{}
	}

	v := TaskView{
		ID:            t.ID,
		Title:         t.Title,
		Active:        t.Active,
		Days:          days,
		HasSubtasks:   t.HasSubtasks,
		Subtasks:      subtasks,
		SubtasksCount: len(subtasks),
		Completed:     EffectiveCompletion(rec, subtasks),
	}
	if rec != nil {
		v.Priority = rec.Priority
	}
	v.SubtaskCompletion = TruncatedPercent(CountCompleted(subtasks), len(subtasks))
	return v
}
