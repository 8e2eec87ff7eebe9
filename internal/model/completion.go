package model

import "math"

// CompletionRecord is the ledger entry for one task on one calendar date.
// A missing record means the task was not acted upon that day.
type CompletionRecord struct {
	TaskID    int64  `json:"task_id" db:"task_id"`
	Date      string `json:"date" db:"date"`
	Completed bool   `json:"completed" db:"completed"`
	Priority  int    `json:"priority" db:"priority"`
}

// EffectiveCompletion is the completion value shown to the user. Tasks with
// subtasks are done exactly when every subtask is done; otherwise the ledger
// value for the day applies, and a nil record counts as not completed.
func EffectiveCompletion(rec *CompletionRecord, subtasks []Subtask) bool {
	if len(subtasks) > 0 {
		return AllCompleted(subtasks)
	}
	return rec != nil && rec.Completed
}

// TruncatedPercent returns done/total as an integer percentage, rounding
// down. It returns 0 when total is 0.
func TruncatedPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}

// RoundedPercent returns done/total as a percentage rounded to the nearest
// integer and capped at 100. It returns 0 when total is 0.
func RoundedPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(done) / float64(total) * 100))
	return min(p, 100)
}
