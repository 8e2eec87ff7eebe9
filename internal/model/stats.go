package model

// HistoryDays is the length of the completion heatmap.
const HistoryDays = 30

// DayPercent is one point of the completion heatmap.
type DayPercent struct {
	Date    string `json:"date"`
	Percent int    `json:"percent"`
}

// Summary holds the cumulative completion metrics for a user.
type Summary struct {
	TotalCreated       int `json:"total_created"`
	TotalCompletedEver int `json:"total_completed_ever"`
	TotalScheduledDays int `json:"total_scheduled_days"`
	SuccessRate        int `json:"success_rate"`
	TodayPercent       int `json:"today_percent"`

	// CurrentStreak counts consecutive fully completed days up to today.
	CurrentStreak int `json:"current_streak"`

	// BestDay is the most complete day of the heatmap window, if any.
	BestDay *DayPercent `json:"best_day"`
}

// Stats is the combined payload of the statistics endpoint.
type Stats struct {
	History []DayPercent `json:"history"`
	Summary Summary      `json:"summary"`
}

// DayTally is the raw numerator/denominator behind a heatmap point.
type DayTally struct {
	Date      string
	Scheduled int
	Completed int
}

// Percent converts the tally into the rounded heatmap percentage.
func (d DayTally) Percent() int {
	return RoundedPercent(d.Completed, d.Scheduled)
}
