package store

import (
	"context"
	"fmt"
)

// CompletedCountsByDate counts completed ledger rows per date in [from, to]
// for the user's non-deleted tasks. Dates with no completions are absent.
func (s *SQLStore) CompletedCountsByDate(
	ctx context.Context,
	userID, from, to string,
) (map[string]int, error) {
	var rows []struct {
		Date  string `db:"date"`
		Count int    `db:"n"`
	}
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT c.date AS date, COUNT(*) AS n
		FROM task_completions c
		INNER JOIN tasks t ON t.id = c.task_id
		WHERE t.user_id = ? AND t.deleted = ? AND c.completed = ?
		  AND c.date >= ? AND c.date <= ?
		GROUP BY c.date`),
		userID, false, true, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("counting completions %s..%s: %w", from, to, err)
	}

	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Date] = r.Count
	}
	return out, nil
}

// Totals returns the cumulative counters for the user's non-deleted tasks.
func (s *SQLStore) Totals(ctx context.Context, userID string) (StatsTotals, error) {
	var totals StatsTotals
	err := s.db.GetContext(ctx, &totals, s.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM tasks
			 WHERE user_id = ? AND deleted = ?) AS created,
			(SELECT COUNT(*) FROM task_completions c
			 INNER JOIN tasks t ON t.id = c.task_id
			 WHERE t.user_id = ? AND t.deleted = ? AND c.completed = ?) AS completed_ever,
			(SELECT COUNT(*) FROM task_days d
			 INNER JOIN tasks t ON t.id = d.task_id
			 WHERE t.user_id = ? AND t.deleted = ? AND t.active = ?) AS scheduled_pairs`),
		userID, false,
		userID, false, true,
		userID, false, true,
	)
	if err != nil {
		return StatsTotals{}, fmt.Errorf("computing totals: %w", err)
	}
	return totals, nil
}
