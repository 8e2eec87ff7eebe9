package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/nhle/dailytasks/internal/errors"
	"github.com/nhle/dailytasks/internal/model"
)

// GetCompletions returns the ledger rows for date keyed by task id. Tasks
// with no row for the day are absent from the map.
func (s *SQLStore) GetCompletions(
	ctx context.Context,
	date string,
	taskIDs []int64,
) (map[int64]model.CompletionRecord, error) {
	out := make(map[int64]model.CompletionRecord, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT task_id, date, completed, priority
		FROM task_completions
		WHERE date = ? AND task_id IN (?)`, date, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("building completions query: %w", err)
	}

	var recs []model.CompletionRecord
	if err := s.db.SelectContext(ctx, &recs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying completions for %s: %w", date, err)
	}
	for _, r := range recs {
		out[r.TaskID] = r
	}
	return out, nil
}

// ToggleCompletion flips a task's completion for date and returns the new
// value. A task without subtasks is flipped in a single upsert. A task with
// subtasks takes the negated ledger value (absent counts as false) and the
// same value is written to every subtask.
func (s *SQLStore) ToggleCompletion(
	ctx context.Context,
	userID string,
	taskID int64,
	date string,
) (bool, error) {
	var completed bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		task, err := s.ownedTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}

		if !task.HasSubtasks {
			err := tx.GetContext(ctx, &completed, tx.Rebind(`
				INSERT INTO task_completions (task_id, date, completed, priority)
				VALUES (?, ?, ?, 0)
				ON CONFLICT (task_id, date)
				DO UPDATE SET completed = NOT task_completions.completed
				RETURNING completed`),
				taskID, date, true)
			if err != nil {
				return fmt.Errorf("toggling task %d: %w", taskID, err)
			}
			return nil
		}

		var baseline bool
		err = tx.GetContext(ctx, &baseline, tx.Rebind(
			"SELECT completed FROM task_completions WHERE task_id = ? AND date = ?"),
			taskID, date)
		if err != nil && !isNoRows(err) {
			return fmt.Errorf("reading completion of task %d: %w", taskID, err)
		}
		completed = !baseline

		if err := upsertCompleted(ctx, tx, taskID, date, completed); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE subtasks SET completed = ? WHERE task_id = ?"),
			completed, taskID,
		); err != nil {
			return fmt.Errorf("cascading completion to subtasks of task %d: %w", taskID, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// ReorderTasks sets the ledger priority for date to each id's position in
// taskIDs, keeping any existing completion value. Every id must belong to
// userID and not be deleted; otherwise nothing is written.
func (s *SQLStore) ReorderTasks(ctx context.Context, userID, date string, taskIDs []int64) error {
	if len(taskIDs) == 0 {
		return nil
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := sqlx.In(
			"SELECT id FROM tasks WHERE user_id = ? AND deleted = ? AND id IN (?)",
			userID, false, taskIDs)
		if err != nil {
			return fmt.Errorf("building ownership query: %w", err)
		}
		var owned []int64
		if err := tx.SelectContext(ctx, &owned, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("checking task ownership: %w", err)
		}
		known := make(map[int64]bool, len(owned))
		for _, id := range owned {
			known[id] = true
		}
		for _, id := range taskIDs {
			if !known[id] {
				return apperrors.ErrTaskNotFound(id)
			}
		}

		for i, id := range taskIDs {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO task_completions (task_id, date, completed, priority)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (task_id, date)
				DO UPDATE SET priority = excluded.priority`),
				id, date, false, i,
			); err != nil {
				return fmt.Errorf("setting priority of task %d: %w", id, err)
			}
		}
		return nil
	})
}

// upsertCompleted sets the ledger completion for (taskID, date) to an
// absolute value, leaving the priority of an existing row untouched.
func upsertCompleted(ctx context.Context, tx *sqlx.Tx, taskID int64, date string, completed bool) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO task_completions (task_id, date, completed, priority)
		VALUES (?, ?, ?, 0)
		ON CONFLICT (task_id, date)
		DO UPDATE SET completed = excluded.completed`),
		taskID, date, completed,
	); err != nil {
		return fmt.Errorf("recording completion of task %d: %w", taskID, err)
	}
	return nil
}
