package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/nhle/dailytasks/internal/errors"
	"github.com/nhle/dailytasks/internal/model"
)

const subtaskColumns = "id, task_id, title, completed, priority, created_at"

// CreateSubtask appends a subtask after the task's current last rank and
// marks the task as having subtasks. An existing ledger row for date is
// resynced because the new subtask starts incomplete.
func (s *SQLStore) CreateSubtask(
	ctx context.Context,
	userID string,
	taskID int64,
	title, date string,
) (*model.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("subtask title must not be empty")
	}
	st := &model.Subtask{TaskID: taskID, Title: title, CreatedAt: time.Now().UTC()}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.ownedTask(ctx, tx, userID, taskID); err != nil {
			return err
		}

		err := tx.GetContext(ctx, &st.Priority, tx.Rebind(
			"SELECT COALESCE(MAX(priority), -1) + 1 FROM subtasks WHERE task_id = ?"),
			taskID)
		if err != nil {
			return fmt.Errorf("getting next subtask rank: %w", err)
		}

		err = tx.GetContext(ctx, &st.ID, tx.Rebind(`
			INSERT INTO subtasks (task_id, title, completed, priority, created_at)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id`),
			st.TaskID, st.Title, false, st.Priority, st.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("adding subtask to task %d: %w", taskID, err)
		}

		if err := setHasSubtasks(ctx, tx, taskID, true); err != nil {
			return err
		}
		return resyncLedger(ctx, tx, taskID, date)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateSubtask changes the title and/or completion of one subtask. When the
// completion is set, the parent's ledger entry for date is set to whether all
// subtasks are now complete.
func (s *SQLStore) UpdateSubtask(
	ctx context.Context,
	userID string,
	taskID, subtaskID int64,
	date string,
	patch model.SubtaskPatch,
) (*model.Subtask, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("subtask title must not be empty")
	}

	var st model.Subtask
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.ownedTask(ctx, tx, userID, taskID); err != nil {
			return err
		}
		if _, err := getSubtask(ctx, tx, taskID, subtaskID); err != nil {
			return err
		}

		if patch.Title != nil {
			if _, err := tx.ExecContext(ctx,
				tx.Rebind("UPDATE subtasks SET title = ? WHERE id = ?"),
				strings.TrimSpace(*patch.Title), subtaskID,
			); err != nil {
				return fmt.Errorf("updating subtask %d: %w", subtaskID, err)
			}
		}
		if patch.Completed != nil {
			if _, err := tx.ExecContext(ctx,
				tx.Rebind("UPDATE subtasks SET completed = ? WHERE id = ?"),
				*patch.Completed, subtaskID,
			); err != nil {
				return fmt.Errorf("updating subtask %d: %w", subtaskID, err)
			}
			if err := syncParentLedger(ctx, tx, taskID, date); err != nil {
				return err
			}
		}

		var err error
		st, err = getSubtask(ctx, tx, taskID, subtaskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// DeleteSubtask removes one subtask. The task's has_subtasks flag is cleared
// when it was the last one; otherwise an existing ledger row is resynced.
func (s *SQLStore) DeleteSubtask(
	ctx context.Context,
	userID string,
	taskID, subtaskID int64,
	date string,
) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.ownedTask(ctx, tx, userID, taskID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM subtasks WHERE id = ? AND task_id = ?"),
			subtaskID, taskID)
		if err != nil {
			return fmt.Errorf("deleting subtask %d: %w", subtaskID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return apperrors.ErrSubtaskNotFound(subtaskID)
		}

		total, _, err := subtaskProgress(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if total == 0 {
			return setHasSubtasks(ctx, tx, taskID, false)
		}
		return resyncLedger(ctx, tx, taskID, date)
	})
}

// ToggleSubtask flips one subtask and writes the all-completed predicate to
// the parent's ledger entry for date. Returns the subtask's new state.
func (s *SQLStore) ToggleSubtask(
	ctx context.Context,
	userID string,
	taskID, subtaskID int64,
	date string,
) (bool, error) {
	var completed bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.ownedTask(ctx, tx, userID, taskID); err != nil {
			return err
		}

		err := tx.GetContext(ctx, &completed, tx.Rebind(`
			UPDATE subtasks SET completed = NOT completed
			WHERE id = ? AND task_id = ?
			RETURNING completed`),
			subtaskID, taskID)
		if isNoRows(err) {
			return apperrors.ErrSubtaskNotFound(subtaskID)
		}
		if err != nil {
			return fmt.Errorf("toggling subtask %d: %w", subtaskID, err)
		}

		return syncParentLedger(ctx, tx, taskID, date)
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

func getSubtask(ctx context.Context, tx *sqlx.Tx, taskID, subtaskID int64) (model.Subtask, error) {
	var st model.Subtask
	err := tx.GetContext(ctx, &st, tx.Rebind(
		"SELECT "+subtaskColumns+" FROM subtasks WHERE id = ? AND task_id = ?"),
		subtaskID, taskID)
	if isNoRows(err) {
		return st, apperrors.ErrSubtaskNotFound(subtaskID)
	}
	if err != nil {
		return st, fmt.Errorf("loading subtask %d: %w", subtaskID, err)
	}
	return st, nil
}

// insertSubtasks adds titles to a task ranked 0..n-1 in input order.
func insertSubtasks(
	ctx context.Context,
	tx *sqlx.Tx,
	taskID int64,
	titles []string,
	now time.Time,
) ([]model.Subtask, error) {
	out := make([]model.Subtask, 0, len(titles))
	for i, title := range titles {
		st := model.Subtask{TaskID: taskID, Title: title, Priority: i, CreatedAt: now}
		err := tx.GetContext(ctx, &st.ID, tx.Rebind(`
			INSERT INTO subtasks (task_id, title, completed, priority, created_at)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id`),
			taskID, title, false, i, now,
		)
		if err != nil {
			return nil, fmt.Errorf("adding subtask to task %d: %w", taskID, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// replaceSubtasks swaps the whole subtask list of a task. Blank titles are
// skipped and has_subtasks follows the resulting count. An existing ledger
// entry for date is recomputed against the new, all-open list.
func replaceSubtasks(
	ctx context.Context,
	tx *sqlx.Tx,
	taskID int64,
	titles []string,
	date string,
	now time.Time,
) error {
	if _, err := tx.ExecContext(ctx,
		tx.Rebind("DELETE FROM subtasks WHERE task_id = ?"), taskID,
	); err != nil {
		return fmt.Errorf("clearing subtasks of task %d: %w", taskID, err)
	}
	created, err := insertSubtasks(ctx, tx, taskID, cleanTitles(titles), now)
	if err != nil {
		return err
	}
	if err := setHasSubtasks(ctx, tx, taskID, len(created) > 0); err != nil {
		return err
	}
	if len(created) == 0 {
		return nil
	}
	return resyncLedger(ctx, tx, taskID, date)
}

func setHasSubtasks(ctx context.Context, tx *sqlx.Tx, taskID int64, has bool) error {
	if _, err := tx.ExecContext(ctx,
		tx.Rebind("UPDATE tasks SET has_subtasks = ? WHERE id = ?"), has, taskID,
	); err != nil {
		return fmt.Errorf("updating has_subtasks of task %d: %w", taskID, err)
	}
	return nil
}

// subtaskProgress returns how many subtasks the task has and how many of
// them are completed.
func subtaskProgress(ctx context.Context, tx *sqlx.Tx, taskID int64) (total, done int, err error) {
	var row struct {
		Total int `db:"total"`
		Done  int `db:"done"`
	}
	err = tx.GetContext(ctx, &row, tx.Rebind(`
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS done
		FROM subtasks WHERE task_id = ?`), taskID)
	if err != nil {
		return 0, 0, fmt.Errorf("counting subtasks of task %d: %w", taskID, err)
	}
	return row.Total, row.Done, nil
}

// syncParentLedger upserts the parent's ledger entry for date with the
// all-subtasks-completed predicate, creating the row if needed.
func syncParentLedger(ctx context.Context, tx *sqlx.Tx, taskID int64, date string) error {
	total, done, err := subtaskProgress(ctx, tx, taskID)
	if err != nil {
		return err
	}
	return upsertCompleted(ctx, tx, taskID, date, total > 0 && done == total)
}

// resyncLedger rewrites an existing ledger entry for date after the subtask
// set changed. Absent rows stay absent.
func resyncLedger(ctx context.Context, tx *sqlx.Tx, taskID int64, date string) error {
	total, done, err := subtaskProgress(ctx, tx, taskID)
	if err != nil {
		return err
	}
	if total == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(
		"UPDATE task_completions SET completed = ? WHERE task_id = ? AND date = ?"),
		done == total, taskID, date,
	); err != nil {
		return fmt.Errorf("resyncing completion of task %d: %w", taskID, err)
	}
	return nil
}
