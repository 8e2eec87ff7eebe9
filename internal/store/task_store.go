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

const taskColumns = `t.id, t.user_id, t.title, t.active, t.deleted, t.has_subtasks,
	t.created_at, t.updated_at`

// CreateTask inserts a task together with its recurrence set and initial
// subtasks. On success task.ID, timestamps, and the loaded subtasks are
// filled in.
func (s *SQLStore) CreateTask(ctx context.Context, task *model.Task, subtasks []string) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Days = model.NormalizeDays(task.Days)
	titles := cleanTitles(subtasks)
	task.HasSubtasks = len(titles) > 0

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &task.ID, tx.Rebind(`
			INSERT INTO tasks (user_id, title, active, deleted, has_subtasks, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`),
			task.UserID, task.Title, task.Active, false, task.HasSubtasks,
			task.CreatedAt, task.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		if err := insertDays(ctx, tx, task.ID, task.Days); err != nil {
			return err
		}
		created, err := insertSubtasks(ctx, tx, task.ID, titles, now)
		if err != nil {
			return err
		}
		task.Subtasks = created
		return nil
	})
}

// UpdateTask applies a partial update. Replacing the day set or the subtask
// list happens in the same transaction as the scalar fields; a replaced
// subtask list also resyncs the ledger entry for date.
func (s *SQLStore) UpdateTask(ctx context.Context, userID string, id int64, date string, patch TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	now := time.Now().UTC()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.ownedTask(ctx, tx, userID, id); err != nil {
			return err
		}

		if patch.Title != nil {
			if _, err := tx.ExecContext(ctx,
				tx.Rebind("UPDATE tasks SET title = ? WHERE id = ?"),
				*patch.Title, id,
			); err != nil {
				return fmt.Errorf("updating title of task %d: %w", id, err)
			}
		}
		if patch.Active != nil {
			if _, err := tx.ExecContext(ctx,
				tx.Rebind("UPDATE tasks SET active = ? WHERE id = ?"),
				*patch.Active, id,
			); err != nil {
				return fmt.Errorf("updating active flag of task %d: %w", id, err)
			}
		}
		if patch.Days != nil {
			if _, err := tx.ExecContext(ctx,
				tx.Rebind("DELETE FROM task_days WHERE task_id = ?"), id,
			); err != nil {
				return fmt.Errorf("clearing days of task %d: %w", id, err)
			}
			if err := insertDays(ctx, tx, id, model.NormalizeDays(*patch.Days)); err != nil {
				return err
			}
		}
		if patch.Subtasks != nil {
			if err := replaceSubtasks(ctx, tx, id, *patch.Subtasks, date, now); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE tasks SET updated_at = ? WHERE id = ?"), now, id,
		); err != nil {
			return fmt.Errorf("touching task %d: %w", id, err)
		}
		return nil
	})
}

// SoftDeleteTask hides a task from every read path. Its ledger history is kept.
func (s *SQLStore) SoftDeleteTask(ctx context.Context, userID string, id int64) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE tasks SET deleted = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted = ?`),
		true, time.Now().UTC(), id, userID, false,
	)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.ErrTaskNotFound(id)
	}
	return nil
}

// ToggleArchive flips the active flag and returns the new value.
func (s *SQLStore) ToggleArchive(ctx context.Context, userID string, id int64) (bool, error) {
	var active bool
	err := s.db.GetContext(ctx, &active, s.db.Rebind(`
		UPDATE tasks SET active = NOT active, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted = ?
		RETURNING active`),
		time.Now().UTC(), id, userID, false,
	)
	if isNoRows(err) {
		return false, apperrors.ErrTaskNotFound(id)
	}
	if err != nil {
		return false, fmt.Errorf("toggling archive of task %d: %w", id, err)
	}
	return active, nil
}

// GetTask retrieves a single owned task with its days and subtasks.
func (s *SQLStore) GetTask(ctx context.Context, userID string, id int64) (*model.Task, error) {
	task, err := s.ownedTask(ctx, s.db, userID, id)
	if err != nil {
		return nil, err
	}
	tasks := []model.Task{task}
	if err := s.loadDetails(ctx, s.db, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// ListTasks retrieves the tasks matching the filter ordered by id, each with
// its full recurrence set and subtasks.
func (s *SQLStore) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query, args := buildTaskQuery(filter)

	var tasks []model.Task
	if err := s.db.SelectContext(ctx, &tasks, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	if err := s.loadDetails(ctx, s.db, tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// buildTaskQuery constructs the SQL query and args for a TaskFilter.
func buildTaskQuery(filter TaskFilter) (string, []any) {
	conditions := []string{"t.user_id = ?", "t.deleted = ?"}
	args := []any{}

	from := " FROM tasks t"
	if filter.Weekday != nil {
		// One row per task: (task_id, day_of_week) is the primary key.
		from += " INNER JOIN task_days d ON d.task_id = t.id AND d.day_of_week = ?"
		args = append(args, *filter.Weekday)
	}
	args = append(args, filter.UserID, false)

	if filter.ActiveOnly {
		conditions = append(conditions, "t.active = ?")
		args = append(args, true)
	}

	query := "SELECT " + taskColumns + from +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY t.id"
	return query, args
}

// ownedTask loads a task that exists, is not deleted, and belongs to userID.
func (s *SQLStore) ownedTask(ctx context.Context, q sqlx.QueryerContext, userID string, id int64) (model.Task, error) {
	var task model.Task
	err := sqlx.GetContext(ctx, q, &task, s.db.Rebind(
		"SELECT "+taskColumns+" FROM tasks t WHERE t.id = ? AND t.user_id = ? AND t.deleted = ?"),
		id, userID, false,
	)
	if isNoRows(err) {
		return task, apperrors.ErrTaskNotFound(id)
	}
	if err != nil {
		return task, fmt.Errorf("loading task %d: %w", id, err)
	}
	return task, nil
}

// loadDetails batch-loads recurrence days and subtasks into tasks.
func (s *SQLStore) loadDetails(ctx context.Context, q sqlx.QueryerContext, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	index := make(map[int64]int, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
		index[tasks[i].ID] = i
		tasks[i].Days = []int{}
		tasks[i].Subtasks = []model.Subtask{}
	}

	query, args, err := sqlx.In(
		"SELECT task_id, day_of_week FROM task_days WHERE task_id IN (?) ORDER BY task_id, day_of_week",
		ids)
	if err != nil {
		return fmt.Errorf("building days query: %w", err)
	}
	var days []struct {
		TaskID    int64 `db:"task_id"`
		DayOfWeek int   `db:"day_of_week"`
	}
	if err := sqlx.SelectContext(ctx, q, &days, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("loading task days: %w", err)
	}
	for _, d := range days {
		i := index[d.TaskID]
		tasks[i].Days = append(tasks[i].Days, d.DayOfWeek)
	}

	query, args, err = sqlx.In(`
		SELECT id, task_id, title, completed, priority, created_at
		FROM subtasks WHERE task_id IN (?)
		ORDER BY task_id, priority, id`, ids)
	if err != nil {
		return fmt.Errorf("building subtasks query: %w", err)
	}
	var subtasks []model.Subtask
	if err := sqlx.SelectContext(ctx, q, &subtasks, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("loading subtasks: %w", err)
	}
	for _, st := range subtasks {
		i := index[st.TaskID]
		tasks[i].Subtasks = append(tasks[i].Subtasks, st)
	}
	return nil
}

func insertDays(ctx context.Context, tx *sqlx.Tx, taskID int64, days []int) error {
	for _, d := range days {
		if !model.ValidWeekday(d) {
			return fmt.Errorf("invalid weekday %d", d)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO task_days (task_id, day_of_week) VALUES (?, ?)"),
			taskID, d,
		); err != nil {
			return fmt.Errorf("adding day %d to task %d: %w", d, taskID, err)
		}
	}
	return nil
}

// cleanTitles trims titles and drops blank ones, keeping input order.
func cleanTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
