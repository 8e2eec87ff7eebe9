package tracker

import (
	"cmp"
	"context"
	"slices"

	"github.com/nhle/dailytasks/internal/clock"
	apperrors "github.com/nhle/dailytasks/internal/errors"
	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/store"
)

// DueToday returns the user's active tasks recurring on today's weekday,
// joined with today's ledger entry and ordered by (priority, id).
func (s *Service) DueToday(ctx context.Context, userID string) ([]model.TaskView, error) {
	day, key := s.today()
	weekday := clock.ISOWeekday(day)

	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{
		UserID:     userID,
		ActiveOnly: true,
		Weekday:    &weekday,
	})
	if err != nil {
		return nil, apperrors.Storage("listing due tasks", err)
	}

	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	recs, err := s.store.GetCompletions(ctx, key, ids)
	if err != nil {
		return nil, apperrors.Storage("listing due tasks", err)
	}

	views := make([]model.TaskView, 0, len(tasks))
	for _, t := range tasks {
		var rec *model.CompletionRecord
		if r, ok := recs[t.ID]; ok {
			rec = &r
		}
		views = append(views, model.NewTaskView(t, rec))
	}
	sortViews(views)
	return views, nil
}

// sortViews orders the daily view by ledger priority, then task id.
func sortViews(views []model.TaskView) {
	slices.SortFunc(views, func(a, b model.TaskView) int {
		return cmp.Or(cmp.Compare(a.Priority, b.Priority), cmp.Compare(a.ID, b.ID))
	})
}

// AllTasks returns every non-deleted task of the user, archived ones
// included, with full recurrence sets and subtasks.
func (s *Service) AllTasks(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{UserID: userID})
	if err != nil {
		return nil, apperrors.Storage("listing tasks", err)
	}
	return tasks, nil
}

// GetTask returns one task of the user.
func (s *Service) GetTask(ctx context.Context, userID string, id int64) (*model.Task, error) {
	task, err := s.store.GetTask(ctx, userID, id)
	if err != nil {
		return nil, apperrors.Storage("loading task", err)
	}
	return task, nil
}

// CreateTask validates and stores a new task, active unless in.Active says
// otherwise.
func (s *Service) CreateTask(ctx context.Context, userID string, in CreateTaskInput) (*model.Task, error) {
	title, err := validateTitle("task", in.Title)
	if err != nil {
		return nil, err
	}
	days, err := validateDays(in.Days)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID: userID,
		Title:  title,
		Active: in.Active == nil || *in.Active,
		Days:   days,
	}
	if err := s.store.CreateTask(ctx, task, in.Subtasks); err != nil {
		return nil, apperrors.Storage("creating task", err)
	}

	s.logger.Debug("task created",
		"user_id", userID,
		"task_id", task.ID,
		"days", task.Days,
		"subtasks", len(task.Subtasks),
	)
	return task, nil
}

// UpdateTask applies a partial update and returns the updated task.
func (s *Service) UpdateTask(ctx context.Context, userID string, id int64, in UpdateTaskInput) (*model.Task, error) {
	patch := store.TaskPatch{Active: in.Active, Subtasks: in.Subtasks}
	if in.Title != nil {
		title, err := validateTitle("task", *in.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if in.Days != nil {
		days, err := validateDays(*in.Days)
		if err != nil {
			return nil, err
		}
		patch.Days = &days
	}

	_, date := s.today()
	if err := s.store.UpdateTask(ctx, userID, id, date, patch); err != nil {
		return nil, apperrors.Storage("updating task", err)
	}
	s.logger.Debug("task updated", "user_id", userID, "task_id", id)

	return s.GetTask(ctx, userID, id)
}

// DeleteTask soft-deletes a task.
func (s *Service) DeleteTask(ctx context.Context, userID string, id int64) error {
	if err := s.store.SoftDeleteTask(ctx, userID, id); err != nil {
		return apperrors.Storage("deleting task", err)
	}
	s.logger.Debug("task deleted", "user_id", userID, "task_id", id)
	return nil
}

// ToggleArchive flips a task between active and archived and returns the
// new active flag.
func (s *Service) ToggleArchive(ctx context.Context, userID string, id int64) (bool, error) {
	active, err := s.store.ToggleArchive(ctx, userID, id)
	if err != nil {
		return false, apperrors.Storage("archiving task", err)
	}
	s.logger.Debug("task archive toggled", "user_id", userID, "task_id", id, "active", active)
	return active, nil
}
