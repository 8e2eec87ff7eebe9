package tracker

import (
	"context"

	apperrors "github.com/nhle/dailytasks/internal/errors"
	"github.com/nhle/dailytasks/internal/model"
)

// ToggleTask flips today's completion of a task and returns the new value.
// For a task with subtasks every subtask is set to the same value.
func (s *Service) ToggleTask(ctx context.Context, userID string, taskID int64) (bool, error) {
	_, key := s.today()
	completed, err := s.store.ToggleCompletion(ctx, userID, taskID, key)
	if err != nil {
		return false, apperrors.Storage("toggling task", err)
	}
	s.logger.Debug("task toggled",
		"user_id", userID, "task_id", taskID, "date", key, "completed", completed)
	return completed, nil
}

// ToggleSubtask flips one subtask and syncs the parent's ledger entry for
// today. Returns the subtask's new completion.
func (s *Service) ToggleSubtask(ctx context.Context, userID string, taskID, subtaskID int64) (bool, error) {
	_, key := s.today()
	completed, err := s.store.ToggleSubtask(ctx, userID, taskID, subtaskID, key)
	if err != nil {
		return false, apperrors.Storage("toggling subtask", err)
	}
	s.logger.Debug("subtask toggled",
		"user_id", userID, "task_id", taskID, "subtask_id", subtaskID, "completed", completed)
	return completed, nil
}

// UpdateSubtask renames a subtask and/or sets its completion explicitly.
func (s *Service) UpdateSubtask(
	ctx context.Context,
	userID string,
	taskID, subtaskID int64,
	patch model.SubtaskPatch,
) (*model.Subtask, error) {
	if patch.Title != nil {
		title, err := validateTitle("subtask", *patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	_, key := s.today()
	st, err := s.store.UpdateSubtask(ctx, userID, taskID, subtaskID, key, patch)
	if err != nil {
		return nil, apperrors.Storage("updating subtask", err)
	}
	s.logger.Debug("subtask updated", "user_id", userID, "task_id", taskID, "subtask_id", subtaskID)
	return st, nil
}

// CreateSubtask appends a subtask to a task.
func (s *Service) CreateSubtask(ctx context.Context, userID string, taskID int64, title string) (*model.Subtask, error) {
	title, err := validateTitle("subtask", title)
	if err != nil {
		return nil, err
	}

	_, key := s.today()
	st, err := s.store.CreateSubtask(ctx, userID, taskID, title, key)
	if err != nil {
		return nil, apperrors.Storage("creating subtask", err)
	}
	s.logger.Debug("subtask created", "user_id", userID, "task_id", taskID, "subtask_id", st.ID)
	return st, nil
}

// DeleteSubtask removes a subtask from a task.
func (s *Service) DeleteSubtask(ctx context.Context, userID string, taskID, subtaskID int64) error {
	_, key := s.today()
	if err := s.store.DeleteSubtask(ctx, userID, taskID, subtaskID, key); err != nil {
		return apperrors.Storage("deleting subtask", err)
	}
	s.logger.Debug("subtask deleted", "user_id", userID, "task_id", taskID, "subtask_id", subtaskID)
	return nil
}

// ReorderTasks persists the daily view order: the task at position i gets
// priority i for today. Unknown, foreign, or deleted ids fail the whole call.
func (s *Service) ReorderTasks(ctx context.Context, userID string, taskIDs []int64) error {
	_, key := s.today()
	if err := s.store.ReorderTasks(ctx, userID, key, taskIDs); err != nil {
		return apperrors.Storage("reordering tasks", err)
	}
	s.logger.Debug("tasks reordered", "user_id", userID, "date", key, "count", len(taskIDs))
	return nil
}
