// Package tracker implements the scheduling, completion, and statistics
// rules of the daily task tracker on top of a store.Store.
package tracker

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nhle/dailytasks/internal/clock"
	apperrors "github.com/nhle/dailytasks/internal/errors"
	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/store"
)

// Service is the entry point for every tracker operation. It is safe for
// concurrent use; all state lives in the store.
type Service struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a Service. A nil logger falls back to slog.Default().
func NewService(st store.Store, clk clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.System{Location: time.Local}
	}
	return &Service{store: st, clock: clk, logger: logger}
}

// today returns the current day and its ledger key.
func (s *Service) today() (time.Time, string) {
	day := s.clock.Today()
	return day, clock.DateKey(day)
}

// CreateTaskInput is the payload for creating a task. A nil Active creates
// the task active.
type CreateTaskInput struct {
	Title    string   `json:"title" yaml:"title"`
	Days     []int    `json:"days" yaml:"days"`
	Active   *bool    `json:"active,omitempty" yaml:"active,omitempty"`
	Subtasks []string `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

// UpdateTaskInput is the payload for a partial task update. Nil fields are
// left untouched; Subtasks replaces the whole list when set.
type UpdateTaskInput struct {
	Title    *string   `json:"title,omitempty"`
	Days     *[]int    `json:"days,omitempty"`
	Active   *bool     `json:"active,omitempty"`
	Subtasks *[]string `json:"subtasks,omitempty"`
}

func validateTitle(kind, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.Validation("%s title must not be empty", kind)
	}
	return title, nil
}

func validateDays(days []int) ([]int, error) {
	for _, d := range days {
		if !model.ValidWeekday(d) {
			return nil, apperrors.Validation("weekday %d is out of range 1..7", d)
		}
	}
	return model.NormalizeDays(days), nil
}

// Ping checks that storage is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return apperrors.Storage("pinging storage", err)
	}
	return nil
}
