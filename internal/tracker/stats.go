package tracker

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/nhle/dailytasks/internal/clock"
	apperrors "github.com/nhle/dailytasks/internal/errors"
	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/store"
)

// Heatmap returns one completion percentage per day for the trailing
// model.HistoryDays days, oldest first, ending today.
func (s *Service) Heatmap(ctx context.Context, userID string) ([]model.DayPercent, error) {
	tallies, err := s.dailyTallies(ctx, userID)
	if err != nil {
		return nil, err
	}
	return history(tallies), nil
}

// Summary returns the cumulative completion metrics.
func (s *Service) Summary(ctx context.Context, userID string) (model.Summary, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return model.Summary{}, err
	}
	return stats.Summary, nil
}

// Stats returns the heatmap and the summary. The per-day tallies and the
// cumulative totals are loaded concurrently.
func (s *Service) Stats(ctx context.Context, userID string) (model.Stats, error) {
	var (
		tallies []model.DayTally
		totals  store.StatsTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tallies, err = s.dailyTallies(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.store.Totals(gctx, userID)
		if err != nil {
			return apperrors.Storage("computing totals", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Stats{}, err
	}

	return model.Stats{
		History: history(tallies),
		Summary: summarize(totals, tallies),
	}, nil
}

// dailyTallies computes the scheduled and completed counts of each heatmap
// day. Subtasks are counted from the current subtask set of the tasks due
// that weekday, not from a historical snapshot.
func (s *Service) dailyTallies(ctx context.Context, userID string) ([]model.DayTally, error) {
	days := clock.Trailing(s.clock.Today(), model.HistoryDays)
	from, to := clock.DateKey(days[0]), clock.DateKey(days[len(days)-1])

	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{UserID: userID, ActiveOnly: true})
	if err != nil {
		return nil, apperrors.Storage("loading statistics", err)
	}
	counts, err := s.store.CompletedCountsByDate(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.Storage("loading statistics", err)
	}

	tallies := make([]model.DayTally, len(days))
	for i, day := range days {
		key := clock.DateKey(day)
		weekday := clock.ISOWeekday(day)
		tally := model.DayTally{Date: key, Completed: counts[key]}
		for _, t := range tasks {
			if !t.RecursOn(weekday) {
				continue
			}
			tally.Scheduled += 1 + len(t.Subtasks)
			tally.Completed += model.CountCompleted(t.Subtasks)
		}
		tallies[i] = tally
	}
	return tallies, nil
}

func history(tallies []model.DayTally) []model.DayPercent {
	out := make([]model.DayPercent, len(tallies))
	for i, t := range tallies {
		out[i] = model.DayPercent{Date: t.Date, Percent: t.Percent()}
	}
	return out
}

func summarize(totals store.StatsTotals, tallies []model.DayTally) model.Summary {
	sum := model.Summary{
		TotalCreated:       totals.Created,
		TotalCompletedEver: totals.CompletedEver,
		TotalScheduledDays: totals.ScheduledPairs,
		SuccessRate:        successRate(totals.CompletedEver, totals.ScheduledPairs),
		CurrentStreak:      currentStreak(tallies),
		BestDay:            bestDay(tallies),
	}
	if n := len(tallies); n > 0 {
		sum.TodayPercent = tallies[n-1].Percent()
	}
	return sum
}

// successRate is completed ledger entries over recurrence pairs. The ledger
// accumulates across weeks, so the rate is not capped at 100.
func successRate(completed, scheduled int) int {
	if scheduled <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(scheduled) * 100))
}

// currentStreak counts consecutive fully completed days ending today. An
// unfinished today does not break the streak, and days with nothing
// scheduled are skipped.
func currentStreak(tallies []model.DayTally) int {
	streak := 0
	last := len(tallies) - 1
	for i := last; i >= 0; i-- {
		t := tallies[i]
		switch {
		case t.Scheduled == 0:
			continue
		case t.Percent() >= 100:
			streak++
		case i == last:
			continue
		default:
			return streak
		}
	}
	return streak
}

// bestDay returns the day with the highest non-zero percent; later days win
// ties. Nil when nothing was completed in the window.
func bestDay(tallies []model.DayTally) *model.DayPercent {
	var best *model.DayPercent
	for _, t := range tallies {
		p := t.Percent()
		if p == 0 {
			continue
		}
		if best == nil || p >= best.Percent {
			best = &model.DayPercent{Date: t.Date, Percent: p}
		}
	}
	return best
}
