package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/triviadeck/backend/internal/domain/stats"
	"github.com/triviadeck/backend/internal/store"
)

// Rollover compacts the usage ledger: daily rows fold into weekly
// historical summaries, and aged daily/answer rows are pruned to bound
// storage growth.
type Rollover struct {
	store  *store.SQLiteStore
	logger *slog.Logger

	dailyRetentionDays   int
	sessionRetentionDays int

	cron *cron.Cron
}

func NewRollover(s *store.SQLiteStore, logger *slog.Logger, dailyRetentionDays, sessionRetentionDays int) *Rollover {
	return &Rollover{
		store:                s,
		logger:               logger,
		dailyRetentionDays:   dailyRetentionDays,
		sessionRetentionDays: sessionRetentionDays,
	}
}

// Run folds the most recently completed week and prunes aged rows.
// Destructive and one-way: once folded, per-day granularity below the
// retention window only survives as the weekly fold.
func (r *Rollover) Run(ctx context.Context) (*stats.RolloverResult, error) {
	return r.RunAt(ctx, time.Now())
}

// RunAt is Run with an explicit clock, for tests and backfills.
func (r *Rollover) RunAt(ctx context.Context, now time.Time) (*stats.RolloverResult, error) {
	weekEnding := stats.WeekEnding(now)
	weekStart := weekEnding.AddDate(0, 0, -6)
	dailyCutoff := now.UTC().AddDate(0, 0, -r.dailyRetentionDays)
	sessionCutoff := now.UTC().AddDate(0, 0, -r.sessionRetentionDays)

	folded, err := r.store.RolloverWeekly(ctx,
		stats.DateString(weekStart), stats.DateString(weekEnding),
		stats.DateString(dailyCutoff), stats.DateString(sessionCutoff))
	if err != nil {
		return nil, fmt.Errorf("weekly rollover: %w", err)
	}

	result := &stats.RolloverResult{
		WeekEnding:      stats.DateString(weekEnding),
		QuestionsFolded: int(folded),
		DailyCutoff:     stats.DateString(dailyCutoff),
		SessionCutoff:   stats.DateString(sessionCutoff),
	}
	r.logger.Info("rollover complete",
		"week_ending", result.WeekEnding,
		"questions_folded", result.QuestionsFolded,
		"daily_cutoff", result.DailyCutoff,
		"session_cutoff", result.SessionCutoff)
	return result, nil
}

// Schedule starts a cron-driven runner for the given expression.
func (r *Rollover) Schedule(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := r.Run(context.Background()); err != nil {
			r.logger.Error("scheduled rollover failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("rollover schedule %q: %w", spec, err)
	}
	c.Start()
	r.cron = c
	r.logger.Info("rollover scheduled", "spec", spec)
	return nil
}

// Stop halts the scheduled runner, waiting for an in-flight run.
func (r *Rollover) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}
