package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/triviadeck/backend/internal/domain/session"
	"github.com/triviadeck/backend/internal/domain/stats"
	"github.com/triviadeck/backend/internal/store"
)

// Analytics is the read-only query layer over the usage ledger and
// session tables. Store faults on this path degrade to empty or zero
// results: a dashboard with no data beats a broken page.
type Analytics struct {
	store  *store.SQLiteStore
	logger *slog.Logger
}

func NewAnalytics(s *store.SQLiteStore, logger *slog.Logger) *Analytics {
	return &Analytics{
		store:  s,
		logger: logger,
	}
}

// DailySummary returns one day's per-question and per-category breakdown
// plus computed totals. An empty date means UTC today.
func (a *Analytics) DailySummary(ctx context.Context, date string) stats.DailySummary {
	if date == "" {
		date = stats.Today()
	}

	questionRows, err := a.store.DailyQuestionRows(ctx, date)
	if err != nil {
		a.logger.Error("daily question stats read failed", "date", date, "error", err)
		questionRows = nil
	}
	categoryRows, err := a.store.DailyCategoryRows(ctx, date)
	if err != nil {
		a.logger.Error("daily category stats read failed", "date", date, "error", err)
		categoryRows = nil
	}

	return stats.DailySummary{
		Date:          date,
		QuestionStats: questionRows,
		CategoryStats: categoryRows,
		Summary:       stats.Summarize(questionRows),
	}
}

// Trending lists frequently-asked, commonly-missed questions over the
// last periodDays days.
func (a *Analytics) Trending(ctx context.Context, limit, periodDays int) []stats.QuestionTrend {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(periodDays - 1))

	trends, err := a.store.TrendingQuestions(ctx, stats.DateString(start), stats.DateString(end), limit)
	if err != nil {
		a.logger.Error("trending questions read failed", "error", err)
		return []stats.QuestionTrend{}
	}
	return trends
}

// RecentSessions lists the newest sessions, optionally for one user.
func (a *Analytics) RecentSessions(ctx context.Context, limit int, userID string) []session.Stats {
	sessions, err := a.store.RecentSessions(ctx, limit, userID)
	if err != nil {
		a.logger.Error("recent sessions read failed", "error", err)
		return []session.Stats{}
	}
	return sessions
}

// Leaderboard ranks completed sessions from the last periodDays days.
func (a *Analytics) Leaderboard(ctx context.Context, periodDays, limit int) []session.Stats {
	since := time.Now().UTC().AddDate(0, 0, -periodDays)

	sessions, err := a.store.Leaderboard(ctx, stats.DateString(since), limit)
	if err != nil {
		a.logger.Error("leaderboard read failed", "error", err)
		return []session.Stats{}
	}
	return sessions
}

// QuestionPerformance returns one question's daily history over the last
// days days plus a window summary.
func (a *Analytics) QuestionPerformance(ctx context.Context, questionID int64, days int) stats.QuestionPerformance {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(days - 1))
	startDate, endDate := stats.DateString(start), stats.DateString(end)

	daily, err := a.store.QuestionDailyRange(ctx, questionID, startDate, endDate)
	if err != nil {
		a.logger.Error("question performance read failed", "question_id", questionID, "error", err)
		daily = nil
	}

	return stats.QuestionPerformance{
		QuestionID: questionID,
		Period:     fmt.Sprintf("%s to %s", startDate, endDate),
		Daily:      daily,
		Summary:    stats.SummarizePerformance(daily),
	}
}
