package service_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triviadeck/backend/internal/domain/question"
	"github.com/triviadeck/backend/internal/domain/session"
	"github.com/triviadeck/backend/internal/selector"
	"github.com/triviadeck/backend/internal/service"
	"github.com/triviadeck/backend/internal/store"
)

type fixture struct {
	store     *store.SQLiteStore
	selector  *selector.Selector
	tracker   *service.SessionTracker
	analytics *service.Analytics
	rollover  *service.Rollover
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		store:     s,
		selector:  selector.New(s, logger),
		tracker:   service.NewSessionTracker(s, logger),
		analytics: service.NewAnalytics(s, logger),
		rollover:  service.NewRollover(s, logger, 30, 7),
	}
}

func (f *fixture) seedCapitalQuestion(t *testing.T, text, answer string) int64 {
	t.Helper()
	ctx := context.Background()

	cat := &question.Category{Name: "geography", DisplayName: "Geography", Active: true}
	require.NoError(t, f.store.SaveCategory(ctx, cat))
	sub := &question.Subcategory{CategoryID: &cat.ID, Name: "capital", DisplayName: "Capitals", Active: true}
	require.NoError(t, f.store.SaveSubcategory(ctx, sub))

	q := &question.Question{
		Text:          text,
		CorrectAnswer: answer,
		Distractors:   [3]string{"Berlin", "Madrid", "Rome"},
		CategoryID:    cat.ID,
		SubcategoryID: &sub.ID,
		Difficulty:    "easy",
		Points:        1,
		Active:        true,
	}
	require.NoError(t, f.store.SaveQuestion(ctx, q))
	return q.ID
}

// The full quiz round trip: fresh content is selected ahead of exposed
// content, the answer is scored into the session, and the same event shows
// up in the daily analytics.
func TestQuizRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	paris := f.seedCapitalQuestion(t, "What is the capital of France?", "Paris")

	first, err := f.store.GetQuestion(ctx, paris)
	require.NoError(t, err)

	seen := &question.Question{
		Text:          "What is the capital of Spain?",
		CorrectAnswer: "Madrid",
		Distractors:   [3]string{"Lisbon", "Seville", "Barcelona"},
		CategoryID:    first.CategoryID,
		SubcategoryID: first.SubcategoryID,
		Difficulty:    "easy",
		Active:        true,
	}
	require.NoError(t, f.store.SaveQuestion(ctx, seen))
	for i := 0; i < 10; i++ {
		require.NoError(t, f.store.RecordUsage(ctx, seen.ID, true, 1.0, "2026-08-20"))
	}

	out, err := f.selector.Select(ctx, "capital", 1, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, paris, out[0].ID, "the unexposed question wins selection")
	assert.Equal(t, "Paris", out[0].Options[out[0].Correct])

	sessionID, err := f.tracker.Start(ctx, "Evening Quiz", "alice", "geography")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	f.tracker.RecordAnswer(ctx, sessionID, paris, true, 2.5, "Paris")

	final, err := f.tracker.End(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusCompleted, final.Status)
	assert.Equal(t, 1, final.TotalQuestions)
	assert.Equal(t, 1, final.CorrectAnswers)
	assert.InDelta(t, 100.0, final.AccuracyRate, 1e-9)
	assert.InDelta(t, 2.5, final.AvgResponseTime, 1e-9)

	summary := f.analytics.DailySummary(ctx, "")
	var found bool
	for _, row := range summary.QuestionStats {
		if row.QuestionID == paris {
			found = true
			assert.Equal(t, 1, row.TimesAsked)
			assert.Equal(t, 1, row.TimesCorrect)
			assert.InDelta(t, 100.0, row.AccuracyRate, 1e-9)
		}
	}
	assert.True(t, found, "the answered question appears in the daily summary")
}

func TestRecordAnswerSwallowsStoreFaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	qid := f.seedCapitalQuestion(t, "Q?", "A")

	// Closing the store forces a hard fault on the next write.
	require.NoError(t, f.store.Close())

	// Must not panic and must not surface an error to the caller.
	f.tracker.RecordAnswer(ctx, "ghost-session", qid, true, 1.0, "A")
}

func TestSessionDetailSummaryMatchesLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	qid := f.seedCapitalQuestion(t, "Q?", "Paris")

	sessionID, err := f.tracker.Start(ctx, "Test", "bob", "")
	require.NoError(t, err)

	f.tracker.RecordAnswer(ctx, sessionID, qid, true, 2.0, "Paris")
	f.tracker.RecordAnswer(ctx, sessionID, qid, false, 6.0, "Berlin")

	detail, err := f.tracker.Detail(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, detail.Answers, 2)

	// The stored aggregate and the recomputed one agree.
	assert.Equal(t, detail.Session.TotalQuestions, detail.Summary.TotalQuestions)
	assert.Equal(t, detail.Session.CorrectAnswers, detail.Summary.CorrectAnswers)
	assert.InDelta(t, detail.Session.AccuracyRate, detail.Summary.AccuracyRate, 1e-9)
	assert.InDelta(t, detail.Session.AvgResponseTime, detail.Summary.AvgResponseTime, 1e-9)
}

func TestDetailUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.Detail(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRolloverRunAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	qid := f.seedCapitalQuestion(t, "Q?", "Paris")

	require.NoError(t, f.store.RecordUsage(ctx, qid, true, 2.0, "2026-08-26"))
	require.NoError(t, f.store.RecordUsage(ctx, qid, false, 4.0, "2026-08-27"))

	// Monday after the week being folded.
	now := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)
	result, err := f.rollover.RunAt(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-30", result.WeekEnding)
	assert.Equal(t, 1, result.QuestionsFolded)
	assert.Equal(t, "2026-08-01", result.DailyCutoff)
	assert.Equal(t, "2026-08-24", result.SessionCutoff)

	h, err := f.store.GetHistoricalStat(ctx, qid, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, 2, h.TotalAsked)
	assert.Equal(t, 1, h.TotalCorrect)
	assert.Equal(t, 2, h.DaysActive)
}

func TestLeaderboardOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	qid := f.seedCapitalQuestion(t, "Q?", "Paris")

	run := func(user string, correct int) {
		sessionID, err := f.tracker.Start(ctx, user, user, "")
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			f.tracker.RecordAnswer(ctx, sessionID, qid, i < correct, 2.0, "Paris")
		}
		_, err = f.tracker.End(ctx, sessionID)
		require.NoError(t, err)
	}
	run("sharp", 5)
	run("rusty", 2)

	board := f.analytics.Leaderboard(ctx, 7, 10)
	require.Len(t, board, 2)
	assert.Equal(t, "sharp", board[0].UserID)
	assert.Equal(t, "rusty", board[1].UserID)
}
