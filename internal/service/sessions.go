package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/triviadeck/backend/internal/domain/session"
	"github.com/triviadeck/backend/internal/domain/stats"
	"github.com/triviadeck/backend/internal/id"
	"github.com/triviadeck/backend/internal/store"
)

// SessionTracker owns the quiz session lifecycle: active -> completed.
// A session abandoned without an explicit End stays active indefinitely;
// the completed-only analytics filters keep such rows out of dashboards.
type SessionTracker struct {
	store  *store.SQLiteStore
	logger *slog.Logger
}

func NewSessionTracker(s *store.SQLiteStore, logger *slog.Logger) *SessionTracker {
	return &SessionTracker{
		store:  s,
		logger: logger,
	}
}

// Start opens a session and returns its token.
func (t *SessionTracker) Start(ctx context.Context, name, userID, categoryFilter string) (string, error) {
	sessionID := id.NewSessionID()
	if err := t.store.CreateSession(ctx, sessionID, name, userID, categoryFilter); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}

// RecordAnswer records one answer event: raw log append, session
// aggregate recompute, and usage-ledger upsert, issued as one store
// transaction. A store fault here must never interrupt the live quiz
// flow, so failures are logged and swallowed; the analytics loss is
// accepted.
func (t *SessionTracker) RecordAnswer(ctx context.Context, sessionID string, questionID int64, isCorrect bool, responseTime float64, userAnswer string) {
	err := t.store.RecordAnswer(ctx, sessionID, questionID, isCorrect, responseTime, userAnswer, stats.Today())
	if err != nil {
		t.logger.Error("failed to record answer, continuing quiz",
			"session_id", sessionID, "question_id", questionID, "error", err)
	}
}

// End finalizes a session and returns its final stats. Unknown ids yield
// store.ErrNotFound. Ending twice is idempotent apart from re-stamping
// ended_at.
func (t *SessionTracker) End(ctx context.Context, sessionID string) (*session.Stats, error) {
	return t.store.EndSession(ctx, sessionID)
}

// Detail is a session's stats row plus its ordered answer log and a
// summary recomputed from that log.
type Detail struct {
	Session *session.Stats    `json:"session_info"`
	Answers []session.Answer  `json:"answers"`
	Summary session.Aggregate `json:"summary"`
}

func (t *SessionTracker) Detail(ctx context.Context, sessionID string) (*Detail, error) {
	st, err := t.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := t.store.ListAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Session: st,
		Answers: answers,
		Summary: session.Compute(answers),
	}, nil
}
