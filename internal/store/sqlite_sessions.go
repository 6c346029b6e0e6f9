package store

import (
	"context"
	"database/sql"

	"github.com/triviadeck/backend/internal/domain/session"
)

// ============================================================================
// Sessions
// ============================================================================

func (s *SQLiteStore) CreateSession(ctx context.Context, sessionID, name, userID, categoryFilter string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO session_stats
		    (session_id, session_name, user_id, category_filter, status)
		VALUES (?, ?, ?, ?, ?)`,
		sessionID, name, userID, categoryFilter, session.StatusActive,
	)
	return err
}

// RecordAnswer applies one answer event as a single unit of work: append
// the raw answer row, recompute the owning session's aggregate from the
// full answer log, and upsert the per-question and per-category daily
// usage counters. All four writes share one transaction so a fault cannot
// leave the ledger and the answer log disagreeing.
func (s *SQLiteStore) RecordAnswer(ctx context.Context, sessionID string, questionID int64, isCorrect bool, responseTime float64, userAnswer, date string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO quiz_session_answers
		    (session_id, question_id, user_answer, is_correct, response_time)
		VALUES (?, ?, ?, ?, ?)`,
		sessionID, questionID, userAnswer, boolToInt(isCorrect), responseTime,
	)
	if err != nil {
		return err
	}

	if err := recomputeSessionAggregate(ctx, tx, sessionID); err != nil {
		return err
	}

	if err := upsertDailyQuestionStat(ctx, tx, questionID, isCorrect, responseTime, date); err != nil {
		return err
	}

	// The category rollup needs the question's taxonomy pair. An answer
	// recorded against an unknown question id still counts in the session
	// log, matching the per-question-only path.
	var categoryID int64
	var subcategoryID sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT category_id, subcategory_id FROM questions WHERE id = ?", questionID,
	).Scan(&categoryID, &subcategoryID)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if err == nil {
		if err := upsertDailyCategoryStat(ctx, tx, categoryID, subcategoryID.Int64, isCorrect, responseTime, date); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// recomputeSessionAggregate rewrites the aggregate columns from the full
// answer log. Never an incremental patch: the row is always exactly
// derivable from quiz_session_answers.
func recomputeSessionAggregate(ctx context.Context, q dbtx, sessionID string) error {
	var (
		total, correct                   int
		totalTime, avg, fastest, slowest float64
	)
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_correct = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(response_time), 0),
		       COALESCE(AVG(response_time), 0),
		       COALESCE(MIN(response_time), 0),
		       COALESCE(MAX(response_time), 0)
		FROM quiz_session_answers
		WHERE session_id = ?`, sessionID,
	).Scan(&total, &correct, &totalTime, &avg, &fastest, &slowest)
	if err != nil {
		return err
	}
	if total == 0 {
		return nil
	}

	accuracy := float64(correct) / float64(total) * 100
	_, err = q.ExecContext(ctx, `
		UPDATE session_stats SET
		    total_questions = ?,
		    correct_answers = ?,
		    accuracy_rate = ?,
		    total_time = ?,
		    avg_response_time = ?,
		    fastest_answer = ?,
		    slowest_answer = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE session_id = ?`,
		total, correct, accuracy, totalTime, avg, fastest, slowest, sessionID,
	)
	return err
}

// EndSession finalizes a session: one last aggregate recompute, then the
// transition to completed. Calling it twice re-stamps ended_at but the
// aggregate columns do not change (the recompute is deterministic).
func (s *SQLiteStore) EndSession(ctx context.Context, sessionID string) (*session.Stats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := recomputeSessionAggregate(ctx, tx, sessionID); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE session_stats SET
		    status = ?,
		    ended_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE session_id = ?`,
		session.StatusCompleted, sessionID,
	)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetSession(ctx, sessionID)
}

const sessionColumns = `
	session_id, session_name, user_id, category_filter,
	total_questions, correct_answers, accuracy_rate,
	total_time, avg_response_time, fastest_answer, slowest_answer,
	started_at, ended_at, status`

func scanSessionStats(scan func(dest ...any) error) (*session.Stats, error) {
	var st session.Stats
	var endedAt sql.NullString
	err := scan(
		&st.SessionID, &st.SessionName, &st.UserID, &st.CategoryFilter,
		&st.TotalQuestions, &st.CorrectAnswers, &st.AccuracyRate,
		&st.TotalTime, &st.AvgResponseTime, &st.FastestAnswer, &st.SlowestAnswer,
		&st.StartedAt, &endedAt, &st.Status,
	)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		st.EndedAt = endedAt.String
	}
	return &st, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*session.Stats, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT"+sessionColumns+" FROM session_stats WHERE session_id = ?", sessionID)
	st, err := scanSessionStats(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListAnswers returns a session's raw answer log in append order.
func (s *SQLiteStore) ListAnswers(ctx context.Context, sessionID string) ([]session.Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, question_id, COALESCE(user_answer, ''),
		       is_correct, response_time, answered_at
		FROM quiz_session_answers
		WHERE session_id = ?
		ORDER BY answered_at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []session.Answer
	for rows.Next() {
		var a session.Answer
		var correct int
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.UserAnswer,
			&correct, &a.ResponseTime, &a.AnsweredAt); err != nil {
			return nil, err
		}
		a.IsCorrect = correct != 0
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// RecentSessions lists sessions newest-first, optionally filtered to one
// user. An empty userID means no filter.
func (s *SQLiteStore) RecentSessions(ctx context.Context, limit int, userID string) ([]session.Stats, error) {
	query := "SELECT" + sessionColumns + " FROM session_stats"
	var args []any
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	return s.querySessions(ctx, query, args...)
}

// Leaderboard ranks completed sessions with at least 5 questions started
// on or after sinceDate, best accuracy first, fastest average as the
// tiebreak.
func (s *SQLiteStore) Leaderboard(ctx context.Context, sinceDate string, limit int) ([]session.Stats, error) {
	query := "SELECT" + sessionColumns + ` FROM session_stats
		WHERE DATE(started_at) >= ?
		  AND status = ?
		  AND total_questions >= 5
		ORDER BY accuracy_rate DESC, avg_response_time ASC
		LIMIT ?`
	return s.querySessions(ctx, query, sinceDate, session.StatusCompleted, limit)
}

func (s *SQLiteStore) querySessions(ctx context.Context, query string, args ...any) ([]session.Stats, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []session.Stats
	for rows.Next() {
		st, err := scanSessionStats(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *st)
	}
	return sessions, rows.Err()
}
