package store

import (
	"context"
	"database/sql"

	"github.com/triviadeck/backend/internal/domain/stats"
)

// ============================================================================
// Usage ledger
// ============================================================================

// upsertDailyQuestionStat increments the per-(question, date) counters in
// a single statement. The new averages are computed from the new totals
// inside the statement itself, never via a separate read-then-write, so
// SQLite's single-writer serialization is sufficient against lost updates.
func upsertDailyQuestionStat(ctx context.Context, e dbtx, questionID int64, isCorrect bool, responseTime float64, date string) error {
	correct := 0
	if isCorrect {
		correct = 1
	}
	_, err := e.ExecContext(ctx, `
		INSERT INTO daily_question_stats
		    (question_id, date, times_asked, times_correct, total_response_time, avg_response_time, accuracy_rate)
		VALUES (?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(question_id, date) DO UPDATE SET
		    times_asked = times_asked + 1,
		    times_correct = times_correct + excluded.times_correct,
		    total_response_time = total_response_time + excluded.total_response_time,
		    avg_response_time = (total_response_time + excluded.total_response_time) / (times_asked + 1),
		    accuracy_rate = CAST(times_correct + excluded.times_correct AS REAL) / (times_asked + 1) * 100,
		    updated_at = CURRENT_TIMESTAMP`,
		questionID, date, correct, responseTime, responseTime, float64(correct)*100,
	)
	return err
}

// upsertDailyCategoryStat is the analogous rollup keyed by
// (category, subcategory, date). subcategoryID is 0 for questions without
// a subcategory so the conflict key stays comparable.
func upsertDailyCategoryStat(ctx context.Context, e dbtx, categoryID, subcategoryID int64, isCorrect bool, responseTime float64, date string) error {
	correct := 0
	if isCorrect {
		correct = 1
	}
	_, err := e.ExecContext(ctx, `
		INSERT INTO daily_category_stats
		    (category_id, subcategory_id, date, questions_asked, questions_correct, total_response_time, avg_response_time, accuracy_rate)
		VALUES (?, ?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(category_id, subcategory_id, date) DO UPDATE SET
		    questions_asked = questions_asked + 1,
		    questions_correct = questions_correct + excluded.questions_correct,
		    total_response_time = total_response_time + excluded.total_response_time,
		    avg_response_time = (total_response_time + excluded.total_response_time) / (questions_asked + 1),
		    accuracy_rate = CAST(questions_correct + excluded.questions_correct AS REAL) / (questions_asked + 1) * 100,
		    updated_at = CURRENT_TIMESTAMP`,
		categoryID, subcategoryID, date, correct, responseTime, responseTime, float64(correct)*100,
	)
	return err
}

// RecordUsage updates the usage ledger for one answer event outside any
// session, keeping the ledger usable by callers that do not track
// sessions.
func (s *SQLiteStore) RecordUsage(ctx context.Context, questionID int64, isCorrect bool, responseTime float64, date string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertDailyQuestionStat(ctx, tx, questionID, isCorrect, responseTime, date); err != nil {
		return err
	}

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

// ============================================================================
// Analytics reads
// ============================================================================

func (s *SQLiteStore) DailyQuestionRows(ctx context.Context, date string) ([]stats.DailyQuestionStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dqs.question_id, dqs.date, dqs.times_asked, dqs.times_correct,
		       dqs.total_response_time, dqs.avg_response_time, dqs.accuracy_rate,
		       q.question, c.display_name, COALESCE(sc.display_name, '')
		FROM daily_question_stats dqs
		JOIN questions q ON dqs.question_id = q.id
		JOIN categories c ON q.category_id = c.id
		LEFT JOIN subcategories sc ON q.subcategory_id = sc.id
		WHERE dqs.date = ?
		ORDER BY dqs.times_asked DESC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stats.DailyQuestionStat
	for rows.Next() {
		var r stats.DailyQuestionStat
		if err := rows.Scan(&r.QuestionID, &r.Date, &r.TimesAsked, &r.TimesCorrect,
			&r.TotalResponseTime, &r.AvgResponseTime, &r.AccuracyRate,
			&r.Question, &r.Category, &r.Subcategory); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DailyCategoryRows(ctx context.Context, date string) ([]stats.DailyCategoryStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dcs.category_id, dcs.subcategory_id, dcs.date,
		       dcs.questions_asked, dcs.questions_correct,
		       dcs.total_response_time, dcs.avg_response_time, dcs.accuracy_rate,
		       c.display_name, COALESCE(sc.display_name, '')
		FROM daily_category_stats dcs
		JOIN categories c ON dcs.category_id = c.id
		LEFT JOIN subcategories sc ON dcs.subcategory_id = sc.id
		WHERE dcs.date = ?
		ORDER BY dcs.questions_asked DESC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stats.DailyCategoryStat
	for rows.Next() {
		var r stats.DailyCategoryStat
		if err := rows.Scan(&r.CategoryID, &r.SubcategoryID, &r.Date,
			&r.QuestionsAsked, &r.QuestionsCorrect,
			&r.TotalResponseTime, &r.AvgResponseTime, &r.AccuracyRate,
			&r.Category, &r.Subcategory); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TrendingQuestions returns questions asked at least 3 times within
// [startDate, endDate], most-asked first, lowest accuracy breaking ties:
// frequently asked and commonly missed.
func (s *SQLiteStore) TrendingQuestions(ctx context.Context, startDate, endDate string, limit int) ([]stats.QuestionTrend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dqs.question_id, q.question, q.difficulty,
		       c.display_name, COALESCE(sc.display_name, ''),
		       SUM(dqs.times_asked) AS total_asked,
		       SUM(dqs.times_correct) AS total_correct,
		       AVG(dqs.accuracy_rate) AS avg_accuracy,
		       AVG(dqs.avg_response_time) AS avg_response_time
		FROM daily_question_stats dqs
		JOIN questions q ON dqs.question_id = q.id
		JOIN categories c ON q.category_id = c.id
		LEFT JOIN subcategories sc ON q.subcategory_id = sc.id
		WHERE dqs.date BETWEEN ? AND ?
		GROUP BY dqs.question_id
		HAVING total_asked >= 3
		ORDER BY total_asked DESC, avg_accuracy ASC
		LIMIT ?`, startDate, endDate, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stats.QuestionTrend
	for rows.Next() {
		var t stats.QuestionTrend
		if err := rows.Scan(&t.QuestionID, &t.Question, &t.Difficulty,
			&t.Category, &t.Subcategory,
			&t.TotalAsked, &t.TotalCorrect, &t.AvgAccuracy, &t.AvgResponseTime); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QuestionDailyRange returns one question's daily rows, oldest first.
func (s *SQLiteStore) QuestionDailyRange(ctx context.Context, questionID int64, startDate, endDate string) ([]stats.DailyQuestionStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, date, times_asked, times_correct,
		       total_response_time, avg_response_time, accuracy_rate
		FROM daily_question_stats
		WHERE question_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`, questionID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stats.DailyQuestionStat
	for rows.Next() {
		var r stats.DailyQuestionStat
		if err := rows.Scan(&r.QuestionID, &r.Date, &r.TimesAsked, &r.TimesCorrect,
			&r.TotalResponseTime, &r.AvgResponseTime, &r.AccuracyRate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetHistoricalStat(ctx context.Context, questionID int64, weekEnding string) (*stats.HistoricalQuestionStat, error) {
	var h stats.HistoricalQuestionStat
	err := s.db.QueryRowContext(ctx, `
		SELECT question_id, week_ending, total_asked, total_correct,
		       avg_response_time, accuracy_rate, days_active
		FROM historical_question_stats
		WHERE question_id = ? AND week_ending = ?`, questionID, weekEnding,
	).Scan(&h.QuestionID, &h.WeekEnding, &h.TotalAsked, &h.TotalCorrect,
		&h.AvgResponseTime, &h.AccuracyRate, &h.DaysActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ============================================================================
// Rollover / retention
// ============================================================================

// RolloverWeekly folds the daily rows of [weekStart, weekEnding] into one
// historical row per question, then prunes aged daily and answer rows.
// The fold replaces any existing row for the same (question, week), so
// re-running within a week is idempotent. One-way: per-day granularity
// below the cutoffs is gone once this commits.
func (s *SQLiteStore) RolloverWeekly(ctx context.Context, weekStart, weekEnding, dailyCutoff, sessionCutoff string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO historical_question_stats
		    (question_id, week_ending, total_asked, total_correct, avg_response_time, accuracy_rate, days_active)
		SELECT
		    question_id,
		    ? AS week_ending,
		    SUM(times_asked),
		    SUM(times_correct),
		    AVG(avg_response_time),
		    SUM(times_correct) * 100.0 / SUM(times_asked),
		    COUNT(DISTINCT date)
		FROM daily_question_stats
		WHERE date BETWEEN ? AND ?
		GROUP BY question_id
		HAVING SUM(times_asked) > 0`,
		weekEnding, weekStart, weekEnding,
	)
	if err != nil {
		return 0, err
	}
	folded, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM daily_question_stats WHERE date < ?", dailyCutoff); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM daily_category_stats WHERE date < ?", dailyCutoff); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM quiz_session_answers WHERE DATE(answered_at) < ?", sessionCutoff); err != nil {
		return 0, err
	}
	// session_stats rows are deliberately retained: they are small and
	// dashboards read them over longer windows.

	return folded, tx.Commit()
}
