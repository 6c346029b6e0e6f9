package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/triviadeck/backend/internal/domain/question"
)

// SelectEligible fetches up to count active questions for a
// (category, subcategory) pair, least-exposed first. Exposure is the
// cumulative times-asked count from the daily usage ledger (0 for a
// question never asked); ties within an exposure tier are broken by a
// uniform random draw, so selection is biased toward under-exposed
// content but still randomized within each tier.
func (s *SQLiteStore) SelectEligible(ctx context.Context, category, subcategory string, count int, excludeIDs []int64) ([]question.Selected, error) {
	query := `
		SELECT q.id, q.question, q.correct_answer, q.option1, q.option2, q.option3,
		       q.category_id, q.subcategory_id, q.difficulty, q.points, q.fun_fact, q.image,
		       c.name, COALESCE(sc.name, ''),
		       COALESCE(SUM(dqs.times_asked), 0) AS asked
		FROM questions q
		JOIN categories c ON q.category_id = c.id
		JOIN subcategories sc ON q.subcategory_id = sc.id
		LEFT JOIN daily_question_stats dqs ON dqs.question_id = q.id
		WHERE c.name = ? AND sc.name = ?
		  AND q.is_active = 1 AND c.is_active = 1 AND sc.is_active = 1`
	args := []any{category, subcategory}

	if len(excludeIDs) > 0 {
		query += " AND q.id NOT IN (" + placeholders(len(excludeIDs)) + ")"
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}

	query += `
		GROUP BY q.id
		ORDER BY asked ASC, RANDOM()
		LIMIT ?`
	args = append(args, count)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selected []question.Selected
	for rows.Next() {
		var sq question.Selected
		var subcategoryID sql.NullInt64
		if err := rows.Scan(
			&sq.ID, &sq.Text, &sq.CorrectAnswer,
			&sq.Distractors[0], &sq.Distractors[1], &sq.Distractors[2],
			&sq.CategoryID, &subcategoryID, &sq.Difficulty, &sq.Points, &sq.FunFact, &sq.Image,
			&sq.CategoryName, &sq.SubcategoryName, &sq.TimesAsked,
		); err != nil {
			return nil, err
		}
		if subcategoryID.Valid {
			sq.SubcategoryID = &subcategoryID.Int64
		}
		sq.Active = true
		selected = append(selected, sq)
	}
	return selected, rows.Err()
}

// placeholders returns "?, ?, …" with n placeholders. Exclusion ids are
// always bound as parameters, never interpolated.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
