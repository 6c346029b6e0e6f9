// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/triviadeck/backend/internal/domain/question"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS subcategories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category_id INTEGER,
    name TEXT NOT NULL,
    display_name TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (category_id) REFERENCES categories(id)
);

CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    option1 TEXT NOT NULL,
    option2 TEXT NOT NULL,
    option3 TEXT NOT NULL,
    category_id INTEGER NOT NULL,
    subcategory_id INTEGER,
    difficulty TEXT NOT NULL DEFAULT 'medium',
    points INTEGER NOT NULL DEFAULT 1,
    fun_fact TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (category_id) REFERENCES categories(id),
    FOREIGN KEY (subcategory_id) REFERENCES subcategories(id)
);

CREATE TABLE IF NOT EXISTS daily_question_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL,
    date TEXT NOT NULL,
    times_asked INTEGER NOT NULL DEFAULT 0,
    times_correct INTEGER NOT NULL DEFAULT 0,
    total_response_time REAL NOT NULL DEFAULT 0.0,
    avg_response_time REAL NOT NULL DEFAULT 0.0,
    accuracy_rate REAL NOT NULL DEFAULT 0.0,
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (question_id) REFERENCES questions(id),
    UNIQUE(question_id, date)
);

CREATE TABLE IF NOT EXISTS daily_category_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category_id INTEGER NOT NULL,
    subcategory_id INTEGER NOT NULL DEFAULT 0,
    date TEXT NOT NULL,
    questions_asked INTEGER NOT NULL DEFAULT 0,
    questions_correct INTEGER NOT NULL DEFAULT 0,
    total_response_time REAL NOT NULL DEFAULT 0.0,
    avg_response_time REAL NOT NULL DEFAULT 0.0,
    accuracy_rate REAL NOT NULL DEFAULT 0.0,
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (category_id) REFERENCES categories(id),
    UNIQUE(category_id, subcategory_id, date)
);

CREATE TABLE IF NOT EXISTS historical_question_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL,
    week_ending TEXT NOT NULL,
    total_asked INTEGER NOT NULL DEFAULT 0,
    total_correct INTEGER NOT NULL DEFAULT 0,
    avg_response_time REAL NOT NULL DEFAULT 0.0,
    accuracy_rate REAL NOT NULL DEFAULT 0.0,
    days_active INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (question_id) REFERENCES questions(id),
    UNIQUE(question_id, week_ending)
);

CREATE TABLE IF NOT EXISTS quiz_session_answers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    question_id INTEGER NOT NULL,
    user_answer TEXT,
    is_correct INTEGER NOT NULL,
    response_time REAL NOT NULL,
    answered_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (question_id) REFERENCES questions(id)
);

CREATE TABLE IF NOT EXISTS session_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT UNIQUE NOT NULL,
    session_name TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL DEFAULT '',
    category_filter TEXT NOT NULL DEFAULT '',
    total_questions INTEGER NOT NULL DEFAULT 0,
    correct_answers INTEGER NOT NULL DEFAULT 0,
    accuracy_rate REAL NOT NULL DEFAULT 0.0,
    total_time REAL NOT NULL DEFAULT 0.0,
    avg_response_time REAL NOT NULL DEFAULT 0.0,
    fastest_answer REAL NOT NULL DEFAULT 0.0,
    slowest_answer REAL NOT NULL DEFAULT 0.0,
    started_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ended_at TEXT,
    status TEXT NOT NULL DEFAULT 'active',
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_quiz_session_answers_session
    ON quiz_session_answers(session_id);
CREATE INDEX IF NOT EXISTS idx_daily_question_stats_date
    ON daily_question_stats(date);
CREATE INDEX IF NOT EXISTS idx_daily_category_stats_date
    ON daily_category_stats(date);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Catalog / taxonomy
// ============================================================================

func (s *SQLiteStore) SaveCategory(ctx context.Context, cat *question.Category) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, display_name, is_active) VALUES (?, ?, ?)",
		cat.Name, cat.DisplayName, boolToInt(cat.Active),
	)
	if err != nil {
		return err
	}
	cat.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) SaveSubcategory(ctx context.Context, sub *question.Subcategory) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO subcategories (category_id, name, display_name, is_active) VALUES (?, ?, ?, ?)",
		nullableID(sub.CategoryID), sub.Name, sub.DisplayName, boolToInt(sub.Active),
	)
	if err != nil {
		return err
	}
	sub.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) SaveQuestion(ctx context.Context, q *question.Question) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO questions
		    (question, correct_answer, option1, option2, option3,
		     category_id, subcategory_id, difficulty, points, fun_fact, image, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Text, q.CorrectAnswer, q.Distractors[0], q.Distractors[1], q.Distractors[2],
		q.CategoryID, nullableID(q.SubcategoryID), q.Difficulty, q.Points, q.FunFact, q.Image, boolToInt(q.Active),
	)
	if err != nil {
		return err
	}
	q.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id int64) (*question.Question, error) {
	var q question.Question
	var subcategoryID sql.NullInt64
	var active int

	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, correct_answer, option1, option2, option3,
		       category_id, subcategory_id, difficulty, points, fun_fact, image, is_active
		FROM questions WHERE id = ?`, id,
	).Scan(&q.ID, &q.Text, &q.CorrectAnswer, &q.Distractors[0], &q.Distractors[1], &q.Distractors[2],
		&q.CategoryID, &subcategoryID, &q.Difficulty, &q.Points, &q.FunFact, &q.Image, &active)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if subcategoryID.Valid {
		q.SubcategoryID = &subcategoryID.Int64
	}
	q.Active = active != 0
	return &q, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
