package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triviadeck/backend/internal/api"
	"github.com/triviadeck/backend/internal/domain/question"
	"github.com/triviadeck/backend/internal/selector"
	"github.com/triviadeck/backend/internal/service"
	"github.com/triviadeck/backend/internal/store"
)

func newServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := api.NewHandler(
		selector.New(s, logger),
		service.NewSessionTracker(s, logger),
		service.NewAnalytics(s, logger),
		service.NewRollover(s, logger, 30, 7),
		logger,
	)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, h)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, s
}

func seedCapital(t *testing.T, s *store.SQLiteStore) int64 {
	t.Helper()
	ctx := context.Background()

	cat := &question.Category{Name: "geography", DisplayName: "Geography", Active: true}
	require.NoError(t, s.SaveCategory(ctx, cat))
	sub := &question.Subcategory{CategoryID: &cat.ID, Name: "capital", DisplayName: "Capitals", Active: true}
	require.NoError(t, s.SaveSubcategory(ctx, sub))

	q := &question.Question{
		Text:          "What is the capital of France?",
		CorrectAnswer: "Paris",
		Distractors:   [3]string{"Berlin", "Madrid", "Rome"},
		CategoryID:    cat.ID,
		SubcategoryID: &sub.ID,
		Difficulty:    "easy",
		Points:        1,
		Active:        true,
	}
	require.NoError(t, s.SaveQuestion(ctx, q))
	return q.ID
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestListQuizTypes(t *testing.T) {
	srv, _ := newServer(t)

	var types []api.QuizTypeResponse
	status := getJSON(t, srv.URL+"/quiz-types", &types)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, types, 10)

	var geo []api.QuizTypeResponse
	status = getJSON(t, srv.URL+"/quiz-types?category=geography", &geo)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, geo, 5)
	for _, qt := range geo {
		assert.Equal(t, "geography", qt.Category)
	}
}

func TestGetQuizQuestions(t *testing.T) {
	srv, s := newServer(t)
	seedCapital(t, s)

	var questions []question.Formatted
	status := getJSON(t, srv.URL+"/quizzes/capital/questions?count=5", &questions)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "geography_quiz", q.Type)
	require.Len(t, q.Options, 4)
	assert.Equal(t, "Paris", q.Options[q.Correct])
}

func TestGetQuizQuestionsUnknownType(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/quizzes/invalid_type/questions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "unknown quiz type: invalid_type")
}

func TestGetQuizQuestionsBadCount(t *testing.T) {
	srv, _ := newServer(t)

	status := getJSON(t, srv.URL+"/quizzes/capital/questions?count=0", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	srv, s := newServer(t)
	qid := seedCapital(t, s)

	var started api.StartSessionResponse
	status := postJSON(t, srv.URL+"/sessions",
		`{"session_name":"Evening practice","user_id":"alice"}`, &started)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, started.SessionID)

	var recorded api.RecordAnswerResponse
	status = postJSON(t, srv.URL+"/sessions/"+started.SessionID+"/answers",
		`{"question_id":`+strconv.FormatInt(qid, 10)+`,"is_correct":true,"response_time":2.5,"user_answer":"Paris"}`,
		&recorded)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "recorded", recorded.Status)

	var final map[string]any
	status = postJSON(t, srv.URL+"/sessions/"+started.SessionID+"/complete", "", &final)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", final["status"])
	assert.EqualValues(t, 1, final["total_questions"])
	assert.EqualValues(t, 100, final["accuracy_rate"])

	var detail map[string]any
	status = getJSON(t, srv.URL+"/sessions/"+started.SessionID, &detail)
	require.Equal(t, http.StatusOK, status)
	answers, ok := detail["answers"].([]any)
	require.True(t, ok)
	assert.Len(t, answers, 1)
}

func TestRecordAnswerValidation(t *testing.T) {
	srv, _ := newServer(t)

	status := postJSON(t, srv.URL+"/sessions/any/answers",
		`{"question_id":0,"is_correct":true,"response_time":1.0}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = postJSON(t, srv.URL+"/sessions/any/answers",
		`{"question_id":1,"is_correct":true,"response_time":-1.0}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetSessionNotFound(t *testing.T) {
	srv, _ := newServer(t)

	status := getJSON(t, srv.URL+"/sessions/no-such-session", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDailySummaryEmptyDay(t *testing.T) {
	srv, _ := newServer(t)

	var summary map[string]any
	status := getJSON(t, srv.URL+"/analytics/daily?date=2026-01-01", &summary)
	require.Equal(t, http.StatusOK, status)

	totals, ok := summary["summary"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 0, totals["total_questions_asked"])
}

func TestTriggerRollover(t *testing.T) {
	srv, _ := newServer(t)

	var result map[string]any
	status := postJSON(t, srv.URL+"/admin/rollover", "", &result)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, result, "week_ending")
	assert.Contains(t, result, "questions_folded")
}
