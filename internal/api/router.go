// internal/api/router.go
package api

import "net/http"

// RegisterRoutes attaches every engine route to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Quizzes
	mux.HandleFunc("GET /quiz-types", h.listQuizTypes)
	mux.HandleFunc("GET /quizzes/{quizType}/questions", h.getQuizQuestions)

	// Sessions
	mux.HandleFunc("POST /sessions", h.startSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("POST /sessions/{sessionID}/answers", h.recordAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/complete", h.completeSession)

	// Analytics
	mux.HandleFunc("GET /analytics/daily", h.getDailySummary)
	mux.HandleFunc("GET /analytics/trending", h.getTrendingQuestions)
	mux.HandleFunc("GET /analytics/sessions", h.getRecentSessions)
	mux.HandleFunc("GET /analytics/leaderboard", h.getLeaderboard)
	mux.HandleFunc("GET /questions/{questionID}/performance", h.getQuestionPerformance)

	// Admin
	mux.HandleFunc("POST /admin/rollover", h.triggerRollover)
}
