package api

import (
	"net/http"
	"strconv"
)

// ── Handlers ────────────────────────────────────────────────────────────────

// @Summary      Daily summary
// @Description  Per-question and per-category usage for one day plus computed totals. A day with no answers yields an all-zero summary.
// @Tags         Analytics
// @Produce      json
// @Param        date  query     string  false  "Date (YYYY-MM-DD), defaults to UTC today"
// @Success      200   {object}  stats.DailySummary
// @Router       /analytics/daily [get]
func (h *Handler) getDailySummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	respondJSON(w, http.StatusOK, h.analytics.DailySummary(r.Context(), date))
}

// @Summary      Trending questions
// @Description  Questions with at least 3 asks in the window, most-asked first, lowest accuracy breaking ties.
// @Tags         Analytics
// @Produce      json
// @Param        limit        query     int  false  "Max rows (default 10)"
// @Param        period_days  query     int  false  "Window in days (default 7)"
// @Success      200          {array}   stats.QuestionTrend
// @Router       /analytics/trending [get]
func (h *Handler) getTrendingQuestions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	periodDays := queryInt(r, "period_days", 7)
	respondJSON(w, http.StatusOK, h.analytics.Trending(r.Context(), limit, periodDays))
}

// @Summary      Recent sessions
// @Tags         Analytics
// @Produce      json
// @Param        limit    query     int     false  "Max rows (default 10)"
// @Param        user_id  query     string  false  "Filter by user"
// @Success      200      {array}   session.Stats
// @Router       /analytics/sessions [get]
func (h *Handler) getRecentSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	userID := r.URL.Query().Get("user_id")
	respondJSON(w, http.StatusOK, h.analytics.RecentSessions(r.Context(), limit, userID))
}

// @Summary      Session leaderboard
// @Description  Completed sessions with at least 5 questions, best accuracy first, fastest average response breaking ties.
// @Tags         Analytics
// @Produce      json
// @Param        period_days  query     int  false  "Window in days (default 7)"
// @Param        limit        query     int  false  "Max rows (default 10)"
// @Success      200          {array}   session.Stats
// @Router       /analytics/leaderboard [get]
func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	periodDays := queryInt(r, "period_days", 7)
	limit := queryInt(r, "limit", 10)
	respondJSON(w, http.StatusOK, h.analytics.Leaderboard(r.Context(), periodDays, limit))
}

// @Summary      Question performance
// @Description  One question's daily usage rows over the last N days plus a window summary.
// @Tags         Analytics
// @Produce      json
// @Param        questionID  path      int  true   "Question id"
// @Param        days        query     int  false  "Window in days (default 7)"
// @Success      200         {object}  stats.QuestionPerformance
// @Failure      400         {object}  map[string]string
// @Router       /questions/{questionID}/performance [get]
func (h *Handler) getQuestionPerformance(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.ParseInt(r.PathValue("questionID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return
	}
	days := queryInt(r, "days", 7)
	respondJSON(w, http.StatusOK, h.analytics.QuestionPerformance(r.Context(), questionID, days))
}

// @Summary      Trigger rollover
// @Description  Folds the most recently completed week into historical stats and prunes aged daily and answer rows. Destructive and one-way.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  stats.RolloverResult
// @Failure      500  {object}  map[string]string
// @Router       /admin/rollover [post]
func (h *Handler) triggerRollover(w http.ResponseWriter, r *http.Request) {
	result, err := h.rollover.Run(r.Context())
	if err != nil {
		h.logger.Error("manual rollover failed", "error", err)
		http.Error(w, "rollover failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
