package api

import (
	"errors"
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartSessionRequest struct {
	SessionName    string `json:"session_name" example:"Evening practice"`
	UserID         string `json:"user_id" example:"user-42"`
	CategoryFilter string `json:"category_filter,omitempty" example:"geography"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id" example:"3f1c9a7e-0b2d-4f26-9d7e-5a8c1b0e4d21"`
}

type RecordAnswerRequest struct {
	QuestionID   int64   `json:"question_id" example:"17"`
	IsCorrect    bool    `json:"is_correct" example:"true"`
	ResponseTime float64 `json:"response_time" example:"2.5"`
	UserAnswer   string  `json:"user_answer" example:"Paris"`
}

func (r *RecordAnswerRequest) Validate() error {
	if r.QuestionID <= 0 {
		return errors.New("question_id is required")
	}
	if r.ResponseTime < 0 {
		return errors.New("response_time cannot be negative")
	}
	return nil
}

type RecordAnswerResponse struct {
	Status string `json:"status" example:"recorded"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// @Summary      Start a quiz session
// @Description  Opens a session in active status and returns its token.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body      StartSessionRequest  true  "Session metadata"
// @Success      201   {object}  StartSessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /sessions [post]
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sessionID, err := h.sessions.Start(r.Context(), req.SessionName, req.UserID, req.CategoryFilter)
	if err != nil {
		h.logger.Error("failed to start session", "error", err)
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, StartSessionResponse{SessionID: sessionID})
}

// @Summary      Get session detail
// @Description  Returns a session's stats row, its answer log, and a summary derived from the log.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session token"
// @Success      200        {object}  service.Detail
// @Failure      404        {object}  map[string]string
// @Router       /sessions/{sessionID} [get]
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	detail, err := h.sessions.Detail(r.Context(), sessionID)
	if h.handleStoreError(w, err, "session") {
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// @Summary      Record an answer
// @Description  Appends one answer event to a session. Analytics-write failures are logged and never interrupt the quiz flow.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string               true  "Session token"
// @Param        body       body      RecordAnswerRequest  true  "Answer event"
// @Success      200        {object}  RecordAnswerResponse
// @Failure      400        {object}  map[string]string
// @Router       /sessions/{sessionID}/answers [post]
func (h *Handler) recordAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var req RecordAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.sessions.RecordAnswer(r.Context(), sessionID, req.QuestionID, req.IsCorrect, req.ResponseTime, req.UserAnswer)

	respondJSON(w, http.StatusOK, RecordAnswerResponse{Status: "recorded"})
}

// @Summary      Complete a quiz session
// @Description  Finalizes the session aggregate, marks it completed, and returns the final stats.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session token"
// @Success      200        {object}  session.Stats
// @Failure      404        {object}  map[string]string
// @Failure      500        {object}  map[string]string
// @Router       /sessions/{sessionID}/complete [post]
func (h *Handler) completeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	final, err := h.sessions.End(r.Context(), sessionID)
	if h.handleStoreError(w, err, "session") {
		return
	}

	respondJSON(w, http.StatusOK, final)
}
