package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/triviadeck/backend/internal/domain/quiztype"
)

// ── Request / Response types ────────────────────────────────────────────────

type QuizTypeResponse struct {
	QuizType    string `json:"quiz_type" example:"capital"`
	Label       string `json:"label" example:"Capitals"`
	Category    string `json:"category" example:"geography"`
	Subcategory string `json:"subcategory" example:"capital"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// @Summary      List quiz types
// @Description  Returns the registered quiz types, optionally filtered by category.
// @Tags         Quizzes
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Success      200       {array}   QuizTypeResponse
// @Router       /quiz-types [get]
func (h *Handler) listQuizTypes(w http.ResponseWriter, r *http.Request) {
	types := quiztype.Types()
	if category := r.URL.Query().Get("category"); category != "" {
		types = quiztype.TypesByCategory(category)
	}

	response := make([]QuizTypeResponse, 0, len(types))
	for _, t := range types {
		cfg, err := quiztype.Lookup(t)
		if err != nil {
			continue
		}
		response = append(response, QuizTypeResponse{
			QuizType:    t,
			Label:       quiztype.DisplayName(t),
			Category:    cfg.Category,
			Subcategory: cfg.Subcategory,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

// @Summary      Get quiz questions
// @Description  Returns up to count questions for a quiz type, least-exposed first, with shuffled options. May return fewer than requested, including zero.
// @Tags         Quizzes
// @Produce      json
// @Param        quizType  path      string  true   "Quiz type"
// @Param        count     query     int     false  "Number of questions (default 10)"
// @Param        exclude   query     string  false  "Comma-separated question ids to omit"
// @Success      200       {array}   question.Formatted
// @Failure      400       {object}  map[string]string  "unknown quiz type"
// @Router       /quizzes/{quizType}/questions [get]
func (h *Handler) getQuizQuestions(w http.ResponseWriter, r *http.Request) {
	quizType := r.PathValue("quizType")

	count := 10
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "count must be a positive integer", http.StatusBadRequest)
			return
		}
		count = n
	}

	excludeIDs, err := parseIDList(r.URL.Query().Get("exclude"))
	if err != nil {
		http.Error(w, "exclude must be a comma-separated list of integers", http.StatusBadRequest)
		return
	}

	questions, err := h.selector.Select(r.Context(), quizType, count, excludeIDs)
	if err != nil {
		var unknown *quiztype.UnknownTypeError
		if errors.As(err, &unknown) {
			http.Error(w, unknown.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("question selection failed", "quiz_type", quizType, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, questions)
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
