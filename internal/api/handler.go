// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/triviadeck/backend/internal/selector"
	"github.com/triviadeck/backend/internal/service"
	"github.com/triviadeck/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	selector  *selector.Selector
	sessions  *service.SessionTracker
	analytics *service.Analytics
	rollover  *service.Rollover
	logger    *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(sel *selector.Selector, sessions *service.SessionTracker, analytics *service.Analytics, rollover *service.Rollover, logger *slog.Logger) *Handler {
	return &Handler{
		selector:  sel,
		sessions:  sessions,
		analytics: analytics,
		rollover:  rollover,
		logger:    logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
// Returns false if the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, entity+" not found", http.StatusNotFound)
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	http.Error(w, "internal error", http.StatusInternalServerError)
	return true
}
