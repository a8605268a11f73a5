// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/drillroom/backend/internal/catalog"
	"github.com/drillroom/backend/internal/service"
)

const maxBodyBytes = 1 << 20

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	catalog  *catalog.Catalog
	progress *service.ProgressService
	tokens   map[string]bool
	logger   *slog.Logger
}

// NewHandler creates a Handler with the given dependencies. Only requests
// bearing one of tokens reach the /api routes.
func NewHandler(c *catalog.Catalog, ps *service.ProgressService, tokens []string, logger *slog.Logger) *Handler {
	allowed := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		allowed[t] = true
	}
	return &Handler{
		catalog:  c,
		progress: ps,
		tokens:   allowed,
		logger:   logger,
	}
}

// envelope is the body of every failed /api response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Success: false, Message: message})
}

type validator interface {
	Validate() error
}

// decodeAndValidate decodes the request body into v and runs its Validate
// method. Returns false if a response was already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleServiceError checks for known service errors and writes the
// appropriate HTTP response. Returns true if an error was handled (caller
// should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, op string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrQuestionNotFound), errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("service error", "error", err, "op", op)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
