// internal/api/router.go
package api

import "net/http"

// RegisterRoutes wires every endpoint onto mux. /health is public, the
// /api routes require a bearer token.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Projects
	mux.Handle("GET /api/projects", h.authed(h.listProjects))

	// Practice
	mux.Handle("GET /api/practice/{project}/{mode}", h.authed(h.getPractice))
	mux.Handle("POST /api/submit_answer", h.authed(h.submitAnswer))
	mux.Handle("POST /api/reset_progress", h.authed(h.resetProgress))
	mux.Handle("POST /api/get_random_unanswered", h.authed(h.randomUnanswered))
}
