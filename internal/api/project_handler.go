package api

import (
	"net/http"

	"github.com/drillroom/backend/internal/domain/questionbank"
)

type ProjectSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Total       int    `json:"total"`
	Answered    int    `json:"answered"`
	Correct     int    `json:"correct"`
}

type FolderSummary struct {
	Name     string           `json:"name"`
	Projects []ProjectSummary `json:"projects"`
}

type ProjectListResponse struct {
	Folders  []FolderSummary  `json:"folders"`
	Projects []ProjectSummary `json:"projects"`
}

// GET /api/projects
func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	user := userKey(r)

	summarize := func(banks []*questionbank.Bank) ([]ProjectSummary, error) {
		out := make([]ProjectSummary, 0, len(banks))
		for _, b := range banks {
			p, err := h.progress.Progress(r.Context(), user, b)
			if err != nil {
				return nil, err
			}
			out = append(out, ProjectSummary{
				ID:          b.ID,
				DisplayName: b.DisplayName,
				Total:       p.Total,
				Answered:    p.Answered,
				Correct:     p.Correct,
			})
		}
		return out, nil
	}

	resp := ProjectListResponse{Folders: []FolderSummary{}}
	for _, f := range h.catalog.Folders() {
		projects, err := summarize(f.Banks)
		if h.handleServiceError(w, err, "list projects") {
			return
		}
		resp.Folders = append(resp.Folders, FolderSummary{Name: f.Name, Projects: projects})
	}

	standalone, err := summarize(h.catalog.Standalone())
	if h.handleServiceError(w, err, "list projects") {
		return
	}
	resp.Projects = standalone

	respondJSON(w, http.StatusOK, resp)
}
