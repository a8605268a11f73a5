package api

import (
	"net/http"

	practicesession "github.com/drillroom/backend/internal/domain/practice_session"
	"github.com/drillroom/backend/internal/domain/questionbank"
	"github.com/drillroom/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

// PracticePayload seeds one practice session on the client.
type PracticePayload struct {
	ProjectName string                               `json:"projectName"`
	DisplayName string                               `json:"displayName"`
	Mode        string                               `json:"mode"`
	Questions   []questionbank.Question              `json:"questions"`
	UserAnswers map[int]practicesession.AnswerRecord `json:"userAnswers"`
	Total       int                                  `json:"total"`
}

type SubmitAnswerRequest struct {
	Project string `json:"project"`
	Index   *int   `json:"index"`
	Answer  string `json:"answer"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r.Project == "" || r.Index == nil || r.Answer == "" {
		return service.ErrInvalidInput
	}
	return nil
}

type SubmitAnswerResponse struct {
	Success       bool   `json:"success"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// ProjectRequest is the body of the reset and random-question endpoints.
type ProjectRequest struct {
	Project string `json:"project"`
}

func (r *ProjectRequest) Validate() error {
	if r.Project == "" {
		return service.ErrInvalidInput
	}
	return nil
}

type RandomUnansweredResponse struct {
	Success     bool `json:"success"`
	Index       *int `json:"index"`
	AllAnswered bool `json:"all_answered"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /api/practice/{project}/{mode}
func (h *Handler) getPractice(w http.ResponseWriter, r *http.Request) {
	mode, err := practicesession.ParseMode(r.PathValue("mode"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bank, err := h.catalog.Bank(r.PathValue("project"))
	if h.handleServiceError(w, err, "get practice") {
		return
	}
	if bank.Total() == 0 {
		respondError(w, http.StatusNotFound, "project has no questions")
		return
	}

	answers, err := h.progress.Answers(r.Context(), userKey(r), bank.ID)
	if h.handleServiceError(w, err, "get practice") {
		return
	}

	respondJSON(w, http.StatusOK, PracticePayload{
		ProjectName: bank.ID,
		DisplayName: bank.DisplayName,
		Mode:        string(mode),
		Questions:   bank.Questions,
		UserAnswers: answers,
		Total:       bank.Total(),
	})
}

// POST /api/submit_answer
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.progress.SubmitAnswer(r.Context(), userKey(r), req.Project, *req.Index, req.Answer)
	if h.handleServiceError(w, err, "submit answer") {
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Success:       true,
		Correct:       res.Correct,
		CorrectAnswer: res.CorrectAnswer,
	})
}

// POST /api/reset_progress
func (h *Handler) resetProgress(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.progress.ResetProgress(r.Context(), userKey(r), req.Project)
	if h.handleServiceError(w, err, "reset progress") {
		return
	}

	respondJSON(w, http.StatusOK, envelope{Success: true})
}

// POST /api/get_random_unanswered
func (h *Handler) randomUnanswered(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	index, all, err := h.progress.RandomUnanswered(r.Context(), userKey(r), req.Project)
	if h.handleServiceError(w, err, "random unanswered") {
		return
	}

	resp := RandomUnansweredResponse{Success: true, AllAnswered: all}
	if !all {
		resp.Index = &index
	}
	respondJSON(w, http.StatusOK, resp)
}
