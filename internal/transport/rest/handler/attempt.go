package handler

import (
	"net/http"
	"scholarprep/internal/model"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/middleware"
	"scholarprep/internal/validation"

	"github.com/gorilla/mux"
)

// AttemptHandler handles exam attempt endpoints
type AttemptHandler struct {
	attemptSvc *service.AttemptService
	validate   *validation.Validator
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(attemptSvc *service.AttemptService, validate *validation.Validator) *AttemptHandler {
	return &AttemptHandler{attemptSvc: attemptSvc, validate: validate}
}

// Start handles POST /v1/exams/{id}/attempts
// @Summary Start or resume an attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Exam ID"
// @Success 201 {object} model.StartResult
// @Success 200 {object} model.StartResult "Resumed"
// @Router /exams/{id}/attempts [post]
func (h *AttemptHandler) Start(w http.ResponseWriter, r *http.Request) {
	result, err := h.attemptSvc.Start(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// SaveAnswer handles PUT /v1/attempts/{id}/answers
func (h *AttemptHandler) SaveAnswer(w http.ResponseWriter, r *http.Request) {
	var req model.SaveAnswerRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	attemptID := mux.Vars(r)["id"]
	if err := h.attemptSvc.SaveAnswer(r.Context(), attemptID, middleware.GetUserID(r.Context()), &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attemptId":  attemptID,
		"questionId": req.QuestionID,
		"saved":      true,
	})
}

// Submit handles POST /v1/attempts/{id}/submit
// @Summary Submit an attempt for grading
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} model.SubmitResult
// @Failure 409 {object} map[string]string "Already submitted"
// @Router /attempts/{id}/submit [post]
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.attemptSvc.Submit(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /v1/attempts/{id}
func (h *AttemptHandler) Get(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.attemptSvc.Get(r.Context(), middleware.GetCaller(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

// ListForStudent handles GET /v1/students/{id}/attempts
func (h *AttemptHandler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.attemptSvc.ListCompleted(r.Context(), middleware.GetCaller(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}
