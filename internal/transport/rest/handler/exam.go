package handler

import (
	"net/http"
	"scholarprep/internal/model"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/middleware"
	"scholarprep/internal/validation"

	"github.com/gorilla/mux"
)

// ExamHandler handles exam catalog endpoints
type ExamHandler struct {
	examSvc  *service.ExamService
	validate *validation.Validator
}

// NewExamHandler creates a new exam handler
func NewExamHandler(examSvc *service.ExamService, validate *validation.Validator) *ExamHandler {
	return &ExamHandler{examSvc: examSvc, validate: validate}
}

func canAuthor(role model.Role) bool {
	return role.IsStaff() || role == model.RoleTypesetter
}

// List handles GET /v1/exams?grade=&status=
// @Summary List exams
// @Tags exams
// @Produce json
// @Param grade query string false "Grade"
// @Param status query string false "Status (staff only)"
// @Success 200 {array} model.ExamSummary
// @Router /exams [get]
func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ExamFilter{
		Grade:  model.Grade(q.Get("grade")),
		Status: model.ExamStatus(q.Get("status")),
	}
	if !canAuthor(middleware.GetRole(r.Context())) {
		filter.Status = model.ExamPublished
	}

	exams, err := h.examSvc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exams)
}

// Get handles GET /v1/exams/{id}. Authors see answer keys; everyone else
// gets the published view without them.
func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	exam, err := h.examSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if canAuthor(middleware.GetRole(r.Context())) {
		writeJSON(w, http.StatusOK, exam)
		return
	}
	if exam.Status == model.ExamDraft {
		writeError(w, http.StatusNotFound, "exam not found")
		return
	}
	writeJSON(w, http.StatusOK, exam.View())
}

// Create handles POST /v1/exams
// @Summary Create a draft exam
// @Tags exams
// @Accept json
// @Produce json
// @Param body body model.CreateExamRequest true "Exam"
// @Success 201 {object} model.Exam
// @Router /exams [post]
func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExamRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	exam, err := h.examSvc.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exam)
}

// Update handles PUT /v1/exams/{id}
func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExamRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	exam, err := h.examSvc.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

// Publish handles POST /v1/exams/{id}/publish
func (h *ExamHandler) Publish(w http.ResponseWriter, r *http.Request) {
	exam, err := h.examSvc.Publish(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

// Close handles POST /v1/exams/{id}/close
func (h *ExamHandler) Close(w http.ResponseWriter, r *http.Request) {
	exam, err := h.examSvc.Close(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}
