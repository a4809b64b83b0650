package handler

import (
	"net/http"
	"scholarprep/internal/model"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/middleware"
	"scholarprep/internal/validation"

	"github.com/gorilla/mux"
)

// Paper2Handler handles hand-written paper 2 submissions and marking
type Paper2Handler struct {
	paper2Svc *service.Paper2Service
	validate  *validation.Validator
}

func NewPaper2Handler(paper2Svc *service.Paper2Service, validate *validation.Validator) *Paper2Handler {
	return &Paper2Handler{paper2Svc: paper2Svc, validate: validate}
}

// Submit handles POST /v1/paper2
func (h *Paper2Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.Paper2MetaRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	sub, err := h.paper2Svc.SubmitMeta(r.Context(), middleware.GetCaller(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// Mark handles POST /v1/paper2/{id}/mark
func (h *Paper2Handler) Mark(w http.ResponseWriter, r *http.Request) {
	var req model.Paper2MarkRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	sub, err := h.paper2Svc.Mark(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// ListForExam handles GET /v1/exams/{id}/paper2
func (h *Paper2Handler) ListForExam(w http.ResponseWriter, r *http.Request) {
	subs, err := h.paper2Svc.ListForExam(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
