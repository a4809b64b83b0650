package handler

import (
	"net/http"
	"scholarprep/internal/model"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/middleware"
	"scholarprep/internal/validation"

	"github.com/gorilla/mux"
)

// TutorHandler handles AI tutor chat endpoints
type TutorHandler struct {
	tutorSvc *service.TutorService
	validate *validation.Validator
}

func NewTutorHandler(tutorSvc *service.TutorService, validate *validation.Validator) *TutorHandler {
	return &TutorHandler{tutorSvc: tutorSvc, validate: validate}
}

// Start handles POST /v1/tutor/sessions
func (h *TutorHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartChatRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	session, err := h.tutorSvc.Start(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Send handles POST /v1/tutor/sessions/{id}/messages
func (h *TutorHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.ChatMessageRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	reply, err := h.tutorSvc.Send(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// History handles GET /v1/tutor/sessions/{id}
func (h *TutorHandler) History(w http.ResponseWriter, r *http.Request) {
	session, err := h.tutorSvc.History(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// End handles DELETE /v1/tutor/sessions/{id}
func (h *TutorHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.tutorSvc.End(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
