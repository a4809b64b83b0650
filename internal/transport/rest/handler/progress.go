package handler

import (
	"net/http"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// ProgressHandler serves student progress reports
type ProgressHandler struct {
	progressSvc *service.ProgressService
}

func NewProgressHandler(progressSvc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// Get handles GET /v1/students/{id}/progress
// @Summary Student progress report
// @Tags progress
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} model.ProgressReport
// @Router /students/{id}/progress [get]
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.progressSvc.GetProgress(r.Context(), middleware.GetCaller(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
