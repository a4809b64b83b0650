package handler

import (
	"net/http"
	"scholarprep/internal/model"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/middleware"
	"strconv"
)

// GamificationHandler serves points, badges and leaderboards
type GamificationHandler struct {
	gamificationSvc *service.GamificationService
}

func NewGamificationHandler(gamificationSvc *service.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationSvc: gamificationSvc}
}

// Me handles GET /v1/gamification/me
func (h *GamificationHandler) Me(w http.ResponseWriter, r *http.Request) {
	stats, err := h.gamificationSvc.GetStats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Leaderboard handles GET /v1/gamification/leaderboard?grade=&limit=
func (h *GamificationHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	grade := model.Grade(r.URL.Query().Get("grade"))
	if grade == "" {
		writeError(w, http.StatusBadRequest, "grade is required")
		return
	}
	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.gamificationSvc.Leaderboard(r.Context(), grade, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Badges handles GET /v1/gamification/badges
func (h *GamificationHandler) Badges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.gamificationSvc.Badges())
}
