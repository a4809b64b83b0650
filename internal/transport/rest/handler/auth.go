package handler

import (
	"net/http"
	"scholarprep/internal/model"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/middleware"
	"scholarprep/internal/validation"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc  *service.AuthService
	validate *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, validate *validation.Validator) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, validate: validate}
}

// Register handles POST /v1/auth/register
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body model.RegisterRequest true "Account"
// @Success 201 {object} model.LoginResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	resp, err := h.authSvc.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /v1/auth/login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body model.LoginRequest true "Credentials"
// @Success 200 {object} model.LoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authSvc.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
