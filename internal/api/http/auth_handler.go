package http

import (
	"encoding/json"
	"net/http"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type sessionRequest struct {
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	FamilyName string      `json:"family_name"`
	FiscalCode string      `json:"fiscal_code"`
	Role       domain.Role `json:"role"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateSession handles POST /auth/session. The payload is a profile the
// SPID federation layer has already verified; this endpoint is reachable
// only from that layer.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("malformed session payload"))
		return
	}

	access, refresh, err := h.authSvc.CreateSession(r.Context(), domain.User{
		Email:      req.Email,
		FirstName:  req.FirstName,
		FamilyName: req.FamilyName,
		FiscalCode: req.FiscalCode,
		Role:       req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /auth/refresh, rotating the refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("malformed refresh payload"))
		return
	}

	access, refresh, err := h.authSvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("malformed logout payload"))
		return
	}

	if err := h.authSvc.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
