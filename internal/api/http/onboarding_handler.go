package http

import (
	"encoding/json"
	"net/http"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/service"
)

type OnboardingHandler struct {
	onboardingSvc service.OnboardingService
}

func NewOnboardingHandler(onboardingSvc service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingSvc: onboardingSvc}
}

// RegisterOrganization handles POST /organizations. A successful call
// returns the created registration/delegation pair.
func (h *OnboardingHandler) RegisterOrganization(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden("no authenticated caller"))
		return
	}

	var params domain.RegistrationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, domain.ErrValidation("malformed registration payload"))
		return
	}
	if params.IpaCode == "" || params.SelectedPecLabel == "" {
		writeError(w, domain.ErrValidation("ipa_code and selected_pec_label are required"))
		return
	}
	if params.Scope != domain.OrganizationScopeNational && params.Scope != domain.OrganizationScopeLocal {
		writeError(w, domain.ErrValidation("scope must be NATIONAL or LOCAL"))
		return
	}

	requests, err := h.onboardingSvc.RegisterOrganization(r.Context(), identity, params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"items": requests})
}

// ListRequests handles GET /requests with an optional status filter.
func (h *OnboardingHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden("no authenticated caller"))
		return
	}

	status := domain.RequestStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.RequestStatusCreated, domain.RequestStatusSubmitted, domain.RequestStatusAccepted:
	default:
		writeError(w, domain.ErrValidation("unknown status filter"))
		return
	}

	requests, err := h.onboardingSvc.ListRequests(r.Context(), identity, status)
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": requests})
}
