package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/service"
)

type AdministrationHandler struct {
	adminSvc service.AdministrationService
}

func NewAdministrationHandler(adminSvc service.AdministrationService) *AdministrationHandler {
	return &AdministrationHandler{adminSvc: adminSvc}
}

// Search handles GET /administrations?search=<term>.
func (h *AdministrationHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromContext(r.Context()); !ok {
		writeError(w, domain.ErrForbidden("no authenticated caller"))
		return
	}

	results, err := h.adminSvc.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []domain.PublicAdministration{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": results})
}

// Get handles GET /administrations/{ipaCode}.
func (h *AdministrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromContext(r.Context()); !ok {
		writeError(w, domain.ErrForbidden("no authenticated caller"))
		return
	}

	admin, err := h.adminSvc.Get(r.Context(), mux.Vars(r)["ipaCode"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admin)
}
