package http

import (
	"encoding/json"
	"net/http"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/service"
)

type ActionHandler struct {
	actionSvc service.ActionService
}

func NewActionHandler(actionSvc service.ActionService) *ActionHandler {
	return &ActionHandler{actionSvc: actionSvc}
}

// SubmitAction handles POST /requests/actions. Success is an empty
// no-content response; any failure carries a tagged error body.
func (h *ActionHandler) SubmitAction(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden("no authenticated caller"))
		return
	}

	var payload domain.ActionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.ErrValidation("malformed action payload"))
		return
	}

	if err := h.actionSvc.ExecuteAction(r.Context(), identity, payload); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
