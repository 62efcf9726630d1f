package http

import (
	"encoding/json"
	"net/http"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/logger"
)

// errorBody is the wire shape of every failure response. The kind strings
// are a stable contract with existing API clients.
type errorBody struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

var kindToWire = map[domain.ErrorKind]string{
	domain.ErrorKindForbidden:  "IResponseErrorForbiddenNotAuthorized",
	domain.ErrorKindValidation: "IResponseErrorValidation",
	domain.ErrorKindNotFound:   "IResponseErrorNotFound",
	domain.ErrorKindConflict:   "IResponseErrorConflict",
	domain.ErrorKindInternal:   "IResponseErrorInternal",
}

var kindToStatus = map[domain.ErrorKind]int{
	domain.ErrorKindForbidden:  http.StatusForbidden,
	domain.ErrorKindValidation: http.StatusBadRequest,
	domain.ErrorKindNotFound:   http.StatusNotFound,
	domain.ErrorKindConflict:   http.StatusConflict,
	domain.ErrorKindInternal:   http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps a tagged service error to its wire kind and HTTP status.
// Internal details never leave the process; only the caller-safe detail does.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	writeJSON(w, kindToStatus[kind], errorBody{
		Kind:   kindToWire[kind],
		Detail: domain.DetailOf(err),
	})
}
