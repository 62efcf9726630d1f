package http

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/logger"
	"pa-onboarding-backend/internal/service"
)

type DocumentHandler struct {
	docSvc service.DocumentService
}

func NewDocumentHandler(docSvc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docSvc: docSvc}
}

// GetDocument handles GET /organizations/{ipaCode}/documents/{fileName},
// streaming the stored document or reporting NotFound.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromContext(r.Context()); !ok {
		writeError(w, domain.ErrForbidden("no authenticated caller"))
		return
	}

	vars := mux.Vars(r)
	ipaCode := vars["ipaCode"]
	fileName := vars["fileName"]

	doc, err := h.docSvc.OpenDocument(r.Context(), ipaCode, fileName)
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, domain.ErrNotFound("document not found"))
		return
	}
	if err != nil {
		logger.Error("Failed to open document", "ipa_code", ipaCode, "file", fileName, "error", err)
		writeError(w, domain.ErrInternal("failed to open document", err))
		return
	}
	defer doc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	if _, err := io.Copy(w, doc); err != nil {
		logger.Error("Failed to stream document", "ipa_code", ipaCode, "file", fileName, "error", err)
	}
}
