package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"pa-onboarding-backend/internal/security"
	"pa-onboarding-backend/internal/service"
)

// NewRouter wires all API routes. Everything under the authenticated
// subrouter requires a valid bearer token; the auth endpoints do not, since
// they are how tokens are obtained in the first place.
func NewRouter(
	tokenManager security.TokenManager,
	authSvc service.AuthService,
	onboardingSvc service.OnboardingService,
	actionSvc service.ActionService,
	docSvc service.DocumentService,
	adminSvc service.AdministrationService,
) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	authHandler := NewAuthHandler(authSvc)
	api.HandleFunc("/auth/session", authHandler.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokenManager))

	onboardingHandler := NewOnboardingHandler(onboardingSvc)
	authed.HandleFunc("/organizations", onboardingHandler.RegisterOrganization).Methods(http.MethodPost)
	authed.HandleFunc("/requests", onboardingHandler.ListRequests).Methods(http.MethodGet)

	actionHandler := NewActionHandler(actionSvc)
	authed.HandleFunc("/requests/actions", actionHandler.SubmitAction).Methods(http.MethodPost)

	documentHandler := NewDocumentHandler(docSvc)
	authed.HandleFunc("/organizations/{ipaCode}/documents/{fileName}", documentHandler.GetDocument).Methods(http.MethodGet)

	administrationHandler := NewAdministrationHandler(adminSvc)
	authed.HandleFunc("/administrations", administrationHandler.Search).Methods(http.MethodGet)
	authed.HandleFunc("/administrations/{ipaCode}", administrationHandler.Get).Methods(http.MethodGet)

	return router
}
