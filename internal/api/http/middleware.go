package http

import (
	"context"
	"net/http"
	"strings"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/security"
)

type contextKey string

const identityKey contextKey = "identity"

// identityFromContext returns the authenticated caller placed there by the
// auth middleware.
func identityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// AuthMiddleware resolves the Bearer token into a caller identity. Requests
// without a valid token never reach a handler.
func AuthMiddleware(tokenManager security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{
					Kind:   "IResponseErrorForbiddenNotAuthorized",
					Detail: "missing bearer token",
				})
				return
			}

			claims, err := tokenManager.ValidateToken(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{
					Kind:   "IResponseErrorForbiddenNotAuthorized",
					Detail: "invalid or expired token",
				})
				return
			}

			identity := domain.Identity{Email: claims.Email, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
		})
	}
}
