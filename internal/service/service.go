package service

import (
	"context"
	"io"

	"pa-onboarding-backend/internal/domain"
)

type OnboardingService interface {
	// RegisterOrganization creates the linked pair of requests for a new
	// organization signup, or fails cleanly with a tagged error.
	RegisterOrganization(ctx context.Context, identity domain.Identity, params domain.RegistrationParams) ([]domain.Request, error)
	ListRequests(ctx context.Context, identity domain.Identity, status domain.RequestStatus) ([]domain.Request, error)
}

type ActionService interface {
	// ExecuteAction runs a bulk action against a set of requester-owned
	// requests: authorization, consistency checks, document signing, email
	// delivery and status commit, as a single logical unit.
	ExecuteAction(ctx context.Context, identity domain.Identity, payload domain.ActionPayload) error
}

// Attachment describes one signed document attached to the registration email.
type Attachment struct {
	Filename string
	Path     string
	Content  []byte
}

type DocumentService interface {
	// GenerateRegistrationDocuments renders and stores the unsigned contract
	// document for each request, keyed by ipa code and request id.
	GenerateRegistrationDocuments(ctx context.Context, requests []domain.Request) error
	// SignDocument submits base64 content to the remote signing service and
	// returns the signed base64 content.
	SignDocument(ctx context.Context, base64Content string) (string, error)
	ReadUnsigned(ctx context.Context, ipaCode string, id int64) ([]byte, error)
	WriteSigned(ctx context.Context, ipaCode string, id int64, data []byte) (string, error)
	// OpenDocument streams a stored document for the retrieval endpoint.
	OpenDocument(ctx context.Context, ipaCode, filename string) (io.ReadCloser, error)
}

type EmailService interface {
	SendRegistrationRequests(ctx context.Context, toPec, orgName string, attachments []Attachment) error
	SendRequestReminder(ctx context.Context, toEmail, name string, pendingCount int) error
}

type AuthService interface {
	// CreateSession upserts the SPID-verified profile and issues an access
	// token plus an opaque refresh token.
	CreateSession(ctx context.Context, profile domain.User) (access, refresh string, err error)
	Refresh(ctx context.Context, refreshToken string) (access, refresh string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type AdministrationService interface {
	Search(ctx context.Context, name string) ([]domain.PublicAdministration, error)
	Get(ctx context.Context, ipaCode string) (*domain.PublicAdministration, error)
}
