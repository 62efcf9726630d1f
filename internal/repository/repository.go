package repository

import (
	"context"
	"errors"
	"time"

	"pa-onboarding-backend/internal/domain"
)

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrNotCreated is returned by TransitionToSubmitted when the row is no
	// longer in CREATED status and the compare-and-swap update touched nothing.
	ErrNotCreated = errors.New("request is not in CREATED status")
)

type RequestRepository interface {
	// GetByID loads one request with its requester joined in, so ownership
	// checks do not need a second round trip.
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	ListByRequester(ctx context.Context, email string, status domain.RequestStatus) ([]domain.Request, error)
	// ExistsForIpaCode reports whether any request of the given type and
	// status targets the ipa code. Backs the already-registered conflict check.
	ExistsForIpaCode(ctx context.Context, ipaCode string, reqType domain.RequestType, status domain.RequestStatus) (bool, error)
	// CreatePair inserts both rows of a registration pair in one transaction.
	CreatePair(ctx context.Context, registration, delegation *domain.Request) error
	// TransitionToSubmitted flips CREATED to SUBMITTED with a compare-and-swap
	// guard; a row no longer in CREATED reports zero rows affected.
	TransitionToSubmitted(ctx context.Context, id int64) error
	ListStaleCreated(ctx context.Context, olderThan time.Time) ([]domain.Request, error)
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Upsert creates the profile on first SPID login and refreshes the
	// registry-sourced fields on subsequent ones.
	Upsert(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type AdministrationRepository interface {
	// GetByIpaCode loads one registry record with its contact emails.
	GetByIpaCode(ctx context.Context, ipaCode string) (*domain.PublicAdministration, error)
	Search(ctx context.Context, name string) ([]domain.PublicAdministration, error)
}
