package postgres

import (
	"database/sql"

	"pa-onboarding-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RequestRepository
	repository.UserRepository
	repository.SessionRepository
	repository.AdministrationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		RequestRepository:        NewRequestRepository(db),
		UserRepository:           NewUserRepository(db),
		SessionRepository:        NewSessionRepository(db),
		AdministrationRepository: NewAdministrationRepository(db),
	}
}
