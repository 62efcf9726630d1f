package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT email, first_name, family_name, fiscal_code, role, created_at
		FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.Email, &user.FirstName, &user.FamilyName, &user.FiscalCode, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", email, err)
	}
	return user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, first_name, family_name, fiscal_code, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			family_name = EXCLUDED.family_name,
			fiscal_code = EXCLUDED.fiscal_code`
	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.FirstName, user.FamilyName, user.FiscalCode, user.Role, time.Now())
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", user.Email, err)
	}
	return nil
}
