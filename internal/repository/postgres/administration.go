package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/repository"
)

type administrationRepository struct {
	db *sql.DB
}

func NewAdministrationRepository(db *sql.DB) repository.AdministrationRepository {
	return &administrationRepository{db: db}
}

func (r *administrationRepository) GetByIpaCode(ctx context.Context, ipaCode string) (*domain.PublicAdministration, error) {
	admin := &domain.PublicAdministration{}
	query := `SELECT ipa_code, name, fiscal_code FROM administrations WHERE ipa_code = $1`
	err := r.db.QueryRowContext(ctx, query, ipaCode).Scan(&admin.IpaCode, &admin.Name, &admin.FiscalCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get administration %s: %w", ipaCode, err)
	}

	emailQuery := `SELECT label, type, address FROM administration_emails
		WHERE ipa_code = $1 ORDER BY label`
	rows, err := r.db.QueryContext(ctx, emailQuery, ipaCode)
	if err != nil {
		return nil, fmt.Errorf("get administration emails %s: %w", ipaCode, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.ContactEmail
		if err := rows.Scan(&e.Label, &e.Type, &e.Address); err != nil {
			return nil, fmt.Errorf("scan administration email: %w", err)
		}
		admin.Emails = append(admin.Emails, e)
	}
	return admin, rows.Err()
}

func (r *administrationRepository) Search(ctx context.Context, name string) ([]domain.PublicAdministration, error) {
	query := `SELECT ipa_code, name, fiscal_code FROM administrations
		WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT 30`
	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("search administrations: %w", err)
	}
	defer rows.Close()

	var out []domain.PublicAdministration
	for rows.Next() {
		var a domain.PublicAdministration
		if err := rows.Scan(&a.IpaCode, &a.Name, &a.FiscalCode); err != nil {
			return nil, fmt.Errorf("scan administration: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
