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

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `r.id, r.type, r.status, r.requester_email,
	r.organization_ipa_code, r.organization_fiscal_code, r.organization_name,
	r.organization_pec, r.organization_scope,
	r.legal_rep_first_name, r.legal_rep_family_name, r.legal_rep_fiscal_code, r.legal_rep_phone_number,
	r.created_at, r.updated_at, r.deleted_at`

func scanRequest(row interface{ Scan(...any) error }, req *domain.Request) error {
	return row.Scan(
		&req.ID, &req.Type, &req.Status, &req.RequesterEmail,
		&req.OrganizationIpaCode, &req.OrganizationFiscalCode, &req.OrganizationName,
		&req.OrganizationPec, &req.OrganizationScope,
		&req.LegalRepFirstName, &req.LegalRepFamilyName, &req.LegalRepFiscalCode, &req.LegalRepPhoneNumber,
		&req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
	)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + `,
		u.email, u.first_name, u.family_name, u.fiscal_code, u.role
		FROM requests r
		LEFT JOIN users u ON u.email = r.requester_email
		WHERE r.id = $1 AND r.deleted_at IS NULL`

	req := &domain.Request{}
	var (
		uEmail, uFirst, uFamily, uFiscal, uRole sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.Type, &req.Status, &req.RequesterEmail,
		&req.OrganizationIpaCode, &req.OrganizationFiscalCode, &req.OrganizationName,
		&req.OrganizationPec, &req.OrganizationScope,
		&req.LegalRepFirstName, &req.LegalRepFamilyName, &req.LegalRepFiscalCode, &req.LegalRepPhoneNumber,
		&req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
		&uEmail, &uFirst, &uFamily, &uFiscal, &uRole,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get request %d: %w", id, err)
	}
	if uEmail.Valid {
		req.Requester = &domain.User{
			Email:      uEmail.String,
			FirstName:  uFirst.String,
			FamilyName: uFamily.String,
			FiscalCode: uFiscal.String,
			Role:       domain.Role(uRole.String),
		}
	}
	return req, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, email string, status domain.RequestStatus) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests r
		WHERE r.requester_email = $1 AND r.deleted_at IS NULL`
	args := []any{email}
	if status != "" {
		query += ` AND r.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY r.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests for %s: %w", email, err)
	}
	defer rows.Close()

	var out []domain.Request
	for rows.Next() {
		var req domain.Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *requestRepository) ExistsForIpaCode(ctx context.Context, ipaCode string, reqType domain.RequestType, status domain.RequestStatus) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM requests
		WHERE organization_ipa_code = $1 AND type = $2 AND status = $3 AND deleted_at IS NULL)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ipaCode, reqType, status).Scan(&exists); err != nil {
		return false, fmt.Errorf("check requests for ipa code %s: %w", ipaCode, err)
	}
	return exists, nil
}

func (r *requestRepository) CreatePair(ctx context.Context, registration, delegation *domain.Request) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create pair: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, req := range []*domain.Request{registration, delegation} {
		query := `INSERT INTO requests (type, status, requester_email,
			organization_ipa_code, organization_fiscal_code, organization_name,
			organization_pec, organization_scope,
			legal_rep_first_name, legal_rep_family_name, legal_rep_fiscal_code, legal_rep_phone_number,
			created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
			RETURNING id`
		err := tx.QueryRowContext(ctx, query,
			req.Type, domain.RequestStatusCreated, req.RequesterEmail,
			req.OrganizationIpaCode, req.OrganizationFiscalCode, req.OrganizationName,
			req.OrganizationPec, req.OrganizationScope,
			req.LegalRepFirstName, req.LegalRepFamilyName, req.LegalRepFiscalCode, req.LegalRepPhoneNumber,
			now,
		).Scan(&req.ID)
		if err != nil {
			return fmt.Errorf("insert %s request: %w", req.Type, err)
		}
		req.Status = domain.RequestStatusCreated
		req.CreatedAt = now
		req.UpdatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create pair: %w", err)
	}
	return nil
}

func (r *requestRepository) TransitionToSubmitted(ctx context.Context, id int64) error {
	query := `UPDATE requests SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		domain.RequestStatusSubmitted, time.Now(), id, domain.RequestStatusCreated)
	if err != nil {
		return fmt.Errorf("transition request %d to submitted: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition request %d rows affected: %w", id, err)
	}
	if affected == 0 {
		return repository.ErrNotCreated
	}
	return nil
}

func (r *requestRepository) ListStaleCreated(ctx context.Context, olderThan time.Time) ([]domain.Request, error) {
	// The requester join lets the reminder job address people by name.
	query := `SELECT ` + requestColumns + `,
		u.email, u.first_name, u.family_name, u.fiscal_code, u.role
		FROM requests r
		LEFT JOIN users u ON u.email = r.requester_email
		WHERE r.status = $1 AND r.created_at < $2 AND r.deleted_at IS NULL
		ORDER BY r.requester_email, r.id`
	rows, err := r.db.QueryContext(ctx, query, domain.RequestStatusCreated, olderThan)
	if err != nil {
		return nil, fmt.Errorf("list stale created requests: %w", err)
	}
	defer rows.Close()

	var out []domain.Request
	for rows.Next() {
		var req domain.Request
		var uEmail, uFirst, uFamily, uFiscal, uRole sql.NullString
		if err := rows.Scan(
			&req.ID, &req.Type, &req.Status, &req.RequesterEmail,
			&req.OrganizationIpaCode, &req.OrganizationFiscalCode, &req.OrganizationName,
			&req.OrganizationPec, &req.OrganizationScope,
			&req.LegalRepFirstName, &req.LegalRepFamilyName, &req.LegalRepFiscalCode, &req.LegalRepPhoneNumber,
			&req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
			&uEmail, &uFirst, &uFamily, &uFiscal, &uRole,
		); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		if uEmail.Valid {
			req.Requester = &domain.User{
				Email:      uEmail.String,
				FirstName:  uFirst.String,
				FamilyName: uFamily.String,
				FiscalCode: uFiscal.String,
				Role:       domain.Role(uRole.String),
			}
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
