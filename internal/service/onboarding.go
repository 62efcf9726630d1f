package service

import (
	"context"
	"errors"
	"fmt"

	"pa-onboarding-backend/internal/authz"
	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/logger"
	"pa-onboarding-backend/internal/repository"
)

type onboardingService struct {
	requestRepo repository.RequestRepository
	adminRepo   repository.AdministrationRepository
	docSvc      DocumentService
}

func NewOnboardingService(
	requestRepo repository.RequestRepository,
	adminRepo repository.AdministrationRepository,
	docSvc DocumentService,
) OnboardingService {
	return &onboardingService{
		requestRepo: requestRepo,
		adminRepo:   adminRepo,
		docSvc:      docSvc,
	}
}

// RegisterOrganization resolves the target administration, validates the
// selected certified mailbox, checks the administration is not already
// registered, then atomically creates the linked registration/delegation
// pair owned by the caller. Any step's failure short-circuits the rest.
func (s *onboardingService) RegisterOrganization(ctx context.Context, identity domain.Identity, params domain.RegistrationParams) ([]domain.Request, error) {
	if !canCreateRequests(identity.Role) {
		return nil, domain.ErrForbidden("role is not allowed to register organizations")
	}

	admin, err := s.adminRepo.GetByIpaCode(ctx, params.IpaCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrNotFound(fmt.Sprintf("no administration found for ipa code %s", params.IpaCode))
	}
	if err != nil {
		logger.Error("Failed to load administration", "ipa_code", params.IpaCode, "error", err)
		return nil, domain.ErrInternal("failed to load administration", err)
	}

	pec, ok := admin.PecByLabel(params.SelectedPecLabel)
	if !ok {
		return nil, domain.ErrValidation(fmt.Sprintf("label %q does not denote a PEC address of the administration", params.SelectedPecLabel))
	}

	registered, err := s.requestRepo.ExistsForIpaCode(ctx, params.IpaCode,
		domain.RequestTypeOrganizationRegistration, domain.RequestStatusAccepted)
	if err != nil {
		logger.Error("Failed to check existing registrations", "ipa_code", params.IpaCode, "error", err)
		return nil, domain.ErrInternal("failed to check existing registrations", err)
	}
	if registered {
		return nil, domain.ErrConflict("administration already registered")
	}

	registration := s.draftRequest(domain.RequestTypeOrganizationRegistration, identity, admin, pec.Address, params)
	delegation := s.draftRequest(domain.RequestTypeUserDelegation, identity, admin, pec.Address, params)

	if err := s.requestRepo.CreatePair(ctx, registration, delegation); err != nil {
		logger.Error("Failed to create request pair", "ipa_code", params.IpaCode, "error", err)
		return nil, domain.ErrInternal("failed to create onboarding requests", err)
	}

	// Reload with the requester association populated; document generation
	// renders requester fields into the delegation mandate.
	created := make([]domain.Request, 0, 2)
	for _, id := range []int64{registration.ID, delegation.ID} {
		req, err := s.requestRepo.GetByID(ctx, id)
		if err != nil {
			logger.Error("Failed to reload created request", "request_id", id, "error", err)
			return nil, domain.ErrInternal("failed to reload created requests", err)
		}
		created = append(created, *req)
	}

	if err := s.docSvc.GenerateRegistrationDocuments(ctx, created); err != nil {
		logger.Error("Failed to generate onboarding documents", "ipa_code", params.IpaCode, "error", err)
		return nil, domain.ErrInternal("failed to generate onboarding documents", err)
	}

	logger.Info("Onboarding requests created",
		"ipa_code", params.IpaCode,
		"requester", identity.Email,
		"registration_id", registration.ID,
		"delegation_id", delegation.ID)
	return created, nil
}

func (s *onboardingService) draftRequest(reqType domain.RequestType, identity domain.Identity, admin *domain.PublicAdministration, pecAddress string, params domain.RegistrationParams) *domain.Request {
	return &domain.Request{
		Type:                   reqType,
		Status:                 domain.RequestStatusCreated,
		RequesterEmail:         identity.Email,
		OrganizationIpaCode:    admin.IpaCode,
		OrganizationFiscalCode: admin.FiscalCode,
		OrganizationName:       admin.Name,
		OrganizationPec:        pecAddress,
		OrganizationScope:      params.Scope,
		LegalRepFirstName:      params.LegalRepresentative.FirstName,
		LegalRepFamilyName:     params.LegalRepresentative.FamilyName,
		LegalRepFiscalCode:     params.LegalRepresentative.FiscalCode,
		LegalRepPhoneNumber:    params.LegalRepresentative.PhoneNumber,
	}
}

func (s *onboardingService) ListRequests(ctx context.Context, identity domain.Identity, status domain.RequestStatus) ([]domain.Request, error) {
	readOwn := authz.Can(identity.Role, authz.ResourceOrganizationRegistrationRequest, authz.VerbRead, authz.PossessionOwn)
	readAny := authz.Can(identity.Role, authz.ResourceOrganizationRegistrationRequest, authz.VerbRead, authz.PossessionAny)
	if !readOwn.Granted && !readAny.Granted {
		return nil, domain.ErrForbidden("role is not allowed to read requests")
	}

	requests, err := s.requestRepo.ListByRequester(ctx, identity.Email, status)
	if err != nil {
		logger.Error("Failed to list requests", "requester", identity.Email, "error", err)
		return nil, domain.ErrInternal("failed to list requests", err)
	}
	return requests, nil
}

// canCreateRequests requires the create grant, own or cross-owner, on both
// request resources: registration always produces one row of each type.
func canCreateRequests(role domain.Role) bool {
	for _, resource := range []authz.Resource{
		authz.ResourceOrganizationRegistrationRequest,
		authz.ResourceUserDelegationRequest,
	} {
		own := authz.Can(role, resource, authz.VerbCreate, authz.PossessionOwn)
		any := authz.Can(role, resource, authz.VerbCreate, authz.PossessionAny)
		if !own.Granted && !any.Granted {
			return false
		}
	}
	return true
}
