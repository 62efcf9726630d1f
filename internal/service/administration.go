package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/logger"
	"pa-onboarding-backend/internal/repository"
)

type administrationService struct {
	adminRepo repository.AdministrationRepository
}

func NewAdministrationService(adminRepo repository.AdministrationRepository) AdministrationService {
	return &administrationService{adminRepo: adminRepo}
}

func (s *administrationService) Search(ctx context.Context, name string) ([]domain.PublicAdministration, error) {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return nil, domain.ErrValidation("search term must be at least 3 characters")
	}

	results, err := s.adminRepo.Search(ctx, name)
	if err != nil {
		logger.Error("Failed to search administrations", "term", name, "error", err)
		return nil, domain.ErrInternal("failed to search administrations", err)
	}
	return results, nil
}

func (s *administrationService) Get(ctx context.Context, ipaCode string) (*domain.PublicAdministration, error) {
	admin, err := s.adminRepo.GetByIpaCode(ctx, ipaCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrNotFound(fmt.Sprintf("no administration found for ipa code %s", ipaCode))
	}
	if err != nil {
		logger.Error("Failed to load administration", "ipa_code", ipaCode, "error", err)
		return nil, domain.ErrInternal("failed to load administration", err)
	}
	return admin, nil
}
