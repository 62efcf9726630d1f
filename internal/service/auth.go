package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/logger"
	"pa-onboarding-backend/internal/repository"
	"pa-onboarding-backend/internal/security"
)

type authService struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	tokenManager  security.TokenManager
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokenManager security.TokenManager,
	refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		tokenManager:  tokenManager,
		refreshExpiry: refreshExpiry,
	}
}

// CreateSession runs after the SPID federation layer has verified an
// assertion. The profile is upserted so registry-sourced fields stay fresh,
// then an access token and a rotating refresh token are issued.
func (s *authService) CreateSession(ctx context.Context, profile domain.User) (string, string, error) {
	if profile.Email == "" {
		return "", "", domain.ErrValidation("profile email is required")
	}
	if profile.Role == "" {
		profile.Role = domain.RoleOrgDelegate
	}

	if err := s.userRepo.Upsert(ctx, &profile); err != nil {
		logger.Error("Failed to upsert user", "email", profile.Email, "error", err)
		return "", "", domain.ErrInternal("failed to store user profile", err)
	}

	// Role may differ from the SPID default if an operator promoted the user.
	user, err := s.userRepo.GetByEmail(ctx, profile.Email)
	if err != nil {
		logger.Error("Failed to reload user", "email", profile.Email, "error", err)
		return "", "", domain.ErrInternal("failed to load user profile", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	session, err := s.verifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, session.UserEmail)
	if err != nil {
		logger.Error("Failed to load user for refresh", "email", session.UserEmail, "error", err)
		return "", "", domain.ErrInternal("failed to load user profile", err)
	}

	// Rotate: the presented token is invalid from here on.
	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		logger.Error("Failed to delete rotated session", "session_id", session.ID, "error", err)
		return "", "", domain.ErrInternal("failed to rotate session", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.verifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		logger.Error("Failed to delete session", "session_id", session.ID, "error", err)
		return domain.ErrInternal("failed to delete session", err)
	}
	return nil
}

func (s *authService) issueTokens(ctx context.Context, user *domain.User) (string, string, error) {
	access, err := s.tokenManager.GenerateAccessToken(user.Email, user.Role)
	if err != nil {
		logger.Error("Failed to generate access token", "email", user.Email, "error", err)
		return "", "", domain.ErrInternal("failed to generate access token", err)
	}

	sessionID := uuid.NewString()
	secret := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", domain.ErrInternal("failed to hash refresh token", err)
	}

	session := &domain.Session{
		ID:        sessionID,
		UserEmail: user.Email,
		TokenHash: string(hash),
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		logger.Error("Failed to create session", "email", user.Email, "error", err)
		return "", "", domain.ErrInternal("failed to create session", err)
	}

	return access, fmt.Sprintf("%s.%s", sessionID, secret), nil
}

// verifyRefreshToken parses a "<sessionID>.<secret>" token, loads the
// session row and compares the bcrypt hash.
func (s *authService) verifyRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	sessionID, secret, ok := strings.Cut(refreshToken, ".")
	if !ok || sessionID == "" || secret == "" {
		return nil, domain.ErrForbidden("malformed refresh token")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrForbidden("unknown session")
	}
	if err != nil {
		logger.Error("Failed to load session", "session_id", sessionID, "error", err)
		return nil, domain.ErrInternal("failed to load session", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, domain.ErrForbidden("session has expired")
	}
	if bcrypt.CompareHashAndPassword([]byte(session.TokenHash), []byte(secret)) != nil {
		return nil, domain.ErrForbidden("invalid refresh token")
	}
	return session, nil
}
