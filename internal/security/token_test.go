package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pa-onboarding-backend/internal/domain"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.GenerateAccessToken("delegate@example.com", domain.RoleOrgDelegate)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "delegate@example.com", claims.Email)
	assert.Equal(t, domain.RoleOrgDelegate, claims.Role)
	assert.Equal(t, "onboarding-backend", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-one", time.Hour).
		GenerateAccessToken("delegate@example.com", domain.RoleOrgDelegate)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.GenerateAccessToken("delegate@example.com", domain.RoleOrgDelegate)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	_, err := tm.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
