package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", "saathi-backend", time.Hour)

	token, err := svc.GenerateToken("child-123", "asha9")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "child-123", claims.ChildID)
	assert.Equal(t, "asha9", claims.Username)
	assert.Equal(t, "saathi-backend", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", "saathi-backend", time.Hour)
	other := NewJWTService("different-secret", "saathi-backend", time.Hour)

	token, err := svc.GenerateToken("child-123", "asha9")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", "saathi-backend", -time.Minute)

	token, err := svc.GenerateToken("child-123", "asha9")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "saathi-backend", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
