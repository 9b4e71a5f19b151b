package jwt

import (
	"testing"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenClaims(t *testing.T) {
	svc := NewJWTService("test-secret", 0)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", user.RoleAccountant)
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	role, _ := parsed.Get("role")
	typ, _ := parsed.Get("type")
	assert.Equal(t, "accountant", role)
	assert.Equal(t, "access", typ)

	_, _, err = svc.GenerateAccessToken("user-1", user.Role("root"))
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestJWTService_SSEToken(t *testing.T) {
	svc := NewJWTService("test-secret", 0)

	token, expiresIn, err := svc.GenerateSSEToken("user-9")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)

	access, _, err := svc.GenerateAccessToken("user-9", user.RoleStaff)
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = NewJWTService("other-secret", 0).ValidateSSEToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_Revocation(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}
