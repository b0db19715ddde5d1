package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "expenseai/pkg/domain-errors"
)

const (
	testKey     = "test-signing-key"
	identityKey = "1111111111111"
)

var issuedAt = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func serviceAt(t time.Time) *JWTService {
	return NewJWTService(testKey, Issuer, Audience, WithClock(func() time.Time { return t }))
}

func TestGenerateAndValidate(t *testing.T) {
	svc := serviceAt(issuedAt)
	token, err := svc.GenerateToken(identityKey, RoleGovernment, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, identityKey, claims.IdentityKey)
	assert.Equal(t, identityKey, claims.Subject)
	assert.Equal(t, RoleGovernment, claims.Role)
	assert.True(t, issuedAt.Add(time.Hour).Equal(claims.ExpiresAt.Time))
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateTokenRequiresIdentityAndRole(t *testing.T) {
	_, err := serviceAt(issuedAt).GenerateToken("", RoleGovernment, time.Hour)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = serviceAt(issuedAt).GenerateToken(identityKey, "", time.Hour)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestValidateTokenExpiry(t *testing.T) {
	token, err := serviceAt(issuedAt).GenerateToken(identityKey, RoleGovernment, time.Hour)
	require.NoError(t, err)

	t.Run("inside leeway", func(t *testing.T) {
		_, err := serviceAt(issuedAt.Add(time.Hour + 10*time.Second)).ValidateToken(token)
		assert.NoError(t, err)
	})

	t.Run("past leeway", func(t *testing.T) {
		_, err := serviceAt(issuedAt.Add(2 * time.Hour)).ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.Equal(t, "token has expired", dErrors.MessageOf(err))
	})
}

func TestValidateTokenRejects(t *testing.T) {
	svc := serviceAt(issuedAt)

	foreign, err := NewJWTService("other-key", Issuer, Audience, WithClock(func() time.Time { return issuedAt })).
		GenerateToken(identityKey, RoleGovernment, time.Hour)
	require.NoError(t, err)

	otherAudience, err := NewJWTService(testKey, Issuer, "someone-else", WithClock(func() time.Time { return issuedAt })).
		GenerateToken(identityKey, RoleGovernment, time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		IdentityKey: identityKey,
		Role:        RoleGovernment,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  []string{Audience},
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "invalid-token-string",
		"wrong key":      foreign,
		"wrong audience": otherAudience,
		"alg none":       unsigned,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})
	}
}

func TestForMiddlewareMapsClaims(t *testing.T) {
	svc := serviceAt(issuedAt)
	token, err := svc.GenerateToken(identityKey, RoleGovernment, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ForMiddleware().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, identityKey, claims.IdentityKey)
	assert.Equal(t, RoleGovernment, claims.Role)
	assert.NotEmpty(t, claims.JTI)
}
