// Package jwttoken signs and checks the HS256 bearer tokens government
// officials present on /submit-proposal.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "expenseai/pkg/domain-errors"
)

// Issuer and Audience are stamped into every actor token.
const (
	Issuer   = "expenseai"
	Audience = "expenseai-api"
)

// RoleGovernment is the role allowed to decide applications.
const RoleGovernment = "government"

const defaultLeeway = 30 * time.Second

// Claims identifies the acting official. Subject mirrors IdentityKey.
type Claims struct {
	IdentityKey string `json:"identity_key"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs and validates actor tokens with one shared secret.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	leeway     time.Duration
	now        func() time.Time
}

type Option func(*JWTService)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

// WithLeeway sets the tolerated clock skew between issuer and validator.
func WithLeeway(d time.Duration) Option {
	return func(s *JWTService) {
		s.leeway = d
	}
}

func NewJWTService(signingKey, issuer, audience string, opts ...Option) *JWTService {
	s := &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		leeway:     defaultLeeway,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateToken signs a token for identityKey acting under role.
func (s *JWTService) GenerateToken(identityKey, role string, expiresIn time.Duration) (string, error) {
	if identityKey == "" || role == "" {
		return "", dErrors.New(dErrors.CodeValidation, "identity key and role are required")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		IdentityKey: identityKey,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityKey,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken checks signature, issuer, audience and expiry. Every
// failure is an unauthorized domain error.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	case err != nil:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	case claims.IdentityKey == "" || claims.Role == "":
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
