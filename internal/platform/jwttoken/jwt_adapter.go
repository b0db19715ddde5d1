package jwttoken

import (
	authmw "expenseai/pkg/platform/middleware/auth"
)

type middlewareValidator struct {
	service *JWTService
}

// ForMiddleware exposes the service as the validator authmw.RequireRole
// consumes.
func (s *JWTService) ForMiddleware() authmw.JWTValidator {
	return middlewareValidator{service: s}
}

func (v middlewareValidator) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{
		IdentityKey: claims.IdentityKey,
		Role:        claims.Role,
		JTI:         claims.ID,
	}, nil
}
