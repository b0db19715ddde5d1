// Command tokengen mints a bearer token for calling /submit-proposal.
//
//	JWT_SIGNING_KEY=... go run ./cmd/tokengen -identity-key 1111111111111
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"expenseai/internal/platform/config"
	"expenseai/internal/platform/jwttoken"
)

func main() {
	identityKey := flag.String("identity-key", "", "identity key of the acting official")
	role := flag.String("role", jwttoken.RoleGovernment, "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if err := run(config.FromEnv().JWTSigningKey, *identityKey, *role, *ttl); err != nil {
		fmt.Fprintln(os.Stderr, "tokengen:", err)
		os.Exit(1)
	}
}

func run(signingKey, identityKey, role string, ttl time.Duration) error {
	if signingKey == "" {
		return errors.New("JWT_SIGNING_KEY is not set")
	}
	if identityKey == "" {
		return errors.New("-identity-key is required")
	}
	token, err := jwttoken.NewJWTService(signingKey, jwttoken.Issuer, jwttoken.Audience).
		GenerateToken(identityKey, role, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Println(token)
	return nil
}
