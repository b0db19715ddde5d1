package handler

import (
	"strings"

	"expenseai/pkg/platform/validation"
)

// VerifyEligibilityRequest is the HTTP request body for POST /verify-eligibility.
type VerifyEligibilityRequest struct {
	IdentityKey    string `json:"identity_key" validate:"required,max=32"`
	SchemeID       string `json:"scheme_id" validate:"required,max=64"`
	ContactChannel string `json:"contact_channel" validate:"omitempty,max=32"`
}

// Validate trims and checks the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VerifyEligibilityRequest) Validate() error {
	r.IdentityKey = strings.TrimSpace(r.IdentityKey)
	r.SchemeID = strings.TrimSpace(r.SchemeID)
	r.ContactChannel = strings.TrimSpace(r.ContactChannel)
	return validation.Struct(r)
}

// TrustScoreRequest is the HTTP request body for POST /trust-score.
type TrustScoreRequest struct {
	IdentityKey    string `json:"identity_key" validate:"required,max=32"`
	ContactChannel string `json:"contact_channel" validate:"required,max=32"`
}

func (r *TrustScoreRequest) Validate() error {
	r.IdentityKey = strings.TrimSpace(r.IdentityKey)
	r.ContactChannel = strings.TrimSpace(r.ContactChannel)
	return validation.Struct(r)
}
