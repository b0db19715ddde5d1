package handler

import (
	"math"

	"expenseai/internal/decision"
	"expenseai/internal/decision/trust"
)

// VerifyEligibilityResponse is the HTTP response for POST /verify-eligibility.
type VerifyEligibilityResponse struct {
	IdentityKey              string   `json:"identity_key"`
	SchemeID                 string   `json:"scheme_id"`
	Eligible                 bool     `json:"eligible"`
	Reasons                  []string `json:"reasons"`
	GovernmentRecommendation string   `json:"government_recommendation"`
}

// TrustScoreResponse is the HTTP response for POST /trust-score.
type TrustScoreResponse struct {
	IdentityKey      string   `json:"identity_key"`
	ContactChannel   string   `json:"contact_channel"`
	IdentityVerified bool     `json:"identity_verified"`
	TrustScore       float64  `json:"trust_score"`
	Reasons          []string `json:"reasons"`
}

// FromVerifyResult converts a domain VerifyResult to an HTTP response.
func FromVerifyResult(result *decision.VerifyResult) *VerifyEligibilityResponse {
	return &VerifyEligibilityResponse{
		IdentityKey:              result.IdentityKey,
		SchemeID:                 result.SchemeID,
		Eligible:                 result.Eligible,
		Reasons:                  nonNil(result.Reasons),
		GovernmentRecommendation: string(result.Recommendation),
	}
}

// FromTrustResult converts a trust evaluation to an HTTP response. The score
// is rounded to one decimal here and nowhere else.
func FromTrustResult(identityKey, contactChannel string, result trust.Result) *TrustScoreResponse {
	return &TrustScoreResponse{
		IdentityKey:      identityKey,
		ContactChannel:   contactChannel,
		IdentityVerified: result.IdentityVerified,
		TrustScore:       math.Round(result.Score*10) / 10,
		Reasons:          nonNil(result.Reasons),
	}
}

func nonNil(reasons []string) []string {
	if reasons == nil {
		return []string{}
	}
	return reasons
}
