package decision

import (
	"time"

	"github.com/google/uuid"

	"expenseai/internal/decision/trust"
	schememodels "expenseai/internal/scheme/models"
)

// Recommendation is the advice handed to the government reviewer.
type Recommendation string

const (
	RecommendAccept Recommendation = "ACCEPT"
	RecommendReject Recommendation = "REJECT"
)

// VerifyRequest asks whether a citizen qualifies for a scheme. An empty
// ContactChannel skips the identity check.
type VerifyRequest struct {
	IdentityKey    string
	SchemeID       string
	ContactChannel string
}

// VerifyResult is the outcome of an eligibility verification.
type VerifyResult struct {
	ApplicationID  uuid.UUID
	IdentityKey    string
	SchemeID       string
	Eligible       bool
	Reasons        []string
	Trust          trust.Result
	Recommendation Recommendation
	EvaluatedAt    time.Time
}

// GatheredEvidence holds what the parallel lookups produced.
type GatheredEvidence struct {
	Scheme    *schememodels.Scheme
	Trust     trust.Result
	FetchedAt time.Time
	Latencies EvidenceLatencies
}

// EvidenceLatencies tracks how long each evidence source took.
type EvidenceLatencies struct {
	Scheme time.Duration
	Trust  time.Duration
}

// Recommend advises acceptance only for eligible citizens whose trust score
// is above the threshold.
func Recommend(eligible bool, trustScore float64) Recommendation {
	if eligible && trustScore > recommendTrustThreshold {
		return RecommendAccept
	}
	return RecommendReject
}
