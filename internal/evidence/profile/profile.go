// Package profile derives a synthetic financial profile from an identity key.
//
// The same key always yields the same profile. Nothing is persisted or
// cached; every call rebuilds the profile from a private generator seeded by
// a 64-bit FNV-1a hash of the key.
package profile

import (
	"hash/fnv"
	"math/rand/v2"
)

// Profile is the financial evidence used by eligibility and trust scoring.
type Profile struct {
	Income                 int
	FamilySize             int
	UtilityBillsPaid       bool
	LoanDefaults           int
	CreditHistoryYears     int
	SuspiciousTransactions int
}

var (
	incomeBands       = []int{30000, 45000, 60000, 80000, 120000}
	billsPaidOutcomes = []bool{true, true, false}
	loanDefaultDraws  = []int{0, 0, 0, 0, 1}
	suspiciousDraws   = []int{0, 0, 0, 1, 2}
)

const (
	minFamilySize       = 2
	maxFamilySize       = 8
	maxCreditHistoryYrs = 15

	// second PCG word, fixed so the stream depends only on the key hash
	pcgStream = 0x9e3779b97f4a7c15
)

// Generate returns the profile for identityKey. Fields are drawn in
// declaration order; changing that order changes every profile.
func Generate(identityKey string) Profile {
	rng := rand.New(rand.NewPCG(seed(identityKey), pcgStream))

	return Profile{
		Income:                 pick(rng, incomeBands),
		FamilySize:             minFamilySize + rng.IntN(maxFamilySize-minFamilySize+1),
		UtilityBillsPaid:       pick(rng, billsPaidOutcomes),
		LoanDefaults:           pick(rng, loanDefaultDraws),
		CreditHistoryYears:     rng.IntN(maxCreditHistoryYrs + 1),
		SuspiciousTransactions: pick(rng, suspiciousDraws),
	}
}

// Column names in the order EligibilityFeatures and TrustFeatures emit them.
// Scoring artifacts must list their features in exactly this order.
var (
	EligibilityFeatureNames = []string{"income", "family_size", "utility_bills_paid"}
	TrustFeatureNames       = []string{
		"income",
		"family_size",
		"utility_bills_paid",
		"loan_defaults",
		"credit_history_years",
		"suspicious_transactions",
	}
)

// EligibilityFeatures returns the classifier inputs: income, family size and
// bills paid as 0/1.
func (p Profile) EligibilityFeatures() []float64 {
	return []float64{float64(p.Income), float64(p.FamilySize), boolToFloat(p.UtilityBillsPaid)}
}

// TrustFeatures returns all six fields in declaration order for the trust regressor.
func (p Profile) TrustFeatures() []float64 {
	return []float64{
		float64(p.Income),
		float64(p.FamilySize),
		boolToFloat(p.UtilityBillsPaid),
		float64(p.LoanDefaults),
		float64(p.CreditHistoryYears),
		float64(p.SuspiciousTransactions),
	}
}

func seed(identityKey string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(identityKey))
	return h.Sum64()
}

func pick[T any](rng *rand.Rand, options []T) T {
	return options[rng.IntN(len(options))]
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
