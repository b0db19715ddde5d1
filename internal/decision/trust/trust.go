// Package trust scores a citizen's creditworthiness from their profile.
package trust

import (
	"errors"
	"log/slog"
	"math"
	"strings"

	"expenseai/internal/evidence/model"
	"expenseai/internal/evidence/profile"
)

const (
	ReasonIdentityMismatch = "Identity verification failed: contact number does not match identity records"
	ReasonLowTrust         = "Low trust score based on financial history"

	// mock identity bureau: channels with this suffix never match
	mismatchSuffix = "0000"
	lowTrustCutoff = 40.0
	minScore       = 0.0
	maxScore       = 100.0
)

// Result is the outcome of a trust evaluation. Score is unrounded.
type Result struct {
	Score            float64
	IdentityVerified bool
	Reasons          []string
}

// Model computes a raw score from a profile.
type Model interface {
	Score(p profile.Profile) float64
	Variant() string
}

// RuleBacked scores 50, minus 20 for loan defaults, minus 15 for suspicious
// transactions, plus 10 for paid bills.
type RuleBacked struct{}

func (RuleBacked) Score(p profile.Profile) float64 {
	score := 50.0
	if p.LoanDefaults > 0 {
		score -= 20
	}
	if p.SuspiciousTransactions > 0 {
		score -= 15
	}
	if p.UtilityBillsPaid {
		score += 10
	}
	return score
}

func (RuleBacked) Variant() string { return "rule" }

// ModelBacked delegates to a trained regressor.
type ModelBacked struct {
	regressor *model.Regressor
}

func NewModelBacked(regressor *model.Regressor) *ModelBacked {
	return &ModelBacked{regressor: regressor}
}

func (m *ModelBacked) Score(p profile.Profile) float64 {
	return m.regressor.Predict(p.TrustFeatures())
}

func (m *ModelBacked) Variant() string { return "model:" + m.regressor.Kind() }

// Scorer runs the identity check and then scores the generated profile.
type Scorer struct {
	model    Model
	generate func(string) profile.Profile
}

// NewScorer builds a Scorer over m.
func NewScorer(m Model) *Scorer {
	return &Scorer{model: m, generate: profile.Generate}
}

// New loads the regressor at path, falling back to RuleBacked permanently
// when it is unavailable.
func New(path string, logger *slog.Logger) *Scorer {
	reg, err := model.LoadRegressor(path, profile.TrustFeatureNames)
	if err != nil {
		if logger != nil {
			if errors.Is(err, model.ErrModelUnavailable) && path == "" {
				logger.Info("trust model not configured, using rules")
			} else {
				logger.Warn("trust model unavailable, using rules", "path", path, "error", err)
			}
		}
		return NewScorer(RuleBacked{})
	}
	if logger != nil {
		logger.Info("trust model loaded", "path", path, "kind", reg.Kind(), "features", reg.Features())
	}
	return NewScorer(NewModelBacked(reg))
}

// Variant names the active scoring model.
func (s *Scorer) Variant() string {
	return s.model.Variant()
}

// Evaluate scores identityKey. An empty contactChannel skips the identity
// check. A failed identity check short-circuits with a zero score and the
// profile is never generated.
func (s *Scorer) Evaluate(identityKey, contactChannel string) Result {
	if contactChannel != "" && strings.HasSuffix(contactChannel, mismatchSuffix) {
		return Result{
			Score:            0,
			IdentityVerified: false,
			Reasons:          []string{ReasonIdentityMismatch},
		}
	}

	score := clamp(s.model.Score(s.generate(identityKey)))
	reasons := []string{}
	if score < lowTrustCutoff {
		reasons = append(reasons, ReasonLowTrust)
	}
	return Result{Score: score, IdentityVerified: true, Reasons: reasons}
}

// clamp bounds score to [minScore, maxScore]. NaN, which min and max pass
// through, maps to minScore.
func clamp(score float64) float64 {
	if math.IsNaN(score) {
		return minScore
	}
	return min(max(score, minScore), maxScore)
}
