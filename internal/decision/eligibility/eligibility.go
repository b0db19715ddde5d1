// Package eligibility decides whether a financial profile qualifies for a scheme.
package eligibility

import (
	"errors"
	"fmt"
	"log/slog"

	"expenseai/internal/evidence/model"
	"expenseai/internal/evidence/profile"
	schememodels "expenseai/internal/scheme/models"
)

// ReasonModelRejected is reported when the classifier predicts ineligible.
const ReasonModelRejected = "Model prediction: financial profile does not meet scheme criteria"

// ReasonBillsUnpaid is reported by the rule evaluator for unpaid utility bills.
const ReasonBillsUnpaid = "Utility bills unpaid"

// Evaluator decides eligibility. Reasons is empty when eligible.
type Evaluator interface {
	Evaluate(p profile.Profile, scheme *schememodels.Scheme) (eligible bool, reasons []string)
	Variant() string
}

// RuleBacked applies the scheme's income, family size and bill rules.
type RuleBacked struct{}

func (RuleBacked) Evaluate(p profile.Profile, scheme *schememodels.Scheme) (bool, []string) {
	reasons := []string{}
	if float64(p.Income) > scheme.MaxIncome {
		reasons = append(reasons, fmt.Sprintf("Income %d > limit %s", p.Income, scheme.FormatMaxIncome()))
	}
	if p.FamilySize < scheme.MinFamilySize {
		reasons = append(reasons, fmt.Sprintf("Family size %d < min %d", p.FamilySize, scheme.MinFamilySize))
	}
	if !p.UtilityBillsPaid {
		reasons = append(reasons, ReasonBillsUnpaid)
	}
	return len(reasons) == 0, reasons
}

func (RuleBacked) Variant() string { return "rule" }

// ModelBacked delegates to a trained classifier. The classifier was trained
// across schemes, so scheme limits are not consulted.
type ModelBacked struct {
	classifier *model.Classifier
}

func NewModelBacked(classifier *model.Classifier) *ModelBacked {
	return &ModelBacked{classifier: classifier}
}

func (m *ModelBacked) Evaluate(p profile.Profile, _ *schememodels.Scheme) (bool, []string) {
	if m.classifier.Predict(p.EligibilityFeatures()) {
		return true, []string{}
	}
	return false, []string{ReasonModelRejected}
}

func (m *ModelBacked) Variant() string { return "model" }

// New loads the classifier at path and returns a ModelBacked evaluator, or
// RuleBacked when the artifact is unavailable. The choice is permanent.
func New(path string, logger *slog.Logger) Evaluator {
	clf, err := model.LoadClassifier(path, profile.EligibilityFeatureNames)
	if err != nil {
		if logger != nil {
			if errors.Is(err, model.ErrModelUnavailable) && path == "" {
				logger.Info("eligibility model not configured, using rules")
			} else {
				logger.Warn("eligibility model unavailable, using rules", "path", path, "error", err)
			}
		}
		return RuleBacked{}
	}
	if logger != nil {
		logger.Info("eligibility model loaded", "path", path, "features", clf.Features())
	}
	return NewModelBacked(clf)
}
