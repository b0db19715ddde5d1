package models

import (
	"strconv"

	dErrors "expenseai/pkg/domain-errors"
)

// Scheme is a welfare programme with its eligibility limits. Schemes are
// seeded once and never modified.
type Scheme struct {
	SchemeID      string
	Name          string
	Description   string
	MaxIncome     float64
	MinFamilySize int
}

// Validate checks the invariants a catalog entry must hold before seeding.
func (s *Scheme) Validate() error {
	if s.SchemeID == "" {
		return dErrors.New(dErrors.CodeValidation, "scheme_id is required")
	}
	if s.MaxIncome <= 0 {
		return dErrors.New(dErrors.CodeValidation, "scheme "+s.SchemeID+": max_income must be positive")
	}
	if s.MinFamilySize < 0 {
		return dErrors.New(dErrors.CodeValidation, "scheme "+s.SchemeID+": min_family_size must not be negative")
	}
	return nil
}

// FormatMaxIncome renders the limit without a trailing fraction for whole amounts.
func (s *Scheme) FormatMaxIncome() string {
	return strconv.FormatFloat(s.MaxIncome, 'f', -1, 64)
}
