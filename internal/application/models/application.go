package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "expenseai/pkg/domain-errors"
)

// Decision is the government decision on an application.
type Decision string

const (
	DecisionPending  Decision = "PENDING"
	DecisionAccepted Decision = "ACCEPTED"
	DecisionRejected Decision = "REJECTED"
)

// ParseVerdict accepts the two terminal decisions a government actor may submit.
func ParseVerdict(s string) (Decision, error) {
	switch d := Decision(s); d {
	case DecisionAccepted, DecisionRejected:
		return d, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "government_decision must be ACCEPTED or REJECTED")
}

// Application is one eligibility check for a citizen and scheme. Rows are
// append-only; the most recently created row for a pair is authoritative.
type Application struct {
	ID                 uuid.UUID
	IdentityKey        string
	SchemeID           string
	Eligible           bool
	GovernmentDecision Decision
	DecidedBy          string
	CreatedAt          time.Time
	DecidedAt          *time.Time
}

// NewApplication records an eligibility outcome awaiting a decision.
func NewApplication(identityKey, schemeID string, eligible bool, now time.Time) *Application {
	return &Application{
		ID:                 uuid.New(),
		IdentityKey:        identityKey,
		SchemeID:           schemeID,
		Eligible:           eligible,
		GovernmentDecision: DecisionPending,
		CreatedAt:          now,
	}
}

// IsPending reports whether no decision has been applied yet.
func (a *Application) IsPending() bool {
	return a.GovernmentDecision == DecisionPending
}

// CanDecide checks that decision may be applied: it must be terminal and
// the application must still be pending.
func (a *Application) CanDecide(decision Decision) error {
	if decision != DecisionAccepted && decision != DecisionRejected {
		return dErrors.New(dErrors.CodeInvariantViolation, "decision must be ACCEPTED or REJECTED")
	}
	if !a.IsPending() {
		return dErrors.New(dErrors.CodeConflict, "application already decided: "+string(a.GovernmentDecision))
	}
	return nil
}

// ApplyDecision records the decision. Call CanDecide first, under the same lock.
func (a *Application) ApplyDecision(decision Decision, actor string, now time.Time) {
	a.GovernmentDecision = decision
	a.DecidedBy = actor
	a.DecidedAt = &now
}
