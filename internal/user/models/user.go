package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "expenseai/pkg/domain-errors"
)

// Role is the kind of actor a user represents.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
	RoleVendor     Role = "vendor"
	RoleCustomer   Role = "customer"
	RoleGovernment Role = "government"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleEmployee, RoleVendor, RoleCustomer, RoleGovernment:
		return r, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "role must be one of admin, employee, vendor, customer, government")
}

// User is a registered actor. Vendors are users with RoleVendor.
type User struct {
	ID            uuid.UUID
	IdentityKey   string
	Name          string
	Role          Role
	IsActive      bool
	SpendingLimit *float64
	CreatedAt     time.Time
}

// NewUser builds a user. Only government users start active.
func NewUser(identityKey, name string, role Role, spendingLimit *float64, now time.Time) *User {
	return &User{
		ID:            uuid.New(),
		IdentityKey:   identityKey,
		Name:          name,
		Role:          role,
		IsActive:      role == RoleGovernment,
		SpendingLimit: spendingLimit,
		CreatedAt:     now,
	}
}
