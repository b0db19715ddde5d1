package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one priced line of a disbursement bundle.
type Product struct {
	Item  string          `json:"item"`
	Qty   string          `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// Expense records goods disbursed for an accepted application. Expenses are
// immutable once written.
type Expense struct {
	ID                uuid.UUID
	ExpenseID         string
	IdentityKey       string
	SchemeID          string
	VendorIdentityKey string
	TotalAmount       decimal.Decimal
	Products          []Product
	IsFraudulent      bool
	Reason            *string
	CreatedAt         time.Time
}

// Summary is what a proposal submission reports back.
type Summary struct {
	ExpenseID string
	FraudFlag bool
}

// Summary returns the caller-facing part of the expense.
func (e *Expense) Summary() Summary {
	return Summary{ExpenseID: e.ExpenseID, FraudFlag: e.IsFraudulent}
}
