package service

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"expenseai/internal/disbursement/models"
)

// ReasonExcessiveAmount flags an expense whose total exceeds the fraud threshold.
const ReasonExcessiveAmount = "Excessive amount"

var fraudThreshold = decimal.NewFromInt(5000)

const (
	expenseIDPrefix   = "EXP"
	expenseIDLength   = 8
	expenseIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Total sums the bundle prices.
func Total(bundle []models.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range bundle {
		total = total.Add(p.Price)
	}
	return total
}

// CheckFraud flags totals strictly above the threshold.
func CheckFraud(total decimal.Decimal) (bool, *string) {
	if total.GreaterThan(fraudThreshold) {
		reason := ReasonExcessiveAmount
		return true, &reason
	}
	return false, nil
}

// NewExpenseID returns "EXP" followed by 8 characters drawn uniformly from
// [A-Z0-9] using entropy from r.
func NewExpenseID(r io.Reader) (string, error) {
	const n = len(expenseIDAlphabet)
	// largest multiple of n below 256, so byte % n is unbiased
	const limit = 256 - 256%n

	out := make([]byte, 0, len(expenseIDPrefix)+expenseIDLength)
	out = append(out, expenseIDPrefix...)
	buf := make([]byte, expenseIDLength*2)
	for len(out) < cap(out) {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read entropy: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, expenseIDAlphabet[int(b)%n])
			if len(out) == cap(out) {
				break
			}
		}
	}
	return string(out), nil
}

func randomExpenseID() (string, error) {
	return NewExpenseID(rand.Reader)
}
