// Package publisher emits expense events to Kafka after an expense commits.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"expenseai/internal/disbursement/models"
	"expenseai/pkg/platform/circuit"
	"expenseai/pkg/requestcontext"
)

// EventTypeExpenseCreated names the only event type emitted today.
const EventTypeExpenseCreated = "expense.created"

// ErrCircuitOpen is returned without contacting the broker while the
// breaker is open.
var ErrCircuitOpen = errors.New("expense events circuit open")

// Producer writes a keyed record. *kafka.Producer satisfies it.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// ExpenseEvent is the wire shape of an expense record on the topic.
type ExpenseEvent struct {
	Type              string           `json:"type"`
	RequestID         string           `json:"request_id,omitempty"`
	ExpenseID         string           `json:"expense_id"`
	IdentityKey       string           `json:"identity_key"`
	SchemeID          string           `json:"scheme_id"`
	VendorIdentityKey string           `json:"vendor_identity_key"`
	TotalAmount       string           `json:"total_amount"`
	Products          []models.Product `json:"products"`
	IsFraudulent      bool             `json:"is_fraudulent"`
	Reason            *string          `json:"reason"`
	CreatedAt         time.Time        `json:"created_at"`
}

// Publisher encodes expenses as ExpenseEvent records keyed by identity key,
// so one citizen's expenses land on one partition in order.
type Publisher struct {
	producer Producer
	breaker  *circuit.Breaker
}

type Option func(*Publisher)

// WithBreaker stops publishing while the broker keeps failing.
func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

func New(producer Producer, opts ...Option) *Publisher {
	p := &Publisher{producer: producer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) PublishExpense(ctx context.Context, expense *models.Expense) error {
	event := ExpenseEvent{
		Type:              EventTypeExpenseCreated,
		RequestID:         requestcontext.RequestID(ctx),
		ExpenseID:         expense.ExpenseID,
		IdentityKey:       expense.IdentityKey,
		SchemeID:          expense.SchemeID,
		VendorIdentityKey: expense.VendorIdentityKey,
		TotalAmount:       expense.TotalAmount.StringFixed(2),
		Products:          expense.Products,
		IsFraudulent:      expense.IsFraudulent,
		Reason:            expense.Reason,
		CreatedAt:         expense.CreatedAt.UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode expense event: %w", err)
	}
	if p.breaker == nil {
		return p.producer.Publish(ctx, expense.IdentityKey, value)
	}
	if !p.breaker.Allow() {
		return ErrCircuitOpen
	}
	if err := p.producer.Publish(ctx, expense.IdentityKey, value); err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened {
			return fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		return err
	}
	p.breaker.RecordSuccess()
	return nil
}
