package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenseai/internal/disbursement/models"
	"expenseai/pkg/platform/circuit"
	"expenseai/pkg/requestcontext"
)

type recordingProducer struct {
	key   string
	value []byte
	err   error
}

func (r *recordingProducer) Publish(_ context.Context, key string, value []byte) error {
	r.key = key
	r.value = value
	return r.err
}

func TestPublishExpense(t *testing.T) {
	producer := &recordingProducer{}
	reason := "Excessive amount"
	expense := &models.Expense{
		ExpenseID:         "EXPAB12CD34",
		IdentityKey:       "3520212345671",
		SchemeID:          "rashan_scheme",
		VendorIdentityKey: "9999999999999",
		TotalAmount:       decimal.NewFromInt(6000),
		Products:          []models.Product{{Item: "Rice", Qty: "5kg", Price: decimal.NewFromInt(6000)}},
		IsFraudulent:      true,
		Reason:            &reason,
		CreatedAt:         time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	ctx := requestcontext.WithRequestID(context.Background(), "req-1")

	require.NoError(t, New(producer).PublishExpense(ctx, expense))

	assert.Equal(t, "3520212345671", producer.key)
	var event ExpenseEvent
	require.NoError(t, json.Unmarshal(producer.value, &event))
	assert.Equal(t, EventTypeExpenseCreated, event.Type)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, "6000.00", event.TotalAmount)
	assert.True(t, event.IsFraudulent)
	require.NotNil(t, event.Reason)
	assert.Equal(t, "Excessive amount", *event.Reason)
}

func TestPublishExpensePropagatesProducerError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	err := New(producer).PublishExpense(context.Background(), &models.Expense{ExpenseID: "EXP00000000"})
	assert.ErrorContains(t, err, "broker down")
}

type countingProducer struct {
	calls int
	err   error
}

func (c *countingProducer) Publish(context.Context, string, []byte) error {
	c.calls++
	return c.err
}

func TestPublishExpenseBreaker(t *testing.T) {
	producer := &countingProducer{err: errors.New("broker down")}
	breaker := circuit.New("expense-events", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	pub := New(producer, WithBreaker(breaker))
	expense := &models.Expense{ExpenseID: "EXP00000000", IdentityKey: "3520212345671"}

	err := pub.PublishExpense(context.Background(), expense)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCircuitOpen)

	err = pub.PublishExpense(context.Background(), expense)
	assert.ErrorIs(t, err, ErrCircuitOpen, "second failure opens the breaker")
	assert.ErrorContains(t, err, "broker down")

	err = pub.PublishExpense(context.Background(), expense)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, producer.calls, "open breaker skips the broker")

	breaker.Reset()
	producer.err = nil
	require.NoError(t, pub.PublishExpense(context.Background(), expense))
	assert.Equal(t, 3, producer.calls)
}
