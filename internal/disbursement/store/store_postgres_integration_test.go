//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"expenseai/internal/disbursement/models"
	"expenseai/internal/disbursement/store"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "expenses"))
}

func (s *PostgresStoreSuite) expense(expenseID string, total string) *models.Expense {
	reason := "Excessive amount"
	e := &models.Expense{
		ID:                uuid.New(),
		ExpenseID:         expenseID,
		IdentityKey:       "3520212345671",
		SchemeID:          "rashan_scheme",
		VendorIdentityKey: "9999999999999",
		TotalAmount:       decimal.RequireFromString(total),
		Products:          []models.Product{{Item: "Rice", Qty: "5kg", Price: decimal.RequireFromString(total)}},
		CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
	}
	if e.TotalAmount.GreaterThan(decimal.NewFromInt(5000)) {
		e.IsFraudulent = true
		e.Reason = &reason
	}
	return e
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.expense("EXP00000002", "2500.50")))
	s.Require().NoError(s.store.Create(ctx, s.expense("EXP00000001", "6000")))

	expenses, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(expenses, 2)
	s.Equal("EXP00000002", expenses[0].ExpenseID)
	s.True(expenses[0].TotalAmount.Equal(decimal.RequireFromString("2500.50")))
	s.False(expenses[0].IsFraudulent)
	s.True(expenses[1].IsFraudulent)
	s.Require().NotNil(expenses[1].Reason)
	s.True(expenses[1].Products[0].Price.Equal(decimal.NewFromInt(6000)))
}

func (s *PostgresStoreSuite) TestDuplicateExpenseIDConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.expense("EXP00000001", "2500")))
	s.ErrorIs(s.store.Create(ctx, s.expense("EXP00000001", "2500")), sentinel.ErrConflict)
}
