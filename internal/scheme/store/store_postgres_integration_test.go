//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"expenseai/internal/scheme/models"
	"expenseai/internal/scheme/store"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/platform/tx"
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
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "expenses", "applications", "schemes"))
}

// TestCreateManyRollsBackInTx verifies a duplicate inside a transaction leaves no partial rows.
func (s *PostgresStoreSuite) TestCreateManyRollsBackInTx() {
	ctx := context.Background()
	runner := tx.NewSQLRunner(s.postgres.DB)

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		return s.store.CreateMany(ctx, []*models.Scheme{
			{SchemeID: "rashan_scheme", Name: "Rashan Scheme", MaxIncome: 50000, MinFamilySize: 3},
			{SchemeID: "rashan_scheme", Name: "Duplicate", MaxIncome: 1},
		})
	})
	s.ErrorIs(err, sentinel.ErrConflict)

	n, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateMany(ctx, []*models.Scheme{
		{SchemeID: "scholarship_scheme", Name: "Scholarship", Description: "Education aid", MaxIncome: 70000},
	}))

	found, err := s.store.FindByID(ctx, "scholarship_scheme")
	s.Require().NoError(err)
	s.Equal(0, found.MinFamilySize)
	s.Equal("Education aid", found.Description)
}
