//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"expenseai/internal/application/models"
	"expenseai/internal/application/store"
	dErrors "expenseai/pkg/domain-errors"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "expenses", "applications"))
}

// TestLatestBreaksTimestampTies verifies rows created in the same instant
// resolve to the last inserted one.
func (s *PostgresStoreSuite) TestLatestBreaksTimestampTies() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	first := models.NewApplication("3520212345671", "rashan_scheme", false, now)
	second := models.NewApplication("3520212345671", "rashan_scheme", true, now)
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	latest, err := s.store.Latest(ctx, "3520212345671", "rashan_scheme")
	s.Require().NoError(err)
	s.Equal(second.ID, latest.ID)
	s.True(latest.Eligible)
}

// TestConcurrentDecideAppliesOnce races several deciders against one
// pending row; exactly one must win.
func (s *PostgresStoreSuite) TestConcurrentDecideAppliesOnce() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Append(ctx, models.NewApplication("3520212345671", "rashan_scheme", true, now)))

	const deciders = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for range deciders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, "3520212345671", "rashan_scheme",
				func(a *models.Application) error { return a.CanDecide(models.DecisionAccepted) },
				func(a *models.Application) { a.ApplyDecision(models.DecisionAccepted, "gov-1", now) },
			)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case dErrors.HasCode(err, dErrors.CodeConflict), errors.Is(err, sentinel.ErrInvalidState):
				conflicts++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
	s.Equal(deciders-1, conflicts)

	latest, err := s.store.Latest(ctx, "3520212345671", "rashan_scheme")
	s.Require().NoError(err)
	s.Equal(models.DecisionAccepted, latest.GovernmentDecision)
	s.Equal("gov-1", latest.DecidedBy)
	s.Require().NotNil(latest.DecidedAt)
}
