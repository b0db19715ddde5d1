package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"expenseai/internal/application/models"
	"expenseai/internal/application/service"
	"expenseai/internal/application/store"
	disbursementmodels "expenseai/internal/disbursement/models"
	disbursementservice "expenseai/internal/disbursement/service"
	disbursementstore "expenseai/internal/disbursement/store"
	usermodels "expenseai/internal/user/models"
	userservice "expenseai/internal/user/service"
	userstore "expenseai/internal/user/store"
	dErrors "expenseai/pkg/domain-errors"
	"expenseai/pkg/requestcontext"
)

type LifecycleSuite struct {
	suite.Suite
	users        *userservice.Service
	expenses     *disbursementstore.InMemory
	applications *service.Service
	ctx          context.Context
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.users = userservice.New(userstore.NewInMemory())
	s.expenses = disbursementstore.NewInMemory()
	bundle := []disbursementmodels.Product{
		{Item: "Wheat Flour", Qty: "10kg", Price: decimal.NewFromInt(1500)},
		{Item: "Rice", Qty: "5kg", Price: decimal.NewFromInt(1000)},
	}
	disbursement := disbursementservice.New(s.expenses, s.users, bundle)
	s.applications = service.New(store.NewInMemory(), disbursement)
	s.ctx = requestcontext.WithActor(context.Background(), "gov-1", "government")
}

func (s *LifecycleSuite) addVendor() {
	_, err := s.users.Register(s.ctx, userservice.RegisterInput{
		IdentityKey: "9999999999999",
		Name:        "Default Rashan Vendor",
		Role:        usermodels.RoleVendor,
	})
	s.Require().NoError(err)
}

func (s *LifecycleSuite) TestDecideBeforeVerifyIsNotFound() {
	_, err := s.applications.SubmitProposal(s.ctx, "3520212345671", "rashan_scheme", models.DecisionAccepted)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *LifecycleSuite) TestAcceptedCreatesExactlyOneExpense() {
	s.addVendor()
	_, err := s.applications.Record(s.ctx, "3520212345671", "rashan_scheme", true)
	s.Require().NoError(err)

	result, err := s.applications.SubmitProposal(s.ctx, "3520212345671", "rashan_scheme", models.DecisionAccepted)
	s.Require().NoError(err)
	s.Require().NotNil(result.Expense)
	s.Regexp(`^EXP[A-Z0-9]{8}$`, result.Expense.ExpenseID)
	s.Equal("9999999999999", result.Expense.VendorIdentityKey)
	s.False(result.Expense.IsFraudulent)

	_, err = s.applications.SubmitProposal(s.ctx, "3520212345671", "rashan_scheme", models.DecisionAccepted)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	expenses, err := s.expenses.List(s.ctx)
	s.Require().NoError(err)
	s.Len(expenses, 1)
}

func (s *LifecycleSuite) TestConcurrentAcceptsCreateOneExpense() {
	s.addVendor()
	_, err := s.applications.Record(s.ctx, "3520212345671", "rashan_scheme", true)
	s.Require().NoError(err)

	const submitters = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range submitters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
			defer cancel()
			if _, err := s.applications.SubmitProposal(ctx, "3520212345671", "rashan_scheme", models.DecisionAccepted); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
	expenses, err := s.expenses.List(s.ctx)
	s.Require().NoError(err)
	s.Len(expenses, 1)
}

func (s *LifecycleSuite) TestNoVendorLeavesApplicationPending() {
	_, err := s.applications.Record(s.ctx, "3520212345671", "rashan_scheme", true)
	s.Require().NoError(err)

	_, err = s.applications.SubmitProposal(s.ctx, "3520212345671", "rashan_scheme", models.DecisionAccepted)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

	latest, err := s.applications.Latest(s.ctx, "3520212345671", "rashan_scheme")
	s.Require().NoError(err)
	s.True(latest.IsPending())

	s.addVendor()
	result, err := s.applications.SubmitProposal(s.ctx, "3520212345671", "rashan_scheme", models.DecisionAccepted)
	s.Require().NoError(err)
	s.NotNil(result.Expense)
}

func (s *LifecycleSuite) TestNewVerificationReopensThePair() {
	_, err := s.applications.Record(s.ctx, "3520212345671", "rashan_scheme", false)
	s.Require().NoError(err)
	_, err = s.applications.SubmitProposal(s.ctx, "3520212345671", "rashan_scheme", models.DecisionRejected)
	s.Require().NoError(err)

	_, err = s.applications.Record(s.ctx, "3520212345671", "rashan_scheme", true)
	s.Require().NoError(err)
	result, err := s.applications.SubmitProposal(s.ctx, "3520212345671", "rashan_scheme", models.DecisionRejected)
	s.Require().NoError(err)
	s.Nil(result.Expense)

	history, err := s.applications.History(s.ctx, "3520212345671", "rashan_scheme")
	s.Require().NoError(err)
	s.Len(history, 2)
}
