package store

import (
	"context"
	"slices"
	"sync"

	"expenseai/internal/disbursement/models"
	"expenseai/pkg/platform/sentinel"
)

// InMemory keeps expenses in insertion order.
type InMemory struct {
	mu       sync.RWMutex
	expenses []models.Expense
	ids      map[string]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{ids: make(map[string]struct{})}
}

// Create appends the expense. A reused expense_id yields ErrConflict.
func (s *InMemory) Create(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[expense.ExpenseID]; exists {
		return sentinel.ErrConflict
	}
	stored := *expense
	stored.Products = slices.Clone(expense.Products)
	s.expenses = append(s.expenses, stored)
	s.ids[expense.ExpenseID] = struct{}{}
	return nil
}

// List returns all expenses, oldest first.
func (s *InMemory) List(_ context.Context) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Expense, 0, len(s.expenses))
	for i := range s.expenses {
		expense := s.expenses[i]
		expense.Products = slices.Clone(expense.Products)
		out = append(out, &expense)
	}
	return out, nil
}

// ListByIdentity returns the expenses disbursed to one citizen, oldest first.
func (s *InMemory) ListByIdentity(_ context.Context, identityKey string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Expense
	for i := range s.expenses {
		if s.expenses[i].IdentityKey != identityKey {
			continue
		}
		expense := s.expenses[i]
		expense.Products = slices.Clone(expense.Products)
		out = append(out, &expense)
	}
	return out, nil
}
