package store

import (
	"context"
	"sort"
	"sync"

	"expenseai/internal/user/models"
	"expenseai/pkg/platform/sentinel"
)

// InMemory stores users keyed by identity key.
type InMemory struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[string]models.User)}
}

// Create inserts user unless its identity key is taken.
func (s *InMemory) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.IdentityKey]; exists {
		return sentinel.ErrConflict
	}
	s.users[user.IdentityKey] = *user
	return nil
}

func (s *InMemory) FindByIdentityKey(_ context.Context, identityKey string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[identityKey]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}

// ListByRole returns users with role in registration order.
func (s *InMemory) ListByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.User
	for _, user := range s.users {
		if user.Role == role {
			out = append(out, &user)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].IdentityKey < out[j].IdentityKey
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) CountByRole(_ context.Context, role models.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, user := range s.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}
