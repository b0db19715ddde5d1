package store

import (
	"context"
	"sync"

	"expenseai/internal/application/models"
	"expenseai/pkg/platform/sentinel"
)

type pairKey struct {
	identityKey string
	schemeID    string
}

// InMemory keeps application history per (identity, scheme) in insertion order.
type InMemory struct {
	mu      sync.Mutex
	history map[pairKey][]models.Application
}

func NewInMemory() *InMemory {
	return &InMemory{history: make(map[pairKey][]models.Application)}
}

// Append adds a new application row.
func (s *InMemory) Append(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{app.IdentityKey, app.SchemeID}
	s.history[key] = append(s.history[key], *app)
	return nil
}

// Latest returns the most recently appended application for the pair.
func (s *InMemory) Latest(_ context.Context, identityKey, schemeID string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.history[pairKey{identityKey, schemeID}]
	if len(rows) == 0 {
		return nil, sentinel.ErrNotFound
	}
	latest := rows[len(rows)-1]
	return &latest, nil
}

// History returns every application for the pair, oldest first.
func (s *InMemory) History(_ context.Context, identityKey, schemeID string) ([]*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.history[pairKey{identityKey, schemeID}]
	out := make([]*models.Application, 0, len(rows))
	for i := range rows {
		app := rows[i]
		out = append(out, &app)
	}
	return out, nil
}

// Execute validates and mutates the latest application for the pair while
// holding the store lock. validate errors are returned unchanged and leave
// the row untouched.
func (s *InMemory) Execute(_ context.Context, identityKey, schemeID string, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{identityKey, schemeID}
	rows := s.history[key]
	if len(rows) == 0 {
		return nil, sentinel.ErrNotFound
	}
	latest := rows[len(rows)-1]
	if err := validate(&latest); err != nil {
		return nil, err
	}
	mutate(&latest)
	rows[len(rows)-1] = latest
	return &latest, nil
}
