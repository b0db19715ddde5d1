package store

import (
	"context"
	"sort"
	"sync"

	"expenseai/internal/scheme/models"
	"expenseai/pkg/platform/sentinel"
)

// InMemory keeps schemes in a map keyed by scheme_id.
type InMemory struct {
	mu      sync.RWMutex
	schemes map[string]models.Scheme
}

func NewInMemory() *InMemory {
	return &InMemory{schemes: make(map[string]models.Scheme)}
}

func (s *InMemory) FindByID(_ context.Context, schemeID string) (*models.Scheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scheme, ok := s.schemes[schemeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &scheme, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Scheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Scheme, 0, len(s.schemes))
	for _, scheme := range s.schemes {
		out = append(out, &scheme)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SchemeID < out[j].SchemeID })
	return out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.schemes), nil
}

// CreateMany inserts all schemes or none; a duplicate id yields ErrConflict.
func (s *InMemory) CreateMany(_ context.Context, schemes []*models.Scheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool, len(schemes))
	for _, scheme := range schemes {
		if _, exists := s.schemes[scheme.SchemeID]; exists || seen[scheme.SchemeID] {
			return sentinel.ErrConflict
		}
		seen[scheme.SchemeID] = true
	}
	for _, scheme := range schemes {
		s.schemes[scheme.SchemeID] = *scheme
	}
	return nil
}
