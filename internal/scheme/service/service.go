package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"expenseai/internal/scheme/models"
	dErrors "expenseai/pkg/domain-errors"
	"expenseai/pkg/platform/sentinel"
)

// Store is the persistence port for schemes.
type Store interface {
	FindByID(ctx context.Context, schemeID string) (*models.Scheme, error)
	List(ctx context.Context) ([]*models.Scheme, error)
	Count(ctx context.Context) (int, error)
	CreateMany(ctx context.Context, schemes []*models.Scheme) error
}

const defaultCacheSize = 128

// Service resolves schemes. Schemes are immutable once seeded, so successful
// lookups are cached without expiry; misses are never cached.
type Service struct {
	store  Store
	cache  *lru.Cache
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service with an LRU of cacheSize entries.
func New(store Store, cacheSize int, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("scheme store is required")
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create scheme cache: %w", err)
	}
	s := &Service{store: store, cache: cache, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get returns the scheme or a not_found domain error.
func (s *Service) Get(ctx context.Context, schemeID string) (*models.Scheme, error) {
	if cached, ok := s.cache.Get(schemeID); ok {
		scheme := cached.(models.Scheme)
		return &scheme, nil
	}

	scheme, err := s.store.FindByID(ctx, schemeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "scheme not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load scheme")
	}
	s.cache.Add(schemeID, *scheme)
	return scheme, nil
}

// List returns every scheme ordered by id.
func (s *Service) List(ctx context.Context) ([]*models.Scheme, error) {
	schemes, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list schemes")
	}
	return schemes, nil
}

// SeedIfEmpty inserts schemes only when the table is empty and reports how
// many were written. Repeated calls are no-ops.
func (s *Service) SeedIfEmpty(ctx context.Context, schemes []*models.Scheme) (int, error) {
	for _, scheme := range schemes {
		if err := scheme.Validate(); err != nil {
			return 0, err
		}
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count schemes")
	}
	if count > 0 {
		return 0, nil
	}
	if err := s.store.CreateMany(ctx, schemes); err != nil {
		// a concurrent starter seeded first
		if errors.Is(err, sentinel.ErrConflict) {
			s.logger.InfoContext(ctx, "schemes already seeded by another instance")
			return 0, nil
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed schemes")
	}
	return len(schemes), nil
}
