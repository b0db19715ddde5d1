package service

import (
	"context"
	"errors"
	"log/slog"

	"expenseai/internal/platform/metrics"
	"expenseai/internal/user/models"
	dErrors "expenseai/pkg/domain-errors"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/requestcontext"
)

// Store is the persistence port for users.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	FindByIdentityKey(ctx context.Context, identityKey string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
}

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	IdentityKey   string
	Name          string
	Role          models.Role
	SpendingLimit *float64
}

// Service handles registration and vendor lookup.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user. A taken identity key is a conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := models.NewUser(in.IdentityKey, in.Name, in.Role, in.SpendingLimit, requestcontext.Now(ctx))
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "identity_key already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}

	s.metrics.IncrementUsersRegistered(string(user.Role))
	s.logger.InfoContext(ctx, "user registered",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"role", user.Role,
	)
	return user, nil
}

// ListVendors returns every registered vendor.
func (s *Service) ListVendors(ctx context.Context) ([]*models.User, error) {
	vendors, err := s.store.ListByRole(ctx, models.RoleVendor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vendors")
	}
	return vendors, nil
}

// EnsureVendor registers an active vendor only when no vendor exists yet.
// It reports whether a vendor was created.
func (s *Service) EnsureVendor(ctx context.Context, identityKey, name string) (bool, error) {
	count, err := s.store.CountByRole(ctx, models.RoleVendor)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count vendors")
	}
	if count > 0 {
		return false, nil
	}

	vendor := models.NewUser(identityKey, name, models.RoleVendor, nil, requestcontext.Now(ctx))
	vendor.IsActive = true
	if err := s.store.Create(ctx, vendor); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed vendor")
	}
	return true, nil
}
