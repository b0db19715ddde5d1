package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"expenseai/internal/decision/metrics"
	"expenseai/internal/disbursement/models"
	usermodels "expenseai/internal/user/models"
	dErrors "expenseai/pkg/domain-errors"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/requestcontext"
)

// Store is the persistence port for expenses.
type Store interface {
	Create(ctx context.Context, expense *models.Expense) error
	List(ctx context.Context) ([]*models.Expense, error)
	ListByIdentity(ctx context.Context, identityKey string) ([]*models.Expense, error)
}

// VendorSource lists the vendors eligible for assignment.
type VendorSource interface {
	ListVendors(ctx context.Context) ([]*usermodels.User, error)
}

// Publisher fans committed expenses out to downstream consumers.
type Publisher interface {
	PublishExpense(ctx context.Context, expense *models.Expense) error
}

const maxIDAttempts = 5

var tracer = otel.Tracer("expenseai/internal/disbursement")

// Service assigns a vendor, prices the bundle, screens for fraud and
// persists the resulting expense.
type Service struct {
	store     Store
	vendors   VendorSource
	bundle    []models.Product
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	pick      func(n int) int
	newID     func() (string, error)
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

// WithPublisher enables expense events.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithVendorPicker replaces the uniform random vendor choice. pick receives
// the number of vendors and returns an index.
func WithVendorPicker(pick func(n int) int) Option {
	return func(s *Service) {
		s.pick = pick
	}
}

// WithIDGenerator replaces the random expense id source.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func New(store Store, vendors VendorSource, bundle []models.Product, opts ...Option) *Service {
	s := &Service{
		store:   store,
		vendors: vendors,
		bundle:  slices.Clone(bundle),
		logger:  slog.Default(),
		pick:    rand.IntN,
		newID:   randomExpenseID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare builds an unsaved expense for the citizen: a randomly assigned
// vendor, the priced bundle and the fraud verdict. It has no side effects,
// so callers run it before mutating anything else.
func (s *Service) Prepare(ctx context.Context, identityKey, schemeID string) (*models.Expense, error) {
	ctx, span := tracer.Start(ctx, "disbursement.Prepare")
	defer span.End()
	span.SetAttributes(attribute.String("scheme_id", schemeID))

	vendors, err := s.vendors.ListVendors(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list vendors")
		return nil, err
	}
	if len(vendors) == 0 {
		span.SetStatus(codes.Error, "no vendors")
		return nil, dErrors.New(dErrors.CodeUnavailable, "no vendors available")
	}
	vendor := vendors[s.pick(len(vendors))]

	total := Total(s.bundle)
	fraudulent, reason := CheckFraud(total)
	span.SetAttributes(
		attribute.String("vendor_identity_key", vendor.IdentityKey),
		attribute.Bool("fraudulent", fraudulent),
	)

	return &models.Expense{
		ID:                uuid.New(),
		IdentityKey:       identityKey,
		SchemeID:          schemeID,
		VendorIdentityKey: vendor.IdentityKey,
		TotalAmount:       total,
		Products:          slices.Clone(s.bundle),
		IsFraudulent:      fraudulent,
		Reason:            reason,
		CreatedAt:         requestcontext.Now(ctx),
	}, nil
}

// Record assigns a fresh expense_id and persists the expense, drawing a new
// id when the store reports a collision.
func (s *Service) Record(ctx context.Context, expense *models.Expense) error {
	ctx, span := tracer.Start(ctx, "disbursement.Record")
	defer span.End()

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			span.RecordError(err)
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate expense id")
		}
		expense.ExpenseID = id

		err = s.store.Create(ctx, expense)
		if err == nil {
			span.SetAttributes(attribute.String("expense_id", id), attribute.Int("attempts", attempt))
			return nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "create expense")
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record expense")
		}
		s.logger.WarnContext(ctx, "expense id collision",
			"request_id", requestcontext.RequestID(ctx),
			"expense_id", id,
			"attempt", attempt,
		)
	}
	span.SetStatus(codes.Error, "expense id exhausted")
	return dErrors.New(dErrors.CodeInternal, "could not allocate a unique expense id")
}

// Announce reports a committed expense: metrics, a log line and, when a
// publisher is configured, an event. Publish failures are logged only; the
// expense is already durable.
func (s *Service) Announce(ctx context.Context, expense *models.Expense) {
	s.metrics.RecordExpense(expense.IsFraudulent, expense.TotalAmount.InexactFloat64())
	s.logger.InfoContext(ctx, "expense recorded",
		"request_id", requestcontext.RequestID(ctx),
		"expense_id", expense.ExpenseID,
		"vendor_identity_key", expense.VendorIdentityKey,
		"total_amount", expense.TotalAmount.String(),
		"fraudulent", expense.IsFraudulent,
	)
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpense(ctx, expense); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish expense event",
			"request_id", requestcontext.RequestID(ctx),
			"expense_id", expense.ExpenseID,
			"error", err,
		)
	}
}

// List returns every expense in creation order.
func (s *Service) List(ctx context.Context) ([]*models.Expense, error) {
	expenses, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list expenses")
	}
	return expenses, nil
}

// ListByIdentity returns the expenses disbursed to one citizen.
func (s *Service) ListByIdentity(ctx context.Context, identityKey string) ([]*models.Expense, error) {
	expenses, err := s.store.ListByIdentity(ctx, identityKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list expenses")
	}
	return expenses, nil
}
