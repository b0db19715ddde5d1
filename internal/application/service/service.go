package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"expenseai/internal/application/lock"
	"expenseai/internal/application/models"
	"expenseai/internal/decision/metrics"
	disbursementmodels "expenseai/internal/disbursement/models"
	"expenseai/internal/platform/config"
	dErrors "expenseai/pkg/domain-errors"
	"expenseai/pkg/platform/sentinel"
	"expenseai/pkg/platform/tx"
	"expenseai/pkg/requestcontext"
)

// Store is the persistence port for the application ledger.
type Store interface {
	Append(ctx context.Context, app *models.Application) error
	Latest(ctx context.Context, identityKey, schemeID string) (*models.Application, error)
	History(ctx context.Context, identityKey, schemeID string) ([]*models.Application, error)
	Execute(ctx context.Context, identityKey, schemeID string, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error)
}

// Disbursement creates the expense that follows an acceptance.
type Disbursement interface {
	Prepare(ctx context.Context, identityKey, schemeID string) (*disbursementmodels.Expense, error)
	Record(ctx context.Context, expense *disbursementmodels.Expense) error
	Announce(ctx context.Context, expense *disbursementmodels.Expense)
}

var tracer = otel.Tracer("expenseai/internal/application")

// Service owns the application lifecycle: recording eligibility outcomes
// and applying government decisions.
type Service struct {
	store        Store
	disbursement Disbursement
	locker       lock.Locker
	runner       tx.Runner
	lockTTL      time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
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

// WithLocker replaces the in-process decision lock, e.g. with lock.Redis
// when several instances share a database.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithTxRunner sets the unit of work that makes the expense insert and the
// decision update atomic.
func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

func New(store Store, disbursement Disbursement, opts ...Option) *Service {
	s := &Service{
		store:        store,
		disbursement: disbursement,
		locker:       lock.NewLocal(),
		runner:       tx.NopRunner{},
		lockTTL:      config.DecideLockTTL,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends a PENDING application for the pair.
func (s *Service) Record(ctx context.Context, identityKey, schemeID string, eligible bool) (*models.Application, error) {
	app := models.NewApplication(identityKey, schemeID, eligible, requestcontext.Now(ctx))
	if err := s.store.Append(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record application")
	}
	s.logger.InfoContext(ctx, "application recorded",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"scheme_id", schemeID,
		"eligible", eligible,
	)
	return app, nil
}

// Latest returns the authoritative application for the pair.
func (s *Service) Latest(ctx context.Context, identityKey, schemeID string) (*models.Application, error) {
	app, err := s.store.Latest(ctx, identityKey, schemeID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return app, nil
}

// History returns every application for the pair, oldest first.
func (s *Service) History(ctx context.Context, identityKey, schemeID string) ([]*models.Application, error) {
	apps, err := s.store.History(ctx, identityKey, schemeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// Decide applies a terminal decision to the latest application without
// disbursing anything.
func (s *Service) Decide(ctx context.Context, identityKey, schemeID string, decision models.Decision) (*models.Application, error) {
	release, err := s.acquire(ctx, identityKey, schemeID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, release)

	app, err := s.applyDecision(ctx, identityKey, schemeID, decision)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementDecision(string(decision))
	return app, nil
}

// ProposalResult is the outcome of a submitted decision. Expense is set
// only for acceptances.
type ProposalResult struct {
	Application *models.Application
	Expense     *disbursementmodels.Expense
}

// SubmitProposal applies a government decision and, on acceptance, records
// the expense in the same unit of work. The expense is prepared before
// anything is written, so a missing vendor leaves the application PENDING.
func (s *Service) SubmitProposal(ctx context.Context, identityKey, schemeID string, decision models.Decision) (*ProposalResult, error) {
	ctx, span := tracer.Start(ctx, "application.SubmitProposal")
	defer span.End()
	span.SetAttributes(
		attribute.String("scheme_id", schemeID),
		attribute.String("decision", string(decision)),
	)

	result, err := s.submitProposal(ctx, identityKey, schemeID, decision)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	return result, nil
}

func (s *Service) submitProposal(ctx context.Context, identityKey, schemeID string, decision models.Decision) (*ProposalResult, error) {
	release, err := s.acquire(ctx, identityKey, schemeID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, release)

	latest, err := s.Latest(ctx, identityKey, schemeID)
	if err != nil {
		return nil, err
	}
	if err := latest.CanDecide(decision); err != nil {
		return nil, err
	}

	var expense *disbursementmodels.Expense
	if decision == models.DecisionAccepted {
		expense, err = s.disbursement.Prepare(ctx, identityKey, schemeID)
		if err != nil {
			return nil, err
		}
	}

	var app *models.Application
	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if expense != nil {
			if err := s.disbursement.Record(ctx, expense); err != nil {
				return err
			}
		}
		var err error
		app, err = s.applyDecision(ctx, identityKey, schemeID, decision)
		return err
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	s.metrics.IncrementDecision(string(decision))
	s.logger.InfoContext(ctx, "government decision applied",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"scheme_id", schemeID,
		"decision", decision,
		"decided_by", app.DecidedBy,
		"client_ip", requestcontext.ClientIP(ctx),
		"user_agent", requestcontext.UserAgent(ctx),
	)
	if expense != nil {
		s.disbursement.Announce(ctx, expense)
	}
	return &ProposalResult{Application: app, Expense: expense}, nil
}

func (s *Service) applyDecision(ctx context.Context, identityKey, schemeID string, decision models.Decision) (*models.Application, error) {
	actor := requestcontext.ActorID(ctx)
	now := requestcontext.Now(ctx)
	app, err := s.store.Execute(ctx, identityKey, schemeID,
		func(a *models.Application) error { return a.CanDecide(decision) },
		func(a *models.Application) { a.ApplyDecision(decision, actor, now) },
	)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return app, nil
}

func (s *Service) acquire(ctx context.Context, identityKey, schemeID string) (lock.Release, error) {
	release, err := s.locker.Acquire(ctx, decideLockKey(identityKey, schemeID), s.lockTTL)
	if err != nil {
		if errors.Is(err, sentinel.ErrLockHeld) {
			return nil, dErrors.New(dErrors.CodeConflict, "a decision for this application is already in progress")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to acquire decision lock")
	}
	return release, nil
}

func (s *Service) release(ctx context.Context, release lock.Release) {
	// the request context may already be cancelled
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.logger.WarnContext(ctx, "failed to release decision lock",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func decideLockKey(identityKey, schemeID string) string {
	return "decide:" + identityKey + ":" + schemeID
}

// translateStoreErr maps ledger sentinels to domain errors. Errors that are
// already coded pass through.
func translateStoreErr(err error) error {
	var coded *dErrors.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeConflict, "application already decided")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "application store failure")
	}
}
