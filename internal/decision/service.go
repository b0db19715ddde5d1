package decision

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appmodels "expenseai/internal/application/models"
	"expenseai/internal/decision/eligibility"
	"expenseai/internal/decision/metrics"
	"expenseai/internal/decision/trust"
	"expenseai/internal/evidence/profile"
	schememodels "expenseai/internal/scheme/models"
	dErrors "expenseai/pkg/domain-errors"
	"expenseai/pkg/requestcontext"
)

const (
	evidenceTimeout         = 3 * time.Second
	recommendTrustThreshold = 30.0
)

// SchemeLookup resolves schemes. Unknown ids yield a not_found domain error.
type SchemeLookup interface {
	Get(ctx context.Context, schemeID string) (*schememodels.Scheme, error)
}

// ApplicationRecorder appends eligibility outcomes to the ledger.
type ApplicationRecorder interface {
	Record(ctx context.Context, identityKey, schemeID string, eligible bool) (*appmodels.Application, error)
}

// TrustScorer scores a citizen's creditworthiness.
type TrustScorer interface {
	Evaluate(identityKey, contactChannel string) trust.Result
	Variant() string
}

var tracer = otel.Tracer("expenseai/internal/decision")

// Service verifies eligibility and trust for welfare applications.
type Service struct {
	schemes      SchemeLookup
	applications ApplicationRecorder
	evaluator    eligibility.Evaluator
	scorer       TrustScorer
	generate     func(identityKey string) profile.Profile
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

func NewService(schemes SchemeLookup, applications ApplicationRecorder, evaluator eligibility.Evaluator, scorer TrustScorer, opts ...Option) *Service {
	s := &Service{
		schemes:      schemes,
		applications: applications,
		evaluator:    evaluator,
		scorer:       scorer,
		generate:     profile.Generate,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyEligibility evaluates the citizen against the scheme, scores trust
// inline and records a new PENDING application. An unknown scheme fails
// with not_found and records nothing.
func (s *Service) VerifyEligibility(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	ctx, span := tracer.Start(ctx, "decision.VerifyEligibility")
	defer span.End()
	span.SetAttributes(attribute.String("scheme_id", req.SchemeID))

	start := time.Now()
	defer func() {
		s.metrics.ObserveEvaluateLatency(time.Since(start))
	}()

	evidence, err := s.gatherEvidence(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to gather evidence")
	}

	eligible, reasons := s.evaluator.Evaluate(s.generate(req.IdentityKey), evidence.Scheme)
	recommendation := Recommend(eligible, evidence.Trust.Score)

	app, err := s.applications.Record(ctx, req.IdentityKey, req.SchemeID, eligible)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record application")
		return nil, err
	}

	s.metrics.IncrementEligibility(eligible, s.evaluator.Variant())
	s.metrics.IncrementRecommendation(string(recommendation))
	s.metrics.ObserveTrustScore(evidence.Trust.Score)
	span.SetAttributes(
		attribute.Bool("eligible", eligible),
		attribute.String("recommendation", string(recommendation)),
	)
	s.logger.InfoContext(ctx, "eligibility verified",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"scheme_id", req.SchemeID,
		"eligible", eligible,
		"recommendation", recommendation,
		"eligibility_variant", s.evaluator.Variant(),
		"trust_variant", s.scorer.Variant(),
	)

	return &VerifyResult{
		ApplicationID:  app.ID,
		IdentityKey:    req.IdentityKey,
		SchemeID:       req.SchemeID,
		Eligible:       eligible,
		Reasons:        reasons,
		Trust:          evidence.Trust,
		Recommendation: recommendation,
		EvaluatedAt:    app.CreatedAt,
	}, nil
}

// TrustScore scores the citizen without recording anything.
func (s *Service) TrustScore(ctx context.Context, identityKey, contactChannel string) trust.Result {
	_, span := tracer.Start(ctx, "decision.TrustScore")
	defer span.End()

	result := s.scorer.Evaluate(identityKey, contactChannel)
	s.metrics.ObserveTrustScore(result.Score)
	span.SetAttributes(
		attribute.Bool("identity_verified", result.IdentityVerified),
		attribute.Float64("trust_score", result.Score),
	)
	return result
}
