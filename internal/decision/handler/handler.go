package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"expenseai/internal/decision"
	"expenseai/internal/decision/trust"
	"expenseai/pkg/platform/httputil"
	"expenseai/pkg/requestcontext"
)

// Service defines the interface for decision operations.
type Service interface {
	VerifyEligibility(ctx context.Context, req decision.VerifyRequest) (*decision.VerifyResult, error)
	TrustScore(ctx context.Context, identityKey, contactChannel string) trust.Result
}

// Handler wires decision endpoints to the decision service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a decision handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts decision endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify-eligibility", h.HandleVerifyEligibility)
	r.Post("/trust-score", h.HandleTrustScore)
}

// HandleVerifyEligibility handles POST /verify-eligibility requests.
func (h *Handler) HandleVerifyEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[VerifyEligibilityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.VerifyEligibility(ctx, decision.VerifyRequest{
		IdentityKey:    req.IdentityKey,
		SchemeID:       req.SchemeID,
		ContactChannel: req.ContactChannel,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "eligibility verification failed",
			"request_id", requestID,
			"scheme_id", req.SchemeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "eligibility verification served",
		"request_id", requestID,
		"scheme_id", req.SchemeID,
		"recommendation", result.Recommendation,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromVerifyResult(result))
}

// HandleTrustScore handles POST /trust-score requests. Nothing is persisted.
func (h *Handler) HandleTrustScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TrustScoreRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.TrustScore(ctx, req.IdentityKey, req.ContactChannel)
	httputil.WriteJSON(w, http.StatusOK, FromTrustResult(req.IdentityKey, req.ContactChannel, result))
}
