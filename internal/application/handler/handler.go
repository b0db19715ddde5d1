package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"expenseai/internal/application/models"
	"expenseai/internal/application/service"
	"expenseai/pkg/platform/httputil"
	"expenseai/pkg/platform/validation"
	"expenseai/pkg/requestcontext"
)

// Service defines the lifecycle operations used by the handler.
type Service interface {
	SubmitProposal(ctx context.Context, identityKey, schemeID string, decision models.Decision) (*service.ProposalResult, error)
	History(ctx context.Context, identityKey, schemeID string) ([]*models.Application, error)
}

// Handler serves government decisions on applications.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public application endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/applications/{identity_key}/{scheme_id}", h.HandleHistory)
}

// RegisterDecisions mounts the decision endpoint. Callers wrap r with the
// government role guard when authentication is enabled.
func (h *Handler) RegisterDecisions(r chi.Router) {
	r.Post("/submit-proposal", h.HandleSubmitProposal)
}

// SubmitProposalRequest is the body of POST /submit-proposal.
type SubmitProposalRequest struct {
	IdentityKey        string `json:"identity_key" validate:"required,max=32"`
	SchemeID           string `json:"scheme_id" validate:"required,max=64"`
	GovernmentDecision string `json:"government_decision" validate:"required"`

	decision models.Decision
}

func (r *SubmitProposalRequest) Validate() error {
	r.IdentityKey = strings.TrimSpace(r.IdentityKey)
	r.SchemeID = strings.TrimSpace(r.SchemeID)
	r.GovernmentDecision = strings.ToUpper(strings.TrimSpace(r.GovernmentDecision))
	if err := validation.Struct(r); err != nil {
		return err
	}
	decision, err := models.ParseVerdict(r.GovernmentDecision)
	if err != nil {
		return err
	}
	r.decision = decision
	return nil
}

type SubmitProposalResponse struct {
	Message   string `json:"message"`
	ExpenseID string `json:"expense_id,omitempty"`
	FraudFlag *bool  `json:"fraud_flag,omitempty"`
}

// HandleSubmitProposal handles POST /submit-proposal.
func (h *Handler) HandleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitProposalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.SubmitProposal(ctx, req.IdentityKey, req.SchemeID, req.decision)
	if err != nil {
		h.logger.WarnContext(ctx, "proposal submission failed",
			"request_id", requestID,
			"scheme_id", req.SchemeID,
			"decision", req.decision,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if result.Expense == nil {
		httputil.WriteJSON(w, http.StatusOK, SubmitProposalResponse{Message: "Proposal rejected"})
		return
	}
	summary := result.Expense.Summary()
	httputil.WriteJSON(w, http.StatusOK, SubmitProposalResponse{
		Message:   "Expense processed",
		ExpenseID: summary.ExpenseID,
		FraudFlag: &summary.FraudFlag,
	})
}

type ApplicationResponse struct {
	ID                 string     `json:"id"`
	IdentityKey        string     `json:"identity_key"`
	SchemeID           string     `json:"scheme_id"`
	Eligible           bool       `json:"eligible"`
	GovernmentDecision string     `json:"government_decision"`
	DecidedBy          string     `json:"decided_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	DecidedAt          *time.Time `json:"decided_at,omitempty"`
}

// HandleHistory handles GET /applications/{identity_key}/{scheme_id}.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	apps, err := h.service.History(ctx, chi.URLParam(r, "identity_key"), chi.URLParam(r, "scheme_id"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list applications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := make([]ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		resp = append(resp, ApplicationResponse{
			ID:                 app.ID.String(),
			IdentityKey:        app.IdentityKey,
			SchemeID:           app.SchemeID,
			Eligible:           app.Eligible,
			GovernmentDecision: string(app.GovernmentDecision),
			DecidedBy:          app.DecidedBy,
			CreatedAt:          app.CreatedAt,
			DecidedAt:          app.DecidedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
