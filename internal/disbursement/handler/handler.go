package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"expenseai/internal/disbursement/models"
	"expenseai/pkg/platform/httputil"
	"expenseai/pkg/requestcontext"
)

// Service defines the expense queries used by the handler.
type Service interface {
	List(ctx context.Context) ([]*models.Expense, error)
	ListByIdentity(ctx context.Context, identityKey string) ([]*models.Expense, error)
}

// Handler serves the expense ledger.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts expense endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/expenses", h.HandleList)
}

type ProductResponse struct {
	Item  string  `json:"item"`
	Qty   string  `json:"qty"`
	Price float64 `json:"price"`
}

type ExpenseResponse struct {
	ExpenseID         string            `json:"expense_id"`
	IdentityKey       string            `json:"identity_key"`
	SchemeID          string            `json:"scheme_id"`
	VendorIdentityKey string            `json:"vendor_identity_key"`
	TotalAmount       float64           `json:"total_amount"`
	Products          []ProductResponse `json:"products"`
	IsFraudulent      bool              `json:"is_fraudulent"`
	Reason            *string           `json:"reason"`
}

// HandleList handles GET /expenses. An identity_key query parameter
// narrows the list to one citizen.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var (
		expenses []*models.Expense
		err      error
	)
	if identityKey := strings.TrimSpace(r.URL.Query().Get("identity_key")); identityKey != "" {
		expenses, err = h.service.ListByIdentity(ctx, identityKey)
	} else {
		expenses, err = h.service.List(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list expenses",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, toResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func toResponse(e *models.Expense) ExpenseResponse {
	products := make([]ProductResponse, 0, len(e.Products))
	for _, p := range e.Products {
		products = append(products, ProductResponse{Item: p.Item, Qty: p.Qty, Price: p.Price.InexactFloat64()})
	}
	return ExpenseResponse{
		ExpenseID:         e.ExpenseID,
		IdentityKey:       e.IdentityKey,
		SchemeID:          e.SchemeID,
		VendorIdentityKey: e.VendorIdentityKey,
		TotalAmount:       e.TotalAmount.InexactFloat64(),
		Products:          products,
		IsFraudulent:      e.IsFraudulent,
		Reason:            e.Reason,
	}
}
