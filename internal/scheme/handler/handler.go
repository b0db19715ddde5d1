package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expenseai/internal/scheme/models"
	"expenseai/pkg/platform/httputil"
	"expenseai/pkg/requestcontext"
)

// Service lists the seeded schemes.
type Service interface {
	List(ctx context.Context) ([]*models.Scheme, error)
}

// Handler serves the scheme catalog so callers can discover scheme ids.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts scheme endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/schemes", h.HandleList)
}

type SchemeResponse struct {
	SchemeID      string  `json:"scheme_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	MaxIncome     float64 `json:"max_income"`
	MinFamilySize int     `json:"min_family_size"`
}

// HandleList handles GET /schemes, ordered by scheme id.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	schemes, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list schemes",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := make([]SchemeResponse, 0, len(schemes))
	for _, s := range schemes {
		resp = append(resp, SchemeResponse{
			SchemeID:      s.SchemeID,
			Name:          s.Name,
			Description:   s.Description,
			MaxIncome:     s.MaxIncome,
			MinFamilySize: s.MinFamilySize,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
