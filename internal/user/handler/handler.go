package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"expenseai/internal/user/models"
	"expenseai/internal/user/service"
	"expenseai/pkg/platform/httputil"
	"expenseai/pkg/platform/validation"
	"expenseai/pkg/requestcontext"
)

// Service defines the registration operations used by the handler.
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
}

// Handler serves user registration.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts user endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/register", h.HandleRegister)
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	IdentityKey   string   `json:"identity_key" validate:"required,max=32"`
	Name          string   `json:"name" validate:"required,max=200"`
	Role          string   `json:"role" validate:"required"`
	SpendingLimit *float64 `json:"spending_limit" validate:"omitempty,gte=0"`

	role models.Role
}

// Validate trims and checks the request.
func (r *RegisterRequest) Validate() error {
	r.IdentityKey = strings.TrimSpace(r.IdentityKey)
	r.Name = strings.TrimSpace(r.Name)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	if err := validation.Struct(r); err != nil {
		return err
	}
	role, err := models.ParseRole(r.Role)
	if err != nil {
		return err
	}
	r.role = role
	return nil
}

// UserResponse is the body returned for a registered user.
type UserResponse struct {
	ID          string `json:"id"`
	IdentityKey string `json:"identity_key"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
}

// HandleRegister handles POST /register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.Register(ctx, service.RegisterInput{
		IdentityKey:   req.IdentityKey,
		Name:          req.Name,
		Role:          req.role,
		SpendingLimit: req.SpendingLimit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, UserResponse{
		ID:          user.ID.String(),
		IdentityKey: user.IdentityKey,
		Name:        user.Name,
		Role:        string(user.Role),
		IsActive:    user.IsActive,
	})
}
