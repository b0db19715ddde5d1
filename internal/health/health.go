// Package health serves the liveness endpoint and probes backing services.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"expenseai/pkg/platform/httputil"
	"expenseai/pkg/requestcontext"
)

const (
	StatusOK       = "OK"
	StatusDegraded = "DEGRADED"

	probeTimeout = 2 * time.Second
)

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

// Response is the body of GET /health. Components is omitted when no
// probes are registered.
type Response struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

type Handler struct {
	probes map[string]Probe
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{probes: make(map[string]Probe), logger: logger}
}

// WithProbe registers a named dependency check.
func (h *Handler) WithProbe(name string, probe Probe) *Handler {
	h.probes[name] = probe
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
}

// HandleHealth handles GET /health. Any failing probe turns the response
// into 503 DEGRADED.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	resp := Response{Status: StatusOK}
	status := http.StatusOK

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if resp.Components == nil {
			resp.Components = make(map[string]string, len(names))
		}
		if err := h.probes[name](ctx); err != nil {
			h.logger.WarnContext(ctx, "health probe failed",
				"request_id", requestcontext.RequestID(ctx),
				"component", name,
				"error", err,
			)
			resp.Components[name] = "error"
			resp.Status = StatusDegraded
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = "connected"
	}

	httputil.WriteJSON(w, status, resp)
}
