// Package chatbot answers free-text citizen queries. Intent detection is a
// placeholder that classifies everything as a general inquiry.
package chatbot

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"expenseai/pkg/platform/httputil"
	"expenseai/pkg/platform/validation"
	"expenseai/pkg/requestcontext"
)

const IntentGeneralInquiry = "general_inquiry"

// Reply is the bot's answer to a query.
type Reply struct {
	Response       string `json:"response"`
	DetectedIntent string `json:"detected_intent"`
}

// Answer echoes the query back with the placeholder analysis.
func Answer(query string) Reply {
	return Reply{
		Response:       fmt.Sprintf("Received query: '%s'. AI analysis placeholder.", query),
		DetectedIntent: IntentGeneralInquiry,
	}
}

type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/chatbot", h.HandleQuery)
}

// QueryRequest is the body of POST /chatbot.
type QueryRequest struct {
	Query    string `json:"query" validate:"required,max=2000"`
	Language string `json:"language" validate:"required,oneof=ur en"`
}

func (r *QueryRequest) Validate() error {
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
	return validation.Struct(r)
}

// HandleQuery handles POST /chatbot.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[QueryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	h.logger.DebugContext(ctx, "chatbot query", "request_id", requestID, "language", req.Language)
	httputil.WriteJSON(w, http.StatusOK, Answer(req.Query))
}
