package testutil

import (
	"net/http"
	"time"

	"expenseai/pkg/requestcontext"
)

// WithActor marks the request as authenticated, as the bearer middleware would.
func WithActor(req *http.Request, identityKey, role string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), identityKey, role))
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID sets the request id normally minted by middleware.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
