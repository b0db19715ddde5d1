package health

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"expenseai/pkg/testutil"
)

func serve(t *testing.T, h *Handler) (int, string) {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/health"))
	return rr.Code, rr.Body.String()
}

func newHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestHealthWithoutProbes(t *testing.T) {
	code, body := serve(t, newHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"OK"}`, body)
}

func TestHealthReportsComponents(t *testing.T) {
	h := newHandler().
		WithProbe("db", func(context.Context) error { return nil }).
		WithProbe("redis", func(context.Context) error { return nil })

	code, body := serve(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"OK","components":{"db":"connected","redis":"connected"}}`, body)
}

func TestHealthDegradedOnFailingProbe(t *testing.T) {
	h := newHandler().
		WithProbe("db", func(context.Context) error { return nil }).
		WithProbe("redis", func(context.Context) error { return errors.New("dial tcp: refused") })

	code, body := serve(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.JSONEq(t, `{"status":"DEGRADED","components":{"db":"connected","redis":"error"}}`, body)
}
