package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"expenseai/internal/user/service"
	"expenseai/internal/user/store"
	"expenseai/pkg/testutil"
)

func newUserRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := service.New(store.NewInMemory())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func TestRegisterUser(t *testing.T) {
	router := newUserRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/register", map[string]any{
		"identity_key": "3520212345671",
		"name":         "Ayesha",
		"role":         "Government",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	resp := testutil.UnmarshalResponse[UserResponse](t, rr)
	if resp.ID == "" || resp.Role != "government" || !resp.IsActive {
		t.Fatalf("unexpected registration response: %+v", resp)
	}

	dup := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/register", map[string]any{
		"identity_key": "3520212345671",
		"name":         "Someone Else",
		"role":         "customer",
	}))
	testutil.AssertStatusAndError(t, dup, http.StatusConflict, "conflict")
}

func TestRegisterValidation(t *testing.T) {
	router := newUserRouter(t)

	cases := map[string]map[string]any{
		"missing identity key": {"name": "A", "role": "customer"},
		"unknown role":         {"identity_key": "1", "name": "A", "role": "superuser"},
		"negative limit":       {"identity_key": "1", "name": "A", "role": "customer", "spending_limit": -5},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/register", body))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
		})
	}

	t.Run("empty body", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/register"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}
