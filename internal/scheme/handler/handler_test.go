package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenseai/internal/scheme/models"
	"expenseai/internal/scheme/service"
	"expenseai/internal/scheme/store"
	"expenseai/pkg/testutil"
)

func newRouter(t *testing.T, svc Service) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).Register(r)
	return r
}

func TestListSchemes(t *testing.T) {
	svc, err := service.New(store.NewInMemory(), 8)
	require.NoError(t, err)
	_, err = svc.SeedIfEmpty(context.Background(), []*models.Scheme{
		{SchemeID: "scholarship_scheme", Name: "Scholarship", Description: "Education aid", MaxIncome: 70000},
		{SchemeID: "rashan_scheme", Name: "Rashan Scheme", Description: "Food support", MaxIncome: 50000, MinFamilySize: 3},
	})
	require.NoError(t, err)

	rr := testutil.DoRequest(newRouter(t, svc), testutil.NewRequest(t, http.MethodGet, "/schemes"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := *testutil.UnmarshalResponse[[]SchemeResponse](t, rr)
	require.Len(t, resp, 2)
	assert.Equal(t, SchemeResponse{
		SchemeID: "rashan_scheme", Name: "Rashan Scheme", Description: "Food support", MaxIncome: 50000, MinFamilySize: 3,
	}, resp[0])
	assert.Equal(t, "scholarship_scheme", resp[1].SchemeID)
}

func TestListSchemesEmpty(t *testing.T) {
	svc, err := service.New(store.NewInMemory(), 8)
	require.NoError(t, err)

	rr := testutil.DoRequest(newRouter(t, svc), testutil.NewRequest(t, http.MethodGet, "/schemes"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

type failingService struct{}

func (failingService) List(context.Context) ([]*models.Scheme, error) {
	return nil, errors.New("connection reset")
}

func TestListSchemesStoreFailure(t *testing.T) {
	rr := testutil.DoRequest(newRouter(t, failingService{}), testutil.NewRequest(t, http.MethodGet, "/schemes"))
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
}
