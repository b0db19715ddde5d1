package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appservice "expenseai/internal/application/service"
	appstore "expenseai/internal/application/store"
	"expenseai/internal/decision"
	"expenseai/internal/decision/eligibility"
	"expenseai/internal/decision/trust"
	schememodels "expenseai/internal/scheme/models"
	schemeservice "expenseai/internal/scheme/service"
	schemestore "expenseai/internal/scheme/store"
	"expenseai/pkg/testutil"
)

type fixture struct {
	router       http.Handler
	applications *appservice.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	schemes, err := schemeservice.New(schemestore.NewInMemory(), 8)
	require.NoError(t, err)
	_, err = schemes.SeedIfEmpty(ctx, []*schememodels.Scheme{
		{SchemeID: "rashan_scheme", Name: "Rashan Scheme", Description: "Food support", MaxIncome: 50000, MinFamilySize: 3},
		{SchemeID: "scholarship_scheme", Name: "Scholarship", Description: "Education aid", MaxIncome: 70000},
	})
	require.NoError(t, err)

	applications := appservice.New(appstore.NewInMemory(), nil)
	svc := decision.NewService(schemes, applications, eligibility.RuleBacked{}, trust.NewScorer(trust.RuleBacked{}))

	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).Register(r)
	return &fixture{router: r, applications: applications}
}

func (f *fixture) verify(t *testing.T, body map[string]any) *VerifyEligibilityResponse {
	t.Helper()
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/verify-eligibility", body))
	testutil.AssertStatus(t, rr, http.StatusOK)
	return testutil.UnmarshalResponse[VerifyEligibilityResponse](t, rr)
}

func TestVerifyEligibilityIsDeterministic(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{"identity_key": "3520212345671", "scheme_id": "rashan_scheme", "contact_channel": "03001234567"}

	first := f.verify(t, body)
	second := f.verify(t, body)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Eligible, len(first.Reasons) == 0)
	assert.Contains(t, []string{"ACCEPT", "REJECT"}, first.GovernmentRecommendation)
	if !first.Eligible {
		assert.Equal(t, "REJECT", first.GovernmentRecommendation)
	}

	history, err := f.applications.History(context.Background(), "3520212345671", "rashan_scheme")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestVerifyEligibilityIdentityMismatchRejects(t *testing.T) {
	f := newFixture(t)
	resp := f.verify(t, map[string]any{"identity_key": "3520212345671", "scheme_id": "scholarship_scheme", "contact_channel": "03001230000"})
	assert.Equal(t, "REJECT", resp.GovernmentRecommendation)
}

func TestVerifyEligibilityUnknownScheme(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/verify-eligibility", map[string]any{
		"identity_key": "3520212345671", "scheme_id": "missing",
	}))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")

	_, err := f.applications.Latest(context.Background(), "3520212345671", "missing")
	assert.Error(t, err)
}

func TestVerifyEligibilityValidation(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/verify-eligibility", map[string]any{
		"scheme_id": "rashan_scheme",
	}))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
}

func TestTrustScore(t *testing.T) {
	f := newFixture(t)

	t.Run("mismatched contact short-circuits", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/trust-score", map[string]any{
			"identity_key": "3520212345671", "contact_channel": "03001230000",
		}))
		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[TrustScoreResponse](t, rr)
		assert.False(t, resp.IdentityVerified)
		assert.Zero(t, resp.TrustScore)
		assert.Equal(t, []string{trust.ReasonIdentityMismatch}, resp.Reasons)
	})

	t.Run("verified contact is scored within bounds", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/trust-score", map[string]any{
			"identity_key": "3520212345671", "contact_channel": "03001234567",
		}))
		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[TrustScoreResponse](t, rr)
		assert.True(t, resp.IdentityVerified)
		assert.GreaterOrEqual(t, resp.TrustScore, 0.0)
		assert.LessOrEqual(t, resp.TrustScore, 100.0)
		assert.NotNil(t, resp.Reasons)
		assert.Equal(t, "03001234567", resp.ContactChannel)
	})

	t.Run("contact channel is required", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/trust-score", map[string]any{
			"identity_key": "3520212345671",
		}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})
}

func TestFromTrustResultRoundsToOneDecimal(t *testing.T) {
	resp := FromTrustResult("k", "c", trust.Result{Score: 37.46, IdentityVerified: true})
	assert.Equal(t, 37.5, resp.TrustScore)
	assert.Equal(t, []string{}, resp.Reasons)
}
