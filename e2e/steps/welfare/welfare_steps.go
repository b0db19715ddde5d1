package welfare

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"

	"github.com/cucumber/godog"
)

const governmentOfficer = "1111111111111"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any, headers map[string]string) error
	GET(path string, headers map[string]string) error
	SetVar(name, value string)
	Var(name string) string
	BearerToken(identityKey, role string) (string, error)
}

// RegisterSteps registers eligibility, proposal and expense steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &welfareSteps{tc: tc}

	ctx.Step(`^a new citizen "([^"]*)"$`, steps.newCitizen)
	ctx.Step(`^"([^"]*)" registers as a "([^"]*)" named "([^"]*)"$`, steps.register)
	ctx.Step(`^"([^"]*)" verifies eligibility for "([^"]*)"$`, steps.verifyEligibility)
	ctx.Step(`^"([^"]*)" requests a trust score via "([^"]*)"$`, steps.trustScore)

	ctx.Step(`^the government submits "([^"]*)" for "([^"]*)" on "([^"]*)"$`, steps.governmentSubmits)
	ctx.Step(`^a citizen token submits "([^"]*)" for "([^"]*)" on "([^"]*)"$`, steps.citizenSubmits)
	ctx.Step(`^I list expenses for "([^"]*)"$`, steps.listExpenses)
	ctx.Step(`^I fetch the application history of "([^"]*)" for "([^"]*)"$`, steps.history)

	ctx.Step(`^I ask the chatbot "([^"]*)" in "([^"]*)"$`, steps.askChatbot)
}

type welfareSteps struct {
	tc TestContext
}

func (s *welfareSteps) newCitizen(ctx context.Context, alias string) error {
	s.tc.SetVar(alias, fmt.Sprintf("35%011d", rand.Int64N(1e11)))
	return nil
}

func (s *welfareSteps) register(ctx context.Context, alias, role, name string) error {
	return s.tc.POST("/register", map[string]any{
		"identity_key": s.tc.Var(alias),
		"name":         name,
		"role":         role,
	}, nil)
}

func (s *welfareSteps) verifyEligibility(ctx context.Context, alias, schemeID string) error {
	return s.tc.POST("/verify-eligibility", map[string]any{
		"identity_key": s.tc.Var(alias),
		"scheme_id":    schemeID,
	}, nil)
}

func (s *welfareSteps) trustScore(ctx context.Context, alias, channel string) error {
	return s.tc.POST("/trust-score", map[string]any{
		"identity_key":    s.tc.Var(alias),
		"contact_channel": channel,
	}, nil)
}

func (s *welfareSteps) governmentSubmits(ctx context.Context, decision, alias, schemeID string) error {
	return s.submit("government", decision, alias, schemeID)
}

func (s *welfareSteps) citizenSubmits(ctx context.Context, decision, alias, schemeID string) error {
	return s.submit("citizen", decision, alias, schemeID)
}

func (s *welfareSteps) submit(role, decision, alias, schemeID string) error {
	bearer, err := s.tc.BearerToken(governmentOfficer, role)
	if err != nil {
		return err
	}
	var headers map[string]string
	if bearer != "" {
		headers = map[string]string{"Authorization": bearer}
	}
	return s.tc.POST("/submit-proposal", map[string]any{
		"identity_key":        s.tc.Var(alias),
		"scheme_id":           schemeID,
		"government_decision": decision,
	}, headers)
}

func (s *welfareSteps) listExpenses(ctx context.Context, alias string) error {
	return s.tc.GET("/expenses?identity_key="+url.QueryEscape(s.tc.Var(alias)), nil)
}

func (s *welfareSteps) history(ctx context.Context, alias, schemeID string) error {
	return s.tc.GET("/applications/"+url.PathEscape(s.tc.Var(alias))+"/"+url.PathEscape(schemeID), nil)
}

func (s *welfareSteps) askChatbot(ctx context.Context, query, language string) error {
	return s.tc.POST("/chatbot", map[string]any{
		"query":    query,
		"language": language,
	}, nil)
}
