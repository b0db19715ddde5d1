package e2e

import (
	"github.com/cucumber/godog"

	"expenseai/e2e/steps/common"
	"expenseai/e2e/steps/welfare"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register eligibility, proposal and expense steps
	welfare.RegisterSteps(ctx, tc)
}
