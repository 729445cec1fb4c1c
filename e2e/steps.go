package e2e

import (
	"github.com/cucumber/godog"

	"payoutkyc/e2e/steps/common"
	"payoutkyc/e2e/steps/compliance"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (background, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register compliance form steps
	compliance.RegisterSteps(ctx, tc)
}
