package compliance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

const (
	compliancePath = "/settings/payments/compliance"
	profilePath    = "/settings/payments/profile"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	POST(path string, body any) error
	PATCH(path string, body any) error
	PUT(path string, body any) error
	GetLastBody() []byte
	GetResponseField(field string) (any, error)
	GetUserID() string
	GetAdminToken() string
}

// RegisterSteps registers compliance form step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &complianceSteps{tc: tc}

	// Profile and edits
	ctx.Step(`^my payout profile has country "([^"]*)" and tax ID countries "([^"]*)"$`, steps.saveProfile)
	ctx.Step(`^my payout profile has country "([^"]*)" with native payouts$`, steps.saveNativeProfile)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, steps.setField)
	ctx.Step(`^I set "([^"]*)" to number (\d+)$`, steps.setNumber)
	ctx.Step(`^I switch to a business account$`, steps.switchToBusiness)
	ctx.Step(`^I copy the business address$`, steps.copyBusinessAddress)
	ctx.Step(`^I request my compliance plan$`, steps.requestPlan)
	ctx.Step(`^I request my compliance plan in "([^"]*)"$`, steps.requestPlanIn)
	ctx.Step(`^I list my audit trail$`, steps.listAudit)

	// Previews
	ctx.Step(`^I preview an individual account in "([^"]*)"$`, steps.previewIndividual)
	ctx.Step(`^I preview an individual account in "([^"]*)" paid by "([^"]*)"$`, steps.previewIndividualPaidBy)
	ctx.Step(`^I preview a business account in "([^"]*)" with business country "([^"]*)"$`, steps.previewBusiness)

	// Plan assertions
	ctx.Step(`^field "([^"]*)" should be visible$`, steps.fieldVisible)
	ctx.Step(`^field "([^"]*)" should be hidden$`, steps.fieldHidden)
	ctx.Step(`^field "([^"]*)" should be labelled "([^"]*)"$`, steps.fieldLabel)
	ctx.Step(`^field "([^"]*)" should have placeholder "([^"]*)"$`, steps.fieldPlaceholder)
	ctx.Step(`^the plan should warn "([^"]*)"$`, steps.planWarns)
	ctx.Step(`^the plan should have no warnings$`, steps.planHasNoWarnings)
	ctx.Step(`^my record should have "([^"]*)" equal to "([^"]*)"$`, steps.recordField)
	ctx.Step(`^the audit trail should include "([^"]*)"$`, steps.auditIncludes)
}

type complianceSteps struct {
	tc TestContext
}

func (s *complianceSteps) saveProfile(ctx context.Context, country, taxCountries string) error {
	return s.tc.PUT(profilePath, map[string]any{
		"country_code":                       country,
		"individual_tax_id_needed_countries": splitList(taxCountries),
	})
}

func (s *complianceSteps) saveNativeProfile(ctx context.Context, country string) error {
	return s.tc.PUT(profilePath, map[string]any{
		"country_code":                    country,
		"country_supports_native_payouts": true,
	})
}

func (s *complianceSteps) setField(ctx context.Context, field, value string) error {
	return s.tc.PATCH(compliancePath, map[string]any{"field": field, "value": value})
}

func (s *complianceSteps) setNumber(ctx context.Context, field string, value int) error {
	return s.tc.PATCH(compliancePath, map[string]any{"field": field, "value": value})
}

func (s *complianceSteps) switchToBusiness(ctx context.Context) error {
	return s.setField(ctx, "is_business", "business")
}

func (s *complianceSteps) copyBusinessAddress(ctx context.Context) error {
	return s.tc.PATCH(compliancePath, map[string]any{"action": "copy_business_address"})
}

func (s *complianceSteps) requestPlan(ctx context.Context) error {
	return s.tc.GET(compliancePath, nil)
}

func (s *complianceSteps) requestPlanIn(ctx context.Context, lang string) error {
	return s.tc.GET(compliancePath, map[string]string{"Accept-Language": lang})
}

func (s *complianceSteps) listAudit(ctx context.Context) error {
	return s.tc.GET("/admin/audit/"+s.tc.GetUserID(), map[string]string{"X-Admin-Token": s.tc.GetAdminToken()})
}

func (s *complianceSteps) previewIndividual(ctx context.Context, country string) error {
	return s.previewIndividualPaidBy(ctx, country, "bank")
}

func (s *complianceSteps) previewIndividualPaidBy(ctx context.Context, country, method string) error {
	return s.tc.POST(compliancePath+"/preview", map[string]any{
		"compliance_info": map[string]any{"country": country},
		"user":            map[string]any{"country_code": country},
		"payout_method":   method,
	})
}

func (s *complianceSteps) previewBusiness(ctx context.Context, country, businessCountry string) error {
	return s.tc.POST(compliancePath+"/preview", map[string]any{
		"compliance_info": map[string]any{
			"is_business":      true,
			"country":          country,
			"business_country": businessCountry,
		},
		"user": map[string]any{"country_code": businessCountry},
	})
}

func (s *complianceSteps) field(name string) (map[string]any, error) {
	fields, err := s.tc.GetResponseField("plan.fields")
	if err != nil {
		return nil, err
	}
	list, _ := fields.([]any)
	for _, f := range list {
		spec, ok := f.(map[string]any)
		if ok && spec["name"] == name {
			return spec, nil
		}
	}
	return nil, fmt.Errorf("field %q missing from plan", name)
}

func (s *complianceSteps) fieldVisible(ctx context.Context, name string) error {
	spec, err := s.field(name)
	if err != nil {
		return err
	}
	if spec["visible"] != true {
		return fmt.Errorf("expected %s to be visible", name)
	}
	return nil
}

func (s *complianceSteps) fieldHidden(ctx context.Context, name string) error {
	spec, err := s.field(name)
	if err != nil {
		return err
	}
	if spec["visible"] != false {
		return fmt.Errorf("expected %s to be hidden", name)
	}
	return nil
}

func (s *complianceSteps) fieldLabel(ctx context.Context, name, label string) error {
	spec, err := s.field(name)
	if err != nil {
		return err
	}
	if spec["label"] != label {
		return fmt.Errorf("expected %s label %q, got %v", name, label, spec["label"])
	}
	return nil
}

func (s *complianceSteps) fieldPlaceholder(ctx context.Context, name, placeholder string) error {
	spec, err := s.field(name)
	if err != nil {
		return err
	}
	constraints, _ := spec["constraints"].(map[string]any)
	if constraints["placeholder"] != placeholder {
		return fmt.Errorf("expected %s placeholder %q, got %v", name, placeholder, constraints["placeholder"])
	}
	return nil
}

func (s *complianceSteps) planWarns(ctx context.Context, code string) error {
	warnings, err := s.tc.GetResponseField("plan.warnings")
	if err != nil {
		return err
	}
	list, _ := warnings.([]any)
	for _, w := range list {
		if m, ok := w.(map[string]any); ok && m["code"] == code {
			return nil
		}
	}
	return fmt.Errorf("warning %q not found in %v", code, list)
}

func (s *complianceSteps) planHasNoWarnings(ctx context.Context) error {
	warnings, err := s.tc.GetResponseField("plan.warnings")
	if err != nil {
		return err
	}
	if list, _ := warnings.([]any); len(list) > 0 {
		return fmt.Errorf("expected no warnings, got %v", list)
	}
	return nil
}

func (s *complianceSteps) recordField(ctx context.Context, field, want string) error {
	v, err := s.tc.GetResponseField("record." + field)
	if err != nil {
		return err
	}
	got := fmt.Sprint(v)
	if f, ok := v.(float64); ok {
		got = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if got != want {
		return fmt.Errorf("expected record.%s %q, got %q", field, want, got)
	}
	return nil
}

func (s *complianceSteps) auditIncludes(ctx context.Context, action string) error {
	events, err := s.tc.GetResponseField("events")
	if err != nil {
		return err
	}
	list, _ := events.([]any)
	for _, e := range list {
		if m, ok := e.(map[string]any); ok && m["action"] == action {
			return nil
		}
	}
	return fmt.Errorf("audit action %q not found: %s", action, s.tc.GetLastBody())
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
