package handler

import (
	"strings"

	"payoutkyc/internal/compliance/edit"
	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/service"
	dErrors "payoutkyc/pkg/domain-errors"
	platformstrings "payoutkyc/pkg/platform/strings"
)

const (
	maxValueLength   = 256
	maxInvalidFields = 64
)

// EditRequest is the body of PATCH /settings/payments/compliance.
type EditRequest struct {
	Field         string   `json:"field,omitempty"`
	Value         any      `json:"value"`
	Action        string   `json:"action,omitempty"`
	InvalidFields []string `json:"invalid_fields,omitempty"`

	parsedInvalid models.FieldSet
}

// Validate implements httputil.Validatable. Field semantics are checked by
// the edit builder; this only bounds the payload.
func (r *EditRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Field = strings.TrimSpace(r.Field)
	r.Action = strings.TrimSpace(r.Action)
	if r.Field == "" && r.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "field or action is required")
	}
	if r.Field != "" && r.Action != "" {
		return dErrors.New(dErrors.CodeValidation, "edit must set either field or action")
	}
	if s, ok := r.Value.(string); ok && len(s) > maxValueLength {
		return dErrors.New(dErrors.CodeValidation, "value is too long")
	}
	invalid, err := parseInvalidList(r.InvalidFields)
	if err != nil {
		return err
	}
	r.parsedInvalid = invalid
	return nil
}

// ToEdit returns the domain edit.
func (r *EditRequest) ToEdit() edit.Edit {
	return edit.Edit{
		Field:  models.FieldName(r.Field),
		Value:  r.Value,
		Action: edit.Action(r.Action),
	}
}

// ParsedInvalidFields returns the validated invalid field set.
func (r *EditRequest) ParsedInvalidFields() models.FieldSet {
	return r.parsedInvalid
}

// PreviewRequest is the body of POST /settings/payments/compliance/preview.
type PreviewRequest struct {
	ComplianceInfo models.ComplianceInfo `json:"compliance_info"`
	User           models.User           `json:"user"`
	PayoutMethod   string                `json:"payout_method,omitempty"`
	InvalidFields  []string              `json:"invalid_fields,omitempty"`

	parsedInvalid models.FieldSet
	parsedMethod  models.PayoutMethod
}

func (r *PreviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	method, err := parsePayoutMethod(r.PayoutMethod)
	if err != nil {
		return err
	}
	r.parsedMethod = method
	r.User.CountryCode = strings.ToUpper(strings.TrimSpace(r.User.CountryCode))
	r.User.IndividualTaxIDNeededCountries = platformstrings.DedupeAndTrimUpper(r.User.IndividualTaxIDNeededCountries)

	invalid, err := parseInvalidList(r.InvalidFields)
	if err != nil {
		return err
	}
	r.parsedInvalid = invalid
	return nil
}

// ToInput returns the service preview input.
func (r *PreviewRequest) ToInput() service.PreviewInput {
	return service.PreviewInput{
		Info:          r.ComplianceInfo,
		User:          r.User,
		PayoutMethod:  r.parsedMethod,
		InvalidFields: r.parsedInvalid,
	}
}

// ProfileRequest is the body of PUT /settings/payments/profile. Entered
// flags are owned by the server and cannot be set here.
type ProfileRequest struct {
	CountryCode                    string   `json:"country_code"`
	CountrySupportsNativePayouts   bool     `json:"country_supports_native_payouts"`
	NeedFullSSN                    bool     `json:"need_full_ssn"`
	IndividualTaxIDNeededCountries []string `json:"individual_tax_id_needed_countries"`
	PayoutMethod                   string   `json:"payout_method,omitempty"`

	parsedMethod models.PayoutMethod
}

func (r *ProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
	if r.CountryCode != "" && len(r.CountryCode) != 2 {
		return dErrors.New(dErrors.CodeValidation, "country_code must be a two-letter code")
	}
	r.IndividualTaxIDNeededCountries = platformstrings.DedupeAndTrimUpper(r.IndividualTaxIDNeededCountries)
	for _, c := range r.IndividualTaxIDNeededCountries {
		if len(c) != 2 {
			return dErrors.New(dErrors.CodeValidation, "individual_tax_id_needed_countries must hold two-letter codes")
		}
	}
	method, err := parsePayoutMethod(r.PayoutMethod)
	if err != nil {
		return err
	}
	r.parsedMethod = method
	return nil
}

// ToUser returns the profile flags.
func (r *ProfileRequest) ToUser() models.User {
	return models.User{
		CountryCode:                    r.CountryCode,
		CountrySupportsNativePayouts:   r.CountrySupportsNativePayouts,
		NeedFullSSN:                    r.NeedFullSSN,
		IndividualTaxIDNeededCountries: r.IndividualTaxIDNeededCountries,
	}
}

// ParsedPayoutMethod returns the validated payout method, empty to keep the
// stored one.
func (r *ProfileRequest) ParsedPayoutMethod() models.PayoutMethod {
	return r.parsedMethod
}

func parsePayoutMethod(s string) (models.PayoutMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch models.PayoutMethod(s) {
	case "":
		return "", nil
	case models.PayoutMethodBank, models.PayoutMethodCard, models.PayoutMethodPayPal, models.PayoutMethodStripeConnect:
		return models.PayoutMethod(s), nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown payout_method: "+s)
}

func parseInvalidFields(csv string) (models.FieldSet, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	return parseInvalidList(strings.Split(csv, ","))
}

func parseInvalidList(names []string) (models.FieldSet, error) {
	if len(names) > maxInvalidFields {
		return nil, dErrors.New(dErrors.CodeValidation, "too many invalid fields")
	}
	fields := make([]models.FieldName, 0, len(names))
	for _, n := range platformstrings.DedupeAndTrim(names) {
		f, err := models.ParseFieldName(n)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return models.NewFieldSet(fields...), nil
}
