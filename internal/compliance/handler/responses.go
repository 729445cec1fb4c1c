package handler

import (
	"time"

	"payoutkyc/internal/compliance/models"
)

// PreviewResponse wraps a previewed plan.
type PreviewResponse struct {
	Plan models.FieldPlan `json:"plan"`
}

// ProfileResponse is the payout profile as shown to its owner.
type ProfileResponse struct {
	CountryCode                    string    `json:"country_code"`
	CountrySupportsNativePayouts   bool      `json:"country_supports_native_payouts"`
	NeedFullSSN                    bool      `json:"need_full_ssn"`
	IndividualTaxIDEntered         bool      `json:"individual_tax_id_entered"`
	BusinessTaxIDEntered           bool      `json:"business_tax_id_entered"`
	IndividualTaxIDNeededCountries []string  `json:"individual_tax_id_needed_countries"`
	PayoutMethod                   string    `json:"payout_method"`
	UpdatedAt                      time.Time `json:"updated_at,omitzero"`
}

// FromProfile maps a stored profile to its response.
func FromProfile(p models.Profile) ProfileResponse {
	countries := p.User.IndividualTaxIDNeededCountries
	if countries == nil {
		countries = []string{}
	}
	return ProfileResponse{
		CountryCode:                    p.User.CountryCode,
		CountrySupportsNativePayouts:   p.User.CountrySupportsNativePayouts,
		NeedFullSSN:                    p.User.NeedFullSSN,
		IndividualTaxIDEntered:         p.User.IndividualTaxIDEntered,
		BusinessTaxIDEntered:           p.User.BusinessTaxIDEntered,
		IndividualTaxIDNeededCountries: countries,
		PayoutMethod:                   string(p.PayoutMethod),
		UpdatedAt:                      p.UpdatedAt,
	}
}
