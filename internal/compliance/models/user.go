package models

// PayoutMethod is how the account receives payouts.
type PayoutMethod string

const (
	PayoutMethodBank          PayoutMethod = "bank"
	PayoutMethodCard          PayoutMethod = "card"
	PayoutMethodPayPal        PayoutMethod = "paypal"
	PayoutMethodStripeConnect PayoutMethod = "stripe_connect"
)

// User carries the profile flags that steer the form. It is owned by the
// account service; the resolver only reads it.
type User struct {
	CountryCode                    string   `json:"country_code"`
	CountrySupportsNativePayouts   bool     `json:"country_supports_native_payouts"`
	NeedFullSSN                    bool     `json:"need_full_ssn"`
	IndividualTaxIDEntered         bool     `json:"individual_tax_id_entered"`
	BusinessTaxIDEntered           bool     `json:"business_tax_id_entered"`
	IndividualTaxIDNeededCountries []string `json:"individual_tax_id_needed_countries"`
}

// NeedsIndividualTaxID reports whether country is in the caller-supplied set.
func (u User) NeedsIndividualTaxID(country string) bool {
	if country == "" {
		return false
	}
	for _, c := range u.IndividualTaxIDNeededCountries {
		if c == country {
			return true
		}
	}
	return false
}
