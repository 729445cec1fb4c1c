// Package rules holds the per-country lookup table behind the account details
// form. Every country-conditional decision of the resolver reads this table;
// no other package compares country codes.
package rules

import "payoutkyc/internal/compliance/models"

// Country codes with bespoke behaviour outside the table.
const (
	CountryUS = "US"
	CountryCA = "CA"
	CountryAE = "AE"
	CountryJP = "JP"
)

// HiddenPlaceholder replaces a tax-ID placeholder once a value was entered.
const HiddenPlaceholder = "Hidden for security"

// Subdivision describes the state/province/county selector of a country.
type Subdivision struct {
	Label     string
	LabelID   string
	OptionSet string
}

// TaxID describes a tax or national ID input.
type TaxID struct {
	Label       string
	LabelID     string
	MinLength   int
	MaxLength   int
	Placeholder string
}

// Entry is everything country-specific about the form for one ISO code.
type Entry struct {
	// Subdivision drives the personal address selector.
	Subdivision *Subdivision
	// BusinessSubdivision drives the business address selector.
	BusinessSubdivision *Subdivision
	// IndividualTaxID is looked up by the personal country.
	IndividualTaxID *TaxID
	// BusinessTaxID is looked up by the business country; nil means the
	// generic company tax ID.
	BusinessTaxID *TaxID
	// BusinessTypes names the catalog option set; empty means generic.
	BusinessTypes string
	// Nationality is asked of users whose account country is this one.
	Nationality bool
	// JapaneseScripts swaps the free-text address for the kanji/kana set.
	JapaneseScripts bool
	// ZIPCode labels the postal code input "ZIP code".
	ZIPCode bool
}

var (
	state    = &Subdivision{Label: "State", LabelID: "subdivision_state"}
	province = &Subdivision{Label: "Province", LabelID: "subdivision_province"}
	county   = &Subdivision{Label: "County", LabelID: "subdivision_county"}
)

func withOptions(s *Subdivision, set string) *Subdivision {
	c := *s
	c.OptionSet = set
	return &c
}

// usSSNLast4 is used for US accounts that have not been asked for the full
// number.
var usSSNLast4 = &TaxID{
	Label:       "Last 4 digits of SSN",
	LabelID:     "tax_id_us_ssn_last4",
	MinLength:   4,
	MaxLength:   4,
	Placeholder: "••••",
}

var defaultBusinessTaxID = TaxID{
	Label:       "Company tax ID",
	LabelID:     "business_tax_id_default",
	Placeholder: "12345678",
}

var table = map[string]Entry{
	"US": {
		Subdivision:         withOptions(state, "us"),
		BusinessSubdivision: withOptions(state, "us"),
		IndividualTaxID: &TaxID{
			Label:       "Social Security Number",
			LabelID:     "tax_id_us_ssn_full",
			MinLength:   9,
			MaxLength:   11,
			Placeholder: "•••-••-••••",
		},
		BusinessTaxID: &TaxID{
			Label:       "Business Tax ID (EIN, or SSN for sole proprietors)",
			LabelID:     "business_tax_id_us",
			Placeholder: "12-3456789",
		},
		ZIPCode: true,
	},
	"CA": {
		Subdivision:         withOptions(province, "ca"),
		BusinessSubdivision: withOptions(province, "ca"),
		IndividualTaxID: &TaxID{
			Label:       "Social Insurance Number",
			LabelID:     "tax_id_ca",
			MinLength:   9,
			MaxLength:   9,
			Placeholder: "•••-•••-•••",
		},
		BusinessTaxID: &TaxID{
			Label:       "Business Number (BN)",
			LabelID:     "business_tax_id_ca",
			Placeholder: "123456789",
		},
		BusinessTypes: "ca",
	},
	"AU": {
		Subdivision:         withOptions(state, "au"),
		BusinessSubdivision: withOptions(state, "au"),
		BusinessTaxID: &TaxID{
			Label:       "Australian Business Number (ABN)",
			LabelID:     "business_tax_id_au",
			Placeholder: "12 123 456 789",
		},
	},
	"MX": {
		Subdivision:         withOptions(state, "mx"),
		BusinessSubdivision: withOptions(state, "mx"),
		IndividualTaxID: &TaxID{
			Label:       "Personal RFC",
			LabelID:     "tax_id_mx",
			MinLength:   13,
			MaxLength:   13,
			Placeholder: "1234567891234",
		},
		BusinessTaxID: &TaxID{
			Label:       "Business RFC",
			LabelID:     "business_tax_id_mx",
			Placeholder: "12345678",
		},
	},
	"AE": {
		Subdivision:         withOptions(province, "ae"),
		BusinessSubdivision: withOptions(province, "ae"),
		IndividualTaxID: &TaxID{
			Label:       "Emirates ID",
			LabelID:     "tax_id_ae",
			MinLength:   15,
			MaxLength:   15,
			Placeholder: "123456789123456",
		},
		BusinessTaxID: &TaxID{
			Label:       "Company tax ID",
			LabelID:     "business_tax_id_default",
			Placeholder: "12345678",
		},
		BusinessTypes: "ae",
		Nationality:   true,
	},
	"IE": {
		Subdivision:         withOptions(county, "ie"),
		BusinessSubdivision: withOptions(county, "ie"),
	},
	"BR": {
		// Business addresses in Brazil carry no state selector.
		Subdivision: withOptions(state, "br"),
		IndividualTaxID: &TaxID{
			Label:       "Cadastro de Pessoas Físicas (CPF)",
			LabelID:     "tax_id_br",
			MinLength:   11,
			MaxLength:   14,
			Placeholder: "123.456.789-00",
		},
	},
	"GB": {
		BusinessTaxID: &TaxID{
			Label:       "Company Number (CRN)",
			LabelID:     "business_tax_id_gb",
			Placeholder: "12345678",
		},
	},
	"IN": {
		BusinessTypes: "in",
	},
	"JP": {
		JapaneseScripts: true,
	},
	"CO": {
		IndividualTaxID: &TaxID{
			Label:       "Cédula de Ciudadanía (CC)",
			LabelID:     "tax_id_co",
			MinLength:   13,
			MaxLength:   13,
			Placeholder: "1.123.123.123",
		},
	},
	"UY": {
		IndividualTaxID: &TaxID{
			Label:       "Cédula de Identidad (CI)",
			LabelID:     "tax_id_ci",
			MinLength:   11,
			MaxLength:   11,
			Placeholder: "1.123.123-1",
		},
	},
	"HK": {
		IndividualTaxID: &TaxID{
			Label:       "Hong Kong ID Number",
			LabelID:     "tax_id_hk",
			MinLength:   8,
			MaxLength:   9,
			Placeholder: "123456789",
		},
	},
	"SG": {
		IndividualTaxID: &TaxID{
			Label:       "NRIC number / FIN",
			LabelID:     "tax_id_sg",
			MinLength:   9,
			MaxLength:   9,
			Placeholder: "123456789",
		},
		Nationality: true,
	},
	"KZ": {
		IndividualTaxID: &TaxID{
			Label:       "Individual identification number (IIN)",
			LabelID:     "tax_id_kz",
			MinLength:   9,
			MaxLength:   12,
			Placeholder: "123456789",
		},
	},
	"AR": {
		IndividualTaxID: &TaxID{
			Label:       "CUIL",
			LabelID:     "tax_id_ar",
			MinLength:   13,
			MaxLength:   13,
			Placeholder: "12-12345678-1",
		},
	},
	"PE": {
		IndividualTaxID: &TaxID{
			Label:       "DNI number",
			LabelID:     "tax_id_pe",
			MinLength:   10,
			MaxLength:   10,
			Placeholder: "12345678-9",
		},
	},
	"PK": {
		IndividualTaxID: &TaxID{
			Label:       "National Identity Card Number (SNIC or CNIC)",
			LabelID:     "tax_id_pk",
			MinLength:   13,
			MaxLength:   13,
			Placeholder: "•••••-•••••••-•",
		},
		Nationality: true,
	},
	"CR": {
		IndividualTaxID: &TaxID{
			Label:       "Tax Identification Number",
			LabelID:     "tax_id_cr",
			MinLength:   9,
			MaxLength:   12,
			Placeholder: "1234567890",
		},
	},
	"CL": {
		IndividualTaxID: &TaxID{
			Label:       "Rol Único Tributario (RUT)",
			LabelID:     "tax_id_cl",
			MinLength:   8,
			MaxLength:   9,
			Placeholder: "123456789",
		},
	},
	"DO": {
		IndividualTaxID: &TaxID{
			Label:       "Cédula de identidad y electoral (CIE)",
			LabelID:     "tax_id_do",
			MinLength:   13,
			MaxLength:   13,
			Placeholder: "123-1234567-1",
		},
	},
	"BO": {
		IndividualTaxID: &TaxID{
			Label:       "Cédula de Identidad (CI)",
			LabelID:     "tax_id_ci",
			MinLength:   8,
			MaxLength:   8,
			Placeholder: "12345678",
		},
	},
	"PY": {
		IndividualTaxID: &TaxID{
			Label:       "Cédula de Identidad (CI)",
			LabelID:     "tax_id_ci",
			MinLength:   7,
			MaxLength:   7,
			Placeholder: "1234567",
		},
	},
	"BD": {
		IndividualTaxID: &TaxID{
			Label:       "Personal ID number",
			LabelID:     "tax_id_bd",
			MinLength:   1,
			MaxLength:   20,
			Placeholder: "123456789",
		},
		Nationality: true,
	},
	"MZ": {
		IndividualTaxID: &TaxID{
			Label:       "Mozambique Taxpayer Single ID Number (NUIT)",
			LabelID:     "tax_id_mz",
			MinLength:   9,
			MaxLength:   9,
			Placeholder: "123456789",
		},
	},
	"GT": {
		IndividualTaxID: &TaxID{
			Label:       "Número de Identificación Tributaria (NIT)",
			LabelID:     "tax_id_gt",
			MinLength:   8,
			MaxLength:   12,
			Placeholder: "1234567-8",
		},
	},
}

// Lookup returns the entry for country. Unknown and empty codes yield the
// zero Entry, which selects every default.
func Lookup(country string) Entry {
	return table[country]
}

// Countries returns the codes that have an entry.
func Countries() []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	return codes
}

// IndividualTaxIDFor resolves the personal tax-ID input. The US entry
// branches on whether the full SSN is required.
func IndividualTaxIDFor(country string, needFullSSN bool) (TaxID, bool) {
	if country == CountryUS && !needFullSSN {
		return *usSSNLast4, true
	}
	e := Lookup(country)
	if e.IndividualTaxID == nil {
		return TaxID{}, false
	}
	return *e.IndividualTaxID, true
}

// BusinessTaxIDFor resolves the business tax-ID input.
func BusinessTaxIDFor(country string) TaxID {
	if t := Lookup(country).BusinessTaxID; t != nil {
		return *t
	}
	return defaultBusinessTaxID
}

// PostalCodeLabel returns the label and message ID of the postal code input.
func PostalCodeLabel(country string) (string, string) {
	if Lookup(country).ZIPCode {
		return "ZIP code", "postal_code_zip"
	}
	return "Postal code", "postal_code_generic"
}

// GenericBusinessTypes is offered when the business country has no catalog
// set of its own.
var GenericBusinessTypes = []models.Option{
	{ID: "llc", Label: "LLC"},
	{ID: "partnership", Label: "Partnership"},
	{ID: "profit", Label: "Non Profit"},
	{ID: "sole_proprietorship", Label: "Sole Proprietorship"},
	{ID: "corporation", Label: "Corporation"},
}
