package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdivisionLabels(t *testing.T) {
	cases := []struct {
		country  string
		personal string
		business string
	}{
		{"US", "State", "State"},
		{"AU", "State", "State"},
		{"MX", "State", "State"},
		{"BR", "State", ""},
		{"CA", "Province", "Province"},
		{"AE", "Province", "Province"},
		{"IE", "County", "County"},
		{"GB", "", ""},
		{"JP", "", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.country, func(t *testing.T) {
			e := Lookup(tc.country)
			if tc.personal == "" {
				assert.Nil(t, e.Subdivision)
			} else {
				require.NotNil(t, e.Subdivision)
				assert.Equal(t, tc.personal, e.Subdivision.Label)
			}
			if tc.business == "" {
				assert.Nil(t, e.BusinessSubdivision)
			} else {
				require.NotNil(t, e.BusinessSubdivision)
				assert.Equal(t, tc.business, e.BusinessSubdivision.Label)
			}
		})
	}
}

func TestSubdivisionOptionSetsAreDistinctCopies(t *testing.T) {
	us := Lookup("US").Subdivision
	au := Lookup("AU").Subdivision
	assert.Equal(t, "us", us.OptionSet)
	assert.Equal(t, "au", au.OptionSet)
	assert.Equal(t, "", state.OptionSet)
}

func TestIndividualTaxIDFor(t *testing.T) {
	t.Run("US full SSN accepts 9 to 11 characters", func(t *testing.T) {
		tax, ok := IndividualTaxIDFor("US", true)
		require.True(t, ok)
		assert.Equal(t, 9, tax.MinLength)
		assert.Equal(t, 11, tax.MaxLength)
		assert.Equal(t, "Social Security Number", tax.Label)
	})

	t.Run("US without full SSN accepts exactly 4", func(t *testing.T) {
		tax, ok := IndividualTaxIDFor("US", false)
		require.True(t, ok)
		assert.Equal(t, 4, tax.MinLength)
		assert.Equal(t, 4, tax.MaxLength)
	})

	t.Run("need_full_ssn is ignored outside the US", func(t *testing.T) {
		a, _ := IndividualTaxIDFor("CA", true)
		b, _ := IndividualTaxIDFor("CA", false)
		assert.Equal(t, a, b)
	})

	t.Run("countries without an entry have no input", func(t *testing.T) {
		_, ok := IndividualTaxIDFor("GB", false)
		assert.False(t, ok)
	})

	t.Run("every entry has a label and sane bounds", func(t *testing.T) {
		n := 0
		for _, code := range Countries() {
			tax, ok := IndividualTaxIDFor(code, true)
			if !ok {
				continue
			}
			n++
			assert.NotEmpty(t, tax.Label, code)
			assert.NotEmpty(t, tax.LabelID, code)
			assert.NotEmpty(t, tax.Placeholder, code)
			assert.LessOrEqual(t, tax.MinLength, tax.MaxLength, code)
		}
		// 21 countries plus the US last-4 variant.
		assert.Equal(t, 21, n)
	})
}

func TestBusinessTaxIDFor(t *testing.T) {
	cases := map[string]string{
		"US": "Business Tax ID (EIN, or SSN for sole proprietors)",
		"CA": "Business Number (BN)",
		"AU": "Australian Business Number (ABN)",
		"GB": "Company Number (CRN)",
		"AE": "Company tax ID",
		"MX": "Business RFC",
		"DE": "Company tax ID",
		"":   "Company tax ID",
	}
	for country, label := range cases {
		assert.Equal(t, label, BusinessTaxIDFor(country).Label, country)
	}
	assert.Equal(t, "12 123 456 789", BusinessTaxIDFor("AU").Placeholder)
}

func TestPostalCodeLabel(t *testing.T) {
	label, id := PostalCodeLabel("US")
	assert.Equal(t, "ZIP code", label)
	assert.Equal(t, "postal_code_zip", id)

	label, _ = PostalCodeLabel("CA")
	assert.Equal(t, "Postal code", label)
}

func TestNationalityCountries(t *testing.T) {
	var got []string
	for _, code := range Countries() {
		if Lookup(code).Nationality {
			got = append(got, code)
		}
	}
	assert.ElementsMatch(t, []string{"AE", "SG", "PK", "BD"}, got)
}

func TestBusinessTypeSets(t *testing.T) {
	assert.Equal(t, "ae", Lookup("AE").BusinessTypes)
	assert.Equal(t, "in", Lookup("IN").BusinessTypes)
	assert.Equal(t, "ca", Lookup("CA").BusinessTypes)
	assert.Empty(t, Lookup("US").BusinessTypes)
	assert.Len(t, GenericBusinessTypes, 5)
}
