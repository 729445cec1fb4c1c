package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/options"
	"payoutkyc/internal/compliance/rules"
	"payoutkyc/pkg/testutil"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	catalog, err := options.Load()
	require.NoError(t, err)
	return New(catalog)
}

func field(t *testing.T, plan models.FieldPlan, name models.FieldName) models.FieldSpec {
	t.Helper()
	spec, ok := plan.Field(name)
	require.True(t, ok, "field %s missing from plan", name)
	return spec
}

func individual(country string) Input {
	return Input{
		Info:         models.ComplianceInfo{Country: country},
		User:         models.User{CountryCode: country},
		PayoutMethod: models.PayoutMethodBank,
		MinDOBYear:   2008,
	}
}

func business(country, businessCountry string) Input {
	in := individual(country)
	in.Info.IsBusiness = true
	in.Info.BusinessCountry = businessCountry
	in.User.CountryCode = businessCountry
	return in
}

func TestPlanListsEveryField(t *testing.T) {
	r := newResolver(t)
	plan := r.Resolve(individual("US"))

	require.Len(t, plan.Fields, len(models.FormFields))
	for i, name := range models.FormFields {
		assert.Equal(t, name, plan.Fields[i].Name)
	}
	assert.NotNil(t, plan.Warnings)
}

func TestAlwaysVisibleFields(t *testing.T) {
	r := newResolver(t)
	for _, in := range []Input{individual("US"), individual("JP"), business("CA", "GB")} {
		plan := r.Resolve(in)
		for _, name := range []models.FieldName{
			models.FieldFirstName, models.FieldLastName, models.FieldCity,
			models.FieldZipCode, models.FieldPhone,
			models.FieldDOBMonth, models.FieldDOBDay, models.FieldDOBYear,
		} {
			spec := field(t, plan, name)
			assert.True(t, spec.Visible, name)
			assert.True(t, spec.Required, name)
		}
		country := field(t, plan, models.FieldCountry)
		assert.True(t, country.Visible)
		assert.False(t, country.Required)
		assert.True(t, field(t, plan, models.FieldIsBusiness).Visible)
	}
}

func TestBusinessBlock(t *testing.T) {
	r := newResolver(t)
	businessOnly := []models.FieldName{
		models.FieldBusinessName, models.FieldBusinessType, models.FieldBusinessStreetAddress,
		models.FieldBusinessCity, models.FieldBusinessZipCode, models.FieldBusinessCountry,
		models.FieldBusinessPhone,
	}

	testutil.Given(t, "an individual account", func(t *testing.T) {
		plan := r.Resolve(individual("US"))
		for _, name := range businessOnly {
			assert.False(t, field(t, plan, name).Visible, name)
		}
		assert.False(t, field(t, plan, models.FieldBusinessTaxID).Visible)
	})

	testutil.Given(t, "a business account", func(t *testing.T) {
		plan := r.Resolve(business("US", "US"))
		for _, name := range businessOnly {
			assert.True(t, field(t, plan, name).Visible, name)
		}
		testutil.Then(t, "street address and city are optional", func(t *testing.T) {
			assert.False(t, field(t, plan, models.FieldBusinessStreetAddress).Required)
			assert.False(t, field(t, plan, models.FieldBusinessCity).Required)
		})
		testutil.Then(t, "the rest of the block is required", func(t *testing.T) {
			for _, name := range []models.FieldName{
				models.FieldBusinessName, models.FieldBusinessType, models.FieldBusinessState,
				models.FieldBusinessZipCode, models.FieldBusinessCountry, models.FieldBusinessPhone,
			} {
				assert.True(t, field(t, plan, name).Required, name)
			}
		})
	})
}

func TestBusinessTypeOptions(t *testing.T) {
	r := newResolver(t)
	catalog, err := options.Load()
	require.NoError(t, err)

	cases := map[string][]models.Option{
		"AE": catalog.BusinessTypes("ae"),
		"IN": catalog.BusinessTypes("in"),
		"CA": catalog.BusinessTypes("ca"),
		"US": rules.GenericBusinessTypes,
		"":   rules.GenericBusinessTypes,
	}
	for bc, want := range cases {
		plan := r.Resolve(business("US", bc))
		assert.Equal(t, want, field(t, plan, models.FieldBusinessType).Options, bc)
	}

	plan := r.Resolve(business("US", "US"))
	assert.Contains(t, field(t, plan, models.FieldBusinessType).Options, models.Option{ID: "profit", Label: "Non Profit"})
}

func TestJapaneseAddressAndNames(t *testing.T) {
	r := newResolver(t)
	jpPersonal := []models.FieldName{
		models.FieldBuildingNumber, models.FieldStreetAddressKanji, models.FieldStreetAddressKana,
		models.FieldFirstNameKanji, models.FieldLastNameKanji, models.FieldFirstNameKana, models.FieldLastNameKana,
	}

	testutil.When(t, "the personal country is JP", func(t *testing.T) {
		plan := r.Resolve(individual("JP"))
		assert.False(t, field(t, plan, models.FieldStreetAddress).Visible)
		for _, name := range jpPersonal {
			spec := field(t, plan, name)
			assert.True(t, spec.Visible, name)
			assert.True(t, spec.Required, name)
		}
	})

	for _, country := range []string{"US", "GB", "DE", ""} {
		testutil.When(t, "the personal country is "+country, func(t *testing.T) {
			plan := r.Resolve(individual(country))
			street := field(t, plan, models.FieldStreetAddress)
			assert.True(t, street.Visible)
			assert.True(t, street.Required)
			for _, name := range jpPersonal {
				assert.False(t, field(t, plan, name).Visible, name)
			}
		})
	}

	testutil.When(t, "only the business country is JP", func(t *testing.T) {
		plan := r.Resolve(business("US", "JP"))
		assert.False(t, field(t, plan, models.FieldBusinessStreetAddress).Visible)
		for _, name := range []models.FieldName{
			models.FieldBusinessNameKanji, models.FieldBusinessNameKana, models.FieldBusinessBuildingNumber,
			models.FieldBusinessStreetAddressKanji, models.FieldBusinessStreetAddressKana,
		} {
			spec := field(t, plan, name)
			assert.True(t, spec.Visible, name)
			assert.True(t, spec.Required, name)
		}
		testutil.Then(t, "the personal address stays free-text", func(t *testing.T) {
			assert.True(t, field(t, plan, models.FieldStreetAddress).Visible)
			assert.False(t, field(t, plan, models.FieldBuildingNumber).Visible)
		})
	})
}

func TestSubdivisionMapping(t *testing.T) {
	r := newResolver(t)
	catalog, err := options.Load()
	require.NoError(t, err)

	cases := []struct {
		country string
		label   string
		set     string
	}{
		{"US", "State", "us"},
		{"AU", "State", "au"},
		{"BR", "State", "br"},
		{"MX", "State", "mx"},
		{"CA", "Province", "ca"},
		{"AE", "Province", "ae"},
		{"IE", "County", "ie"},
		{"GB", "", ""},
		{"JP", "", ""},
		{"DE", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.country, func(t *testing.T) {
			state := field(t, r.Resolve(individual(tc.country)), models.FieldState)
			if tc.label == "" {
				assert.False(t, state.Visible)
				return
			}
			assert.True(t, state.Visible)
			assert.True(t, state.Required)
			assert.Equal(t, tc.label, state.Label)
			assert.Equal(t, tc.label, state.Constraints.Placeholder)
			assert.Equal(t, catalog.Subdivisions(tc.set), state.Options)
		})
	}

	t.Run("business BR has no state selector", func(t *testing.T) {
		plan := r.Resolve(business("BR", "BR"))
		assert.False(t, field(t, plan, models.FieldBusinessState).Visible)
		assert.True(t, field(t, plan, models.FieldState).Visible)
	})

	t.Run("business subdivision follows the business country", func(t *testing.T) {
		plan := r.Resolve(business("US", "IE"))
		assert.Equal(t, "County", field(t, plan, models.FieldBusinessState).Label)
		assert.Equal(t, "State", field(t, plan, models.FieldState).Label)
	})
}

func TestPostalCodeLabels(t *testing.T) {
	r := newResolver(t)

	plan := r.Resolve(business("US", "CA"))
	assert.Equal(t, "ZIP code", field(t, plan, models.FieldZipCode).Label)
	assert.Equal(t, "ZIP code", field(t, plan, models.FieldZipCode).Constraints.Placeholder)
	assert.Equal(t, "Postal code", field(t, plan, models.FieldBusinessZipCode).Label)
	assert.Equal(t, "12345", field(t, plan, models.FieldBusinessZipCode).Constraints.Placeholder)

	plan = r.Resolve(business("CA", "US"))
	assert.Equal(t, "Postal code", field(t, plan, models.FieldZipCode).Label)
	assert.Equal(t, "ZIP code", field(t, plan, models.FieldBusinessZipCode).Label)
}

func TestBusinessTaxID(t *testing.T) {
	r := newResolver(t)

	testutil.Given(t, "native payouts are not supported", func(t *testing.T) {
		in := business("US", "US")
		plan := r.Resolve(in)
		assert.False(t, field(t, plan, models.FieldBusinessTaxID).Visible)

		testutil.Then(t, "a UAE business still sees the input", func(t *testing.T) {
			plan := r.Resolve(business("US", "AE"))
			spec := field(t, plan, models.FieldBusinessTaxID)
			assert.True(t, spec.Visible)
			assert.True(t, spec.Required)
			assert.Equal(t, "Company tax ID", spec.Label)
		})
	})

	testutil.Given(t, "native payouts are supported", func(t *testing.T) {
		cases := map[string][2]string{
			"US": {"Business Tax ID (EIN, or SSN for sole proprietors)", "12-3456789"},
			"CA": {"Business Number (BN)", "123456789"},
			"AU": {"Australian Business Number (ABN)", "12 123 456 789"},
			"GB": {"Company Number (CRN)", "12345678"},
			"MX": {"Business RFC", "12345678"},
			"FR": {"Company tax ID", "12345678"},
		}
		for bc, want := range cases {
			in := business("US", bc)
			in.User.CountrySupportsNativePayouts = true
			spec := field(t, r.Resolve(in), models.FieldBusinessTaxID)
			assert.True(t, spec.Visible, bc)
			assert.Equal(t, want[0], spec.Label, bc)
			assert.Equal(t, want[1], spec.Constraints.Placeholder, bc)
		}
	})

	testutil.Given(t, "a business tax ID was already entered", func(t *testing.T) {
		in := business("US", "US")
		in.User.CountrySupportsNativePayouts = true
		in.User.BusinessTaxIDEntered = true
		spec := field(t, r.Resolve(in), models.FieldBusinessTaxID)
		assert.Equal(t, rules.HiddenPlaceholder, spec.Constraints.Placeholder)
	})
}

func TestIndividualTaxID(t *testing.T) {
	r := newResolver(t)

	testutil.Given(t, "a US individual who needs a tax ID", func(t *testing.T) {
		in := individual("US")
		in.User.IndividualTaxIDNeededCountries = []string{"US"}

		testutil.When(t, "the full SSN is needed", func(t *testing.T) {
			in := in
			in.User.NeedFullSSN = true
			spec := field(t, r.Resolve(in), models.FieldIndividualTaxID)
			assert.True(t, spec.Visible)
			assert.True(t, spec.Required)
			assert.Equal(t, 9, spec.Constraints.MinLength)
			assert.Equal(t, 11, spec.Constraints.MaxLength)
		})

		testutil.When(t, "only the last four digits are needed", func(t *testing.T) {
			spec := field(t, r.Resolve(in), models.FieldIndividualTaxID)
			assert.Equal(t, 4, spec.Constraints.MinLength)
			assert.Equal(t, 4, spec.Constraints.MaxLength)
			assert.Equal(t, "Last 4 digits of SSN", spec.Label)
		})
	})

	testutil.Given(t, "a country outside the needed set", func(t *testing.T) {
		in := individual("CA")
		in.User.IndividualTaxIDNeededCountries = []string{"US"}
		assert.False(t, field(t, r.Resolve(in), models.FieldIndividualTaxID).Visible)
	})

	testutil.Given(t, "a business whose business country needs the tax ID", func(t *testing.T) {
		in := business("MX", "US")
		in.User.IndividualTaxIDNeededCountries = []string{"US"}
		spec := field(t, r.Resolve(in), models.FieldIndividualTaxID)

		testutil.Then(t, "the label follows the personal country", func(t *testing.T) {
			assert.True(t, spec.Visible)
			assert.Equal(t, "Personal RFC", spec.Label)
			assert.Equal(t, 13, spec.Constraints.MinLength)
		})
	})

	testutil.Given(t, "a needed country with no table entry", func(t *testing.T) {
		in := individual("GB")
		in.User.IndividualTaxIDNeededCountries = []string{"GB"}
		assert.False(t, field(t, r.Resolve(in), models.FieldIndividualTaxID).Visible)
	})

	testutil.Given(t, "an individual tax ID was already entered", func(t *testing.T) {
		in := individual("BR")
		in.User.IndividualTaxIDNeededCountries = []string{"BR"}
		in.User.IndividualTaxIDEntered = true
		spec := field(t, r.Resolve(in), models.FieldIndividualTaxID)
		assert.Equal(t, rules.HiddenPlaceholder, spec.Constraints.Placeholder)
		assert.Equal(t, 11, spec.Constraints.MinLength)
	})
}

func TestNationality(t *testing.T) {
	r := newResolver(t)
	for _, code := range []string{"AE", "SG", "PK", "BD"} {
		in := individual("US")
		in.User.CountryCode = code
		spec := field(t, r.Resolve(in), models.FieldNationality)
		assert.True(t, spec.Visible, code)
		assert.False(t, spec.Required, code)
		assert.NotEmpty(t, spec.Options, code)
	}
	for _, code := range []string{"US", "GB", "IN", ""} {
		in := individual("AE")
		in.User.CountryCode = code
		assert.False(t, field(t, r.Resolve(in), models.FieldNationality).Visible, code)
	}
}

func TestJobTitle(t *testing.T) {
	r := newResolver(t)

	spec := field(t, r.Resolve(business("CA", "US")), models.FieldJobTitle)
	assert.True(t, spec.Visible)
	assert.True(t, spec.Required)
	assert.Equal(t, "CEO", spec.Constraints.Placeholder)

	assert.False(t, field(t, r.Resolve(individual("CA")), models.FieldJobTitle).Visible)
	assert.False(t, field(t, r.Resolve(business("US", "CA")), models.FieldJobTitle).Visible)
}

func TestUAEIndividualWarning(t *testing.T) {
	r := newResolver(t)

	in := individual("AE")
	plan := r.Resolve(in)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, models.WarningUAEIndividualUnsupported, plan.Warnings[0].Code)
	assert.True(t, plan.Blocking())
	assert.True(t, field(t, plan, models.FieldFirstName).Visible, "form stays rendered")

	in.PayoutMethod = models.PayoutMethodPayPal
	assert.Empty(t, r.Resolve(in).Warnings)

	assert.Empty(t, r.Resolve(business("AE", "AE")).Warnings)
	assert.Empty(t, r.Resolve(individual("US")).Warnings)
}

func TestInvalidMirrorsParentSet(t *testing.T) {
	r := newResolver(t)
	in := individual("US")
	in.InvalidFields = models.NewFieldSet(models.FieldPhone, models.FieldBusinessName)

	plan := r.Resolve(in)
	assert.True(t, field(t, plan, models.FieldPhone).Invalid)
	assert.True(t, field(t, plan, models.FieldBusinessName).Invalid)
	assert.False(t, field(t, plan, models.FieldFirstName).Invalid)
}

func TestDOBOptions(t *testing.T) {
	r := newResolver(t)
	plan := r.Resolve(individual("US"))

	assert.Len(t, field(t, plan, models.FieldDOBMonth).Options, 12)
	assert.Len(t, field(t, plan, models.FieldDOBDay).Options, 31)
	years := field(t, plan, models.FieldDOBYear).Options
	require.NotEmpty(t, years)
	assert.Equal(t, "2007", years[0].ID)
	assert.Equal(t, "1900", years[len(years)-1].ID)
}

func TestResolveIsDeterministic(t *testing.T) {
	r := newResolver(t)
	in := business("JP", "AE")
	in.User.IndividualTaxIDNeededCountries = []string{"AE"}
	assert.Equal(t, r.Resolve(in), r.Resolve(in))
}
