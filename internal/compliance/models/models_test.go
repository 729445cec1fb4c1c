package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "payoutkyc/pkg/domain-errors"
)

func TestApply(t *testing.T) {
	base := ComplianceInfo{Country: "US", FirstName: "Ada", DOBYear: 1990}

	t.Run("does not modify the input", func(t *testing.T) {
		next, err := Apply(base, Patch{FieldFirstName: "Grace"})
		require.NoError(t, err)
		assert.Equal(t, "Grace", next.FirstName)
		assert.Equal(t, "Ada", base.FirstName)
	})

	t.Run("nil clears", func(t *testing.T) {
		next, err := Apply(base, Patch{FieldFirstName: nil, FieldDOBYear: nil})
		require.NoError(t, err)
		assert.Empty(t, next.FirstName)
		assert.Zero(t, next.DOBYear)
	})

	t.Run("accepts JSON number forms for DOB parts", func(t *testing.T) {
		next, err := Apply(base, Patch{FieldDOBMonth: float64(4), FieldDOBDay: json.Number("12"), FieldDOBYear: int64(1985)})
		require.NoError(t, err)
		assert.Equal(t, 4, next.DOBMonth)
		assert.Equal(t, 12, next.DOBDay)
		assert.Equal(t, 1985, next.DOBYear)
	})

	t.Run("type errors leave no partial update", func(t *testing.T) {
		next, err := Apply(base, Patch{FieldCity: "Springfield", FieldDOBDay: "twelve"})
		require.Error(t, err)
		assert.Equal(t, base, next)

		_, err = Apply(base, Patch{FieldIsBusiness: "yes"})
		assert.Error(t, err)

		_, err = Apply(base, Patch{FieldDOBDay: 1.5})
		assert.Error(t, err)
	})

	t.Run("out of range integers are rejected", func(t *testing.T) {
		for _, v := range []any{1e300, float64(math.MaxInt32) + 1, int64(math.MinInt32) - 1, json.Number("99999999999")} {
			next, err := Apply(base, Patch{FieldDOBYear: v})
			require.Error(t, err, "%v", v)
			assert.Equal(t, base, next)
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := Apply(base, Patch{"favourite_colour": "blue"})
		assert.ErrorContains(t, err, "not patchable")
	})

	t.Run("country change is recorded as a pending request", func(t *testing.T) {
		for _, isBusiness := range []bool{false, true} {
			info := base
			info.IsBusiness = isBusiness
			info.BusinessCountry = "US"
			next, err := Apply(info, Patch{FieldUpdatedCountryCode: "JP"})
			require.NoError(t, err)
			assert.Equal(t, "JP", next.UpdatedCountryCode)
			assert.Equal(t, info.Country, next.Country)
			assert.Equal(t, "US", next.BusinessCountry)
		}
	})
}

func TestPatchFieldsAreSorted(t *testing.T) {
	p := Patch{FieldZipCode: "1", FieldCity: "x", FieldState: "y"}
	assert.Equal(t, []FieldName{FieldCity, FieldState, FieldZipCode}, p.Fields())
}

func TestRedacted(t *testing.T) {
	info := ComplianceInfo{FirstName: "Ada", IndividualTaxID: "123456789", BusinessTaxID: "12-3456789"}
	red := info.Redacted()
	assert.Empty(t, red.IndividualTaxID)
	assert.Empty(t, red.BusinessTaxID)
	assert.Equal(t, "Ada", red.FirstName)
	assert.Equal(t, "123456789", info.IndividualTaxID)
}

func TestParseFieldName(t *testing.T) {
	for _, f := range FormFields {
		got, err := ParseFieldName(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFieldName("updated_country_code")
	assert.NoError(t, err)

	_, err = ParseFieldName("password")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestEveryFormFieldIsStored(t *testing.T) {
	var info ComplianceInfo
	for _, f := range FormFields {
		if f == FieldIsBusiness || IsIntField(f) {
			continue
		}
		_, ok := info.StringValue(f)
		assert.True(t, ok, f)
	}
}

func TestFieldSet(t *testing.T) {
	s := NewFieldSet(FieldPhone, "bogus")
	assert.True(t, s.Has(FieldPhone))
	assert.False(t, s.Has("bogus"))

	var empty FieldSet
	assert.False(t, empty.Has(FieldPhone))
}

func TestSensitiveFields(t *testing.T) {
	assert.True(t, FieldIndividualTaxID.IsSensitive())
	assert.True(t, FieldBusinessTaxID.IsSensitive())
	assert.False(t, FieldPhone.IsSensitive())
}

func TestUserNeedsIndividualTaxID(t *testing.T) {
	u := User{IndividualTaxIDNeededCountries: []string{"US", "BR"}}
	assert.True(t, u.NeedsIndividualTaxID("BR"))
	assert.False(t, u.NeedsIndividualTaxID("CA"))
	assert.False(t, u.NeedsIndividualTaxID(""))
}

func TestPlanHelpers(t *testing.T) {
	plan := FieldPlan{Fields: []FieldSpec{
		{Name: FieldFirstName, Visible: true},
		{Name: FieldJobTitle},
		{Name: FieldPhone, Visible: true},
	}}
	assert.Equal(t, []FieldName{FieldFirstName, FieldPhone}, plan.Visible())
	_, ok := plan.Field(FieldCity)
	assert.False(t, ok)
	assert.False(t, plan.Blocking())
}
