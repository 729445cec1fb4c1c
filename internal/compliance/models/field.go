package models

import (
	dErrors "payoutkyc/pkg/domain-errors"
)

// FieldName identifies one input of the account details form. The value is
// the JSON key of the ComplianceInfo field the input edits.
type FieldName string

const (
	FieldIsBusiness FieldName = "is_business"

	FieldBusinessName               FieldName = "business_name"
	FieldBusinessType               FieldName = "business_type"
	FieldBusinessNameKanji          FieldName = "business_name_kanji"
	FieldBusinessNameKana           FieldName = "business_name_kana"
	FieldBusinessBuildingNumber     FieldName = "business_building_number"
	FieldBusinessStreetAddressKanji FieldName = "business_street_address_kanji"
	FieldBusinessStreetAddressKana  FieldName = "business_street_address_kana"
	FieldBusinessStreetAddress      FieldName = "business_street_address"
	FieldBusinessCity               FieldName = "business_city"
	FieldBusinessState              FieldName = "business_state"
	FieldBusinessZipCode            FieldName = "business_zip_code"
	FieldBusinessCountry            FieldName = "business_country"
	FieldBusinessPhone              FieldName = "business_phone"
	FieldBusinessTaxID              FieldName = "business_tax_id"

	FieldFirstName          FieldName = "first_name"
	FieldLastName           FieldName = "last_name"
	FieldJobTitle           FieldName = "job_title"
	FieldFirstNameKanji     FieldName = "first_name_kanji"
	FieldLastNameKanji      FieldName = "last_name_kanji"
	FieldFirstNameKana      FieldName = "first_name_kana"
	FieldLastNameKana       FieldName = "last_name_kana"
	FieldBuildingNumber     FieldName = "building_number"
	FieldStreetAddressKanji FieldName = "street_address_kanji"
	FieldStreetAddressKana  FieldName = "street_address_kana"
	FieldStreetAddress      FieldName = "street_address"
	FieldCity               FieldName = "city"
	FieldState              FieldName = "state"
	FieldZipCode            FieldName = "zip_code"
	FieldCountry            FieldName = "country"
	FieldPhone              FieldName = "phone"
	FieldDOBMonth           FieldName = "dob_month"
	FieldDOBDay             FieldName = "dob_day"
	FieldDOBYear            FieldName = "dob_year"
	FieldNationality        FieldName = "nationality"
	FieldIndividualTaxID    FieldName = "individual_tax_id"

	// FieldUpdatedCountryCode is patch-only: it requests a change of the
	// account's primary country rather than naming a rendered input.
	FieldUpdatedCountryCode FieldName = "updated_country_code"
)

// FormFields lists every candidate input in display order.
var FormFields = []FieldName{
	FieldIsBusiness,
	FieldBusinessName,
	FieldBusinessType,
	FieldBusinessNameKanji,
	FieldBusinessNameKana,
	FieldBusinessBuildingNumber,
	FieldBusinessStreetAddressKanji,
	FieldBusinessStreetAddressKana,
	FieldBusinessStreetAddress,
	FieldBusinessCity,
	FieldBusinessState,
	FieldBusinessZipCode,
	FieldBusinessCountry,
	FieldBusinessPhone,
	FieldBusinessTaxID,
	FieldFirstName,
	FieldLastName,
	FieldJobTitle,
	FieldFirstNameKanji,
	FieldLastNameKanji,
	FieldFirstNameKana,
	FieldLastNameKana,
	FieldBuildingNumber,
	FieldStreetAddressKanji,
	FieldStreetAddressKana,
	FieldStreetAddress,
	FieldCity,
	FieldState,
	FieldZipCode,
	FieldCountry,
	FieldPhone,
	FieldDOBMonth,
	FieldDOBDay,
	FieldDOBYear,
	FieldNationality,
	FieldIndividualTaxID,
}

var knownFields = func() map[FieldName]struct{} {
	m := make(map[FieldName]struct{}, len(FormFields)+1)
	for _, f := range FormFields {
		m[f] = struct{}{}
	}
	m[FieldUpdatedCountryCode] = struct{}{}
	return m
}()

// ParseFieldName validates a field name received from a client.
func ParseFieldName(s string) (FieldName, error) {
	f := FieldName(s)
	if _, ok := knownFields[f]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown field: "+s)
	}
	return f, nil
}

// IsSensitive reports whether values of f must never be logged or echoed.
func (f FieldName) IsSensitive() bool {
	return f == FieldIndividualTaxID || f == FieldBusinessTaxID
}

// FieldSet is the parent-supplied set of fields currently failing validation.
type FieldSet map[FieldName]struct{}

// NewFieldSet builds a set from names, skipping unknown ones.
func NewFieldSet(names ...FieldName) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		if _, ok := knownFields[n]; ok {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports membership; a nil set contains nothing.
func (s FieldSet) Has(f FieldName) bool {
	_, ok := s[f]
	return ok
}
