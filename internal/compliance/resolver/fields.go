package resolver

import "payoutkyc/internal/compliance/models"

// fieldDef is the country-independent presentation of an input.
type fieldDef struct {
	label       string
	labelID     string
	placeholder string
}

var fieldDefs = map[models.FieldName]fieldDef{
	models.FieldIsBusiness: {"Account type", "field_account_type", ""},

	models.FieldBusinessName:               {"Legal business name", "field_business_name", "Acme"},
	models.FieldBusinessType:               {"Type", "field_business_type", "Type"},
	models.FieldBusinessNameKanji:          {"Business Name (Kanji)", "field_business_name_kanji", "Legal Business Name (Kanji)"},
	models.FieldBusinessNameKana:           {"Legal Business Name (Kana)", "field_business_name_kana", "Business Name (Kana)"},
	models.FieldBusinessBuildingNumber:     {"Business Block / Building Number", "field_business_building_number", "1-1"},
	models.FieldBusinessStreetAddressKanji: {"Business Street Address (Kanji)", "field_business_street_address_kanji", "Business Street Address (Kanji)"},
	models.FieldBusinessStreetAddressKana:  {"Business Street Address (Kana)", "field_business_street_address_kana", "Business Street Address (Kana)"},
	models.FieldBusinessStreetAddress:      {"Address", "field_street_address", "123 smith street"},
	models.FieldBusinessCity:               {"City", "field_city", "Springfield"},
	models.FieldBusinessState:              {"State", "subdivision_state", "State"},
	models.FieldBusinessZipCode:            {"Postal code", "postal_code_generic", "12345"},
	models.FieldBusinessCountry:            {"Country", "field_country", ""},
	models.FieldBusinessPhone:              {"Business phone number", "field_business_phone", "555-555-5555"},
	models.FieldBusinessTaxID:              {"Company tax ID", "business_tax_id_default", "12345678"},

	models.FieldFirstName:          {"First name", "field_first_name", "First name"},
	models.FieldLastName:           {"Last name", "field_last_name", "Last name"},
	models.FieldJobTitle:           {"Job title", "field_job_title", "CEO"},
	models.FieldFirstNameKanji:     {"First name (Kanji)", "field_first_name_kanji", "First name (Kanji)"},
	models.FieldLastNameKanji:      {"Last name (Kanji)", "field_last_name_kanji", "Last name (Kanji)"},
	models.FieldFirstNameKana:      {"First name (Kana)", "field_first_name_kana", "First name (Kana)"},
	models.FieldLastNameKana:       {"Last name (Kana)", "field_last_name_kana", "Last name (Kana)"},
	models.FieldBuildingNumber:     {"Block / Building Number", "field_building_number", "1-1"},
	models.FieldStreetAddressKanji: {"Street Address (Kanji)", "field_street_address_kanji", "Street Address (Kanji)"},
	models.FieldStreetAddressKana:  {"Street Address (Kana)", "field_street_address_kana", "Street Address (Kana)"},
	models.FieldStreetAddress:      {"Address", "field_street_address", "Street address"},
	models.FieldCity:               {"City", "field_city", "City"},
	models.FieldState:              {"State", "subdivision_state", "State"},
	models.FieldZipCode:            {"Postal code", "postal_code_generic", "Postal code"},
	models.FieldCountry:            {"Country", "field_country", ""},
	models.FieldPhone:              {"Phone number", "field_phone", "Phone number"},
	models.FieldDOBMonth:           {"Month", "field_dob_month", "Month"},
	models.FieldDOBDay:             {"Day", "field_dob_day", "Day"},
	models.FieldDOBYear:            {"Year", "field_dob_year", "Year"},
	models.FieldNationality:        {"Nationality", "field_nationality", "Nationality"},
	models.FieldIndividualTaxID:    {"Tax ID", "tax_id_generic", ""},
}

// uaeIndividualMessage is shown when a UAE individual account cannot be paid
// out by the selected method.
const uaeIndividualMessage = "Individual accounts from the UAE are not supported. Please use a business account."
