package models

// ComplianceInfo is the identity, address and tax snapshot backing the
// account details form. Empty strings and zero DOB parts mean "unset".
type ComplianceInfo struct {
	IsBusiness bool `json:"is_business"`

	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FirstNameKanji string `json:"first_name_kanji"`
	LastNameKanji  string `json:"last_name_kanji"`
	FirstNameKana  string `json:"first_name_kana"`
	LastNameKana   string `json:"last_name_kana"`
	JobTitle       string `json:"job_title"`

	StreetAddress      string `json:"street_address"`
	BuildingNumber     string `json:"building_number"`
	StreetAddressKanji string `json:"street_address_kanji"`
	StreetAddressKana  string `json:"street_address_kana"`
	City               string `json:"city"`
	State              string `json:"state"`
	ZipCode            string `json:"zip_code"`
	Country            string `json:"country"`
	Phone              string `json:"phone"`

	DOBMonth int `json:"dob_month"`
	DOBDay   int `json:"dob_day"`
	DOBYear  int `json:"dob_year"`

	Nationality     string `json:"nationality"`
	IndividualTaxID string `json:"individual_tax_id"`

	BusinessName               string `json:"business_name"`
	BusinessNameKanji          string `json:"business_name_kanji"`
	BusinessNameKana           string `json:"business_name_kana"`
	BusinessType               string `json:"business_type"`
	BusinessStreetAddress      string `json:"business_street_address"`
	BusinessBuildingNumber     string `json:"business_building_number"`
	BusinessStreetAddressKanji string `json:"business_street_address_kanji"`
	BusinessStreetAddressKana  string `json:"business_street_address_kana"`
	BusinessCity               string `json:"business_city"`
	BusinessState              string `json:"business_state"`
	BusinessZipCode            string `json:"business_zip_code"`
	BusinessCountry            string `json:"business_country"`
	BusinessPhone              string `json:"business_phone"`
	BusinessTaxID              string `json:"business_tax_id"`

	UpdatedCountryCode string `json:"updated_country_code,omitempty"`
}

// PrimaryCountry is the country the account is onboarded in: the business
// country for business accounts, the personal country otherwise.
func (c ComplianceInfo) PrimaryCountry() string {
	if c.IsBusiness {
		return c.BusinessCountry
	}
	return c.Country
}

// Redacted returns a copy safe to echo to clients and logs.
func (c ComplianceInfo) Redacted() ComplianceInfo {
	c.IndividualTaxID = ""
	c.BusinessTaxID = ""
	return c
}

// stringFields maps every free-text or single-select field to its storage.
func (c *ComplianceInfo) stringFields() map[FieldName]*string {
	return map[FieldName]*string{
		FieldFirstName:                  &c.FirstName,
		FieldLastName:                   &c.LastName,
		FieldFirstNameKanji:             &c.FirstNameKanji,
		FieldLastNameKanji:              &c.LastNameKanji,
		FieldFirstNameKana:              &c.FirstNameKana,
		FieldLastNameKana:               &c.LastNameKana,
		FieldJobTitle:                   &c.JobTitle,
		FieldStreetAddress:              &c.StreetAddress,
		FieldBuildingNumber:             &c.BuildingNumber,
		FieldStreetAddressKanji:         &c.StreetAddressKanji,
		FieldStreetAddressKana:          &c.StreetAddressKana,
		FieldCity:                       &c.City,
		FieldState:                      &c.State,
		FieldZipCode:                    &c.ZipCode,
		FieldCountry:                    &c.Country,
		FieldPhone:                      &c.Phone,
		FieldNationality:                &c.Nationality,
		FieldIndividualTaxID:            &c.IndividualTaxID,
		FieldBusinessName:               &c.BusinessName,
		FieldBusinessNameKanji:          &c.BusinessNameKanji,
		FieldBusinessNameKana:           &c.BusinessNameKana,
		FieldBusinessType:               &c.BusinessType,
		FieldBusinessStreetAddress:      &c.BusinessStreetAddress,
		FieldBusinessBuildingNumber:     &c.BusinessBuildingNumber,
		FieldBusinessStreetAddressKanji: &c.BusinessStreetAddressKanji,
		FieldBusinessStreetAddressKana:  &c.BusinessStreetAddressKana,
		FieldBusinessCity:               &c.BusinessCity,
		FieldBusinessState:              &c.BusinessState,
		FieldBusinessZipCode:            &c.BusinessZipCode,
		FieldBusinessCountry:            &c.BusinessCountry,
		FieldBusinessPhone:              &c.BusinessPhone,
		FieldBusinessTaxID:              &c.BusinessTaxID,
		FieldUpdatedCountryCode:         &c.UpdatedCountryCode,
	}
}

func (c *ComplianceInfo) intFields() map[FieldName]*int {
	return map[FieldName]*int{
		FieldDOBMonth: &c.DOBMonth,
		FieldDOBDay:   &c.DOBDay,
		FieldDOBYear:  &c.DOBYear,
	}
}

// StringValue returns the current value of a string field and whether f is
// one.
func (c ComplianceInfo) StringValue(f FieldName) (string, bool) {
	p, ok := c.stringFields()[f]
	if !ok {
		return "", false
	}
	return *p, true
}

// IsIntField reports whether f holds an integer (the DOB parts).
func IsIntField(f FieldName) bool {
	switch f {
	case FieldDOBMonth, FieldDOBDay, FieldDOBYear:
		return true
	}
	return false
}
