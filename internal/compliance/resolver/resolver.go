// Package resolver derives the field plan of the account details form from a
// compliance snapshot and the user's profile flags. Resolution is pure: the
// same input always yields the same plan and nothing is cached.
package resolver

import (
	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/options"
	"payoutkyc/internal/compliance/rules"
)

// Catalog supplies the selector option lists.
type Catalog interface {
	Countries() []models.Option
	Subdivisions(key string) []models.Option
	BusinessTypes(key string) []models.Option
}

// Input is everything a plan depends on.
type Input struct {
	Info          models.ComplianceInfo
	User          models.User
	PayoutMethod  models.PayoutMethod
	InvalidFields models.FieldSet
	// MinDOBYear bounds the year selector; years before it are offered.
	MinDOBYear int
}

// Resolver turns an Input into a FieldPlan.
type Resolver struct {
	catalog Catalog
}

// New creates a Resolver backed by catalog.
func New(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve computes the plan for in. Every candidate field appears in the
// result in display order; hidden fields carry Visible=false.
func (r *Resolver) Resolve(in Input) models.FieldPlan {
	b := newPlanBuilder()

	b.show(models.FieldIsBusiness, false)
	if in.Info.IsBusiness {
		r.resolveBusiness(b, in.Info, in.User)
	}
	r.resolvePersonal(b, in.Info)
	r.resolveIdentity(b, in)

	return b.build(in.InvalidFields, warningsFor(in))
}

func (r *Resolver) resolveBusiness(b *planBuilder, info models.ComplianceInfo, user models.User) {
	country := info.BusinessCountry
	entry := rules.Lookup(country)

	b.show(models.FieldBusinessName, true)
	b.show(models.FieldBusinessType, true).Options = r.businessTypes(entry)

	if entry.JapaneseScripts {
		b.show(models.FieldBusinessNameKanji, true)
		b.show(models.FieldBusinessNameKana, true)
		b.show(models.FieldBusinessBuildingNumber, true)
		b.show(models.FieldBusinessStreetAddressKanji, true)
		b.show(models.FieldBusinessStreetAddressKana, true)
	} else {
		b.show(models.FieldBusinessStreetAddress, false)
	}

	b.show(models.FieldBusinessCity, false)
	if sub := entry.BusinessSubdivision; sub != nil {
		r.subdivision(b.show(models.FieldBusinessState, true), sub)
	}

	zip := b.show(models.FieldBusinessZipCode, true)
	zip.Label, zip.LabelID = rules.PostalCodeLabel(country)

	b.show(models.FieldBusinessCountry, true).Options = r.catalog.Countries()
	b.show(models.FieldBusinessPhone, true)

	if user.CountrySupportsNativePayouts || country == rules.CountryAE {
		tax := rules.BusinessTaxIDFor(country)
		spec := b.show(models.FieldBusinessTaxID, true)
		spec.Label = tax.Label
		spec.LabelID = tax.LabelID
		spec.Constraints.Placeholder = placeholder(tax.Placeholder, user.BusinessTaxIDEntered)
	}
}

func (r *Resolver) resolvePersonal(b *planBuilder, info models.ComplianceInfo) {
	country := info.Country
	entry := rules.Lookup(country)

	b.show(models.FieldFirstName, true)
	b.show(models.FieldLastName, true)
	if info.IsBusiness && country == rules.CountryCA {
		b.show(models.FieldJobTitle, true)
	}

	if entry.JapaneseScripts {
		b.show(models.FieldFirstNameKanji, true)
		b.show(models.FieldLastNameKanji, true)
		b.show(models.FieldFirstNameKana, true)
		b.show(models.FieldLastNameKana, true)
		b.show(models.FieldBuildingNumber, true)
		b.show(models.FieldStreetAddressKanji, true)
		b.show(models.FieldStreetAddressKana, true)
	} else {
		b.show(models.FieldStreetAddress, true)
	}

	b.show(models.FieldCity, true)
	if sub := entry.Subdivision; sub != nil {
		r.subdivision(b.show(models.FieldState, true), sub)
	}

	zip := b.show(models.FieldZipCode, true)
	zip.Label, zip.LabelID = rules.PostalCodeLabel(country)
	zip.Constraints.Placeholder = zip.Label

	b.show(models.FieldCountry, false).Options = r.catalog.Countries()
	b.show(models.FieldPhone, true)
}

func (r *Resolver) resolveIdentity(b *planBuilder, in Input) {
	b.show(models.FieldDOBMonth, true).Options = options.Months()
	b.show(models.FieldDOBDay, true).Options = options.Days()
	b.show(models.FieldDOBYear, true).Options = options.Years(in.MinDOBYear)

	if rules.Lookup(in.User.CountryCode).Nationality {
		b.show(models.FieldNationality, false).Options = r.catalog.Countries()
	}

	if !individualTaxIDNeeded(in.Info, in.User) {
		return
	}
	tax, ok := rules.IndividualTaxIDFor(in.Info.Country, in.User.NeedFullSSN)
	if !ok {
		return
	}
	spec := b.show(models.FieldIndividualTaxID, true)
	spec.Label = tax.Label
	spec.LabelID = tax.LabelID
	spec.Constraints = models.Constraints{
		MinLength:   tax.MinLength,
		MaxLength:   tax.MaxLength,
		Placeholder: placeholder(tax.Placeholder, in.User.IndividualTaxIDEntered),
	}
}

// individualTaxIDNeeded checks the business country for business accounts
// and the personal country for everyone.
func individualTaxIDNeeded(info models.ComplianceInfo, user models.User) bool {
	if info.IsBusiness && user.NeedsIndividualTaxID(info.BusinessCountry) {
		return true
	}
	return user.NeedsIndividualTaxID(info.Country)
}

func (r *Resolver) businessTypes(entry rules.Entry) []models.Option {
	if entry.BusinessTypes != "" {
		return r.catalog.BusinessTypes(entry.BusinessTypes)
	}
	return append([]models.Option(nil), rules.GenericBusinessTypes...)
}

func (r *Resolver) subdivision(spec *models.FieldSpec, sub *rules.Subdivision) {
	spec.Label = sub.Label
	spec.LabelID = sub.LabelID
	spec.Constraints.Placeholder = sub.Label
	spec.Options = r.catalog.Subdivisions(sub.OptionSet)
}

func placeholder(base string, entered bool) string {
	if entered {
		return rules.HiddenPlaceholder
	}
	return base
}

func warningsFor(in Input) []models.Warning {
	warnings := []models.Warning{}
	if in.PayoutMethod != models.PayoutMethodPayPal &&
		in.User.CountryCode == rules.CountryAE &&
		!in.Info.IsBusiness {
		warnings = append(warnings, models.Warning{
			Code:      models.WarningUAEIndividualUnsupported,
			Message:   uaeIndividualMessage,
			MessageID: "warning_uae_individual_unsupported",
		})
	}
	return warnings
}
