// Package edit turns a single user edit of the account details form into the
// partial patch the record store applies. Builders are pure: they read the
// current snapshot and never modify it.
package edit

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/phone"
	dErrors "payoutkyc/pkg/domain-errors"
)

// Action names an edit that is not a single field change.
type Action string

const (
	// ActionCopyBusinessAddress fills the personal address from the business
	// address ("same as business").
	ActionCopyBusinessAddress Action = "copy_business_address"
)

// Account type values accepted for the is_business field.
const (
	AccountTypeIndividual = "individual"
	AccountTypeBusiness   = "business"
)

// Edit is one user interaction. Exactly one of Field or Action is set. Value
// is what a JSON decoder produces: string, float64, json.Number, bool or nil.
type Edit struct {
	Field  models.FieldName
	Value  any
	Action Action
}

// Builder converts edits into patches.
type Builder struct {
	onPhoneFallback func(field models.FieldName)
}

// Option configures a Builder.
type Option func(*Builder)

// WithPhoneFallback registers fn to be called whenever a phone number could
// not be normalized and the raw input was kept.
func WithPhoneFallback(fn func(field models.FieldName)) Option {
	return func(b *Builder) {
		b.onPhoneFallback = fn
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var defaultBuilder = NewBuilder()

// Build converts e into a patch using the default builder.
func Build(info models.ComplianceInfo, e Edit) (models.Patch, error) {
	return defaultBuilder.Build(info, e)
}

// Build converts e into a patch against the snapshot info.
func (b *Builder) Build(info models.ComplianceInfo, e Edit) (models.Patch, error) {
	if e.Action != "" {
		if e.Field != "" {
			return nil, dErrors.New(dErrors.CodeValidation, "edit must set either field or action")
		}
		return buildAction(info, e.Action)
	}
	if e.Field == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "field is required")
	}
	if _, err := models.ParseFieldName(string(e.Field)); err != nil {
		return nil, err
	}

	switch e.Field {
	case models.FieldIsBusiness:
		return buildAccountType(info, e.Value)
	case models.FieldUpdatedCountryCode:
		return nil, dErrors.New(dErrors.CodeValidation, "field is not editable: "+string(e.Field))
	case models.FieldBusinessCountry:
		v, err := stringOrNil(e.Field, e.Value)
		if err != nil {
			return nil, err
		}
		return models.Patch{models.FieldUpdatedCountryCode: v}, nil
	case models.FieldCountry:
		v, err := stringOrNil(e.Field, e.Value)
		if err != nil {
			return nil, err
		}
		if info.IsBusiness {
			return models.Patch{models.FieldCountry: v}, nil
		}
		return models.Patch{models.FieldUpdatedCountryCode: v}, nil
	case models.FieldPhone:
		return b.buildPhone(e.Field, e.Value, info.Country)
	case models.FieldBusinessPhone:
		return b.buildPhone(e.Field, e.Value, info.BusinessCountry)
	}

	if models.IsIntField(e.Field) {
		n, err := intOrNil(e.Field, e.Value)
		if err != nil {
			return nil, err
		}
		return models.Patch{e.Field: n}, nil
	}

	v, err := stringOrNil(e.Field, e.Value)
	if err != nil {
		return nil, err
	}
	return models.Patch{e.Field: v}, nil
}

func buildAction(info models.ComplianceInfo, action Action) (models.Patch, error) {
	switch action {
	case ActionCopyBusinessAddress:
		return models.Patch{
			models.FieldStreetAddress: info.BusinessStreetAddress,
			models.FieldCity:          info.BusinessCity,
			models.FieldState:         info.BusinessState,
			models.FieldZipCode:       info.BusinessZipCode,
		}, nil
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown action: "+string(action))
	}
}

// buildAccountType seeds business_country from country when switching to a
// business account without one.
func buildAccountType(info models.ComplianceInfo, value any) (models.Patch, error) {
	isBusiness, err := parseAccountType(value)
	if err != nil {
		return nil, err
	}
	if !isBusiness {
		return models.Patch{models.FieldIsBusiness: false}, nil
	}

	country := info.BusinessCountry
	if country == "" {
		country = info.Country
	}
	var seeded any
	if country != "" {
		seeded = country
	}
	return models.Patch{
		models.FieldIsBusiness:      true,
		models.FieldBusinessCountry: seeded,
	}, nil
}

func parseAccountType(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case AccountTypeBusiness:
			return true, nil
		case AccountTypeIndividual:
			return false, nil
		}
	}
	return false, dErrors.New(dErrors.CodeValidation,
		fmt.Sprintf("account type must be %q or %q", AccountTypeIndividual, AccountTypeBusiness))
}

func (b *Builder) buildPhone(field models.FieldName, value any, region string) (models.Patch, error) {
	raw, err := stringOrNil(field, value)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return models.Patch{field: nil}, nil
	}
	s := raw.(string)
	formatted, ferr := phone.Format(s, region)
	if ferr != nil {
		if s != "" && b.onPhoneFallback != nil {
			b.onPhoneFallback(field)
		}
		return models.Patch{field: s}, nil
	}
	return models.Patch{field: formatted}, nil
}

// stringOrNil returns value as a patch value: a string or nil for a cleared
// selection.
func stringOrNil(field models.FieldName, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	default:
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be a string", field))
	}
}

// intOrNil accepts numeric selector ids in either JSON form.
func intOrNil(field models.FieldName, value any) (any, error) {
	invalid := dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be a whole number", field))
	var n int
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		n = v
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return nil, invalid
		}
		n = int(v)
	case json.Number:
		parsed, err := strconv.Atoi(v.String())
		if err != nil {
			return nil, invalid
		}
		n = parsed
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, invalid
		}
		n = parsed
	default:
		return nil, invalid
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return nil, invalid
	}
	return n, nil
}
