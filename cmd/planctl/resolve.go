package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"payoutkyc/internal/compliance/labels"
	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/options"
	"payoutkyc/internal/compliance/resolver"
	"payoutkyc/internal/platform/config"
	platformstrings "payoutkyc/pkg/platform/strings"
)

type resolveFlags struct {
	recordPath      string
	country         string
	business        bool
	businessCountry string
	userCountry     string
	nativePayouts   bool
	fullSSN         bool
	taxIDCountries  string
	taxIDEntered    bool
	businessEntered bool
	payoutMethod    string
	invalid         string
	lang            string
	catalogPath     string
	minAge          int
	visibleOnly     bool
}

func newResolveCmd() *cobra.Command {
	var f resolveFlags
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the field plan for a compliance snapshot",
		Example: `  planctl resolve --country JP --business --business-country US
  planctl resolve --record snapshot.json --tax-id-countries US --lang es`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(f.catalogPath)
			if err != nil {
				return err
			}
			plan := resolver.New(catalog).Resolve(in)

			if f.lang != "" {
				localizer, err := labels.New(nil)
				if err != nil {
					return err
				}
				plan = localizer.Localize(plan, f.lang)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if f.visibleOnly {
				return enc.Encode(visiblePlan(plan))
			}
			return enc.Encode(plan)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.recordPath, "record", "", "JSON file holding a compliance snapshot; flags override its fields")
	fl.StringVar(&f.country, "country", "", "personal country code")
	fl.BoolVar(&f.business, "business", false, "resolve as a business account")
	fl.StringVar(&f.businessCountry, "business-country", "", "business country code")
	fl.StringVar(&f.userCountry, "user-country", "", "account country code (defaults to the primary country)")
	fl.BoolVar(&f.nativePayouts, "native-payouts", false, "the account country supports native payouts")
	fl.BoolVar(&f.fullSSN, "full-ssn", false, "require the full SSN instead of the last four digits")
	fl.StringVar(&f.taxIDCountries, "tax-id-countries", "", "comma separated countries that need an individual tax ID")
	fl.BoolVar(&f.taxIDEntered, "tax-id-entered", false, "an individual tax ID is already stored")
	fl.BoolVar(&f.businessEntered, "business-tax-id-entered", false, "a business tax ID is already stored")
	fl.StringVar(&f.payoutMethod, "payout-method", string(models.PayoutMethodBank), "bank, card, paypal or stripe_connect")
	fl.StringVar(&f.invalid, "invalid", "", "comma separated fields to flag invalid")
	fl.StringVar(&f.lang, "lang", "", "localize labels (en, es)")
	fl.StringVar(&f.catalogPath, "catalog", "", "option catalog file; defaults to the embedded catalog")
	fl.IntVar(&f.minAge, "min-age", 13, "youngest allowed account holder age")
	fl.BoolVar(&f.visibleOnly, "visible-only", false, "print only displayed fields")
	return cmd
}

func (f resolveFlags) input() (resolver.Input, error) {
	var info models.ComplianceInfo
	if f.recordPath != "" {
		raw, err := os.ReadFile(f.recordPath)
		if err != nil {
			return resolver.Input{}, fmt.Errorf("reading record: %w", err)
		}
		if err := json.Unmarshal(raw, &info); err != nil {
			return resolver.Input{}, fmt.Errorf("parsing record: %w", err)
		}
	}
	if f.country != "" {
		info.Country = strings.ToUpper(f.country)
	}
	if f.business {
		info.IsBusiness = true
	}
	if f.businessCountry != "" {
		info.BusinessCountry = strings.ToUpper(f.businessCountry)
	}

	userCountry := strings.ToUpper(f.userCountry)
	if userCountry == "" {
		userCountry = info.PrimaryCountry()
	}

	var invalid []models.FieldName
	for _, name := range platformstrings.DedupeAndTrim(strings.Split(f.invalid, ",")) {
		field, err := models.ParseFieldName(name)
		if err != nil {
			return resolver.Input{}, err
		}
		invalid = append(invalid, field)
	}

	return resolver.Input{
		Info: info,
		User: models.User{
			CountryCode:                    userCountry,
			CountrySupportsNativePayouts:   f.nativePayouts,
			NeedFullSSN:                    f.fullSSN,
			IndividualTaxIDEntered:         f.taxIDEntered,
			BusinessTaxIDEntered:           f.businessEntered,
			IndividualTaxIDNeededCountries: platformstrings.SplitCSV(f.taxIDCountries),
		},
		PayoutMethod:  models.PayoutMethod(strings.ToLower(f.payoutMethod)),
		InvalidFields: models.NewFieldSet(invalid...),
		MinDOBYear:    config.ComplianceConfig{MinAge: f.minAge}.MinDOBYear(time.Now()),
	}, nil
}

func loadCatalog(path string) (*options.Catalog, error) {
	if path == "" {
		return options.Load()
	}
	return options.LoadFile(path)
}

// visiblePlan drops hidden fields and option lists to keep the output short.
func visiblePlan(plan models.FieldPlan) models.FieldPlan {
	out := models.FieldPlan{Warnings: plan.Warnings}
	for _, spec := range plan.Fields {
		if !spec.Visible {
			continue
		}
		spec.Options = nil
		out.Fields = append(out.Fields, spec)
	}
	return out
}
