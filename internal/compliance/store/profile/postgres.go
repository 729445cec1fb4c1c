package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"payoutkyc/internal/compliance/models"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/platform/sentinel"
)

// PostgresStore persists profiles in payout_profiles.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const profileColumns = `user_id, country_code, country_supports_native_payouts, need_full_ssn,
	individual_tax_id_entered, business_tax_id_entered, individual_tax_id_needed_countries,
	payout_method, updated_at`

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM payout_profiles WHERE user_id = $1`,
		userID.String(),
	)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("find payout profile: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Save(ctx context.Context, p models.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payout_profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			country_code = EXCLUDED.country_code,
			country_supports_native_payouts = EXCLUDED.country_supports_native_payouts,
			need_full_ssn = EXCLUDED.need_full_ssn,
			individual_tax_id_entered = EXCLUDED.individual_tax_id_entered,
			business_tax_id_entered = EXCLUDED.business_tax_id_entered,
			individual_tax_id_needed_countries = EXCLUDED.individual_tax_id_needed_countries,
			payout_method = EXCLUDED.payout_method,
			updated_at = NOW()
	`, profileArgs(p)...)
	if err != nil {
		return fmt.Errorf("save payout profile: %w", err)
	}
	return nil
}

// MarkTaxIDEntered sets one entered flag in a single statement so two
// concurrent tax ID edits cannot clear each other's flag. A missing row is
// inserted from seed.
func (s *PostgresStore) MarkTaxIDEntered(ctx context.Context, seed models.Profile, field models.FieldName) (models.Profile, error) {
	var column string
	switch field {
	case models.FieldIndividualTaxID:
		column = "individual_tax_id_entered"
	case models.FieldBusinessTaxID:
		column = "business_tax_id_entered"
	default:
		return models.Profile{}, fmt.Errorf("mark tax id entered: %s is not a tax id field", field)
	}

	seed.MarkTaxIDEntered(field)
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO payout_profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET `+column+` = TRUE, updated_at = NOW()
		RETURNING `+profileColumns,
		profileArgs(seed)...,
	)
	p, err := scanProfile(row)
	if err != nil {
		return models.Profile{}, fmt.Errorf("mark tax id entered: %w", err)
	}
	return p, nil
}

func profileArgs(p models.Profile) []any {
	countries := p.User.IndividualTaxIDNeededCountries
	if countries == nil {
		countries = []string{}
	}
	return []any{
		p.UserID.String(),
		p.User.CountryCode,
		p.User.CountrySupportsNativePayouts,
		p.User.NeedFullSSN,
		p.User.IndividualTaxIDEntered,
		p.User.BusinessTaxIDEntered,
		pq.Array(countries),
		string(p.PayoutMethod),
	}
}

func scanProfile(row *sql.Row) (models.Profile, error) {
	var (
		p       models.Profile
		userID  string
		method  string
		needFor []string
	)
	if err := row.Scan(
		&userID,
		&p.User.CountryCode,
		&p.User.CountrySupportsNativePayouts,
		&p.User.NeedFullSSN,
		&p.User.IndividualTaxIDEntered,
		&p.User.BusinessTaxIDEntered,
		pq.Array(&needFor),
		&method,
		&p.UpdatedAt,
	); err != nil {
		return models.Profile{}, err
	}
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("stored profile has bad user id: %w", err)
	}
	p.UserID = parsed
	p.PayoutMethod = models.PayoutMethod(method)
	p.User.IndividualTaxIDNeededCountries = needFor
	return p, nil
}
