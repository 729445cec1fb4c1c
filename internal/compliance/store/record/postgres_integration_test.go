//go:build integration

package record_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/sealer"
	"payoutkyc/internal/compliance/store/record"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	storeContract
	postgres *containers.PostgresContainer
	sealer   *sealer.Sealer
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	key, err := sealer.GenerateKey()
	s.Require().NoError(err)
	s.sealer, err = sealer.New(key)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "compliance_records"))
	s.store = record.NewPostgres(s.postgres.DB, record.WithPostgresSealer(s.sealer))
}

// TestTaxIDsAreSealedAtRest reads the raw JSONB to check no tax ID is
// stored in the clear.
func (s *PostgresStoreSuite) TestTaxIDsAreSealedAtRest() {
	ctx := context.Background()
	userID := id.NewUserID()
	_, err := s.store.Update(ctx, userID, func(c models.ComplianceInfo) (models.ComplianceInfo, error) {
		c.IndividualTaxID = "123-45-6789"
		c.City = "Austin"
		return c, nil
	})
	s.Require().NoError(err)

	var taxID, city string
	err = s.postgres.DB.QueryRowContext(ctx,
		`SELECT info->>'individual_tax_id', info->>'city' FROM compliance_records WHERE user_id = $1`,
		userID.String(),
	).Scan(&taxID, &city)
	s.Require().NoError(err)
	s.Equal("Austin", city)
	s.NotContains(taxID, "6789")
	s.Contains(taxID, "sb1:")
}

// TestLegacyPlaintextRowsStillRead covers rows written before sealing was
// enabled.
func (s *PostgresStoreSuite) TestLegacyPlaintextRowsStillRead() {
	ctx := context.Background()
	userID := id.NewUserID()
	_, err := s.postgres.Exec(ctx,
		`INSERT INTO compliance_records (user_id, info) VALUES ($1, '{"individual_tax_id":"987654321","country":"BR"}'::jsonb)`,
		userID.String(),
	)
	s.Require().NoError(err)

	found, err := s.store.Find(ctx, userID)
	s.Require().NoError(err)
	s.Equal("987654321", found.IndividualTaxID)
	s.Equal("BR", found.Country)
}

func (s *PostgresStoreSuite) TestCorruptRowSurfacesError() {
	ctx := context.Background()
	userID := id.NewUserID()
	_, err := s.postgres.Exec(ctx,
		`INSERT INTO compliance_records (user_id, info) VALUES ($1, '{"dob_year":"not-a-number"}'::jsonb)`,
		userID.String(),
	)
	s.Require().NoError(err)

	_, err = s.store.Find(ctx, userID)
	s.Require().ErrorContains(err, "decode compliance record")
}
