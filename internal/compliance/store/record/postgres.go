package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/sealer"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/platform/sentinel"
)

// PostgresStore keeps snapshots as JSONB in compliance_records. Tax IDs are
// sealed before they are written when a Sealer is configured.
type PostgresStore struct {
	db     *sql.DB
	sealer *sealer.Sealer
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresSealer seals tax IDs at rest.
func WithPostgresSealer(s *sealer.Sealer) PostgresOption {
	return func(p *PostgresStore) {
		p.sealer = s
	}
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID) (models.ComplianceInfo, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT info FROM compliance_records WHERE user_id = $1`,
		userID.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ComplianceInfo{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("find compliance record: %w", err)
	}
	return s.decode(raw)
}

// Update locks the row for the duration of fn. The row is created first so
// two first-time writers serialize on the same lock.
func (s *PostgresStore) Update(ctx context.Context, userID id.UserID, fn UpdateFunc) (result models.ComplianceInfo, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("begin compliance update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO compliance_records (user_id, info, updated_at)
		VALUES ($1, '{}'::jsonb, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, userID.String()); err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("ensure compliance record: %w", err)
	}

	var raw []byte
	if err = tx.QueryRowContext(ctx,
		`SELECT info FROM compliance_records WHERE user_id = $1 FOR UPDATE`,
		userID.String(),
	).Scan(&raw); err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("lock compliance record: %w", err)
	}

	current, err := s.decode(raw)
	if err != nil {
		return models.ComplianceInfo{}, err
	}
	next, err := fn(current)
	if err != nil {
		return models.ComplianceInfo{}, err
	}
	encoded, err := s.encode(next)
	if err != nil {
		return models.ComplianceInfo{}, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE compliance_records SET info = $2, updated_at = NOW() WHERE user_id = $1`,
		userID.String(), encoded,
	); err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("write compliance record: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("commit compliance update: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) encode(info models.ComplianceInfo) ([]byte, error) {
	sealed, err := s.sealer.SealInfo(info)
	if err != nil {
		return nil, fmt.Errorf("seal compliance record: %w", err)
	}
	raw, err := json.Marshal(sealed)
	if err != nil {
		return nil, fmt.Errorf("encode compliance record: %w", err)
	}
	return raw, nil
}

func (s *PostgresStore) decode(raw []byte) (models.ComplianceInfo, error) {
	var info models.ComplianceInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("decode compliance record: %w", err)
	}
	opened, err := s.sealer.OpenInfo(info)
	if err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("open compliance record: %w", err)
	}
	return opened, nil
}
