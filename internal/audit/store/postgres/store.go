package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"payoutkyc/internal/audit"
	id "payoutkyc/pkg/domain"
)

// Store persists audit events in the audit_events table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts event. Re-appending the same event ID is a no-op so
// redelivery after a timeout is harmless.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (id, timestamp, user_id, action, fields, request_id, device, device_fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	fields := event.Fields
	if fields == nil {
		fields = []string{}
	}
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		uuid.UUID(event.UserID),
		string(event.Action),
		pq.Array(fields),
		event.RequestID,
		event.Device,
		event.DeviceFingerprint,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByUser returns events for a user, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	query := `
		SELECT id, timestamp, user_id, action, fields, request_id, device, device_fingerprint
		FROM audit_events
		WHERE user_id = $1
		ORDER BY timestamp ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event  audit.Event
			uid    uuid.UUID
			action string
			fields []string
		)
		if err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&uid,
			&action,
			pq.Array(&fields),
			&event.RequestID,
			&event.Device,
			&event.DeviceFingerprint,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.UserID = id.UserID(uid)
		event.Action = audit.Action(action)
		event.Fields = fields
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
