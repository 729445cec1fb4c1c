package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "payoutkyc/pkg/domain"
)

// Action names what happened to a compliance record.
type Action string

const (
	ActionFieldUpdated           Action = "compliance_field_updated"
	ActionAddressCopied          Action = "address_copied"
	ActionCountryChangeRequested Action = "country_change_requested"
	ActionAccountTypeChanged     Action = "account_type_changed"
)

// Event records that an account changed its compliance data. It carries
// field names only; values never leave the record store.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    id.UserID `json:"user_id"`
	Action    Action    `json:"action"`
	Fields    []string  `json:"fields"`
	RequestID string    `json:"request_id,omitempty"`
	// Device is a display label such as "Chrome on Mac OS X".
	Device            string `json:"device,omitempty"`
	DeviceFingerprint string `json:"device_fingerprint,omitempty"`
}

// Sink receives every emitted event.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a Sink that can be read back per user.
type Store interface {
	Sink
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
