package domain

import (
	"github.com/google/uuid"

	dErrors "payoutkyc/pkg/domain-errors"
)

// UserID identifies the account owner of a compliance record.
type UserID uuid.UUID

// ParseUserID validates s at a trust boundary. Empty, malformed and nil UUIDs
// are rejected.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id must not be nil")
	}
	return UserID(parsed), nil
}

// NewUserID returns a random user ID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

func (u UserID) String() string {
	return uuid.UUID(u).String()
}

// IsNil reports whether u is the zero ID.
func (u UserID) IsNil() bool {
	return uuid.UUID(u) == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler.
func (u UserID) MarshalText() ([]byte, error) {
	return uuid.UUID(u).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
