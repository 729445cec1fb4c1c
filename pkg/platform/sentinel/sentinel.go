package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so the service can translate them into domain errors.
//
//   - ErrNotFound: no record exists for the key
//   - ErrConflict: a concurrent writer won an optimistic update
//   - ErrUnavailable: backing store temporarily unavailable
//
// For validation errors (bad input, unknown fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
