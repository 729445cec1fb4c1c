// Package record persists compliance snapshots keyed by user. Every backend
// offers the same atomic read-modify-write Update so concurrent edits to
// different fields of one record never overwrite each other.
package record

import (
	"context"
	"sync"

	"payoutkyc/internal/compliance/models"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/platform/sentinel"
)

// UpdateFunc receives the current snapshot (empty for a first visit) and
// returns the one to store. Returning an error aborts the update.
type UpdateFunc func(current models.ComplianceInfo) (models.ComplianceInfo, error)

// InMemory is a process-local store for tests and single-instance runs.
type InMemory struct {
	mu      sync.Mutex
	records map[id.UserID]models.ComplianceInfo
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.UserID]models.ComplianceInfo)}
}

// Find returns the stored snapshot or sentinel.ErrNotFound.
func (s *InMemory) Find(_ context.Context, userID id.UserID) (models.ComplianceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.records[userID]
	if !ok {
		return models.ComplianceInfo{}, sentinel.ErrNotFound
	}
	return info, nil
}

// Update applies fn under the store lock.
func (s *InMemory) Update(ctx context.Context, userID id.UserID, fn UpdateFunc) (models.ComplianceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.ComplianceInfo{}, err
	}
	next, err := fn(s.records[userID])
	if err != nil {
		return models.ComplianceInfo{}, err
	}
	s.records[userID] = next
	return next, nil
}
