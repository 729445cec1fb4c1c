// Package profile stores the payout profile flags that steer the form.
package profile

import (
	"context"
	"sync"

	"payoutkyc/internal/compliance/models"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/platform/sentinel"
)

// InMemory is a process-local profile store.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[id.UserID]models.Profile
}

func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[id.UserID]models.Profile)}
}

func (s *InMemory) Find(_ context.Context, userID id.UserID) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, sentinel.ErrNotFound
	}
	return clone(p), nil
}

// Save creates or replaces the profile.
func (s *InMemory) Save(_ context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = clone(p)
	return nil
}

// MarkTaxIDEntered sets the entered flag for field. A missing profile is
// created from seed first.
func (s *InMemory) MarkTaxIDEntered(_ context.Context, seed models.Profile, field models.FieldName) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[seed.UserID]
	if !ok {
		p = clone(seed)
	}
	p.MarkTaxIDEntered(field)
	s.profiles[p.UserID] = p
	return clone(p), nil
}

func clone(p models.Profile) models.Profile {
	p.User.IndividualTaxIDNeededCountries = append([]string(nil), p.User.IndividualTaxIDNeededCountries...)
	return p
}
