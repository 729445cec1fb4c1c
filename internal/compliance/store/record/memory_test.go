package record_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/store/record"
	id "payoutkyc/pkg/domain"
)

type InMemoryStoreSuite struct {
	storeContract
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = record.NewInMemory()
}

func (s *InMemoryStoreSuite) TestCancelledContextSkipsUpdate() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := s.store.Update(ctx, id.NewUserID(), func(c models.ComplianceInfo) (models.ComplianceInfo, error) {
		called = true
		return c, nil
	})
	s.Require().ErrorIs(err, context.Canceled)
	s.False(called)
}
