//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"payoutkyc/internal/audit"
	"payoutkyc/internal/audit/store/postgres"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *AuditStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	userID := id.NewUserID()
	base := time.Now().UTC().Truncate(time.Microsecond)

	first := audit.Event{ID: uuid.New(), Timestamp: base, UserID: userID, Action: audit.ActionFieldUpdated, Fields: []string{"city"}, RequestID: "r-1", Device: "Firefox on Linux"}
	second := audit.Event{ID: uuid.New(), Timestamp: base.Add(time.Second), UserID: userID, Action: audit.ActionAddressCopied, Fields: []string{"street_address", "city", "state", "zip_code"}}
	other := audit.Event{ID: uuid.New(), Timestamp: base, UserID: id.NewUserID(), Action: audit.ActionFieldUpdated}

	s.Require().NoError(s.store.Append(ctx, second))
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, other))

	events, err := s.store.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(first.ID, events[0].ID)
	s.Equal([]string{"city"}, events[0].Fields)
	s.Equal("Firefox on Linux", events[0].Device)
	s.True(base.Equal(events[0].Timestamp))
	s.Equal(audit.ActionAddressCopied, events[1].Action)
	s.Len(events[1].Fields, 4)
}

func (s *AuditStoreSuite) TestAppendIsIdempotentPerID() {
	ctx := context.Background()
	event := audit.Event{ID: uuid.New(), Timestamp: time.Now(), UserID: id.NewUserID(), Action: audit.ActionFieldUpdated}

	s.Require().NoError(s.store.Append(ctx, event))
	s.Require().NoError(s.store.Append(ctx, event))

	events, err := s.store.ListByUser(ctx, event.UserID)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *AuditStoreSuite) TestNilFieldsStoredAsEmpty() {
	ctx := context.Background()
	event := audit.Event{ID: uuid.New(), Timestamp: time.Now(), UserID: id.NewUserID(), Action: audit.ActionAccountTypeChanged}
	s.Require().NoError(s.store.Append(ctx, event))

	events, err := s.store.ListByUser(ctx, event.UserID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Empty(events[0].Fields)
}
