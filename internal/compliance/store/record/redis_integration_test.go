//go:build integration

package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/store/record"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	storeContract
	redis *containers.RedisContainer
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	// Optimistic locking retries on contention; enough budget for every writer.
	s.store = record.NewRedis(s.redis.Client, record.WithMaxRetries(50), record.WithTTL(time.Hour))
}

func (s *RedisStoreSuite) TestUpdateRefreshesTTL() {
	ctx := context.Background()
	userID := id.NewUserID()
	_, err := s.store.Update(ctx, userID, setField(models.FieldCity, "Tokyo"))
	s.Require().NoError(err)

	ttl, err := s.redis.Client.TTL(ctx, "compliance:record:"+userID.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 59*time.Minute)
	s.LessOrEqual(ttl, time.Hour)
}
