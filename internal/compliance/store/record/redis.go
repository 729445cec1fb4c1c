package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/sealer"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/platform/sentinel"
)

const (
	// Redis key prefix for draft compliance records
	recordKeyPrefix = "compliance:record:"

	defaultDraftTTL   = 30 * 24 * time.Hour
	defaultMaxRetries = 5
)

// RedisStore keeps snapshots as JSON strings with a sliding TTL. It suits
// deployments where the record is a draft until submission elsewhere.
type RedisStore struct {
	client     redis.UniversalClient
	sealer     *sealer.Sealer
	ttl        time.Duration
	maxRetries int
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets how long an untouched draft is kept.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxRetries bounds optimistic-lock retries per Update.
func WithMaxRetries(n int) RedisOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithRedisSealer seals tax IDs at rest.
func WithRedisSealer(sl *sealer.Sealer) RedisOption {
	return func(s *RedisStore) {
		s.sealer = sl
	}
}

// NewRedis constructs a Redis-backed record store.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:     client,
		ttl:        defaultDraftTTL,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func recordKey(userID id.UserID) string {
	return recordKeyPrefix + userID.String()
}

func (s *RedisStore) Find(ctx context.Context, userID id.UserID) (models.ComplianceInfo, error) {
	raw, err := s.client.Get(ctx, recordKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ComplianceInfo{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.ComplianceInfo{}, fmt.Errorf("find compliance record: %w", err)
	}
	return s.decode(raw)
}

// Update uses WATCH/MULTI so a concurrent writer forces a retry with the
// fresh snapshot instead of being overwritten.
func (s *RedisStore) Update(ctx context.Context, userID id.UserID, fn UpdateFunc) (models.ComplianceInfo, error) {
	key := recordKey(userID)
	var result models.ComplianceInfo

	txf := func(tx *redis.Tx) error {
		current := models.ComplianceInfo{}
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("read compliance record: %w", err)
		default:
			if current, err = s.decode(raw); err != nil {
				return err
			}
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		encoded, err := s.encode(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return models.ComplianceInfo{}, err
	}
	return models.ComplianceInfo{}, fmt.Errorf("update compliance record: %w", sentinel.ErrConflict)
}

func (s *RedisStore) encode(info models.ComplianceInfo) ([]byte, error) {
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

func (s *RedisStore) decode(raw []byte) (models.ComplianceInfo, error) {
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
