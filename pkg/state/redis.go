// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTTL expires idle account tallies after 30 days.
	DefaultTTL = 30 * 24 * time.Hour
	// DefaultKeyPrefix namespaces all session stat keys.
	DefaultKeyPrefix = "splintermate:session:"
)

// Store persists per-account session stats. Implementations must be
// safe for concurrent use by independent account cycles.
type Store interface {
	SessionStats(ctx context.Context, account string) (*SessionStats, error)
	UpdateSessionStats(ctx context.Context, account string, stats *SessionStats) error
}

// RedisStoreConfig configures the Redis-backed store. Zero values fall
// back to the defaults above.
type RedisStoreConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

// RedisStore is the Redis-backed Store implementation.
type RedisStore struct {
	client *redis.Client
	cfg    RedisStoreConfig
}

// NewRedisStore creates a store on top of an initialized Redis client.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, cfg: cfg}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) key(account string) string {
	return s.cfg.KeyPrefix + account
}

// SessionStats retrieves the tally for an account. Accounts without a
// stored tally start from zero.
func (s *RedisStore) SessionStats(ctx context.Context, account string) (*SessionStats, error) {
	data, err := s.client.Get(ctx, s.key(account)).Result()
	if err == redis.Nil {
		return &SessionStats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session stats for %s: %w", account, err)
	}

	var stats SessionStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session stats for %s: %w", account, err)
	}
	return &stats, nil
}

// UpdateSessionStats writes the tally back, refreshing the TTL.
func (s *RedisStore) UpdateSessionStats(ctx context.Context, account string, stats *SessionStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal session stats for %s: %w", account, err)
	}

	if err := s.client.Set(ctx, s.key(account), data, s.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set session stats for %s: %w", account, err)
	}

	logrus.Debugf("updated session stats for %s", account)
	return nil
}
