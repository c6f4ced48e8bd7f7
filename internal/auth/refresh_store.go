package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenReused is returned when a refresh token id was already consumed or never issued.
var ErrTokenReused = errors.New("refresh token already used")

const refreshKeyPrefix = "auth:refresh:"

// RefreshStore records issued refresh token ids in Redis so each one can be redeemed once.
// A store without a client accepts every token (stateless rotation).
type RefreshStore struct {
	redisClient *redis.Client
}

// NewRefreshStore creates a store. client may be nil.
func NewRefreshStore(client *redis.Client) *RefreshStore {
	if client == nil {
		log.Println("RefreshStore: no redis client configured, refresh tokens are not single-use")
	}
	return &RefreshStore{redisClient: client}
}

// Enabled reports whether refresh tokens are tracked.
func (s *RefreshStore) Enabled() bool {
	return s != nil && s.redisClient != nil
}

// Record stores jti for ttl.
func (s *RefreshStore) Record(ctx context.Context, jti string, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		return fmt.Errorf("refresh token %s already expired", jti)
	}
	if err := s.redisClient.Set(ctx, refreshKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to record refresh token: %w", err)
	}
	return nil
}

// Consume atomically removes jti. Only the first caller for a given jti succeeds.
func (s *RefreshStore) Consume(ctx context.Context, jti string) error {
	if !s.Enabled() {
		return nil
	}
	deleted, err := s.redisClient.Del(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		return fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if deleted == 0 {
		return ErrTokenReused
	}
	return nil
}
