package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshStore_WithoutRedisIsStateless(t *testing.T) {
	store := NewRefreshStore(nil)
	ctx := context.Background()

	assert.False(t, store.Enabled())
	require.NoError(t, store.Record(ctx, "jti", time.Minute))
	assert.NoError(t, store.Consume(ctx, "jti"))
	assert.NoError(t, store.Consume(ctx, "jti"))
}

func TestRefreshStore_SingleUse(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_URL")
	if addr == "" {
		t.Skip("TEST_REDIS_URL environment variable not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	store := NewRefreshStore(client)
	ctx := context.Background()
	jti := uuid.NewString()

	require.NoError(t, store.Record(ctx, jti, time.Minute))
	require.NoError(t, store.Consume(ctx, jti))
	assert.ErrorIs(t, store.Consume(ctx, jti), ErrTokenReused)
	assert.ErrorIs(t, store.Consume(ctx, uuid.NewString()), ErrTokenReused)
	assert.Error(t, store.Record(ctx, jti, 0))
}
