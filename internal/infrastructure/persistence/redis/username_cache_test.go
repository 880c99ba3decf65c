package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/membership/internal/infrastructure/config"
	"github.com/xiebiao/membership/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/membership/pkg/errors"
)

func newTestCache(t *testing.T, ttl time.Duration) (*UsernameCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewUsernameCache(client, ttl), mr
}

func TestUsernameCache_GetSet(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, 1, "member1"))
	assert.Equal(t, time.Minute, mr.TTL("member:username:1"))

	username, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "member1", username)

	// 过期后未命中
	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsernameCache_EvictAll(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	for i := uint(1); i <= 250; i++ {
		require.NoError(t, cache.Set(ctx, i, fmt.Sprintf("member%d", i)))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	deleted, err := cache.EvictAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, deleted)
	assert.True(t, mr.Exists("other:key"))
	assert.False(t, mr.Exists("member:username:2"))

	_, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsernameCache_Breaker(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	cb := circuitbreaker.New("username-cache", circuitbreaker.Config{FailureThreshold: 2, OpenTimeout: time.Hour})
	cache.WithBreaker(cb)
	ctx := context.Background()

	// 未命中不算失败
	for i := 0; i < 3; i++ {
		_, ok, err := cache.Get(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())

	mr.SetError("boom")
	for i := 0; i < 2; i++ {
		_, _, err := cache.Get(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrRedisError)
	}
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	// 熔断期间不访问Redis
	mr.SetError("")
	require.NoError(t, cache.Set(ctx, 1, "member1"))
	assert.False(t, mr.Exists("member:username:1"))
	_, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// EvictAll不受熔断影响
	require.NoError(t, mr.Set("member:username:2", "member2"))
	n, err := cache.EvictAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUsernameCache_Disabled(t *testing.T) {
	cache := NewUsernameCache(nil, time.Minute)
	ctx := context.Background()

	assert.False(t, cache.Enabled())
	require.NoError(t, cache.Set(ctx, 1, "member1"))
	_, ok, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := cache.EvictAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewClient(t *testing.T) {
	t.Run("未启用", func(t *testing.T) {
		client, cleanup, err := NewClient(&config.Config{}, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, client)
		cleanup()
	})

	t.Run("连接miniredis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{Redis: config.RedisConfig{
			Enabled:     true,
			Host:        mr.Host(),
			Port:        mustPort(t, mr.Port()),
			DialTimeout: time.Second,
			ReadTimeout: time.Second,
		}}
		client, cleanup, err := NewClient(cfg, zap.NewNop())
		require.NoError(t, err)
		defer cleanup()
		assert.NoError(t, client.Ping(context.Background()).Err())
	})
}

func mustPort(t *testing.T, s string) int {
	t.Helper()
	var port int
	_, err := fmt.Sscanf(s, "%d", &port)
	require.NoError(t, err)
	return port
}
