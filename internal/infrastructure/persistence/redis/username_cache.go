package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/membership/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/metrics"
)

const usernameKeyPrefix = "member:username:"

// UsernameCache 会员用户名缓存
// 设计说明：
// 1. Key设计：member:username:{id}，值为用户名
// 2. 设置过期时间，过期后重新查库
// 3. client为nil时所有操作都是空操作（未启用Redis）
// 4. 批量更新等绕过持久化上下文的写操作之后调用EvictAll
// 5. 配置了熔断器时，熔断期间Get按未命中处理、Set直接跳过
type UsernameCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewUsernameCache 创建用户名缓存
func NewUsernameCache(client *redis.Client, ttl time.Duration) *UsernameCache {
	return &UsernameCache{client: client, ttl: ttl}
}

// WithBreaker 为Get/Set加上熔断保护，EvictAll不受熔断影响
func (c *UsernameCache) WithBreaker(cb *circuitbreaker.CircuitBreaker) *UsernameCache {
	c.breaker = cb
	return c
}

// guard 经过熔断器执行fn，redis.Nil不算失败
func (c *UsernameCache) guard(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Execute(fn, func(err error) bool { return !errors.Is(err, redis.Nil) })
}

func usernameKey(id uint) string {
	return usernameKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

// Enabled 是否启用
func (c *UsernameCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get 读取缓存，ok为false表示未命中
func (c *UsernameCache) Get(ctx context.Context, id uint) (username string, ok bool, err error) {
	if !c.Enabled() {
		return "", false, nil
	}

	err = c.guard(func() error {
		var getErr error
		username, getErr = c.client.Get(ctx, usernameKey(id)).Result()
		return getErr
	})
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		metrics.IncCounterVec(metrics.UsernameCacheRequests, map[string]string{"result": "skipped"})
		return "", false, nil
	}
	if errors.Is(err, redis.Nil) {
		metrics.IncCounterVec(metrics.UsernameCacheRequests, map[string]string{"result": "miss"})
		return "", false, nil
	}
	if err != nil {
		metrics.IncCounterVec(metrics.UsernameCacheRequests, map[string]string{"result": "error"})
		return "", false, apperrors.WithCause(apperrors.ErrRedisError, err)
	}

	metrics.IncCounterVec(metrics.UsernameCacheRequests, map[string]string{"result": "hit"})
	return username, true, nil
}

// Set 写入缓存
func (c *UsernameCache) Set(ctx context.Context, id uint, username string) error {
	if !c.Enabled() {
		return nil
	}
	err := c.guard(func() error {
		return c.client.Set(ctx, usernameKey(id), username, c.ttl).Err()
	})
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return nil
	}
	if err != nil {
		return apperrors.WithCause(apperrors.ErrRedisError, err)
	}
	return nil
}

// EvictAll 删除全部用户名缓存
// 使用SCAN分批遍历，不使用KEYS（会阻塞Redis）
func (c *UsernameCache) EvictAll(ctx context.Context) (int, error) {
	if !c.Enabled() {
		return 0, nil
	}

	deleted := 0
	iter := c.client.Scan(ctx, 0, usernameKeyPrefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return deleted, apperrors.WithCause(apperrors.ErrRedisError, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, apperrors.WithCause(apperrors.ErrRedisError, err)
	}
	if err := flush(); err != nil {
		return deleted, apperrors.WithCause(apperrors.ErrRedisError, err)
	}
	return deleted, nil
}
