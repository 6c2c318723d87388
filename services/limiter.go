package services

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per username.
type LoginLimiter interface {
	Blocked(ctx context.Context, username string) (bool, error)
	Fail(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

const loginFailPrefix = "login:fail:"

// RedisLoginLimiter is a fixed-window counter: the window starts at the first
// failure and the key expires with it.
type RedisLoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int64
	window      time.Duration
}

func NewRedisLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{rdb: rdb, maxAttempts: int64(maxAttempts), window: window}
}

func key(username string) string {
	return loginFailPrefix + strings.ToLower(username)
}

func (l *RedisLoginLimiter) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := l.rdb.Get(ctx, key(username)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.maxAttempts, nil
}

func (l *RedisLoginLimiter) Fail(ctx context.Context, username string) error {
	n, err := l.rdb.Incr(ctx, key(username)).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.rdb.Expire(ctx, key(username), l.window).Err()
	}
	return nil
}

func (l *RedisLoginLimiter) Reset(ctx context.Context, username string) error {
	return l.rdb.Del(ctx, key(username)).Err()
}
