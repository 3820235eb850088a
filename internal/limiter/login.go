package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrLoginRateLimited   = errors.New("login rate limited")
	ErrLimiterUnavailable = errors.New("login limiter unavailable")
)

// LoginLimiter counts failed logins per account. A nil *LoginLimiter allows everything.
type LoginLimiter struct {
	Redis       *redis.Client
	MaxAttempts int
	Window      time.Duration
	Prefix      string
}

func New(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		Redis:       client,
		MaxAttempts: maxAttempts,
		Window:      window,
		Prefix:      "hr:login",
	}
}

// Check fails once the account has used up its attempts in the current window.
func (l *LoginLimiter) Check(ctx context.Context, identifier string) error {
	if l == nil {
		return nil
	}
	n, err := l.Redis.Get(ctx, l.key(identifier)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if n >= int64(l.MaxAttempts) {
		return ErrLoginRateLimited
	}
	return nil
}

func (l *LoginLimiter) Fail(ctx context.Context, identifier string) error {
	if l == nil {
		return nil
	}
	key := l.key(identifier)
	count, err := l.Redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if count == 1 {
		if err := l.Redis.Expire(ctx, key, l.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
		}
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, identifier string) error {
	if l == nil {
		return nil
	}
	if err := l.Redis.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	return nil
}

func (l *LoginLimiter) key(identifier string) string {
	return l.Prefix + ":" + identifier
}
