// Package redisstore provides a ratelimit.Limiter backed by Redis, for
// deployments where login attempts must be counted across instances.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/broadside-press/broadside/ratelimit"
)

// Limiter counts attempts in Redis using INCR with a window-length TTL
// set on the first attempt, so every instance sees the same fixed
// window per client id.
type Limiter struct {
	client redis.UniversalClient
	prefix string
}

var _ ratelimit.Limiter = (*Limiter)(nil)

func New(client redis.UniversalClient) *Limiter {
	return &Limiter{client: client, prefix: "login_attempts:"}
}

func NewWithPrefix(client redis.UniversalClient, prefix string) *Limiter {
	return &Limiter{client: client, prefix: prefix}
}

func (l *Limiter) Allow(ctx context.Context, clientID string) (ratelimit.Decision, error) {
	key := l.prefix + clientID

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return ratelimit.Decision{}, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, ratelimit.Window).Err(); err != nil {
			return ratelimit.Decision{}, fmt.Errorf("redis expire: %w", err)
		}
	}
	if count <= ratelimit.MaxAttempts {
		return ratelimit.Decision{}, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = ratelimit.Window
	}
	return ratelimit.Decision{Blocked: true, RetryAfter: ttl}, nil
}

// Reset clears the window for a client id. Operational escape hatch
// (unblocking a locked-out admin); the endpoints never call it.
func (l *Limiter) Reset(ctx context.Context, clientID string) error {
	return l.client.Del(ctx, l.prefix+clientID).Err()
}
