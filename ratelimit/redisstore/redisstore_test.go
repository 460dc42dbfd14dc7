package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broadside-press/broadside/ratelimit"
)

func setup(t *testing.T) (*miniredis.Miniredis, *Limiter) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, New(client)
}

func TestAllowUpToMaxAttempts(t *testing.T) {
	_, l := setup(t)
	ctx := context.Background()

	for i := 0; i < ratelimit.MaxAttempts; i++ {
		d, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.False(t, d.Blocked, "attempt %d should pass", i+1)
	}
}

func TestBlocksPastMaxAttempts(t *testing.T) {
	_, l := setup(t)
	ctx := context.Background()

	for i := 0; i < ratelimit.MaxAttempts; i++ {
		_, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	d, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, d.Blocked)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, ratelimit.Window)
}

func TestWindowExpiryResets(t *testing.T) {
	mr, l := setup(t)
	ctx := context.Background()

	for i := 0; i < ratelimit.MaxAttempts+2; i++ {
		_, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	mr.FastForward(ratelimit.Window + time.Second)

	d, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, d.Blocked, "fresh window after TTL expiry")
}

func TestIsolatesClients(t *testing.T) {
	_, l := setup(t)
	ctx := context.Background()

	for i := 0; i < ratelimit.MaxAttempts+1; i++ {
		_, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	d, err := l.Allow(ctx, "198.51.100.4")
	require.NoError(t, err)
	assert.False(t, d.Blocked)
}

func TestReset(t *testing.T) {
	_, l := setup(t)
	ctx := context.Background()

	for i := 0; i < ratelimit.MaxAttempts+1; i++ {
		_, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	require.NoError(t, l.Reset(ctx, "203.0.113.7"))

	d, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, d.Blocked)
}
