package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int) (*miniredis.Miniredis, *LoginLimiter) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, New(client, max, time.Minute)
}

func TestLoginLimiter_BlocksAfterMaxFailures(t *testing.T) {
	_, l := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Check(ctx, "ann@example.com"))
		require.NoError(t, l.Fail(ctx, "ann@example.com"))
	}
	require.ErrorIs(t, l.Check(ctx, "ann@example.com"), ErrLoginRateLimited)
	require.NoError(t, l.Check(ctx, "bob@example.com"))
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	mr, l := newTestLimiter(t, 1)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "ann@example.com"))
	require.ErrorIs(t, l.Check(ctx, "ann@example.com"), ErrLoginRateLimited)
	require.Equal(t, time.Minute, mr.TTL("hr:login:ann@example.com"))

	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, l.Check(ctx, "ann@example.com"))
}

func TestLoginLimiter_ResetClearsCounter(t *testing.T) {
	_, l := newTestLimiter(t, 1)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "ann@example.com"))
	require.NoError(t, l.Reset(ctx, "ann@example.com"))
	require.NoError(t, l.Check(ctx, "ann@example.com"))
}

func TestLoginLimiter_Nil(t *testing.T) {
	var l *LoginLimiter
	ctx := context.Background()
	require.NoError(t, l.Check(ctx, "x"))
	require.NoError(t, l.Fail(ctx, "x"))
	require.NoError(t, l.Reset(ctx, "x"))
}

func TestLoginLimiter_Unavailable(t *testing.T) {
	mr, l := newTestLimiter(t, 1)
	mr.Close()

	require.ErrorIs(t, l.Fail(context.Background(), "x"), ErrLimiterUnavailable)
}
