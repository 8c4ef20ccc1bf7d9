package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T, ttl time.Duration) (*ClaimGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewClaimGuard(client, ttl), mr
}

func TestClaimGuard_AcquireRelease(t *testing.T) {
	g, mr := setupGuard(t, time.Minute)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "email", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("claim:email:ana@example.com"))

	ok, err = g.Acquire(ctx, "email", "ana@example.com")
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while the claim is held")

	ok, err = g.Acquire(ctx, "telephone", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "claims are namespaced by kind")

	require.NoError(t, g.Release(ctx, "email", "ana@example.com"))
	assert.False(t, mr.Exists("claim:email:ana@example.com"))

	ok, err = g.Acquire(ctx, "email", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClaimGuard_Expires(t *testing.T) {
	g, mr := setupGuard(t, 5*time.Second)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "email", "ana@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, mr.TTL("claim:email:ana@example.com"))

	mr.FastForward(6 * time.Second)

	ok, err = g.Acquire(ctx, "email", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "expired claim must be reacquirable")
}

func TestClaimGuard_DefaultTTL(t *testing.T) {
	g := NewClaimGuard(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), 0)
	assert.Equal(t, defaultClaimTTL, g.ttl)
}

func TestClaimGuard_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	require.NoError(t, err)
	defer client.Close()
	g := NewClaimGuard(client, time.Minute)
	mr.Close()

	_, err = g.Acquire(context.Background(), "email", "ana@example.com")
	assert.Error(t, err)
	assert.Error(t, g.Ping(context.Background()))
}
