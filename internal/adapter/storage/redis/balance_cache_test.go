package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewBalanceCache(client)
	ctx := context.Background()

	// Get before set => empty, no error
	val, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, val)

	err = cache.Set(ctx, "125000.50", 30*time.Second)
	require.NoError(t, err)

	val, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "125000.50", val)
}

func TestBalanceCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewBalanceCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "99000", 30*time.Second)
	require.NoError(t, err)

	s.FastForward(31 * time.Second)

	val, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, val, "expired balance should read as a miss")
}

func TestBalanceCache_Overwrite(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewBalanceCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "100", time.Minute))
	require.NoError(t, cache.Set(ctx, "200", time.Minute))

	val, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "200", val)
}
