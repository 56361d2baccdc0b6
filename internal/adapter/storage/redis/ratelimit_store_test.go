package redis_test

import (
	"context"
	"testing"
	"time"

	"vendor-payout-gateway/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_Increment(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewRateLimitStore(client)
	ctx := context.Background()

	t.Run("counts requests within a window", func(t *testing.T) {
		for i := int64(1); i <= 3; i++ {
			count, err := store.Increment(ctx, "vendor1:payouts", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, i, count)
		}
	})

	t.Run("different keys are independent", func(t *testing.T) {
		count, err := store.Increment(ctx, "vendor2:payouts", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("counter resets after window expires", func(t *testing.T) {
		key := "vendor3:auth"
		_, err := store.Increment(ctx, key, time.Minute)
		require.NoError(t, err)
		count, err := store.Increment(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		// Fast-forward time in miniredis past the key's TTL. The window
		// ID may or may not roll over at this instant, but the expired
		// key must not keep the old count alive.
		mr.FastForward(2 * time.Minute)

		count, err = store.Increment(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
