package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const balanceKey = "gateway:balance"

// BalanceCache implements ports.BalanceCache using Redis. The gateway
// exposes a single custodial account, so one key is enough.
type BalanceCache struct {
	client *goredis.Client
}

// NewBalanceCache creates a Redis-backed gateway balance cache.
func NewBalanceCache(client *goredis.Client) *BalanceCache {
	return &BalanceCache{client: client}
}

// Get returns the cached balance, or "" if the key is absent or expired.
func (c *BalanceCache) Get(ctx context.Context) (string, error) {
	val, err := c.client.Get(ctx, balanceKey).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis balance get: %w", err)
	}
	return val, nil
}

// Set stores the latest gateway balance with TTL.
func (c *BalanceCache) Set(ctx context.Context, balance string, ttl time.Duration) error {
	if err := c.client.Set(ctx, balanceKey, balance, ttl).Err(); err != nil {
		return fmt.Errorf("redis balance set: %w", err)
	}
	return nil
}
