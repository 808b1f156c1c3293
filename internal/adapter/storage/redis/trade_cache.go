package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TradeCache implements ports.TradeCache using Redis. It holds settled
// trade acknowledgments keyed by buyer and reference ID so a replayed
// request returns the original result instead of settling twice.
type TradeCache struct {
	client *goredis.Client
	prefix string
}

// NewTradeCache creates a new Redis-backed trade acknowledgment cache.
func NewTradeCache(client *goredis.Client) *TradeCache {
	return &TradeCache{
		client: client,
		prefix: "trade:",
	}
}

// Get retrieves a cached acknowledgment by trade key.
// Returns nil, nil if the key does not exist.
func (c *TradeCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis trade cache get: %w", err)
	}
	return val, nil
}

// Set stores an acknowledgment in the trade cache with TTL.
func (c *TradeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+key, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis trade cache set: %w", err)
	}
	return nil
}
