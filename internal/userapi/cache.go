package userapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tickerCacheTTL = 5 * time.Minute

// TickerCache is an optional redis read-through cache for symbol lookups.
// A nil *TickerCache is valid and behaves as a permanent miss.
type TickerCache struct {
	client *redis.Client
}

// NewTickerCache creates a new redis-backed cache connection.
func NewTickerCache(addr, password string, db int) (*TickerCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &TickerCache{client: client}, nil
}

func tickerKey(symbol string) string {
	return fmt.Sprintf("ticker:%s", symbol)
}

// Get retrieves a cached ticker for a lowercase symbol.
// Returns nil on a miss.
func (c *TickerCache) Get(ctx context.Context, symbol string) (*Ticker, error) {
	if c == nil {
		return nil, nil
	}

	payload, err := c.client.Get(ctx, tickerKey(symbol)).Result()
	if err == redis.Nil {
		return nil, nil // Not cached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached ticker: %w", err)
	}

	var ticker Ticker
	if err := json.Unmarshal([]byte(payload), &ticker); err != nil {
		return nil, fmt.Errorf("invalid cached ticker payload: %w", err)
	}
	return &ticker, nil
}

// Set stores a ticker under its lowercase symbol.
func (c *TickerCache) Set(ctx context.Context, ticker *Ticker) error {
	if c == nil {
		return nil
	}

	payload, err := json.Marshal(ticker)
	if err != nil {
		return fmt.Errorf("failed to marshal ticker: %w", err)
	}
	return c.client.Set(ctx, tickerKey(ticker.Symbol), payload, tickerCacheTTL).Err()
}

// Invalidate drops the cache entry for a lowercase symbol.
func (c *TickerCache) Invalidate(ctx context.Context, symbol string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, tickerKey(symbol)).Err()
}

// Close closes the Redis connection.
func (c *TickerCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
