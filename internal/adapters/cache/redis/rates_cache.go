package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

var _ portssvc.RatesCache = (*RatesCache)(nil)

const (
	// DefaultTTL keeps cached rates until well past the next daily load.
	DefaultTTL = 10 * time.Hour

	keyPrefix = "rates:latest:"
	scanCount = 100
)

// RatesCache stores latest-rates lists as JSON strings, one key per ordering.
type RatesCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func NewRatesCache(client *redis.Client, logger *slog.Logger, ttl time.Duration) *RatesCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RatesCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Ping checks the connection to the Redis server.
func (c *RatesCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis down: %w", err)
	}
	return nil
}

func (c *RatesCache) keyFor(order domain.RateOrder) string {
	if order == domain.OrderByCode {
		return keyPrefix + "code"
	}
	return keyPrefix + string(order)
}

// GetLatestRates returns ok == false on a miss.
func (c *RatesCache) GetLatestRates(ctx context.Context, order domain.RateOrder) ([]domain.PricePoint, bool, error) {
	raw, err := c.client.Get(ctx, c.keyFor(order)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached rates: %w", err)
	}

	var rates []domain.PricePoint
	if err := json.Unmarshal(raw, &rates); err != nil {
		c.logger.Warn("dropping undecodable cached rates", slog.String("key", c.keyFor(order)), slog.Any("error", err))
		return nil, false, nil
	}
	return rates, true, nil
}

func (c *RatesCache) SetLatestRates(ctx context.Context, order domain.RateOrder, rates []domain.PricePoint) error {
	raw, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	if err := c.client.Set(ctx, c.keyFor(order), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rates: %w", err)
	}
	return nil
}

// Clear removes every cached rates list.
func (c *RatesCache) Clear(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached rates: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear cached rates: %w", err)
	}
	c.logger.Debug("rates cache cleared", slog.Int("keys", len(keys)))
	return nil
}
