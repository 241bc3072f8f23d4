package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/adapters/cache/redis"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*redis.RatesCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewRatesCache(client, nil, time.Hour), mr
}

func TestRatesCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	_, ok, err := cache.GetLatestRates(ctx, domain.OrderByValueAsc)
	require.NoError(t, err)
	assert.False(t, ok)

	date := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)
	rates := []domain.PricePoint{
		{Date: date, CurrencyCode: "USD", Value: decimal.RequireFromString("92.5919")},
	}
	require.NoError(t, cache.SetLatestRates(ctx, domain.OrderByValueAsc, rates))

	got, ok, err := cache.GetLatestRates(ctx, domain.OrderByValueAsc)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "USD", got[0].CurrencyCode)
	assert.True(t, got[0].Value.Equal(rates[0].Value))
	assert.True(t, got[0].Date.Equal(date))

	assert.True(t, mr.Exists("rates:latest:value"))
	assert.Equal(t, time.Hour, mr.TTL("rates:latest:value"))

	_, ok, err = cache.GetLatestRates(ctx, domain.OrderByValueDesc)
	require.NoError(t, err)
	assert.False(t, ok, "orderings are cached separately")
}

func TestRatesCache_Clear(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	require.NoError(t, mr.Set("unrelated", "keep"))

	for _, order := range []domain.RateOrder{domain.OrderByCode, domain.OrderByValueAsc, domain.OrderByValueDesc} {
		require.NoError(t, cache.SetLatestRates(ctx, order, []domain.PricePoint{}))
	}
	require.NoError(t, cache.Clear(ctx))

	for _, order := range []domain.RateOrder{domain.OrderByCode, domain.OrderByValueAsc, domain.OrderByValueDesc} {
		_, ok, err := cache.GetLatestRates(ctx, order)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.True(t, mr.Exists("unrelated"))

	require.NoError(t, cache.Clear(ctx), "clearing an empty cache is fine")
}

func TestRatesCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newCache(t)
	require.NoError(t, mr.Set("rates:latest:code", "{not json"))

	_, ok, err := cache.GetLatestRates(context.Background(), domain.OrderByCode)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRatesCache_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	cache := redis.NewRatesCache(client, nil, 0)
	mr.Close()

	_, _, err = cache.GetLatestRates(context.Background(), domain.OrderByCode)
	assert.Error(t, err)
	assert.ErrorContains(t, cache.Ping(context.Background()), "down")
}
