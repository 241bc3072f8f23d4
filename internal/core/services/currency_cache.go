package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
)

// currencyCache is the set of known currencies for one ingestion run.
// It is created per run and discarded afterwards; nothing is shared between runs.
type currencyCache struct {
	repo     portsrepo.CurrencyRepositoryFacade
	known    map[string]domain.Currency
	rejected map[string]struct{} // codes the store refused, usually a name collision
	loaded   bool
}

func newCurrencyCache(repo portsrepo.CurrencyRepositoryFacade) *currencyCache {
	return &currencyCache{
		repo:     repo,
		known:    make(map[string]domain.Currency),
		rejected: make(map[string]struct{}),
	}
}

func (c *currencyCache) load(ctx context.Context) error {
	currencies, err := c.repo.ListCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to load known currencies: %w", err)
	}
	c.known = make(map[string]domain.Currency, len(currencies))
	for _, cur := range currencies {
		c.known[cur.CurrencyCode] = cur
	}
	c.loaded = true
	return nil
}

// merge makes sure every currency in seen is stored, inserting the unknown ones.
// Conflicting inserts are ignored by the store (first seen wins), so the set is
// re-read after a write; codes still absent afterwards are not offered again
// during this run. It returns the number of currencies created.
func (c *currencyCache) merge(ctx context.Context, seen []domain.Currency) (int, error) {
	if !c.loaded {
		if err := c.load(ctx); err != nil {
			return 0, err
		}
	}

	var missing []domain.Currency
	for _, cur := range seen {
		if _, ok := c.known[cur.CurrencyCode]; ok {
			continue
		}
		if _, ok := c.rejected[cur.CurrencyCode]; ok {
			continue
		}
		missing = append(missing, cur)
	}
	if len(missing) == 0 {
		return 0, nil
	}

	created, err := c.repo.UpsertCurrencies(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert currencies: %w", err)
	}
	if err := c.load(ctx); err != nil {
		return created, err
	}
	for _, cur := range missing {
		if _, ok := c.known[cur.CurrencyCode]; !ok {
			c.rejected[cur.CurrencyCode] = struct{}{}
		}
	}
	return created, nil
}

func (c *currencyCache) has(code string) bool {
	_, ok := c.known[code]
	return ok
}
