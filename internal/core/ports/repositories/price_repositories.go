package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
)

// PriceReader defines read operations for daily prices
type PriceReader interface {
	// LatestPricesByCurrency returns one row per currency: the most recent date available.
	LatestPricesByCurrency(ctx context.Context) ([]domain.PricePoint, error)

	// PricesForCurrency returns prices for one currency ordered by date ascending.
	// after, when set, excludes dates up to and including it; limit <= 0 means no limit.
	PricesForCurrency(ctx context.Context, currencyCode string, dates domain.DateRange, after *time.Time, limit int) ([]domain.PricePoint, error)
}

// PriceWriter defines write operations for daily prices
type PriceWriter interface {
	// UpsertPrices writes all prices in one statement, overwriting the value on a
	// (date, currency) conflict. It returns the number of rows written.
	UpsertPrices(ctx context.Context, prices []domain.PricePoint) (int, error)
}

// PriceRepositoryFacade combines all price-related repository interfaces
type PriceRepositoryFacade interface {
	PriceReader
	PriceWriter
}
