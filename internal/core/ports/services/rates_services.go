package services

import (
	"context"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RatesReaderSvc defines rate and analytics queries
type RatesReaderSvc interface {
	// LatestRates returns the latest price per currency. When userID is set and
	// the user tracks currencies, the list is narrowed to those currencies.
	LatestRates(ctx context.Context, userID *string, order domain.RateOrder) ([]domain.PricePoint, error)

	// PriceHistory returns a page of prices for one currency.
	PriceHistory(ctx context.Context, currencyCode string, dates domain.DateRange, after *time.Time, limit int) ([]domain.PricePoint, error)

	// CurrencyAnalytics annotates the prices of one currency in a date range.
	CurrencyAnalytics(ctx context.Context, currencyCode string, dates domain.DateRange, threshold *decimal.Decimal) ([]domain.AnalyticsRow, error)
}

// RatesSvcFacade combines all rate query interfaces
type RatesSvcFacade interface {
	RatesReaderSvc
}
