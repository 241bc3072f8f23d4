package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrackedCurrencyReader defines read operations for user-tracked currencies
type TrackedCurrencyReader interface {
	// ListTrackedByUser returns the currencies a user tracks, ordered by code.
	ListTrackedByUser(ctx context.Context, userID string) ([]domain.TrackedCurrency, error)

	// ListTrackedPricesOn joins every tracked currency with its price on date.
	// Tracked currencies without a price on that date are omitted.
	ListTrackedPricesOn(ctx context.Context, date time.Time) ([]domain.TrackedPrice, error)
}

// TrackedCurrencyWriter defines write operations for user-tracked currencies
type TrackedCurrencyWriter interface {
	// SaveTrackedCurrency creates a subscription; a repeated (user, currency) yields apperrors.ErrDuplicate.
	SaveTrackedCurrency(ctx context.Context, tracked domain.TrackedCurrency) error

	// UpdateThreshold changes the threshold of an existing subscription.
	UpdateThreshold(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal, updatedAt time.Time) error

	// DeleteTrackedCurrency removes a subscription.
	DeleteTrackedCurrency(ctx context.Context, userID, currencyCode string) error
}

// TrackedCurrencyRepositoryFacade combines all tracked-currency repository interfaces
type TrackedCurrencyRepositoryFacade interface {
	TrackedCurrencyReader
	TrackedCurrencyWriter
}
