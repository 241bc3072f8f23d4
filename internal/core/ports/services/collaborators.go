package services

import (
	"context"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
)

// RateSource abstracts the external price feed.
// Implementations return errors matching apperrors.ErrFetch or apperrors.ErrParse.
type RateSource interface {
	// FetchDay returns the snapshot published for date.
	FetchDay(ctx context.Context, date time.Time) (*domain.DaySnapshot, error)

	// FetchLatest returns the most recent snapshot.
	FetchLatest(ctx context.Context) (*domain.DaySnapshot, error)

	// URLForDay returns the address FetchDay would request for date.
	URLForDay(date time.Time) string

	// LatestURL returns the address FetchLatest requests.
	LatestURL() string
}

// NotificationSink renders and delivers a message to a recipient.
type NotificationSink interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// Clock supplies "today" in the deployment's timezone.
type Clock interface {
	Today() time.Time
}

// RatesCache stores the shared latest-rates list. Misses return ok == false.
type RatesCache interface {
	GetLatestRates(ctx context.Context, order domain.RateOrder) ([]domain.PricePoint, bool, error)
	SetLatestRates(ctx context.Context, order domain.RateOrder, rates []domain.PricePoint) error
	Clear(ctx context.Context) error
}
