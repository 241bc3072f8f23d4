package services

import (
	"context"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrackingReaderSvc defines read operations for tracked currencies
type TrackingReaderSvc interface {
	ListTracked(ctx context.Context, userID string) ([]domain.TrackedCurrency, error)
}

// TrackingWriterSvc defines write operations for tracked currencies
type TrackingWriterSvc interface {
	TrackCurrency(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal) (*domain.TrackedCurrency, error)
	UpdateThreshold(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal) error
	UntrackCurrency(ctx context.Context, userID, currencyCode string) error
}

// TrackingSvcFacade combines all tracking interfaces
type TrackingSvcFacade interface {
	TrackingReaderSvc
	TrackingWriterSvc
}
