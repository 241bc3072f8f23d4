package services

import (
	"context"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
)

// IngestionSvc loads feed snapshots into the price store.
type IngestionSvc interface {
	// LoadHistory loads the last days calendar days, today first. A failed day is
	// reported through onProgress (and the report) and never aborts the batch.
	LoadHistory(ctx context.Context, days int, onProgress domain.ProgressFunc) (*domain.IngestionReport, error)

	// LoadDaily loads the latest snapshot. Feed failures are logged and swallowed.
	LoadDaily(ctx context.Context) (*domain.IngestionReport, error)
}

// ThresholdNotifierSvc dispatches per-user threshold breach notifications once per day.
type ThresholdNotifierSvc interface {
	Run(ctx context.Context, force bool) (*domain.NotifierRunResult, error)
}
