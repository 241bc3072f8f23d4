package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/platform/metrics"
)

// DefaultRequestDelay is the pause between consecutive history requests.
const DefaultRequestDelay = 100 * time.Millisecond

const (
	modeHistory = "history"
	modeDaily   = "daily"
)

// ingestionService implements the IngestionSvc interface
type ingestionService struct {
	BaseService
	source       portssvc.RateSource
	currencyRepo portsrepo.CurrencyRepositoryFacade
	priceRepo    portsrepo.PriceWriter
	clock        portssvc.Clock
	cache        portssvc.RatesCache
	metrics      *metrics.Metrics
	delay        time.Duration
	pause        func(ctx context.Context, d time.Duration) error
}

// IngestionOption is a functional option for configuring the ingestion service
type IngestionOption func(*ingestionService)

// WithRequestDelay sets the pause between history requests.
func WithRequestDelay(d time.Duration) IngestionOption {
	return func(s *ingestionService) {
		s.delay = d
	}
}

// WithIngestionCache makes successful runs clear the latest-rates cache.
func WithIngestionCache(cache portssvc.RatesCache) IngestionOption {
	return func(s *ingestionService) {
		s.cache = cache
	}
}

// WithIngestionMetrics records run metrics.
func WithIngestionMetrics(m *metrics.Metrics) IngestionOption {
	return func(s *ingestionService) {
		s.metrics = m
	}
}

// WithPauseFunc replaces the delay implementation.
func WithPauseFunc(pause func(ctx context.Context, d time.Duration) error) IngestionOption {
	return func(s *ingestionService) {
		s.pause = pause
	}
}

// NewIngestionService creates the feed ingestion pipeline.
func NewIngestionService(
	source portssvc.RateSource,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	priceRepo portsrepo.PriceWriter,
	clock portssvc.Clock,
	options ...IngestionOption,
) portssvc.IngestionSvc {
	svc := &ingestionService{
		source:       source,
		currencyRepo: currencyRepo,
		priceRepo:    priceRepo,
		clock:        clock,
		delay:        DefaultRequestDelay,
		pause:        sleepCtx,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.IngestionSvc = (*ingestionService)(nil)

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// run is the state of one ingestion invocation.
type run struct {
	currencies *currencyCache
	prices     []domain.PricePoint
	report     domain.IngestionReport
}

func (s *ingestionService) newRun() *run {
	return &run{currencies: newCurrencyCache(s.currencyRepo)}
}

// collect merges the snapshot's currencies and keeps its prices for the final write.
func (s *ingestionService) collect(ctx context.Context, r *run, snap *domain.DaySnapshot) error {
	created, err := r.currencies.merge(ctx, snap.Currencies())
	if err != nil {
		return err
	}
	r.report.NewCurrencies += created

	for _, q := range snap.Quotes {
		code := domain.NormalizeCurrencyCode(q.CurrencyCode)
		if !r.currencies.has(code) {
			// name collided with another code, so the currency row was never created
			s.LogWarn(ctx, "Skipping price for unknown currency",
				slog.String("currency_code", code),
				slog.String("date", snap.Date.Format(domain.DateLayout)))
			continue
		}
		r.prices = append(r.prices, domain.NewPricePoint(snap.Date, code, q.Value))
	}
	return nil
}

// flush writes every collected price in one upsert.
func (s *ingestionService) flush(ctx context.Context, r *run) error {
	prices := domain.DedupePrices(r.prices)
	if len(prices) > 0 {
		n, err := s.priceRepo.UpsertPrices(ctx, prices)
		if err != nil {
			return fmt.Errorf("failed to upsert prices: %w", err)
		}
		r.report.PricesUpserted = n
	}
	s.metrics.ObserveUpsert(r.report.PricesUpserted, r.report.NewCurrencies)

	if s.cache != nil && (r.report.PricesUpserted > 0 || r.report.NewCurrencies > 0) {
		if err := s.cache.Clear(ctx); err != nil {
			s.LogError(ctx, err, "Failed to clear rates cache")
		}
	}
	return nil
}

func (s *ingestionService) LoadHistory(ctx context.Context, days int, onProgress domain.ProgressFunc) (*domain.IngestionReport, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", apperrors.ErrValidation, days)
	}

	today := s.clock.Today()
	r := s.newRun()
	s.LogInfo(ctx, "Loading price history", slog.Int("days", days), slog.String("today", today.Format(domain.DateLayout)))

	for i := 0; i < days; i++ {
		if i > 0 {
			if err := s.pause(ctx, s.delay); err != nil {
				return &r.report, err
			}
		}

		day := today.AddDate(0, 0, -i)
		event := domain.ProgressEvent{Date: day, URL: s.source.URLForDay(day)}

		snap, err := s.source.FetchDay(ctx, day)
		s.metrics.ObserveDay(modeHistory, err)
		if err != nil {
			event.Error = err.Error()
			r.report.FailedDays++
			s.LogError(ctx, err, "Failed to load prices for day",
				slog.String("date", day.Format(domain.DateLayout)),
				slog.String("url", event.URL))
		}

		r.report.Days = append(r.report.Days, event)
		if onProgress != nil {
			onProgress(event)
		}

		if err != nil {
			continue
		}
		if err := s.collect(ctx, r, snap); err != nil {
			return &r.report, err
		}
	}

	if err := s.flush(ctx, r); err != nil {
		return &r.report, err
	}

	s.LogInfo(ctx, "Price history loaded",
		slog.Int("days", days),
		slog.Int("failed_days", r.report.FailedDays),
		slog.Int("prices_upserted", r.report.PricesUpserted),
		slog.Int("new_currencies", r.report.NewCurrencies))
	return &r.report, nil
}

func (s *ingestionService) LoadDaily(ctx context.Context) (*domain.IngestionReport, error) {
	r := s.newRun()
	event := domain.ProgressEvent{Date: s.clock.Today(), URL: s.source.LatestURL()}

	snap, err := s.source.FetchLatest(ctx)
	s.metrics.ObserveDay(modeDaily, err)
	if err != nil {
		event.Error = err.Error()
		r.report.FailedDays = 1
		r.report.Days = append(r.report.Days, event)
		s.LogError(ctx, err, "Failed to load daily prices", slog.String("url", event.URL))
		return &r.report, nil
	}

	event.Date = snap.Date
	r.report.Days = append(r.report.Days, event)
	if err := s.collect(ctx, r, snap); err != nil {
		return &r.report, err
	}
	if err := s.flush(ctx, r); err != nil {
		return &r.report, err
	}

	s.LogInfo(ctx, "Daily prices loaded",
		slog.String("date", snap.Date.Format(domain.DateLayout)),
		slog.Int("prices_upserted", r.report.PricesUpserted),
		slog.Int("new_currencies", r.report.NewCurrencies))
	return &r.report, nil
}
