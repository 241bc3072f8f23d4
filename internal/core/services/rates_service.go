package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// MaxHistoryPageSize caps a single page of price history.
const MaxHistoryPageSize = 366

// ratesService implements the RatesSvcFacade interface
type ratesService struct {
	BaseService
	currencyRepo portsrepo.CurrencyReader
	priceRepo    portsrepo.PriceReader
	trackedRepo  portsrepo.TrackedCurrencyReader
	cache        portssvc.RatesCache
	metrics      *metrics.Metrics
}

// RatesOption is a functional option for configuring the rates service
type RatesOption func(*ratesService)

// WithRatesCache serves the shared latest-rates list from cache.
func WithRatesCache(cache portssvc.RatesCache) RatesOption {
	return func(s *ratesService) {
		s.cache = cache
	}
}

// WithRatesMetrics records cache lookups.
func WithRatesMetrics(m *metrics.Metrics) RatesOption {
	return func(s *ratesService) {
		s.metrics = m
	}
}

// NewRatesService creates the rates and analytics query service.
func NewRatesService(
	currencyRepo portsrepo.CurrencyReader,
	priceRepo portsrepo.PriceReader,
	trackedRepo portsrepo.TrackedCurrencyReader,
	options ...RatesOption,
) portssvc.RatesSvcFacade {
	svc := &ratesService{
		currencyRepo: currencyRepo,
		priceRepo:    priceRepo,
		trackedRepo:  trackedRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RatesSvcFacade = (*ratesService)(nil)

func sortRates(rates []domain.PricePoint, order domain.RateOrder) {
	sort.SliceStable(rates, func(i, j int) bool {
		switch order {
		case domain.OrderByValueAsc:
			if !rates[i].Value.Equal(rates[j].Value) {
				return rates[i].Value.LessThan(rates[j].Value)
			}
		case domain.OrderByValueDesc:
			if !rates[i].Value.Equal(rates[j].Value) {
				return rates[i].Value.GreaterThan(rates[j].Value)
			}
		}
		return rates[i].CurrencyCode < rates[j].CurrencyCode
	})
}

func (s *ratesService) sharedLatestRates(ctx context.Context, order domain.RateOrder) ([]domain.PricePoint, error) {
	if s.cache != nil {
		rates, ok, err := s.cache.GetLatestRates(ctx, order)
		switch {
		case err != nil:
			s.metrics.ObserveCacheLookup("error")
			s.LogError(ctx, err, "Failed to read rates cache", slog.String("order", string(order)))
		case ok:
			s.metrics.ObserveCacheLookup("hit")
			return rates, nil
		default:
			s.metrics.ObserveCacheLookup("miss")
		}
	}

	rates, err := s.priceRepo.LatestPricesByCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest rates: %w", err)
	}
	sortRates(rates, order)

	if s.cache != nil {
		if err := s.cache.SetLatestRates(ctx, order, rates); err != nil {
			s.LogError(ctx, err, "Failed to write rates cache", slog.String("order", string(order)))
		}
	}
	return rates, nil
}

func (s *ratesService) LatestRates(ctx context.Context, userID *string, order domain.RateOrder) ([]domain.PricePoint, error) {
	if !order.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported ordering %q", order))
	}

	rates, err := s.sharedLatestRates(ctx, order)
	if err != nil {
		return nil, err
	}
	if userID == nil || *userID == "" {
		return rates, nil
	}

	tracked, err := s.trackedRepo.ListTrackedByUser(ctx, *userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked currencies: %w", err)
	}
	if len(tracked) == 0 {
		return rates, nil
	}

	codes := make(map[string]struct{}, len(tracked))
	for _, t := range tracked {
		codes[t.CurrencyCode] = struct{}{}
	}
	filtered := make([]domain.PricePoint, 0, len(tracked))
	for _, r := range rates {
		if _, ok := codes[r.CurrencyCode]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *ratesService) requireCurrency(ctx context.Context, code string) (string, error) {
	code = domain.NormalizeCurrencyCode(code)
	if !domain.IsValidCurrencyCode(code) {
		return "", apperrors.NewValidationError(fmt.Sprintf("invalid currency code %q", code))
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewNotFoundError(fmt.Sprintf("currency %s not found", code))
		}
		return "", fmt.Errorf("failed to find currency %s: %w", code, err)
	}
	return code, nil
}

func validateRange(dates domain.DateRange) error {
	if dates.From != nil && dates.To != nil && dates.From.After(*dates.To) {
		return apperrors.NewValidationError("dateFrom must not be after dateTo")
	}
	return nil
}

func (s *ratesService) PriceHistory(ctx context.Context, currencyCode string, dates domain.DateRange, after *time.Time, limit int) ([]domain.PricePoint, error) {
	if err := validateRange(dates); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxHistoryPageSize {
		limit = MaxHistoryPageSize
	}
	code, err := s.requireCurrency(ctx, currencyCode)
	if err != nil {
		return nil, err
	}

	prices, err := s.priceRepo.PricesForCurrency(ctx, code, dates, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", code, err)
	}
	return prices, nil
}

func (s *ratesService) CurrencyAnalytics(ctx context.Context, currencyCode string, dates domain.DateRange, threshold *decimal.Decimal) ([]domain.AnalyticsRow, error) {
	if err := validateRange(dates); err != nil {
		return nil, err
	}
	code, err := s.requireCurrency(ctx, currencyCode)
	if err != nil {
		return nil, err
	}

	prices, err := s.priceRepo.PricesForCurrency(ctx, code, dates, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", code, err)
	}
	return BuildAnalytics(prices, threshold), nil
}
