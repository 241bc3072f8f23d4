package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RatesService ---
type MockRatesService struct {
	mock.Mock
}

func (m *MockRatesService) LatestRates(ctx context.Context, userID *string, order domain.RateOrder) ([]domain.PricePoint, error) {
	args := m.Called(ctx, userID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}

func (m *MockRatesService) PriceHistory(ctx context.Context, currencyCode string, dates domain.DateRange, after *time.Time, limit int) ([]domain.PricePoint, error) {
	args := m.Called(ctx, currencyCode, dates, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}

func (m *MockRatesService) CurrencyAnalytics(ctx context.Context, currencyCode string, dates domain.DateRange, threshold *decimal.Decimal) ([]domain.AnalyticsRow, error) {
	args := m.Called(ctx, currencyCode, dates, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalyticsRow), args.Error(1)
}

var _ portssvc.RatesSvcFacade = (*MockRatesService)(nil)

// --- Mock TrackingService ---
type MockTrackingService struct {
	mock.Mock
}

func (m *MockTrackingService) ListTracked(ctx context.Context, userID string) ([]domain.TrackedCurrency, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrackedCurrency), args.Error(1)
}

func (m *MockTrackingService) TrackCurrency(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal) (*domain.TrackedCurrency, error) {
	args := m.Called(ctx, userID, currencyCode, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackedCurrency), args.Error(1)
}

func (m *MockTrackingService) UpdateThreshold(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal) error {
	return m.Called(ctx, userID, currencyCode, threshold).Error(0)
}

func (m *MockTrackingService) UntrackCurrency(ctx context.Context, userID, currencyCode string) error {
	return m.Called(ctx, userID, currencyCode).Error(0)
}

var _ portssvc.TrackingSvcFacade = (*MockTrackingService)(nil)

// --- Mock IngestionService ---
type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) LoadHistory(ctx context.Context, days int, onProgress domain.ProgressFunc) (*domain.IngestionReport, error) {
	args := m.Called(ctx, days, onProgress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestionReport), args.Error(1)
}

func (m *MockIngestionService) LoadDaily(ctx context.Context) (*domain.IngestionReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestionReport), args.Error(1)
}

var _ portssvc.IngestionSvc = (*MockIngestionService)(nil)

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Run(ctx context.Context, force bool) (*domain.NotifierRunResult, error) {
	args := m.Called(ctx, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotifierRunResult), args.Error(1)
}

var _ portssvc.ThresholdNotifierSvc = (*MockNotifier)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
