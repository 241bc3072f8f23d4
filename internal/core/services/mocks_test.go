package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) UpsertCurrencies(ctx context.Context, currencies []domain.Currency) (int, error) {
	args := m.Called(ctx, currencies)
	return args.Int(0), args.Error(1)
}

// --- Mock PriceRepository ---
type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) LatestPricesByCurrency(ctx context.Context) ([]domain.PricePoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}

func (m *MockPriceRepository) PricesForCurrency(ctx context.Context, currencyCode string, dates domain.DateRange, after *time.Time, limit int) ([]domain.PricePoint, error) {
	args := m.Called(ctx, currencyCode, dates, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}

func (m *MockPriceRepository) UpsertPrices(ctx context.Context, prices []domain.PricePoint) (int, error) {
	args := m.Called(ctx, prices)
	return args.Int(0), args.Error(1)
}

// --- Mock TrackedCurrencyRepository ---
type MockTrackedCurrencyRepository struct {
	mock.Mock
}

func (m *MockTrackedCurrencyRepository) ListTrackedByUser(ctx context.Context, userID string) ([]domain.TrackedCurrency, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrackedCurrency), args.Error(1)
}

func (m *MockTrackedCurrencyRepository) ListTrackedPricesOn(ctx context.Context, date time.Time) ([]domain.TrackedPrice, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrackedPrice), args.Error(1)
}

func (m *MockTrackedCurrencyRepository) SaveTrackedCurrency(ctx context.Context, tracked domain.TrackedCurrency) error {
	args := m.Called(ctx, tracked)
	return args.Error(0)
}

func (m *MockTrackedCurrencyRepository) UpdateThreshold(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal, updatedAt time.Time) error {
	args := m.Called(ctx, userID, currencyCode, threshold, updatedAt)
	return args.Error(0)
}

func (m *MockTrackedCurrencyRepository) DeleteTrackedCurrency(ctx context.Context, userID, currencyCode string) error {
	args := m.Called(ctx, userID, currencyCode)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchDay(ctx context.Context, date time.Time) (*domain.DaySnapshot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySnapshot), args.Error(1)
}

func (m *MockRateSource) FetchLatest(ctx context.Context) (*domain.DaySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DaySnapshot), args.Error(1)
}

func (m *MockRateSource) URLForDay(date time.Time) string {
	return "https://feed.test/archive/" + date.Format("2006/01/02") + "/daily_json.js"
}

func (m *MockRateSource) LatestURL() string {
	return "https://feed.test/daily_json.js"
}

// --- Mock RatesCache ---
type MockRatesCache struct {
	mock.Mock
}

func (m *MockRatesCache) GetLatestRates(ctx context.Context, order domain.RateOrder) ([]domain.PricePoint, bool, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.PricePoint), args.Bool(1), args.Error(2)
}

func (m *MockRatesCache) SetLatestRates(ctx context.Context, order domain.RateOrder, rates []domain.PricePoint) error {
	args := m.Called(ctx, order, rates)
	return args.Error(0)
}

func (m *MockRatesCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fixedClock always reports the same day.
type fixedClock struct {
	today time.Time
}

func (c fixedClock) Today() time.Time {
	return c.today
}

// memoryCursor is an in-memory NotificationCursorRepository with real swap semantics.
type memoryCursor struct {
	last     *time.Time
	swaps    int
	swapErr  error
	getErr   error
	stealDay *time.Time // when set, the first swap loses to a concurrent writer that stored this date
}

func (c *memoryCursor) GetCursor(_ context.Context) (domain.NotificationCursor, error) {
	if c.getErr != nil {
		return domain.NotificationCursor{}, c.getErr
	}
	return domain.NotificationCursor{LastSentDate: c.last}, nil
}

func (c *memoryCursor) SwapLastSentDate(_ context.Context, expected *time.Time, next *time.Time) (bool, error) {
	if c.swapErr != nil {
		return false, c.swapErr
	}
	if c.stealDay != nil {
		stolen := *c.stealDay
		c.last = &stolen
		c.stealDay = nil
	}
	if !sameOptionalDate(c.last, expected) {
		return false, nil
	}
	c.swaps++
	if next == nil {
		c.last = nil
		return true, nil
	}
	v := *next
	c.last = &v
	return true, nil
}

func sameOptionalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return domain.SameDate(*a, *b)
}

// recordingSink records sent notifications and fails for the configured users.
type recordingSink struct {
	sent    []domain.Notification
	failFor map[string]error
}

func (s *recordingSink) Send(_ context.Context, n domain.Notification) error {
	if err, ok := s.failFor[n.UserID]; ok {
		return err
	}
	s.sent = append(s.sent, n)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
