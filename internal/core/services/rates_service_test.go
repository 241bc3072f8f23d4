package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/SscSPs/currency_watch_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RatesServiceTestSuite struct {
	suite.Suite
	currencyRepo *MockCurrencyRepository
	priceRepo    *MockPriceRepository
	trackedRepo  *MockTrackedCurrencyRepository
	cache        *MockRatesCache
	latest       []domain.PricePoint
}

func (s *RatesServiceTestSuite) SetupTest() {
	s.currencyRepo = new(MockCurrencyRepository)
	s.priceRepo = new(MockPriceRepository)
	s.trackedRepo = new(MockTrackedCurrencyRepository)
	s.cache = new(MockRatesCache)
	d := day(2024, time.April, 2)
	s.latest = []domain.PricePoint{
		{Date: d, CurrencyCode: "USD", Value: dec("92.5")},
		{Date: d, CurrencyCode: "CNY", Value: dec("12.7")},
		{Date: d, CurrencyCode: "EUR", Value: dec("99.8")},
	}
}

func codes(rates []domain.PricePoint) []string {
	out := make([]string, 0, len(rates))
	for _, r := range rates {
		out = append(out, r.CurrencyCode)
	}
	return out
}

func (s *RatesServiceTestSuite) TestLatestRates_Ordering() {
	ctx := context.Background()
	svc := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo)

	cases := map[domain.RateOrder][]string{
		domain.OrderByCode:      {"CNY", "EUR", "USD"},
		domain.OrderByValueAsc:  {"CNY", "USD", "EUR"},
		domain.OrderByValueDesc: {"EUR", "USD", "CNY"},
	}
	for order, want := range cases {
		latest := append([]domain.PricePoint(nil), s.latest...)
		s.priceRepo.On("LatestPricesByCurrency", ctx).Return(latest, nil).Once()

		rates, err := svc.LatestRates(ctx, nil, order)

		s.Require().NoError(err)
		s.Equal(want, codes(rates), "order %q", order)
	}
}

func (s *RatesServiceTestSuite) TestLatestRates_InvalidOrder() {
	svc := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo)
	_, err := svc.LatestRates(context.Background(), nil, domain.RateOrder("name"))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RatesServiceTestSuite) TestLatestRates_FilteredByTrackedSet() {
	ctx := context.Background()
	userID := "user-1"
	s.priceRepo.On("LatestPricesByCurrency", ctx).Return(s.latest, nil).Once()
	s.trackedRepo.On("ListTrackedByUser", ctx, userID).Return([]domain.TrackedCurrency{
		{UserID: userID, CurrencyCode: "USD", Threshold: dec("90")},
	}, nil).Once()

	rates, err := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo).LatestRates(ctx, &userID, domain.OrderByCode)

	s.Require().NoError(err)
	s.Equal([]string{"USD"}, codes(rates))
}

func (s *RatesServiceTestSuite) TestLatestRates_EmptyTrackedSetReturnsAll() {
	ctx := context.Background()
	userID := "user-2"
	s.priceRepo.On("LatestPricesByCurrency", ctx).Return(s.latest, nil).Once()
	s.trackedRepo.On("ListTrackedByUser", ctx, userID).Return([]domain.TrackedCurrency{}, nil).Once()

	rates, err := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo).LatestRates(ctx, &userID, domain.OrderByCode)

	s.Require().NoError(err)
	s.Len(rates, 3)
}

func (s *RatesServiceTestSuite) TestLatestRates_CacheHit() {
	ctx := context.Background()
	s.cache.On("GetLatestRates", ctx, domain.OrderByValueDesc).Return(s.latest[:1], true, nil).Once()

	svc := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo, services.WithRatesCache(s.cache))
	rates, err := svc.LatestRates(ctx, nil, domain.OrderByValueDesc)

	s.Require().NoError(err)
	s.Len(rates, 1)
	s.priceRepo.AssertNotCalled(s.T(), "LatestPricesByCurrency", mock.Anything)
}

func (s *RatesServiceTestSuite) TestLatestRates_CacheMissFillsCache() {
	ctx := context.Background()
	s.cache.On("GetLatestRates", ctx, domain.OrderByCode).Return(nil, false, nil).Once()
	s.priceRepo.On("LatestPricesByCurrency", ctx).Return(s.latest, nil).Once()
	s.cache.On("SetLatestRates", ctx, domain.OrderByCode, mock.MatchedBy(func(r []domain.PricePoint) bool {
		return len(r) == 3 && r[0].CurrencyCode == "CNY"
	})).Return(nil).Once()

	svc := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo, services.WithRatesCache(s.cache))
	_, err := svc.LatestRates(ctx, nil, domain.OrderByCode)

	s.Require().NoError(err)
	s.cache.AssertExpectations(s.T())
}

func (s *RatesServiceTestSuite) TestLatestRates_CacheErrorFallsBackToStore() {
	ctx := context.Background()
	s.cache.On("GetLatestRates", ctx, domain.OrderByCode).Return(nil, false, errors.New("redis down")).Once()
	s.priceRepo.On("LatestPricesByCurrency", ctx).Return(s.latest, nil).Once()
	s.cache.On("SetLatestRates", ctx, domain.OrderByCode, mock.Anything).Return(errors.New("redis down")).Once()

	svc := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo, services.WithRatesCache(s.cache))
	rates, err := svc.LatestRates(ctx, nil, domain.OrderByCode)

	s.Require().NoError(err)
	s.Len(rates, 3)
}

func (s *RatesServiceTestSuite) TestPriceHistory() {
	ctx := context.Background()
	from := day(2024, time.March, 1)
	dates := domain.DateRange{From: &from}
	s.currencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD", Name: "US Dollar"}, nil).Once()
	s.priceRepo.On("PricesForCurrency", ctx, "USD", dates, (*time.Time)(nil), services.MaxHistoryPageSize).Return(s.latest[:1], nil).Once()

	prices, err := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo).PriceHistory(ctx, "usd", dates, nil, 0)

	s.Require().NoError(err)
	s.Len(prices, 1)
	s.priceRepo.AssertExpectations(s.T())
}

func (s *RatesServiceTestSuite) TestPriceHistory_UnknownCurrency() {
	ctx := context.Background()
	s.currencyRepo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo).PriceHistory(ctx, "XXX", domain.DateRange{}, nil, 10)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RatesServiceTestSuite) TestCurrencyAnalytics_InvalidRange() {
	from, to := day(2024, time.March, 10), day(2024, time.March, 1)

	_, err := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo).
		CurrencyAnalytics(context.Background(), "USD", domain.DateRange{From: &from, To: &to}, nil)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RatesServiceTestSuite) TestCurrencyAnalytics() {
	ctx := context.Background()
	threshold := dec("90")
	s.currencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	s.priceRepo.On("PricesForCurrency", ctx, "USD", domain.DateRange{}, (*time.Time)(nil), 0).Return([]domain.PricePoint{
		{Date: day(2024, time.March, 1), CurrencyCode: "USD", Value: dec("88")},
		{Date: day(2024, time.March, 2), CurrencyCode: "USD", Value: dec("95.5")},
	}, nil).Once()

	rows, err := services.NewRatesService(s.currencyRepo, s.priceRepo, s.trackedRepo).CurrencyAnalytics(ctx, "USD", domain.DateRange{}, &threshold)

	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(domain.ThresholdLess, rows[0].ThresholdMatch)
	s.True(rows[0].IsMinValue)
	s.Equal(domain.ThresholdExceeded, rows[1].ThresholdMatch)
	s.True(rows[1].IsMaxValue)
}

func TestRatesServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatesServiceTestSuite))
}

func TestBuildAnalytics(t *testing.T) {
	d := day(2024, time.January, 1)
	prices := []domain.PricePoint{
		{Date: d, CurrencyCode: "USD", Value: dec("80")},
		{Date: d.AddDate(0, 0, 1), CurrencyCode: "USD", Value: dec("100")},
		{Date: d.AddDate(0, 0, 2), CurrencyCode: "USD", Value: dec("100")},
		{Date: d.AddDate(0, 0, 3), CurrencyCode: "USD", Value: dec("90")},
	}

	t.Run("with threshold", func(t *testing.T) {
		threshold := dec("90")
		rows := services.BuildAnalytics(prices, &threshold)
		require.Len(t, rows, 4)

		assert.True(t, rows[0].IsMinValue)
		assert.False(t, rows[0].IsMaxValue)
		assert.True(t, rows[1].IsMaxValue)
		assert.True(t, rows[2].IsMaxValue, "ties are all flagged")
		assert.Equal(t, domain.ThresholdLess, rows[0].ThresholdMatch)
		assert.Equal(t, domain.ThresholdExceeded, rows[1].ThresholdMatch)
		assert.Equal(t, domain.ThresholdEqual, rows[3].ThresholdMatch)

		require.NotNil(t, rows[0].PercentageRatio)
		assert.Equal(t, "88.89", rows[0].PercentageRatio.StringFixed(2))
		assert.Equal(t, "100.00", rows[3].PercentageRatio.StringFixed(2))
	})

	t.Run("zero threshold has no ratio", func(t *testing.T) {
		zero := decimal.Zero
		rows := services.BuildAnalytics(prices, &zero)
		assert.Equal(t, domain.ThresholdExceeded, rows[0].ThresholdMatch)
		assert.Nil(t, rows[0].PercentageRatio)
	})

	t.Run("without threshold", func(t *testing.T) {
		rows := services.BuildAnalytics(prices, nil)
		for _, r := range rows {
			assert.Equal(t, domain.ThresholdNone, r.ThresholdMatch)
			assert.Nil(t, r.PercentageRatio)
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, services.BuildAnalytics(nil, nil))
	})
}
