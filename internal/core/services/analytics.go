package services

import (
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BuildAnalytics annotates prices with max/min flags and, when threshold is set,
// their relation to it. Flags compare against the selection only.
func BuildAnalytics(prices []domain.PricePoint, threshold *decimal.Decimal) []domain.AnalyticsRow {
	if len(prices) == 0 {
		return []domain.AnalyticsRow{}
	}

	maxValue, minValue := prices[0].Value, prices[0].Value
	for _, p := range prices[1:] {
		if p.Value.GreaterThan(maxValue) {
			maxValue = p.Value
		}
		if p.Value.LessThan(minValue) {
			minValue = p.Value
		}
	}

	rows := make([]domain.AnalyticsRow, 0, len(prices))
	for _, p := range prices {
		row := domain.AnalyticsRow{
			CurrencyCode:   p.CurrencyCode,
			Date:           p.Date,
			Value:          p.Value,
			IsMaxValue:     p.Value.Equal(maxValue),
			IsMinValue:     p.Value.Equal(minValue),
			ThresholdMatch: domain.ThresholdNone,
		}
		if threshold != nil {
			row.ThresholdMatch = domain.MatchThreshold(p.Value, *threshold)
			if threshold.IsPositive() {
				ratio := p.Value.Div(*threshold).Mul(hundred).Round(2)
				row.PercentageRatio = &ratio
			}
		}
		rows = append(rows, row)
	}
	return rows
}
