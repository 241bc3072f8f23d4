package dto

import (
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListRatesParams defines query parameters for the latest rates list.
type ListRatesParams struct {
	Ordering string `form:"ordering" binding:"omitempty,oneof=value -value"`
}

// RateResponse is one entry of the latest rates list.
type RateResponse struct {
	Date         string          `json:"date"`
	CurrencyCode string          `json:"charcode"`
	Value        decimal.Decimal `json:"value"`
}

// ToRateResponse converts a domain PricePoint to a RateResponse DTO
func ToRateResponse(p domain.PricePoint) RateResponse {
	return RateResponse{
		Date:         p.Date.Format(domain.DateLayout),
		CurrencyCode: p.CurrencyCode,
		Value:        p.Value,
	}
}

// ToListRateResponse converts a slice of domain PricePoints to RateResponse DTOs
func ToListRateResponse(prices []domain.PricePoint) []RateResponse {
	res := make([]RateResponse, len(prices))
	for i, p := range prices {
		res[i] = ToRateResponse(p)
	}
	return res
}

// DateRangeParams are the optional inclusive date filters shared by history and analytics.
type DateRangeParams struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// ToDomain parses the filters. Values have been validated by binding.
func (p DateRangeParams) ToDomain() (domain.DateRange, error) {
	var r domain.DateRange
	if p.DateFrom != "" {
		from, err := domain.ParseDate(p.DateFrom)
		if err != nil {
			return r, err
		}
		r.From = &from
	}
	if p.DateTo != "" {
		to, err := domain.ParseDate(p.DateTo)
		if err != nil {
			return r, err
		}
		r.To = &to
	}
	return r, nil
}

// ListPricesParams defines query parameters for a price history page.
type ListPricesParams struct {
	DateRangeParams
	Limit     int    `form:"limit,default=100" binding:"min=1,max=366"`
	NextToken string `form:"nextToken"`
}

// ListPricesResponse wraps a page of price history.
type ListPricesResponse struct {
	CurrencyCode string         `json:"charcode"`
	Prices       []RateResponse `json:"prices"`
	NextToken    *string        `json:"nextToken"`
}

// AnalyticsParams defines query parameters for currency analytics.
type AnalyticsParams struct {
	DateRangeParams
	Threshold string `form:"threshold" binding:"omitempty,numeric"`
}

// ThresholdValue parses the optional threshold.
func (p AnalyticsParams) ThresholdValue() (*decimal.Decimal, error) {
	if p.Threshold == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(p.Threshold)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// AnalyticsRowResponse is one annotated price of the analytics view.
type AnalyticsRowResponse struct {
	Date               string           `json:"date"`
	CurrencyCode       string           `json:"charcode"`
	Value              decimal.Decimal  `json:"value"`
	IsMaxValue         bool             `json:"is_max_value"`
	IsMinValue         bool             `json:"is_min_value"`
	ThresholdMatchType string           `json:"threshold_match_type"`
	PercentageRatio    *decimal.Decimal `json:"percentage_ratio"`
}

// ToListAnalyticsResponse converts domain analytics rows to response DTOs
func ToListAnalyticsResponse(rows []domain.AnalyticsRow) []AnalyticsRowResponse {
	res := make([]AnalyticsRowResponse, len(rows))
	for i, r := range rows {
		res[i] = AnalyticsRowResponse{
			Date:               r.Date.Format(domain.DateLayout),
			CurrencyCode:       r.CurrencyCode,
			Value:              r.Value,
			IsMaxValue:         r.IsMaxValue,
			IsMinValue:         r.IsMinValue,
			ThresholdMatchType: string(r.ThresholdMatch),
			PercentageRatio:    r.PercentageRatio,
		}
	}
	return res
}
