package dto

import (
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrackCurrencyRequest defines the data needed to start tracking a currency.
type TrackCurrencyRequest struct {
	CurrencyCode string           `json:"currency" binding:"required,len=3,alpha"`
	Threshold    *decimal.Decimal `json:"threshold" binding:"required"`
}

// UpdateThresholdRequest changes the threshold of a tracked currency.
type UpdateThresholdRequest struct {
	Threshold *decimal.Decimal `json:"threshold" binding:"required"`
}

// TrackedCurrencyResponse defines the data returned for a tracked currency.
type TrackedCurrencyResponse struct {
	CurrencyCode  string          `json:"currency"`
	Threshold     decimal.Decimal `json:"threshold"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToTrackedCurrencyResponse converts a domain TrackedCurrency to its response DTO
func ToTrackedCurrencyResponse(t domain.TrackedCurrency) TrackedCurrencyResponse {
	return TrackedCurrencyResponse{
		CurrencyCode:  t.CurrencyCode,
		Threshold:     t.Threshold,
		CreatedAt:     t.CreatedAt,
		LastUpdatedAt: t.LastUpdatedAt,
	}
}

// ToListTrackedCurrencyResponse converts a slice of tracked currencies to response DTOs
func ToListTrackedCurrencyResponse(tracked []domain.TrackedCurrency) []TrackedCurrencyResponse {
	res := make([]TrackedCurrencyResponse, len(tracked))
	for i, t := range tracked {
		res[i] = ToTrackedCurrencyResponse(t)
	}
	return res
}
