package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackedCurrency is a user's subscription to a currency with a price threshold.
// (UserID, CurrencyCode) is unique.
type TrackedCurrency struct {
	UserID       string          `json:"userID"`
	CurrencyCode string          `json:"currencyCode"`
	Threshold    decimal.Decimal `json:"threshold"`
	AuditFields
}

// TrackedPrice joins a tracked currency with its owner's address and the price on a date.
type TrackedPrice struct {
	UserID       string
	Email        string
	CurrencyCode string
	CurrencyName string
	Threshold    decimal.Decimal
	Date         time.Time
	Value        decimal.Decimal
}

// Breached reports whether the price strictly exceeds the threshold.
func (t TrackedPrice) Breached() bool {
	return t.Value.GreaterThan(t.Threshold)
}
