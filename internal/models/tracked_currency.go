package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackedCurrency represents a row of the tracked_currencies table.
type TrackedCurrency struct {
	UserID       string          `db:"user_id"`
	CurrencyCode string          `db:"currency_code"`
	Threshold    decimal.Decimal `db:"threshold"`
	AuditFields
}

// TrackedPrice is the result row of the tracked-currency/price join.
type TrackedPrice struct {
	UserID       string          `db:"user_id"`
	Email        string          `db:"email"`
	CurrencyCode string          `db:"currency_code"`
	CurrencyName string          `db:"currency_name"`
	Threshold    decimal.Decimal `db:"threshold"`
	PriceDate    time.Time       `db:"price_date"`
	Value        decimal.Decimal `db:"value"`
}
