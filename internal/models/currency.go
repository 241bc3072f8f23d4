package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a row of the currencies table.
type Currency struct {
	CurrencyCode string `db:"currency_code"` // Primary Key (e.g., "USD")
	Name         string `db:"name"`          // Unique
	AuditFields
}

// CurrencyPrice represents a row of the currency_prices table.
// (PriceDate, CurrencyCode) is the primary key.
type CurrencyPrice struct {
	PriceDate    time.Time       `db:"price_date"`
	CurrencyCode string          `db:"currency_code"`
	Value        decimal.Decimal `db:"value"` // numeric(10,4)
}
