package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one currency entry of a feed snapshot.
type Quote struct {
	CurrencyCode string
	Name         string
	Value        decimal.Decimal
}

// DaySnapshot is the parsed feed payload for a single date.
type DaySnapshot struct {
	Date   time.Time
	Quotes map[string]Quote // keyed by currency code
	URL    string
}

// Currencies returns the currencies present in the snapshot, ordered by code.
func (s DaySnapshot) Currencies() []Currency {
	out := make([]Currency, 0, len(s.Quotes))
	for _, q := range s.Quotes {
		out = append(out, Currency{CurrencyCode: NormalizeCurrencyCode(q.CurrencyCode), Name: q.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out
}

// ProgressEvent reports the outcome of one processed day during ingestion.
type ProgressEvent struct {
	Date  time.Time `json:"date"`
	URL   string    `json:"url"`
	Error string    `json:"error,omitempty"`
}

// Failed reports whether the day could not be loaded.
func (e ProgressEvent) Failed() bool {
	return e.Error != ""
}

// ProgressFunc receives one ProgressEvent per processed day. It may be nil.
type ProgressFunc func(ProgressEvent)

// IngestionReport summarizes an ingestion run.
type IngestionReport struct {
	Days           []ProgressEvent `json:"days"`
	FailedDays     int             `json:"failedDays"`
	PricesUpserted int             `json:"pricesUpserted"`
	NewCurrencies  int             `json:"newCurrencies"`
}
