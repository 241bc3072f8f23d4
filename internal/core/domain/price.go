package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits kept for stored prices.
const PriceScale = 4

// PricePoint is the value of one currency on one date. (Date, CurrencyCode) is its identity.
type PricePoint struct {
	Date         time.Time       `json:"date"`
	CurrencyCode string          `json:"currencyCode"`
	Value        decimal.Decimal `json:"value"`
}

// PriceKey identifies a PricePoint.
type PriceKey struct {
	Date         time.Time
	CurrencyCode string
}

// NewPricePoint normalizes date, code and scale.
func NewPricePoint(date time.Time, code string, value decimal.Decimal) PricePoint {
	return PricePoint{
		Date:         DateOf(date),
		CurrencyCode: NormalizeCurrencyCode(code),
		Value:        value.Round(PriceScale),
	}
}

// Key returns the upsert key of p.
func (p PricePoint) Key() PriceKey {
	return PriceKey{Date: DateOf(p.Date), CurrencyCode: p.CurrencyCode}
}

// DedupePrices keeps the last occurrence of each (date, currency) key while
// preserving first-seen order. A single bulk upsert cannot touch the same row twice.
func DedupePrices(prices []PricePoint) []PricePoint {
	index := make(map[PriceKey]int, len(prices))
	out := make([]PricePoint, 0, len(prices))
	for _, p := range prices {
		k := p.Key()
		if i, ok := index[k]; ok {
			out[i] = p
			continue
		}
		index[k] = len(out)
		out = append(out, p)
	}
	return out
}
