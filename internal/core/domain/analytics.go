package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ThresholdMatch classifies a price against a threshold.
type ThresholdMatch string

const (
	ThresholdExceeded ThresholdMatch = "exceeded"
	ThresholdLess     ThresholdMatch = "less"
	ThresholdEqual    ThresholdMatch = "equal"
	ThresholdNone     ThresholdMatch = "no threshold"
)

// MatchThreshold compares value against threshold.
func MatchThreshold(value, threshold decimal.Decimal) ThresholdMatch {
	switch value.Cmp(threshold) {
	case 1:
		return ThresholdExceeded
	case -1:
		return ThresholdLess
	default:
		return ThresholdEqual
	}
}

// AnalyticsRow is a price annotated with range and threshold information.
type AnalyticsRow struct {
	CurrencyCode    string           `json:"currencyCode"`
	Date            time.Time        `json:"date"`
	Value           decimal.Decimal  `json:"value"`
	IsMaxValue      bool             `json:"isMaxValue"`
	IsMinValue      bool             `json:"isMinValue"`
	ThresholdMatch  ThresholdMatch   `json:"thresholdMatchType"`
	PercentageRatio *decimal.Decimal `json:"percentageRatio"`
}

// DateRange is an optional inclusive date filter.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// RateOrder selects the ordering of the latest-rates list.
type RateOrder string

const (
	OrderByCode      RateOrder = ""
	OrderByValueAsc  RateOrder = "value"
	OrderByValueDesc RateOrder = "-value"
)

// Valid reports whether o is a supported ordering.
func (o RateOrder) Valid() bool {
	return o == OrderByCode || o == OrderByValueAsc || o == OrderByValueDesc
}
