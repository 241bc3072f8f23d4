package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Breach is a tracked currency whose price is above the user's threshold.
type Breach struct {
	CurrencyCode string          `json:"currencyCode"`
	CurrencyName string          `json:"currencyName"`
	Threshold    decimal.Decimal `json:"threshold"`
	Value        decimal.Decimal `json:"value"`
}

// Notification is one message for one user covering all of that user's breaches.
type Notification struct {
	NotificationID string    `json:"notificationID"`
	UserID         string    `json:"userID"`
	Recipient      string    `json:"recipient"`
	Date           time.Time `json:"date"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	Breaches       []Breach  `json:"breaches"`
}

// NotificationCursor records the last date threshold notifications were sent for.
type NotificationCursor struct {
	LastSentDate *time.Time
}

// SentOn reports whether the cursor already points at date.
func (c NotificationCursor) SentOn(date time.Time) bool {
	return c.LastSentDate != nil && SameDate(*c.LastSentDate, date)
}

// NotifierRunResult describes what a notifier run did.
type NotifierRunResult struct {
	Date          time.Time `json:"date"`
	Skipped       bool      `json:"skipped"`
	Notifications int       `json:"notifications"`
	Failed        int       `json:"failed"`
	Breaches      int       `json:"breaches"`
	CursorMoved   bool      `json:"cursorMoved"`
}

const (
	thresholdSubject = "Currency threshold exceeded"
	thresholdScale   = 2
)

// formatThreshold prints at least two fractional digits without dropping finer ones.
func formatThreshold(d decimal.Decimal) string {
	if d.Exponent() < -thresholdScale {
		return d.String()
	}
	return d.StringFixed(thresholdScale)
}

// RenderThresholdMessage builds the subject and plain-text body for a set of breaches.
func RenderThresholdMessage(date time.Time, breaches []Breach) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Rates on %s exceeded your thresholds:\n\n", DateOf(date).Format(DateLayout))
	for _, br := range breaches {
		fmt.Fprintf(&b, "%s (%s): threshold %s, current value %s\n",
			br.CurrencyCode, br.CurrencyName, formatThreshold(br.Threshold), br.Value.StringFixed(PriceScale))
	}
	return thresholdSubject, b.String()
}
