package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTrackedPrice_Breached(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		threshold string
		want      bool
	}{
		{"above threshold", "95.5000", "90.00", true},
		{"equal to threshold", "90.0000", "90", false},
		{"below threshold", "89.9999", "90", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := domain.TrackedPrice{
				Value:     decimal.RequireFromString(tt.value),
				Threshold: decimal.RequireFromString(tt.threshold),
			}
			assert.Equal(t, tt.want, tp.Breached())
		})
	}
}

func TestNotificationCursor_SentOn(t *testing.T) {
	today := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	assert.False(t, domain.NotificationCursor{}.SentOn(today))
	assert.False(t, domain.NotificationCursor{LastSentDate: &yesterday}.SentOn(today))

	lateToday := today.Add(15 * time.Hour)
	assert.True(t, domain.NotificationCursor{LastSentDate: &lateToday}.SentOn(today))
}

func TestRenderThresholdMessage(t *testing.T) {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	subject, body := domain.RenderThresholdMessage(date, []domain.Breach{{
		CurrencyCode: "USD",
		CurrencyName: "Доллар США",
		Threshold:    decimal.RequireFromString("90.00"),
		Value:        decimal.RequireFromString("95.5"),
	}})

	assert.Equal(t, "Currency threshold exceeded", subject)
	assert.Contains(t, body, "2024-03-05")
	assert.Contains(t, body, "USD (Доллар США): threshold 90.00, current value 95.5000")
}

func TestRenderThresholdMessage_ThresholdDigits(t *testing.T) {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		threshold string
		want      string
	}{
		{"90", "threshold 90.00,"},
		{"90.5", "threshold 90.50,"},
		{"90.125", "threshold 90.125,"},
	}
	for _, tt := range tests {
		_, body := domain.RenderThresholdMessage(date, []domain.Breach{{
			CurrencyCode: "USD",
			CurrencyName: "US Dollar",
			Threshold:    decimal.RequireFromString(tt.threshold),
			Value:        decimal.RequireFromString("95.5"),
		}})
		assert.Contains(t, body, tt.want, "threshold %s", tt.threshold)
	}
}

func TestMatchThreshold(t *testing.T) {
	th := decimal.RequireFromString("10")
	assert.Equal(t, domain.ThresholdExceeded, domain.MatchThreshold(decimal.RequireFromString("10.0001"), th))
	assert.Equal(t, domain.ThresholdLess, domain.MatchThreshold(decimal.RequireFromString("9.9999"), th))
	assert.Equal(t, domain.ThresholdEqual, domain.MatchThreshold(decimal.RequireFromString("10.0000"), th))
}
