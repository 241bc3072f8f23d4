package mapping

import (
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/SscSPs/currency_watch_app/internal/models"
)

// ToModelTrackedCurrency converts a domain TrackedCurrency to a model TrackedCurrency
func ToModelTrackedCurrency(d domain.TrackedCurrency) models.TrackedCurrency {
	return models.TrackedCurrency{
		UserID:       d.UserID,
		CurrencyCode: d.CurrencyCode,
		Threshold:    d.Threshold,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTrackedCurrency converts a model TrackedCurrency to a domain TrackedCurrency
func ToDomainTrackedCurrency(m models.TrackedCurrency) domain.TrackedCurrency {
	return domain.TrackedCurrency{
		UserID:       m.UserID,
		CurrencyCode: m.CurrencyCode,
		Threshold:    m.Threshold,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTrackedCurrencySlice converts a slice of model TrackedCurrencies to domain TrackedCurrencies
func ToDomainTrackedCurrencySlice(ms []models.TrackedCurrency) []domain.TrackedCurrency {
	ds := make([]domain.TrackedCurrency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTrackedCurrency(m)
	}
	return ds
}

// ToDomainTrackedPrice converts a joined model row to a domain TrackedPrice
func ToDomainTrackedPrice(m models.TrackedPrice) domain.TrackedPrice {
	return domain.TrackedPrice{
		UserID:       m.UserID,
		Email:        m.Email,
		CurrencyCode: m.CurrencyCode,
		CurrencyName: m.CurrencyName,
		Threshold:    m.Threshold,
		Date:         domain.DateOf(m.PriceDate),
		Value:        m.Value,
	}
}
