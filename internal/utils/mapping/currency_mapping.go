package mapping

import (
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	"github.com/SscSPs/currency_watch_app/internal/models"
)

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode: d.CurrencyCode,
		Name:         d.Name,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Name:         m.Name,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to a slice of domain Currencies
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	ds := make([]domain.Currency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}

// ToModelCurrencyPrice converts a domain PricePoint to a model CurrencyPrice
func ToModelCurrencyPrice(d domain.PricePoint) models.CurrencyPrice {
	return models.CurrencyPrice{
		PriceDate:    domain.DateOf(d.Date),
		CurrencyCode: d.CurrencyCode,
		Value:        d.Value,
	}
}

// ToDomainPricePoint converts a model CurrencyPrice to a domain PricePoint
func ToDomainPricePoint(m models.CurrencyPrice) domain.PricePoint {
	return domain.PricePoint{
		Date:         domain.DateOf(m.PriceDate),
		CurrencyCode: m.CurrencyCode,
		Value:        m.Value,
	}
}

// ToDomainPricePointSlice converts a slice of model CurrencyPrices to domain PricePoints
func ToDomainPricePointSlice(ms []models.CurrencyPrice) []domain.PricePoint {
	ds := make([]domain.PricePoint, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPricePoint(m)
	}
	return ds
}
