package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_watch_app/internal/models"
	"github.com/SscSPs/currency_watch_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPriceRepository stores daily currency prices.
type PgxPriceRepository struct {
	BaseRepository
}

func newPgxPriceRepository(pool *pgxpool.Pool) portsrepo.PriceRepositoryFacade {
	return &PgxPriceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PriceRepositoryFacade = (*PgxPriceRepository)(nil)

// UpsertPrices writes all prices with a single statement. Values travel as
// text and are cast to numeric server side so no precision is lost.
func (r *PgxPriceRepository) UpsertPrices(ctx context.Context, prices []domain.PricePoint) (int, error) {
	if len(prices) == 0 {
		return 0, nil
	}

	dates := make([]time.Time, len(prices))
	codes := make([]string, len(prices))
	values := make([]string, len(prices))
	for i, p := range prices {
		m := mapping.ToModelCurrencyPrice(p)
		dates[i] = m.PriceDate
		codes[i] = m.CurrencyCode
		values[i] = m.Value.StringFixed(domain.PriceScale)
	}

	query := `
		INSERT INTO currency_prices (price_date, currency_code, value, created_at, last_updated_at)
		SELECT price_date, code, value::numeric, NOW(), NOW()
		FROM unnest($1::date[], $2::text[], $3::text[]) AS input(price_date, code, value)
		ON CONFLICT (price_date, currency_code) DO UPDATE SET
			value = EXCLUDED.value,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	tag, err := r.Pool.Exec(ctx, query, dates, codes, values)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %d prices: %w", len(prices), err)
	}
	return int(tag.RowsAffected()), nil
}

// LatestPricesByCurrency returns the most recent price of every currency.
func (r *PgxPriceRepository) LatestPricesByCurrency(ctx context.Context) ([]domain.PricePoint, error) {
	query := `
		SELECT DISTINCT ON (currency_code) price_date, currency_code, value
		FROM currency_prices
		ORDER BY currency_code, price_date DESC;
	`
	return r.queryPrices(ctx, query)
}

// priceHistoryQuery builds the filtered price query for one currency.
func priceHistoryQuery(currencyCode string, dates domain.DateRange, after *time.Time, limit int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT price_date, currency_code, value
		FROM currency_prices
		WHERE currency_code = $1`)
	args := []any{currencyCode}

	addCond := func(cond string, v any) {
		args = append(args, v)
		fmt.Fprintf(&sb, " AND %s $%d", cond, len(args))
	}
	if dates.From != nil {
		addCond("price_date >=", domain.DateOf(*dates.From))
	}
	if dates.To != nil {
		addCond("price_date <=", domain.DateOf(*dates.To))
	}
	if after != nil {
		addCond("price_date >", domain.DateOf(*after))
	}

	sb.WriteString(" ORDER BY price_date ASC")
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	sb.WriteString(";")
	return sb.String(), args
}

// PricesForCurrency returns prices for one currency, oldest first.
func (r *PgxPriceRepository) PricesForCurrency(ctx context.Context, currencyCode string, dates domain.DateRange, after *time.Time, limit int) ([]domain.PricePoint, error) {
	query, args := priceHistoryQuery(currencyCode, dates, after, limit)
	return r.queryPrices(ctx, query, args...)
}

func (r *PgxPriceRepository) queryPrices(ctx context.Context, query string, args ...any) ([]domain.PricePoint, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	modelPrices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CurrencyPrice, error) {
		var p models.CurrencyPrice
		err := row.Scan(&p.PriceDate, &p.CurrencyCode, &p.Value)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan prices: %w", err)
	}
	return mapping.ToDomainPricePointSlice(modelPrices), nil
}
