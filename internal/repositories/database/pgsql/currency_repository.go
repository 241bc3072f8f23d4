package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_watch_app/internal/models"
	"github.com/SscSPs/currency_watch_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)

// UpsertCurrencies inserts all currencies in one statement. Rows colliding on
// code or name are skipped, so the first name seen for a code is kept.
func (r *PgxCurrencyRepository) UpsertCurrencies(ctx context.Context, currencies []domain.Currency) (int, error) {
	if len(currencies) == 0 {
		return 0, nil
	}

	codes := make([]string, len(currencies))
	names := make([]string, len(currencies))
	for i, c := range currencies {
		m := mapping.ToModelCurrency(c)
		codes[i] = m.CurrencyCode
		names[i] = m.Name
	}

	query := `
		INSERT INTO currencies (currency_code, name, created_at, last_updated_at)
		SELECT code, name, NOW(), NOW()
		FROM unnest($1::text[], $2::text[]) AS input(code, name)
		ON CONFLICT DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query, codes, names)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %d currencies: %w", len(currencies), err)
	}
	return int(tag.RowsAffected()), nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, name, created_at, last_updated_at
		FROM currencies
		WHERE currency_code = $1;
	`
	var modelCurr models.Currency
	err := r.Pool.QueryRow(ctx, query, currencyCode).Scan(
		&modelCurr.CurrencyCode,
		&modelCurr.Name,
		&modelCurr.CreatedAt,
		&modelCurr.LastUpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}

	domainCurr := mapping.ToDomainCurrency(modelCurr)
	return &domainCurr, nil
}

// ListCurrencies retrieves all currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, name, created_at, last_updated_at
		FROM currencies
		ORDER BY currency_code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		var currency models.Currency
		err := row.Scan(
			&currency.CurrencyCode,
			&currency.Name,
			&currency.CreatedAt,
			&currency.LastUpdatedAt,
		)
		return currency, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}
