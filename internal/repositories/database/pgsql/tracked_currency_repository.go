package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_watch_app/internal/models"
	"github.com/SscSPs/currency_watch_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxTrackedCurrencyRepository stores user subscriptions to currencies.
type PgxTrackedCurrencyRepository struct {
	BaseRepository
}

func newPgxTrackedCurrencyRepository(pool *pgxpool.Pool) portsrepo.TrackedCurrencyRepositoryFacade {
	return &PgxTrackedCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TrackedCurrencyRepositoryFacade = (*PgxTrackedCurrencyRepository)(nil)

func (r *PgxTrackedCurrencyRepository) SaveTrackedCurrency(ctx context.Context, tracked domain.TrackedCurrency) error {
	m := mapping.ToModelTrackedCurrency(tracked)
	query := `
		INSERT INTO tracked_currencies (user_id, currency_code, threshold, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, m.UserID, m.CurrencyCode, m.Threshold, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown user or currency", apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to save tracked currency %s for user %s: %w", m.CurrencyCode, m.UserID, err)
	}
	return nil
}

func (r *PgxTrackedCurrencyRepository) UpdateThreshold(ctx context.Context, userID, currencyCode string, threshold decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE tracked_currencies
		SET threshold = $3, last_updated_at = $4
		WHERE user_id = $1 AND currency_code = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, userID, currencyCode, threshold, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update threshold of %s for user %s: %w", currencyCode, userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTrackedCurrencyRepository) DeleteTrackedCurrency(ctx context.Context, userID, currencyCode string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM tracked_currencies WHERE user_id = $1 AND currency_code = $2;`,
		userID, currencyCode)
	if err != nil {
		return fmt.Errorf("failed to delete tracked currency %s for user %s: %w", currencyCode, userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTrackedCurrencyRepository) ListTrackedByUser(ctx context.Context, userID string) ([]domain.TrackedCurrency, error) {
	query := `
		SELECT user_id, currency_code, threshold, created_at, last_updated_at
		FROM tracked_currencies
		WHERE user_id = $1
		ORDER BY currency_code;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked currencies: %w", err)
	}
	defer rows.Close()

	tracked, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TrackedCurrency, error) {
		var t models.TrackedCurrency
		err := row.Scan(&t.UserID, &t.CurrencyCode, &t.Threshold, &t.CreatedAt, &t.LastUpdatedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tracked currencies: %w", err)
	}
	return mapping.ToDomainTrackedCurrencySlice(tracked), nil
}

// ListTrackedPricesOn joins subscriptions with owners and the price on date.
func (r *PgxTrackedCurrencyRepository) ListTrackedPricesOn(ctx context.Context, date time.Time) ([]domain.TrackedPrice, error) {
	query := `
		SELECT tc.user_id, u.email, tc.currency_code, c.name, tc.threshold, p.price_date, p.value
		FROM tracked_currencies tc
		JOIN users u ON u.user_id = tc.user_id
		JOIN currencies c ON c.currency_code = tc.currency_code
		JOIN currency_prices p ON p.currency_code = tc.currency_code AND p.price_date = $1
		ORDER BY tc.user_id, tc.currency_code;
	`
	rows, err := r.Pool.Query(ctx, query, domain.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked prices: %w", err)
	}
	defer rows.Close()

	joined, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TrackedPrice, error) {
		var t models.TrackedPrice
		err := row.Scan(&t.UserID, &t.Email, &t.CurrencyCode, &t.CurrencyName, &t.Threshold, &t.PriceDate, &t.Value)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tracked prices: %w", err)
	}

	out := make([]domain.TrackedPrice, len(joined))
	for i, t := range joined {
		out[i] = mapping.ToDomainTrackedPrice(t)
	}
	return out, nil
}
