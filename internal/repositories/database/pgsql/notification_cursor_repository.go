package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// cursorRowID is the fixed key of the singleton cursor row.
const cursorRowID = 1

// PgxNotificationCursorRepository persists the notification cursor.
type PgxNotificationCursorRepository struct {
	BaseRepository
}

func newPgxNotificationCursorRepository(pool *pgxpool.Pool) portsrepo.NotificationCursorRepository {
	return &PgxNotificationCursorRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NotificationCursorRepository = (*PgxNotificationCursorRepository)(nil)

func (r *PgxNotificationCursorRepository) GetCursor(ctx context.Context) (domain.NotificationCursor, error) {
	var last *time.Time
	err := r.Pool.QueryRow(ctx,
		`SELECT last_sent_date FROM notification_cursor WHERE id = $1;`, cursorRowID,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotificationCursor{}, nil
		}
		return domain.NotificationCursor{}, fmt.Errorf("failed to read notification cursor: %w", err)
	}
	if last != nil {
		d := domain.DateOf(*last)
		last = &d
	}
	return domain.NotificationCursor{LastSentDate: last}, nil
}

func optionalDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}

// SwapLastSentDate is a conditional update: it only succeeds when the stored
// date still equals expected, so two runs cannot both claim the same day.
func (r *PgxNotificationCursorRepository) SwapLastSentDate(ctx context.Context, expected *time.Time, next *time.Time) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO notification_cursor (id, last_sent_date, updated_at) VALUES ($1, NULL, NOW()) ON CONFLICT (id) DO NOTHING;`,
		cursorRowID,
	); err != nil {
		return false, fmt.Errorf("failed to initialise notification cursor: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE notification_cursor
		SET last_sent_date = $2::date, updated_at = NOW()
		WHERE id = $3 AND last_sent_date IS NOT DISTINCT FROM $1::date;
	`, optionalDate(expected), optionalDate(next), cursorRowID)
	if err != nil {
		return false, fmt.Errorf("failed to swap notification cursor: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
