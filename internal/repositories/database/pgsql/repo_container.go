package pgsql

import (
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:        newPgxCurrencyRepository(dbPool),
		PriceRepo:           newPgxPriceRepository(dbPool),
		TrackedCurrencyRepo: newPgxTrackedCurrencyRepository(dbPool),
		CursorRepo:          newPgxNotificationCursorRepository(dbPool),
		UserRepo:            newPgxUserRepository(dbPool),
	}
}
