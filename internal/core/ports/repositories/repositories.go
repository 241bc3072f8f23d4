package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	CurrencyRepo        CurrencyRepositoryFacade
	PriceRepo           PriceRepositoryFacade
	TrackedCurrencyRepo TrackedCurrencyRepositoryFacade
	CursorRepo          NotificationCursorRepository
	UserRepo            UserRepositoryFacade
}
