package services

import (
	"time"

	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/platform/metrics"
)

// Dependencies are the collaborators the services are built from.
type Dependencies struct {
	Repos        portsrepo.RepositoryProvider
	Source       portssvc.RateSource
	Sink         portssvc.NotificationSink
	Cache        portssvc.RatesCache // optional
	Clock        portssvc.Clock
	Metrics      *metrics.Metrics // optional
	RequestDelay time.Duration
	Notifier     NotifierOptions
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(deps Dependencies) *portssvc.ServiceContainer {
	repos := deps.Repos
	container := &portssvc.ServiceContainer{}

	ingestionOpts := []IngestionOption{
		WithRequestDelay(deps.RequestDelay),
		WithIngestionMetrics(deps.Metrics),
	}
	ratesOpts := []RatesOption{WithRatesMetrics(deps.Metrics)}
	if deps.Cache != nil {
		ingestionOpts = append(ingestionOpts, WithIngestionCache(deps.Cache))
		ratesOpts = append(ratesOpts, WithRatesCache(deps.Cache))
	}

	container.Ingestion = NewIngestionService(deps.Source, repos.CurrencyRepo, repos.PriceRepo, deps.Clock, ingestionOpts...)
	container.Notifier = NewThresholdNotifier(
		repos.TrackedCurrencyRepo,
		repos.CursorRepo,
		deps.Sink,
		deps.Clock,
		WithNotifierOptions(deps.Notifier),
		WithNotifierMetrics(deps.Metrics),
	)
	container.Rates = NewRatesService(repos.CurrencyRepo, repos.PriceRepo, repos.TrackedCurrencyRepo, ratesOpts...)
	container.Tracking = NewTrackingService(repos.TrackedCurrencyRepo, repos.CurrencyRepo, repos.UserRepo)
	container.Users = NewUserService(repos.UserRepo)

	return container
}
