// Package app assembles the services from configuration. Both the HTTP
// backend and the CLI start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	rediscache "github.com/SscSPs/currency_watch_app/internal/adapters/cache/redis"
	"github.com/SscSPs/currency_watch_app/internal/adapters/cbr"
	"github.com/SscSPs/currency_watch_app/internal/adapters/notify"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/core/services"
	"github.com/SscSPs/currency_watch_app/internal/platform/config"
	"github.com/SscSPs/currency_watch_app/internal/platform/database"
	"github.com/SscSPs/currency_watch_app/internal/platform/metrics"
	"github.com/SscSPs/currency_watch_app/internal/platform/migrate"
	"github.com/SscSPs/currency_watch_app/internal/repositories/database/pgsql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// App holds the long-lived resources of a running process.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Cache    *rediscache.RatesCache // nil when REDIS_URL is empty
	Metrics  *metrics.Metrics
	Services *portssvc.ServiceContainer

	closers []func() error
}

// NewLogger builds the JSON logger used by every entry point and installs it as default.
func NewLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// NewSink selects the notification transport named by cfg.NotifySink. The
// returned close function releases the transport and is never nil.
func NewSink(cfg *config.Config) (portssvc.NotificationSink, func() error, error) {
	noop := func() error { return nil }
	switch cfg.NotifySink {
	case config.SinkLog, "":
		return notify.NewLogSink(), noop, nil
	case config.SinkSMTP:
		return notify.NewSMTPSink(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}), noop, nil
	case config.SinkKafka:
		sink := notify.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaNotificationTopic)
		return sink, sink.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown notification sink %q", cfg.NotifySink)
	}
}

// New connects to the database, applies migrations and wires the services.
// reg receives the application metrics; pass nil to disable them.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	if _, err := migrate.Up(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	a.Pool = pool
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	if reg != nil {
		a.Metrics = metrics.New(reg)
	}

	deps := services.Dependencies{
		Repos: pgsql.NewRepositoryProvider(pool),
		Source: cbr.NewClient(cfg.FeedHost,
			cbr.WithTimeout(cfg.FeedHTTPTimeout),
			cbr.WithMetrics(a.Metrics)),
		Metrics:      a.Metrics,
		RequestDelay: cfg.HistoryRequestDelay,
		Notifier:     services.NotifierOptions{AdvanceOnFailure: cfg.NotifyAdvanceOnFailure},
	}

	loc, err := cfg.Location()
	if err != nil {
		a.Close()
		return nil, err
	}
	deps.Clock = services.NewClock(loc)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		a.closers = append(a.closers, client.Close)
		a.Cache = rediscache.NewRatesCache(client, logger, cfg.RatesCacheTTL)
		deps.Cache = a.Cache
		if err := a.Cache.Ping(ctx); err != nil {
			logger.Warn("Rates cache unreachable at startup", slog.String("error", err.Error()))
		}
	}

	sink, closeSink, err := NewSink(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeSink)
	deps.Sink = sink

	a.Services = services.NewServiceContainer(deps)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Error("Error releasing resource", slog.String("error", err.Error()))
		}
	}
	a.closers = nil
}
