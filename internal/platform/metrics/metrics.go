package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for ingestion and notification runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	IngestionDaysTotal    *prometheus.CounterVec
	PricesUpsertedTotal   prometheus.Counter
	CurrenciesCreated     prometheus.Counter
	FeedRequestDuration   *prometheus.HistogramVec
	NotificationsTotal    *prometheus.CounterVec
	NotifierRunsTotal     *prometheus.CounterVec
	RatesCacheLookupTotal *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IngestionDaysTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingestion_days_total",
				Help: "Feed days processed by ingestion runs",
			},
			[]string{"mode", "outcome"},
		),
		PricesUpsertedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ingestion_prices_upserted_total",
				Help: "Price rows written by ingestion runs",
			},
		),
		CurrenciesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ingestion_currencies_created_total",
				Help: "Currencies created on first sighting in feed data",
			},
		),
		FeedRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feed_request_duration_seconds",
				Help:    "Latency of rate feed requests",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
			},
			[]string{"endpoint", "outcome"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_sent_total",
				Help: "Threshold notifications handed to the sink",
			},
			[]string{"outcome"},
		),
		NotifierRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifier_runs_total",
				Help: "Threshold notifier runs by result",
			},
			[]string{"result"},
		),
		RatesCacheLookupTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_cache_lookups_total",
				Help: "Latest-rates cache lookups",
			},
			[]string{"result"},
		),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveDay counts one processed ingestion day.
func (m *Metrics) ObserveDay(mode string, err error) {
	if m == nil {
		return
	}
	m.IngestionDaysTotal.WithLabelValues(mode, outcome(err)).Inc()
}

// ObserveUpsert counts written prices and created currencies.
func (m *Metrics) ObserveUpsert(prices, currencies int) {
	if m == nil {
		return
	}
	m.PricesUpsertedTotal.Add(float64(prices))
	m.CurrenciesCreated.Add(float64(currencies))
}

// ObserveFeedRequest records the latency of one feed request.
func (m *Metrics) ObserveFeedRequest(endpoint string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.FeedRequestDuration.WithLabelValues(endpoint, outcome(err)).Observe(time.Since(started).Seconds())
}

// ObserveNotification counts one dispatch attempt.
func (m *Metrics) ObserveNotification(err error) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(outcome(err)).Inc()
}

// ObserveNotifierRun counts one notifier run; result is sent, skipped, conflict or failed.
func (m *Metrics) ObserveNotifierRun(result string) {
	if m == nil {
		return
	}
	m.NotifierRunsTotal.WithLabelValues(result).Inc()
}

// ObserveCacheLookup counts a cache hit, miss or error.
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.RatesCacheLookupTotal.WithLabelValues(result).Inc()
}
