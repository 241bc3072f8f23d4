// Package background runs the daily ingestion and notification job.
package background

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/middleware"
)

// Scheduler fires once a day at a wall-clock time in a fixed location. Each
// firing loads the latest snapshot and then runs the notifier, one after the
// other on the scheduler goroutine, so two notifier runs never overlap.
type Scheduler struct {
	ingestion portssvc.IngestionSvc
	notifier  portssvc.ThresholdNotifierSvc
	hour      int
	minute    int
	loc       *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

// NewScheduler parses at ("HH:MM") and builds a scheduler for loc.
func NewScheduler(
	ingestion portssvc.IngestionSvc,
	notifier portssvc.ThresholdNotifierSvc,
	at string,
	loc *time.Location,
	logger *slog.Logger,
) (*Scheduler, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule time %q: %w", at, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		ingestion: ingestion,
		notifier:  notifier,
		hour:      t.Hour(),
		minute:    t.Minute(),
		loc:       loc,
		logger:    logger.With(slog.String("component", "scheduler")),
		now:       time.Now,
	}, nil
}

// NextRun returns the first firing strictly after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, s.hour, s.minute, 0, 0, s.loc)
	}
	return next
}

// Start blocks until ctx is cancelled, running the job at every firing.
func (s *Scheduler) Start(ctx context.Context) {
	for {
		next := s.NextRun(s.now())
		s.logger.Info("Next daily run scheduled", slog.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler stopped")
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one daily cycle. The notifier is skipped when the
// snapshot could not be loaded, which leaves the day unclaimed for a later run.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx = middleware.WithLogger(ctx, s.logger)

	report, err := s.ingestion.LoadDaily(ctx)
	if err != nil {
		s.logger.Error("Daily load failed", slog.String("error", err.Error()))
		return
	}
	// The notifier does not run without today's snapshot, so the day stays
	// unclaimed and a later manual run can still notify for it.
	if report.FailedDays > 0 {
		s.logger.Warn("Daily snapshot unavailable, skipping notifications")
		return
	}
	s.logger.Info("Daily load finished",
		slog.Int("prices_upserted", report.PricesUpserted),
		slog.Int("new_currencies", report.NewCurrencies))

	result, err := s.notifier.Run(ctx, false)
	if err != nil {
		s.logger.Error("Notifier run failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Notifier run finished",
		slog.Bool("skipped", result.Skipped),
		slog.Int("notifications", result.Notifications),
		slog.Int("failed", result.Failed))
}
