package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_watch_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/platform/metrics"
	"github.com/google/uuid"
)

// NotifierOptions controls cursor handling of the threshold notifier.
type NotifierOptions struct {
	// AdvanceOnFailure keeps the cursor on today even when some sends failed,
	// so failed recipients are not retried by later runs on the same day.
	AdvanceOnFailure bool
}

// thresholdNotifier implements the ThresholdNotifierSvc interface
type thresholdNotifier struct {
	BaseService
	trackedRepo portsrepo.TrackedCurrencyReader
	cursorRepo  portsrepo.NotificationCursorRepository
	sink        portssvc.NotificationSink
	clock       portssvc.Clock
	opts        NotifierOptions
	metrics     *metrics.Metrics
	newID       func() string
}

// NotifierOption is a functional option for configuring the notifier
type NotifierOption func(*thresholdNotifier)

// WithNotifierOptions sets the cursor policy.
func WithNotifierOptions(opts NotifierOptions) NotifierOption {
	return func(n *thresholdNotifier) {
		n.opts = opts
	}
}

// WithNotifierMetrics records dispatch metrics.
func WithNotifierMetrics(m *metrics.Metrics) NotifierOption {
	return func(n *thresholdNotifier) {
		n.metrics = m
	}
}

// NewThresholdNotifier creates the daily threshold notifier.
func NewThresholdNotifier(
	trackedRepo portsrepo.TrackedCurrencyReader,
	cursorRepo portsrepo.NotificationCursorRepository,
	sink portssvc.NotificationSink,
	clock portssvc.Clock,
	options ...NotifierOption,
) portssvc.ThresholdNotifierSvc {
	n := &thresholdNotifier{
		trackedRepo: trackedRepo,
		cursorRepo:  cursorRepo,
		sink:        sink,
		clock:       clock,
		newID:       uuid.NewString,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

var _ portssvc.ThresholdNotifierSvc = (*thresholdNotifier)(nil)

// BuildNotifications groups breached rows into one notification per user.
// Users are ordered by ID and breaches by currency code; rows at or below the
// threshold are dropped.
func BuildNotifications(date time.Time, rows []domain.TrackedPrice, newID func() string) []domain.Notification {
	type group struct {
		email    string
		breaches []domain.Breach
	}
	byUser := make(map[string]*group)
	for _, row := range rows {
		if !row.Breached() {
			continue
		}
		g, ok := byUser[row.UserID]
		if !ok {
			g = &group{email: row.Email}
			byUser[row.UserID] = g
		}
		g.breaches = append(g.breaches, domain.Breach{
			CurrencyCode: row.CurrencyCode,
			CurrencyName: row.CurrencyName,
			Threshold:    row.Threshold,
			Value:        row.Value,
		})
	}

	userIDs := make([]string, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	out := make([]domain.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		g := byUser[id]
		sort.Slice(g.breaches, func(i, j int) bool {
			return g.breaches[i].CurrencyCode < g.breaches[j].CurrencyCode
		})
		subject, body := domain.RenderThresholdMessage(date, g.breaches)
		out = append(out, domain.Notification{
			NotificationID: newID(),
			UserID:         id,
			Recipient:      g.email,
			Date:           domain.DateOf(date),
			Subject:        subject,
			Body:           body,
			Breaches:       g.breaches,
		})
	}
	return out
}

const (
	runSkipped  = "skipped"
	runSent     = "sent"
	runFailed   = "failed"
	runConflict = "conflict"
)

func (n *thresholdNotifier) Run(ctx context.Context, force bool) (*domain.NotifierRunResult, error) {
	today := n.clock.Today()
	result := &domain.NotifierRunResult{Date: today}
	logger := n.GetLogger(ctx).With(slog.String("date", today.Format(domain.DateLayout)), slog.Bool("force", force))

	cursor, err := n.cursorRepo.GetCursor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read notification cursor: %w", err)
	}
	if cursor.SentOn(today) && !force {
		logger.Info("Threshold notifications already sent today")
		result.Skipped = true
		n.metrics.ObserveNotifierRun(runSkipped)
		return result, nil
	}

	// Claim the day before sending so that a concurrent run cannot send as well.
	previous := cursor.LastSentDate
	claimed, err := n.cursorRepo.SwapLastSentDate(ctx, previous, &today)
	if err != nil {
		return nil, fmt.Errorf("failed to advance notification cursor: %w", err)
	}
	if !claimed {
		n.metrics.ObserveNotifierRun(runConflict)
		if force {
			return nil, fmt.Errorf("%w: forced run for %s", apperrors.ErrCursorConflict, today.Format(domain.DateLayout))
		}
		logger.Info("Another run claimed today's notifications")
		result.Skipped = true
		return result, nil
	}
	result.CursorMoved = true

	rows, err := n.trackedRepo.ListTrackedPricesOn(ctx, today)
	if err != nil {
		n.releaseClaim(ctx, today, previous, result)
		return nil, fmt.Errorf("failed to list tracked prices: %w", err)
	}

	notifications := BuildNotifications(today, rows, n.newID)
	for _, nt := range notifications {
		result.Breaches += len(nt.Breaches)
	}

	var sendErrs []error
	for _, nt := range notifications {
		err := n.sink.Send(ctx, nt)
		n.metrics.ObserveNotification(err)
		if err == nil {
			result.Notifications++
			continue
		}

		result.Failed++
		logger.Error("Failed to send threshold notification",
			slog.String("error", err.Error()),
			slog.String("user_id", nt.UserID),
			slog.String("notification_id", nt.NotificationID))
		sendErrs = append(sendErrs, fmt.Errorf("user %s: %w", nt.UserID, err))
		if !n.opts.AdvanceOnFailure {
			break
		}
	}

	if len(sendErrs) > 0 {
		n.metrics.ObserveNotifierRun(runFailed)
		if !n.opts.AdvanceOnFailure {
			n.releaseClaim(ctx, today, previous, result)
		}
		return result, fmt.Errorf("%w: %w", apperrors.ErrDispatch, errors.Join(sendErrs...))
	}

	n.metrics.ObserveNotifierRun(runSent)
	logger.Info("Threshold notifications sent",
		slog.Int("notifications", result.Notifications),
		slog.Int("breaches", result.Breaches))
	return result, nil
}

// releaseClaim moves the cursor back so that a later run retries the day.
func (n *thresholdNotifier) releaseClaim(ctx context.Context, today time.Time, previous *time.Time, result *domain.NotifierRunResult) {
	reverted, err := n.cursorRepo.SwapLastSentDate(ctx, &today, previous)
	if err != nil {
		n.LogError(ctx, err, "Failed to revert notification cursor")
		return
	}
	if reverted {
		result.CursorMoved = false
	}
}
