// Package notify delivers threshold notifications.
package notify

import (
	"context"
	"log/slog"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/middleware"
)

var _ portssvc.NotificationSink = (*LogSink)(nil)

// LogSink writes notifications to the structured log. Used in development.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Send(ctx context.Context, n domain.Notification) error {
	middleware.GetLoggerFromCtx(ctx).Info("Threshold notification",
		slog.String("notification_id", n.NotificationID),
		slog.String("recipient", n.Recipient),
		slog.String("subject", n.Subject),
		slog.Int("breaches", len(n.Breaches)),
		slog.String("body", n.Body),
	)
	return nil
}
