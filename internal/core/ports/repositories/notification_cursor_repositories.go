package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
)

// NotificationCursorRepository persists the singleton "last sent" marker.
type NotificationCursorRepository interface {
	// GetCursor reads the cursor. A missing row reads as a cursor with no date.
	GetCursor(ctx context.Context) (domain.NotificationCursor, error)

	// SwapLastSentDate sets the date to next only if it still equals expected
	// (nil meaning "never sent"). It reports whether the swap happened.
	SwapLastSentDate(ctx context.Context, expected *time.Time, next *time.Time) (bool, error)
}
