package services

import (
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
)

type systemClock struct {
	loc *time.Location
}

// NewClock returns a Clock whose Today is the current calendar date in loc.
func NewClock(loc *time.Location) portssvc.Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Today() time.Time {
	return domain.DateOf(time.Now().In(c.loc))
}
