package dto

// LoadHistoryParams defines query parameters for a history backfill.
type LoadHistoryParams struct {
	Days int `form:"days,default=30" binding:"min=1,max=3650"`
}

// RunNotifierParams defines query parameters for a notifier run.
type RunNotifierParams struct {
	Force bool `form:"force"`
}
