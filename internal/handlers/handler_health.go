package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

func healthCheck(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		details := gin.H{}
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				middleware.GetLoggerFromCtx(ctx).Warn("Health check failed", "dependency", name, "error", err.Error())
				details[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			details[name] = "ok"
		}
		c.JSON(status, details)
	}
}
