package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RouteOptions carries the cross-cutting pieces the routes need.
type RouteOptions struct {
	JWTSecret      string
	MetricsHandler http.Handler      // served at /metrics when set
	HealthChecks   map[string]Pinger // probed by /health
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	opts RouteOptions,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", healthCheck(opts.HealthChecks))
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	setupAPIV1Routes(r, opts, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	opts RouteOptions,
	services *portssvc.ServiceContainer,
) {
	// Anonymous callers see the full list; a valid token narrows it.
	public := r.Group("/api/v1", middleware.OptionalAuthMiddleware(opts.JWTSecret))
	registerPublicRatesRoutes(public, services.Rates)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(opts.JWTSecret))
	registerAnalyticsRoutes(v1, services.Rates)
	registerTrackingRoutes(v1, services.Tracking)
	registerAdminRoutes(v1, services)
}
