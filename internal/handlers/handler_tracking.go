package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/dto"
	"github.com/SscSPs/currency_watch_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// trackingHandler manages the caller's tracked currencies.
type trackingHandler struct {
	trackingService portssvc.TrackingSvcFacade
}

func registerTrackingRoutes(rg *gin.RouterGroup, trackingService portssvc.TrackingSvcFacade) {
	h := &trackingHandler{trackingService: trackingService}

	tracked := rg.Group("/tracked")
	{
		tracked.GET("", h.listTracked)
		tracked.POST("", h.trackCurrency)
		tracked.PATCH("/:code", h.updateThreshold)
		tracked.DELETE("/:code", h.untrackCurrency)
	}
}

// requireUser returns the authenticated user id, answering 401 when absent.
func requireUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

func (h *trackingHandler) listTracked(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	tracked, err := h.trackingService.ListTracked(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list tracked currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTrackedCurrencyResponse(tracked))
}

func (h *trackingHandler) trackCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	var req dto.TrackCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "track currency request", err)
		return
	}

	logger.Info("Received request to track currency", slog.String("currency_code", req.CurrencyCode))
	tracked, err := h.trackingService.TrackCurrency(c.Request.Context(), userID, req.CurrencyCode, *req.Threshold)
	if err != nil {
		respondError(c, logger, err, "Failed to track currency")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTrackedCurrencyResponse(*tracked))
}

func (h *trackingHandler) updateThreshold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	code := domain.NormalizeCurrencyCode(c.Param("code"))

	var req dto.UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "update threshold request", err)
		return
	}

	if err := h.trackingService.UpdateThreshold(c.Request.Context(), userID, code, *req.Threshold); err != nil {
		respondError(c, logger, err, "Failed to update threshold")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *trackingHandler) untrackCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	code := domain.NormalizeCurrencyCode(c.Param("code"))

	if err := h.trackingService.UntrackCurrency(c.Request.Context(), userID, code); err != nil {
		respondError(c, logger, err, "Failed to untrack currency")
		return
	}
	c.Status(http.StatusNoContent)
}
