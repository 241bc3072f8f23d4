package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/dto"
	"github.com/SscSPs/currency_watch_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler exposes the batch jobs and recipient registration.
type adminHandler struct {
	ingestion portssvc.IngestionSvc
	notifier  portssvc.ThresholdNotifierSvc
	users     portssvc.UserSvcFacade
}

func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &adminHandler{
		ingestion: services.Ingestion,
		notifier:  services.Notifier,
		users:     services.Users,
	}

	admin := rg.Group("/admin")
	{
		admin.POST("/users", h.createUser)
		admin.POST("/ingestion/daily", h.loadDaily)
		admin.POST("/ingestion/history", h.loadHistory)
		admin.POST("/notifications/run", h.runNotifier)
	}
}

func (h *adminHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "create user request", err)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondError(c, logger, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *adminHandler) loadDaily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to load the daily snapshot")

	report, err := h.ingestion.LoadDaily(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to load daily rates")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *adminHandler) loadHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.LoadHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "history query", err)
		return
	}
	logger.Info("Received request to load history", slog.Int("days", params.Days))

	report, err := h.ingestion.LoadHistory(c.Request.Context(), params.Days, nil)
	if err != nil {
		respondError(c, logger, err, "Failed to load price history")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *adminHandler) runNotifier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.RunNotifierParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "notifier query", err)
		return
	}
	logger.Info("Received request to run the notifier", slog.Bool("force", params.Force))

	result, err := h.notifier.Run(c.Request.Context(), params.Force)
	if err != nil {
		respondError(c, logger, err, "Notifier run failed")
		return
	}
	c.JSON(http.StatusOK, result)
}
