package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_watch_app/internal/core/ports/services"
	"github.com/SscSPs/currency_watch_app/internal/dto"
	"github.com/SscSPs/currency_watch_app/internal/middleware"
	"github.com/SscSPs/currency_watch_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// ratesHandler serves rate, history and analytics queries.
type ratesHandler struct {
	ratesService portssvc.RatesSvcFacade
}

func newRatesHandler(rs portssvc.RatesSvcFacade) *ratesHandler {
	return &ratesHandler{ratesService: rs}
}

// registerPublicRatesRoutes registers queries open to anonymous callers.
func registerPublicRatesRoutes(rg *gin.RouterGroup, ratesService portssvc.RatesSvcFacade) {
	h := newRatesHandler(ratesService)

	rg.GET("/rates", h.listRates)
	rg.GET("/currencies/:code/prices", h.listPrices)
}

// registerAnalyticsRoutes registers queries that require authentication.
func registerAnalyticsRoutes(rg *gin.RouterGroup, ratesService portssvc.RatesSvcFacade) {
	h := newRatesHandler(ratesService)

	rg.GET("/currencies/:code/analytics", h.currencyAnalytics)
}

// listRates returns the latest price of every currency, narrowed to the
// caller's tracked currencies when there are any.
func (h *ratesHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "rates query", err)
		return
	}

	var userID *string
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	rates, err := h.ratesService.LatestRates(c.Request.Context(), userID, domain.RateOrder(params.Ordering))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve rates")
		return
	}

	c.JSON(http.StatusOK, dto.ToListRateResponse(rates))
}

func (h *ratesHandler) listPrices(c *gin.Context) {
	code := domain.NormalizeCurrencyCode(c.Param("code"))
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("currency_code", code))

	var params dto.ListPricesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "price history query", err)
		return
	}
	dates, err := params.ToDomain()
	if err != nil {
		bindError(c, logger, "price history dates", err)
		return
	}

	var after *time.Time
	if params.NextToken != "" {
		last, err := pagination.DecodeDateToken(params.NextToken, code)
		if err != nil {
			bindError(c, logger, "pagination token", err)
			return
		}
		after = &last
	}

	prices, err := h.ratesService.PriceHistory(c.Request.Context(), code, dates, after, params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve price history")
		return
	}

	resp := dto.ListPricesResponse{
		CurrencyCode: code,
		Prices:       dto.ToListRateResponse(prices),
	}
	// A full page may have a successor.
	if len(prices) > 0 && len(prices) == params.Limit {
		token := pagination.EncodeDateToken(code, prices[len(prices)-1].Date)
		resp.NextToken = &token
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ratesHandler) currencyAnalytics(c *gin.Context) {
	code := domain.NormalizeCurrencyCode(c.Param("code"))
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("currency_code", code))

	var params dto.AnalyticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "analytics query", err)
		return
	}
	dates, err := params.ToDomain()
	if err != nil {
		bindError(c, logger, "analytics dates", err)
		return
	}
	threshold, err := params.ThresholdValue()
	if err != nil {
		bindError(c, logger, "analytics threshold", err)
		return
	}

	rows, err := h.ratesService.CurrencyAnalytics(c.Request.Context(), code, dates, threshold)
	if err != nil {
		respondError(c, logger, err, "Failed to build analytics")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAnalyticsResponse(rows))
}
