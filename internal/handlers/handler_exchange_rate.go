package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/walletledger/wallet_ledger_app/internal/apperrors"
	portssvc "github.com/walletledger/wallet_ledger_app/internal/core/ports/services"
	"github.com/walletledger/wallet_ledger_app/internal/dto"
	"github.com/walletledger/wallet_ledger_app/internal/middleware"
)

// exchangeRateHandler handles HTTP requests related to exchange rate tables.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := &exchangeRateHandler{rateService: rateService}

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("/latest", h.getLatestRates)
		rates.POST("/refresh", h.refreshRates)
	}
}

// getLatestRates returns the most recent stored rate table.
func (h *exchangeRateHandler) getLatestRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	table, err := h.rateService.GetMostRecentRates(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRatesUnavailable) {
			logger.Warn("No usable exchange rate table", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rates unavailable"})
			return
		}
		logger.Error("Failed to get latest rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRateTableResponse(table))
}

// refreshRates triggers an immediate ingestion run against the upstream feed.
func (h *exchangeRateHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.rateService.RefreshLatestRates(c.Request.Context()); err != nil {
		logger.Warn("Exchange rate refresh failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to refresh exchange rates"})
		return
	}

	c.Status(http.StatusNoContent)
}
