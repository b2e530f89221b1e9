package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/walletledger/wallet_ledger_app/internal/apperrors"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
	portssvc "github.com/walletledger/wallet_ledger_app/internal/core/ports/services"
	"github.com/walletledger/wallet_ledger_app/internal/dto"
	"github.com/walletledger/wallet_ledger_app/internal/middleware"
)

const (
	maxWalletNameLength = 150
	maxPageSize         = 100
)

// walletHandler handles HTTP requests related to wallets.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
	rateService   portssvc.ExchangeRateSvcFacade
}

// newWalletHandler creates a new walletHandler.
func newWalletHandler(ws portssvc.WalletSvcFacade, rs portssvc.ExchangeRateSvcFacade) *walletHandler {
	return &walletHandler{
		walletService: ws,
		rateService:   rs,
	}
}

// registerWalletRoutes registers routes related to wallets.
func registerWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade, rateService portssvc.ExchangeRateSvcFacade) {
	h := newWalletHandler(walletService, rateService)

	wallets := rg.Group("/wallets")
	{
		wallets.POST("", h.createWallet)
		wallets.GET("", h.listWallets)
		wallets.PUT("/:walletID/deposit", h.deposit)
		wallets.PUT("/:walletID/withdrawal", h.withdraw)
		wallets.PUT("/:walletID/convert", h.convert)
	}
}

// createWallet creates an empty wallet with a unique name.
func (h *walletHandler) createWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if len(req.Name) > maxWalletNameLength {
		c.JSON(http.StatusBadRequest, dto.NewValidationResult(
			domain.NewOperationError(domain.ErrCodeValueTooLong, "name")))
		return
	}

	walletID, result, err := h.walletService.CreateWallet(c.Request.Context(), req.Name)
	if err != nil {
		logger.Error("Failed to create wallet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create wallet"})
		return
	}
	if !result.IsSuccess() {
		c.JSON(http.StatusBadRequest, dto.ToValidationResult(result))
		return
	}

	logger.Info("Wallet created", slog.Int64("wallet_id", walletID))
	c.JSON(http.StatusCreated, dto.CreateWalletResponse{ID: walletID})
}

// listWallets returns a page of wallets ordered by name, balances enriched
// with currency display names from the most recent rate table.
func (h *walletHandler) listWallets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pageNumber, _ := strconv.Atoi(c.Query("pageNumber"))
	countPerPage, _ := strconv.Atoi(c.Query("countPerPage"))

	var errs []domain.OperationError
	if pageNumber < 1 {
		errs = append(errs, domain.NewOperationError(domain.ErrCodeValueCannotBeLessOrEqualZero, "pageNumber"))
	}
	if countPerPage < 1 {
		errs = append(errs, domain.NewOperationError(domain.ErrCodeValueCannotBeLessOrEqualZero, "countPerPage"))
	}
	if countPerPage > maxPageSize {
		errs = append(errs, domain.NewOperationError(domain.ErrCodeValueTooLong, "countPerPage"))
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationResult(errs...))
		return
	}

	wallets, err := h.walletService.ListWallets(c.Request.Context(), pageNumber, countPerPage)
	if err != nil {
		logger.Error("Failed to list wallets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list wallets"})
		return
	}

	rates, err := h.rateService.GetMostRecentRates(c.Request.Context())
	if err != nil {
		h.renderRatesError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListWalletsResponse(wallets, rates))
}

// deposit adds funds to one currency balance of a wallet.
func (h *walletHandler) deposit(c *gin.Context) {
	walletID, ok := h.walletIDParam(c)
	if !ok {
		return
	}

	var req dto.MoneyOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.walletService.Deposit(c.Request.Context(), walletID, req.CurrencyCode, req.Amount)
	h.renderOperationOutcome(c, result, err)
}

// withdraw removes funds from one currency balance of a wallet.
func (h *walletHandler) withdraw(c *gin.Context) {
	walletID, ok := h.walletIDParam(c)
	if !ok {
		return
	}

	var req dto.MoneyOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.walletService.Withdraw(c.Request.Context(), walletID, req.CurrencyCode, req.Amount)
	h.renderOperationOutcome(c, result, err)
}

// convert moves funds between two currency balances of a wallet, priced
// against the most recent rate table.
func (h *walletHandler) convert(c *gin.Context) {
	walletID, ok := h.walletIDParam(c)
	if !ok {
		return
	}

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.walletService.Convert(c.Request.Context(), walletID, req.FromCurrencyCode, req.ToCurrencyCode, req.Amount)
	h.renderOperationOutcome(c, result, err)
}

func (h *walletHandler) walletIDParam(c *gin.Context) (int64, bool) {
	walletID, err := strconv.ParseInt(c.Param("walletID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet id"})
		return 0, false
	}
	return walletID, true
}

func (h *walletHandler) renderOperationOutcome(c *gin.Context, result domain.OperationResult, err error) {
	if err != nil {
		h.renderRatesError(c, err)
		return
	}
	if !result.IsSuccess() {
		c.JSON(http.StatusBadRequest, dto.ToValidationResult(result))
		return
	}
	c.Status(http.StatusOK)
}

func (h *walletHandler) renderRatesError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if errors.Is(err, apperrors.ErrRatesUnavailable) {
		logger.Warn("No usable exchange rate table", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rates unavailable"})
		return
	}
	logger.Error("Wallet operation failed", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
