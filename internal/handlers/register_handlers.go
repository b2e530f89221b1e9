package handlers

import (
	"github.com/gin-gonic/gin"
	portssvc "github.com/walletledger/wallet_ledger_app/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	walletService portssvc.WalletSvcFacade,
	rateService portssvc.ExchangeRateSvcFacade,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")

	registerWalletRoutes(v1, walletService, rateService)
	registerExchangeRateRoutes(v1, rateService)
}
