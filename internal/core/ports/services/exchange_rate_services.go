package services

import (
	"context"

	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
)

// ExchangeRateSvcFacade exposes rate table ingestion and lookup.
type ExchangeRateSvcFacade interface {
	// RefreshLatestRates fetches the newest published rate table and stores
	// it unless a table for its quotation date already exists.
	RefreshLatestRates(ctx context.Context) error

	// GetMostRecentRates returns the newest stored rate table within the
	// lookback window.
	GetMostRecentRates(ctx context.Context) (*domain.RateTable, error)
}
