package repositories

import (
	"context"
	"time"

	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate tables
type ExchangeRateReader interface {
	// FindRatesForDate retrieves the rate table for an exact quotation date,
	// or apperrors.ErrNotFound when none exists.
	FindRatesForDate(ctx context.Context, quotationDate time.Time) (*domain.RateTable, error)

	// FindMostRecentRates retrieves the newest rate table available on or
	// before today (UTC), walking back one day at a time within the lookback
	// window. Fails with apperrors.ErrRatesUnavailable past the window.
	FindMostRecentRates(ctx context.Context) (*domain.RateTable, error)
}

// ExchangeRateWriter defines write operations for exchange rate tables
type ExchangeRateWriter interface {
	// SaveRates persists a rate table. Saving a table for a quotation date
	// that already has one is a no-op.
	SaveRates(ctx context.Context, table domain.RateTable) error
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// RateFeed is the outbound port to the upstream rate publisher. Fetch
// failures are reported as errors and are never fatal to the caller.
type RateFeed interface {
	// FetchLatestRates downloads the most recently published rate table.
	FetchLatestRates(ctx context.Context) (*domain.RateTable, error)
}
