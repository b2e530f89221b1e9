package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/walletledger/wallet_ledger_app/internal/apperrors"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
	portsrepo "github.com/walletledger/wallet_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/walletledger/wallet_ledger_app/internal/core/ports/services"
)

// exchangeRateServiceImpl implements the ExchangeRateSvcFacade interface.
type exchangeRateServiceImpl struct {
	BaseService
	feed     portsrepo.RateFeed
	rateRepo portsrepo.ExchangeRateRepositoryFacade
}

// NewExchangeRateService creates a new exchange rate service over the given
// upstream feed and rate repository.
func NewExchangeRateService(feed portsrepo.RateFeed, rateRepo portsrepo.ExchangeRateRepositoryFacade) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateServiceImpl{
		feed:     feed,
		rateRepo: rateRepo,
	}
}

// Ensure exchangeRateServiceImpl implements the ExchangeRateSvcFacade interface
var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateServiceImpl)(nil)

// RefreshLatestRates downloads the newest published table and stores it
// unless one already exists for its quotation date. Ingestion is idempotent
// per quotation date, so concurrent refresh attempts cannot create
// duplicate tables.
func (s *exchangeRateServiceImpl) RefreshLatestRates(ctx context.Context) error {
	table, err := s.feed.FetchLatestRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch latest exchange rates: %w", err)
	}

	_, err = s.rateRepo.FindRatesForDate(ctx, table.QuotationDate)
	if err == nil {
		s.LogDebug(ctx, "Rate table already stored for quotation date",
			slog.Time("quotation_date", table.QuotationDate))
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check rates for date %s: %w", table.QuotationDate.Format("2006-01-02"), err)
	}

	if err := s.rateRepo.SaveRates(ctx, *table); err != nil {
		return fmt.Errorf("failed to save rate table: %w", err)
	}

	s.LogInfo(ctx, "Stored new exchange rate table",
		slog.Time("quotation_date", table.QuotationDate),
		slog.Int("currencies", len(table.Currencies)))
	return nil
}

func (s *exchangeRateServiceImpl) GetMostRecentRates(ctx context.Context) (*domain.RateTable, error) {
	return s.rateRepo.FindMostRecentRates(ctx)
}

// RunRateRefresher refreshes rates immediately and then on every tick until
// the context is cancelled. Refresh failures are logged and swallowed: a
// broken feed must never stop the loop, the domain just keeps resolving
// against older tables.
func RunRateRefresher(ctx context.Context, svc portssvc.ExchangeRateSvcFacade, interval time.Duration, logger *slog.Logger) {
	refresh := func() {
		if err := svc.RefreshLatestRates(ctx); err != nil {
			logger.Warn("Exchange rate refresh failed", slog.String("error", err.Error()))
		}
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Exchange rate refresher stopped")
			return
		case <-ticker.C:
			refresh()
		}
	}
}
