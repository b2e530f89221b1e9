package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/walletledger/wallet_ledger_app/internal/apperrors"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
	portsrepo "github.com/walletledger/wallet_ledger_app/internal/core/ports/repositories"
)

// ratesLookbackDays bounds how far back FindMostRecentRates walks before
// declaring rates unavailable. Today plus 30 days back are searched; a table
// on day 31 is already too old to price against.
const ratesLookbackDays = 30

// PgxExchangeRateRepository implements the exchange rate repository using
// pgxpool. One row per quotation date; the currency quotes of a table are
// stored as a jsonb document because a table is only ever read whole.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new repository for exchange rate tables.
func NewPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveRates persists a rate table. A table already stored for the same
// quotation date wins: the insert is a no-op then, which keeps concurrent
// ingestion runs idempotent.
func (r *PgxExchangeRateRepository) SaveRates(ctx context.Context, table domain.RateTable) error {
	ratesJSON, err := json.Marshal(table.Currencies)
	if err != nil {
		return fmt.Errorf("failed to marshal rate table for %s: %w", table.QuotationDate.Format("2006-01-02"), err)
	}

	query := `
		INSERT INTO exchange_rates (quotation_date, publication_date, rates)
		VALUES ($1, $2, $3)
		ON CONFLICT (quotation_date) DO NOTHING;
	`

	_, err = r.Pool.Exec(ctx, query,
		dateOnly(table.QuotationDate),
		dateOnly(table.PublicationDate),
		ratesJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save rate table for %s: %w", table.QuotationDate.Format("2006-01-02"), err)
	}
	return nil
}

// FindRatesForDate retrieves the rate table for an exact quotation date.
func (r *PgxExchangeRateRepository) FindRatesForDate(ctx context.Context, quotationDate time.Time) (*domain.RateTable, error) {
	query := `
		SELECT quotation_date, publication_date, rates
		FROM exchange_rates
		WHERE quotation_date = $1;
	`

	var (
		quotation   time.Time
		publication time.Time
		ratesJSON   []byte
	)
	err := r.Pool.QueryRow(ctx, query, dateOnly(quotationDate)).Scan(&quotation, &publication, &ratesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rates for %s: %w", quotationDate.Format("2006-01-02"), err)
	}

	var currencies []domain.CurrencyRate
	if err := json.Unmarshal(ratesJSON, &currencies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rates for %s: %w", quotationDate.Format("2006-01-02"), err)
	}

	return &domain.RateTable{
		QuotationDate:   quotation,
		PublicationDate: publication,
		Currencies:      currencies,
	}, nil
}

// FindMostRecentRates walks backward from today (UTC), one day per query,
// and returns the first table found. The walk is deliberately day-by-day
// rather than a range query: a table just outside the lookback window must
// not be returned, no matter how recent everything else is.
func (r *PgxExchangeRateRepository) FindMostRecentRates(ctx context.Context) (*domain.RateTable, error) {
	return walkRatesBack(ctx, dateOnly(time.Now().UTC()), r.FindRatesForDate)
}

func walkRatesBack(ctx context.Context, from time.Time, lookup func(context.Context, time.Time) (*domain.RateTable, error)) (*domain.RateTable, error) {
	for back := 0; back <= ratesLookbackDays; back++ {
		table, err := lookup(ctx, from.AddDate(0, 0, -back))
		if err == nil {
			return table, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: no rate table within the last %d days", apperrors.ErrRatesUnavailable, ratesLookbackDays)
}

// dateOnly strips the time-of-day so date columns compare on calendar days.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
