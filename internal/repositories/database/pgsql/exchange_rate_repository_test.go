package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walletledger/wallet_ledger_app/internal/apperrors"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
)

func TestWalkRatesBack_FindsTodayFirst(t *testing.T) {
	today := time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC)
	table := &domain.RateTable{QuotationDate: today}

	calls := 0
	got, err := walkRatesBack(context.Background(), today, func(_ context.Context, d time.Time) (*domain.RateTable, error) {
		calls++
		if d.Equal(today) {
			return table, nil
		}
		return nil, apperrors.ErrNotFound
	})

	require.NoError(t, err)
	assert.Same(t, table, got)
	assert.Equal(t, 1, calls)
}

func TestWalkRatesBack_FindsOldestAllowedDay(t *testing.T) {
	today := time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC)
	oldest := today.AddDate(0, 0, -30)
	table := &domain.RateTable{QuotationDate: oldest}

	got, err := walkRatesBack(context.Background(), today, func(_ context.Context, d time.Time) (*domain.RateTable, error) {
		if d.Equal(oldest) {
			return table, nil
		}
		return nil, apperrors.ErrNotFound
	})

	require.NoError(t, err)
	assert.Same(t, table, got)
}

func TestWalkRatesBack_TableJustOutsideWindowIsInvisible(t *testing.T) {
	today := time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC)
	tooOld := today.AddDate(0, 0, -31)

	calls := 0
	_, err := walkRatesBack(context.Background(), today, func(_ context.Context, d time.Time) (*domain.RateTable, error) {
		calls++
		if d.Equal(tooOld) {
			return &domain.RateTable{QuotationDate: tooOld}, nil
		}
		return nil, apperrors.ErrNotFound
	})

	require.ErrorIs(t, err, apperrors.ErrRatesUnavailable)
	assert.Equal(t, 31, calls)
}

func TestWalkRatesBack_LookupErrorStopsWalk(t *testing.T) {
	today := time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC)

	calls := 0
	_, err := walkRatesBack(context.Background(), today, func(_ context.Context, _ time.Time) (*domain.RateTable, error) {
		calls++
		if calls == 3 {
			return nil, assert.AnError
		}
		return nil, apperrors.ErrNotFound
	})

	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, apperrors.ErrRatesUnavailable)
	assert.Equal(t, 3, calls)
}
