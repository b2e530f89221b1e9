package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
)

// stubRateSource serves a fixed rate table (or error) to the aggregate.
type stubRateSource struct {
	table *domain.RateTable
	err   error
}

func (s stubRateSource) FindMostRecentRates(ctx context.Context) (*domain.RateTable, error) {
	return s.table, s.err
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRates() *domain.RateTable {
	quotation := time.Date(2025, 3, 26, 0, 0, 0, 0, time.UTC)
	return &domain.RateTable{
		QuotationDate:   quotation,
		PublicationDate: quotation,
		Currencies: []domain.CurrencyRate{
			{Name: "US dollar", Code: "USD", Unit: 1, BuyRate: dec("3.8385"), SellRate: dec("3.9161")},
			{Name: "Swiss franc", Code: "CHF", Unit: 1, BuyRate: dec("4.3513"), SellRate: dec("4.4393")},
			{Name: "Japanese yen", Code: "JPY", Unit: 100, BuyRate: dec("2.6423"), SellRate: dec("2.6957")},
		},
	}
}

func TestWallet_Deposit_AppendsBalanceOnFirstTouch(t *testing.T) {
	wallet := domain.NewWallet("savings")
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Deposit(context.Background(), "USD", dec("10.10"), rates)

	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	require.Len(t, wallet.Balances, 1)
	assert.Equal(t, "USD", wallet.Balances[0].CurrencyCode)
	assert.True(t, wallet.Balances[0].Amount.Equal(dec("10.10")))
}

func TestWallet_Deposit_MatchesCurrencyCaseInsensitively(t *testing.T) {
	wallet := domain.NewWallet("savings")
	rates := stubRateSource{table: testRates()}
	ctx := context.Background()

	for _, code := range []string{"usd", "USD", "UsD"} {
		result, err := wallet.Deposit(ctx, code, dec("1.00"), rates)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
	}

	require.Len(t, wallet.Balances, 1)
	assert.True(t, wallet.Balances[0].Amount.Equal(dec("3.00")))
}

func TestWallet_Deposit_CollectsAllValidationErrors(t *testing.T) {
	wallet := domain.NewWallet("savings")
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Deposit(context.Background(), "XXX", dec("-1"), rates)

	require.NoError(t, err)
	assert.False(t, result.IsSuccess())
	assert.Equal(t, []domain.OperationError{
		{Code: domain.ErrCodeNotSupportedCurrency, Field: "currencyCode"},
		{Code: domain.ErrCodeInvalidAmount, Field: "amount"},
	}, result.Errors)
	assert.Empty(t, wallet.Balances, "failed deposit must not touch the balances")
}

func TestWallet_Deposit_ZeroAmountRejected(t *testing.T) {
	wallet := domain.NewWallet("savings")
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Deposit(context.Background(), "USD", decimal.Zero, rates)

	require.NoError(t, err)
	assert.Equal(t, []domain.OperationError{
		{Code: domain.ErrCodeInvalidAmount, Field: "amount"},
	}, result.Errors)
}

func TestWallet_Deposit_RateSourceErrorPropagates(t *testing.T) {
	wallet := domain.NewWallet("savings")
	rates := stubRateSource{err: assert.AnError}

	_, err := wallet.Deposit(context.Background(), "USD", dec("1.00"), rates)

	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, wallet.Balances)
}

func TestWallet_DepositThenWithdrawIsExact(t *testing.T) {
	wallet := domain.RecoverWallet(1, "savings", []*domain.Balance{
		{CurrencyCode: "USD", Amount: dec("10.10")},
	})
	rates := stubRateSource{table: testRates()}
	ctx := context.Background()

	result, err := wallet.Deposit(ctx, "USD", dec("0.30"), rates)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	result, err = wallet.Withdraw(ctx, "USD", dec("0.30"), rates)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	assert.True(t, wallet.Balances[0].Amount.Equal(dec("10.10")), "round trip must not drift")
}

func TestWallet_Withdraw_InsufficientFunds(t *testing.T) {
	wallet := domain.RecoverWallet(1, "savings", []*domain.Balance{
		{CurrencyCode: "USD", Amount: dec("5.00")},
	})
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Withdraw(context.Background(), "USD", dec("10.00"), rates)

	require.NoError(t, err)
	assert.Equal(t, []domain.OperationError{
		{Code: domain.ErrCodeNotEnoughBalance, Field: "amount"},
	}, result.Errors)
	assert.True(t, wallet.Balances[0].Amount.Equal(dec("5.00")))
}

func TestWallet_Withdraw_MissingCurrencyFailsButAppendsSlot(t *testing.T) {
	wallet := domain.NewWallet("savings")
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Withdraw(context.Background(), "USD", dec("10.00"), rates)

	require.NoError(t, err)
	assert.Equal(t, []domain.OperationError{
		{Code: domain.ErrCodeAccountInCurrencyDoesNotExist, Field: ""},
	}, result.Errors)
	// The aggregate gains a balance entry even though the withdrawal failed.
	// Callers never persist failed operations, so the slot stays in memory
	// only; the behavior itself is long-standing and kept on purpose.
	require.Len(t, wallet.Balances, 1)
	assert.Equal(t, "USD", wallet.Balances[0].CurrencyCode)
}

func TestConvertAmount_RoundsEveryStage(t *testing.T) {
	rates := testRates()
	usd, _ := rates.FindCurrency("USD")
	chf, _ := rates.FindCurrency("CHF")

	// round(3.8385/1) = 3.84; round(9.50*3.84) = 36.48;
	// round(4.4393/1) = 4.44; round(36.48/4.44) = 8.22
	got := domain.ConvertAmount(usd, chf, dec("9.50"))
	assert.True(t, got.Equal(dec("8.22")), "got %s", got)
}

func TestConvertAmount_DividesByUnitBeforeRounding(t *testing.T) {
	rates := testRates()
	jpy, _ := rates.FindCurrency("JPY")
	usd, _ := rates.FindCurrency("USD")

	// round(2.6423/100) = 0.03; round(1000*0.03) = 30.00;
	// round(3.9161/1) = 3.92; round(30.00/3.92) = 7.65
	got := domain.ConvertAmount(jpy, usd, dec("1000"))
	assert.True(t, got.Equal(dec("7.65")), "got %s", got)
}

func TestWallet_Convert_MovesFundsBetweenBalances(t *testing.T) {
	wallet := domain.RecoverWallet(1, "savings", []*domain.Balance{
		{CurrencyCode: "USD", Amount: dec("9.50")},
	})
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Convert(context.Background(), "USD", "CHF", dec("9.50"), rates)

	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	require.Len(t, wallet.Balances, 2)
	assert.True(t, wallet.Balances[0].Amount.Equal(decimal.Zero))
	assert.Equal(t, "CHF", wallet.Balances[1].CurrencyCode)
	assert.True(t, wallet.Balances[1].Amount.Equal(dec("8.22")))
}

func TestWallet_Convert_AddsToExistingTargetBalance(t *testing.T) {
	wallet := domain.RecoverWallet(1, "savings", []*domain.Balance{
		{CurrencyCode: "USD", Amount: dec("9.50")},
		{CurrencyCode: "CHF", Amount: dec("1.00")},
	})
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Convert(context.Background(), "USD", "CHF", dec("9.50"), rates)

	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	require.Len(t, wallet.Balances, 2)
	assert.True(t, wallet.Balances[1].Amount.Equal(dec("9.22")))
}

func TestWallet_Convert_MissingSourceBalanceLeavesWalletUntouched(t *testing.T) {
	wallet := domain.RecoverWallet(1, "savings", []*domain.Balance{
		{CurrencyCode: "CHF", Amount: dec("1.00")},
	})
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Convert(context.Background(), "USD", "CHF", dec("5.00"), rates)

	require.NoError(t, err)
	assert.Equal(t, []domain.OperationError{
		{Code: domain.ErrCodeAccountInCurrencyDoesNotExist, Field: ""},
	}, result.Errors)
	require.Len(t, wallet.Balances, 1)
	assert.True(t, wallet.Balances[0].Amount.Equal(dec("1.00")))
}

func TestWallet_Convert_InsufficientFundsLeavesWalletUntouched(t *testing.T) {
	wallet := domain.RecoverWallet(1, "savings", []*domain.Balance{
		{CurrencyCode: "USD", Amount: dec("5.00")},
	})
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Convert(context.Background(), "USD", "CHF", dec("10.00"), rates)

	require.NoError(t, err)
	assert.Equal(t, []domain.OperationError{
		{Code: domain.ErrCodeNotEnoughBalance, Field: "amount"},
	}, result.Errors)
	require.Len(t, wallet.Balances, 1)
	assert.True(t, wallet.Balances[0].Amount.Equal(dec("5.00")))
}

func TestWallet_Convert_CollectsAllValidationErrors(t *testing.T) {
	wallet := domain.NewWallet("savings")
	rates := stubRateSource{table: testRates()}

	result, err := wallet.Convert(context.Background(), "XXX", "YYY", decimal.Zero, rates)

	require.NoError(t, err)
	assert.Equal(t, []domain.OperationError{
		{Code: domain.ErrCodeNotSupportedCurrency, Field: "fromCurrencyCode"},
		{Code: domain.ErrCodeNotSupportedCurrency, Field: "toCurrencyCode"},
		{Code: domain.ErrCodeInvalidAmount, Field: "amount"},
	}, result.Errors)
	assert.Empty(t, wallet.Balances)
}

func TestRateTable_FindCurrencyFoldsCase(t *testing.T) {
	rates := testRates()

	rate, ok := rates.FindCurrency("chf")
	require.True(t, ok)
	assert.Equal(t, "CHF", rate.Code)

	_, ok = rates.FindCurrency("PLN")
	assert.False(t, ok)
}
