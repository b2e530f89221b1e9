package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Balance is a single-currency position owned exclusively by one wallet.
// A wallet holds at most one Balance per currency code (case-insensitive).
type Balance struct {
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
}

func (b *Balance) add(amount decimal.Decimal) {
	b.Amount = b.Amount.Add(amount)
}

func (b *Balance) withdraw(amount decimal.Decimal) OperationResult {
	if b.Amount.LessThan(amount) {
		return Fail(NewOperationError(ErrCodeNotEnoughBalance, "amount"))
	}
	b.Amount = b.Amount.Sub(amount)
	return Success()
}

// Wallet is the aggregate root for balance mutations. It is loaded fully
// into memory, mutated in place, and saved as a whole; balances keep their
// insertion order. Concurrent mutations of the same wallet are not
// serialized here (last write wins at the storage layer).
type Wallet struct {
	WalletID int64      `json:"walletID"`
	Name     string     `json:"name"`
	Balances []*Balance `json:"balances"`
}

// NewWallet creates an empty wallet. The identity is assigned by the
// repository on first save.
func NewWallet(name string) *Wallet {
	return &Wallet{Name: name, Balances: []*Balance{}}
}

// RecoverWallet reconstructs a wallet from its persisted state.
func RecoverWallet(walletID int64, name string, balances []*Balance) *Wallet {
	return &Wallet{WalletID: walletID, Name: name, Balances: balances}
}

// Deposit adds amount to the wallet's balance in the given currency,
// appending a new balance on first touch. The currency must be quoted in the
// most recent rate table and the amount must be positive; all failing checks
// are reported together and a failed deposit leaves the wallet unchanged.
func (w *Wallet) Deposit(ctx context.Context, currencyCode string, amount decimal.Decimal, rates RateSource) (OperationResult, error) {
	errs, err := w.validateMutation(ctx, currencyCode, amount, rates)
	if err != nil {
		return OperationResult{}, err
	}
	if len(errs) > 0 {
		return Fail(errs...), nil
	}

	if balance := w.findBalance(currencyCode); balance != nil {
		balance.add(amount)
		return Success(), nil
	}

	w.Balances = append(w.Balances, &Balance{CurrencyCode: currencyCode, Amount: amount})
	return Success(), nil
}

// Withdraw subtracts amount from the wallet's balance in the given currency,
// validating the same way as Deposit and failing with NotEnoughBalance when
// the balance cannot cover the amount.
//
// When no balance exists for the currency the operation appends a balance
// entry for it and still fails with AccountInCurrencyDoesNotExist. The
// mutation is observable on the in-memory aggregate only: callers persist a
// wallet solely on success, so the slot never reaches storage. Kept as-is
// because persisted behavior of deployed installations depends on the
// reported error, not on silently creating accounts.
func (w *Wallet) Withdraw(ctx context.Context, currencyCode string, amount decimal.Decimal, rates RateSource) (OperationResult, error) {
	errs, err := w.validateMutation(ctx, currencyCode, amount, rates)
	if err != nil {
		return OperationResult{}, err
	}
	if len(errs) > 0 {
		return Fail(errs...), nil
	}

	balance := w.findBalance(currencyCode)
	if balance == nil {
		w.Balances = append(w.Balances, &Balance{CurrencyCode: currencyCode, Amount: amount})
		return Fail(NewOperationError(ErrCodeAccountInCurrencyDoesNotExist, "")), nil
	}

	return balance.withdraw(amount), nil
}

// Convert withdraws amount from the source currency balance and credits the
// priced equivalent to the target currency balance, creating it if needed.
// Both currencies must be quoted in the most recent rate table; on any
// failure no balance is mutated.
func (w *Wallet) Convert(ctx context.Context, fromCurrencyCode, toCurrencyCode string, amount decimal.Decimal, rates RateSource) (OperationResult, error) {
	table, err := rates.FindMostRecentRates(ctx)
	if err != nil {
		return OperationResult{}, err
	}

	if errs := validateConversion(fromCurrencyCode, toCurrencyCode, amount, table); len(errs) > 0 {
		return Fail(errs...), nil
	}

	fromBalance := w.findBalance(fromCurrencyCode)
	toBalance := w.findBalance(toCurrencyCode)

	if fromBalance == nil {
		return Fail(NewOperationError(ErrCodeAccountInCurrencyDoesNotExist, "")), nil
	}

	if result := fromBalance.withdraw(amount); !result.IsSuccess() {
		return result, nil
	}

	fromRate, _ := table.FindCurrency(fromCurrencyCode)
	toRate, _ := table.FindCurrency(toCurrencyCode)
	converted := ConvertAmount(fromRate, toRate, amount)

	if toBalance == nil {
		w.Balances = append(w.Balances, &Balance{CurrencyCode: toCurrencyCode, Amount: converted})
		return Success(), nil
	}

	toBalance.add(converted)
	return Success(), nil
}

// ConvertAmount prices amount of the source currency in the target currency.
// Each stage is rounded to 2 decimal places before the next one runs, the way
// a currency desk quotes: a rounded per-unit buy price, a rounded home-currency
// amount, a rounded per-unit sell price, and finally the rounded result.
// Collapsing the pipeline into one division changes the cents.
func ConvertAmount(fromRate, toRate CurrencyRate, amount decimal.Decimal) decimal.Decimal {
	unitBuyPrice := fromRate.BuyRate.Div(decimal.NewFromInt(int64(fromRate.Unit))).Round(2)
	homeAmount := amount.Mul(unitBuyPrice).Round(2)
	unitSellPrice := toRate.SellRate.Div(decimal.NewFromInt(int64(toRate.Unit))).Round(2)
	return homeAmount.Div(unitSellPrice).Round(2)
}

func (w *Wallet) findBalance(currencyCode string) *Balance {
	for _, balance := range w.Balances {
		if strings.EqualFold(balance.CurrencyCode, currencyCode) {
			return balance
		}
	}
	return nil
}

func (w *Wallet) validateMutation(ctx context.Context, currencyCode string, amount decimal.Decimal, rates RateSource) ([]OperationError, error) {
	table, err := rates.FindMostRecentRates(ctx)
	if err != nil {
		return nil, err
	}

	var errs []OperationError
	if _, ok := table.FindCurrency(currencyCode); !ok {
		errs = append(errs, NewOperationError(ErrCodeNotSupportedCurrency, "currencyCode"))
	}
	if !amount.IsPositive() {
		errs = append(errs, NewOperationError(ErrCodeInvalidAmount, "amount"))
	}
	return errs, nil
}

func validateConversion(fromCurrencyCode, toCurrencyCode string, amount decimal.Decimal, table *RateTable) []OperationError {
	var errs []OperationError
	if _, ok := table.FindCurrency(fromCurrencyCode); !ok {
		errs = append(errs, NewOperationError(ErrCodeNotSupportedCurrency, "fromCurrencyCode"))
	}
	if _, ok := table.FindCurrency(toCurrencyCode); !ok {
		errs = append(errs, NewOperationError(ErrCodeNotSupportedCurrency, "toCurrencyCode"))
	}
	if !amount.IsPositive() {
		errs = append(errs, NewOperationError(ErrCodeInvalidAmount, "amount"))
	}
	return errs
}
