package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
)

// WalletSvcFacade exposes the wallet domain operations to the transport
// layer. Validation outcomes ride in the domain.OperationResult; the error
// return carries infrastructure failures only (storage errors,
// apperrors.ErrRatesUnavailable).
type WalletSvcFacade interface {
	// CreateWallet creates an empty wallet with a unique name and returns
	// its assigned identity. Fails with WalletAlreadyExist when the name is
	// taken.
	CreateWallet(ctx context.Context, name string) (int64, domain.OperationResult, error)

	// Deposit adds amount to the wallet's balance in the given currency.
	Deposit(ctx context.Context, walletID int64, currencyCode string, amount decimal.Decimal) (domain.OperationResult, error)

	// Withdraw subtracts amount from the wallet's balance in the given currency.
	Withdraw(ctx context.Context, walletID int64, currencyCode string, amount decimal.Decimal) (domain.OperationResult, error)

	// Convert moves amount between two currency balances of one wallet,
	// priced against the most recent rate table.
	Convert(ctx context.Context, walletID int64, fromCurrencyCode, toCurrencyCode string, amount decimal.Decimal) (domain.OperationResult, error)

	// ListWallets retrieves the given 1-based page of wallets ordered by name.
	ListWallets(ctx context.Context, pageNumber int, pageSize int) ([]domain.Wallet, error)
}
