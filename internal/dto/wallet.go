package dto

import (
	"github.com/shopspring/decimal"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
)

// CreateWalletRequest defines the data needed to create a new wallet.
type CreateWalletRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateWalletResponse carries the identity assigned to a new wallet.
type CreateWalletResponse struct {
	ID int64 `json:"id"`
}

// MoneyOperationRequest defines the data for a deposit or a withdrawal.
type MoneyOperationRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
}

// ConvertRequest defines the data for a currency conversion.
type ConvertRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
}

// ValidationErrorResponse is one failed check in an error response body.
type ValidationErrorResponse struct {
	ErrorCode    string `json:"errorCode"`
	PropertyName string `json:"propertyName,omitempty"`
}

// ValidationResultResponse is the error body returned for failed operations.
type ValidationResultResponse struct {
	Errors []ValidationErrorResponse `json:"errors"`
}

// ToValidationResult converts a domain operation result into the API error body.
func ToValidationResult(result domain.OperationResult) ValidationResultResponse {
	return NewValidationResult(result.Errors...)
}

// NewValidationResult builds the API error body from individual errors.
func NewValidationResult(errs ...domain.OperationError) ValidationResultResponse {
	out := make([]ValidationErrorResponse, len(errs))
	for i, e := range errs {
		out[i] = ValidationErrorResponse{ErrorCode: e.Code, PropertyName: e.Field}
	}
	return ValidationResultResponse{Errors: out}
}

// BalanceResponse is one currency position of a wallet, enriched with the
// currency's display name from the active rate table.
type BalanceResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	CurrencyName string          `json:"currencyName,omitempty"`
}

// WalletResponse defines the data returned for a wallet.
type WalletResponse struct {
	Name     string            `json:"name"`
	Balances []BalanceResponse `json:"balances"`
}

// ListWalletsResponse is the body of the wallet listing endpoint.
type ListWalletsResponse struct {
	Wallets []WalletResponse `json:"wallets"`
}

// ToWalletResponse converts a domain wallet to its API shape, resolving
// currency display names against the given rate table.
func ToWalletResponse(wallet domain.Wallet, rates *domain.RateTable) WalletResponse {
	balances := make([]BalanceResponse, len(wallet.Balances))
	for i, balance := range wallet.Balances {
		name := ""
		if rate, ok := rates.FindCurrency(balance.CurrencyCode); ok {
			name = rate.Name
		}
		balances[i] = BalanceResponse{
			Amount:       balance.Amount,
			CurrencyCode: balance.CurrencyCode,
			CurrencyName: name,
		}
	}
	return WalletResponse{Name: wallet.Name, Balances: balances}
}

// ToListWalletsResponse converts a page of wallets to the API shape.
func ToListWalletsResponse(wallets []domain.Wallet, rates *domain.RateTable) ListWalletsResponse {
	out := make([]WalletResponse, len(wallets))
	for i, wallet := range wallets {
		out[i] = ToWalletResponse(wallet, rates)
	}
	return ListWalletsResponse{Wallets: out}
}
