package repositories

import (
	"context"

	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
)

// WalletReader defines read operations for wallet data
type WalletReader interface {
	// FindWalletByID retrieves a wallet by its assigned identity.
	FindWalletByID(ctx context.Context, walletID int64) (*domain.Wallet, error)

	// FindWalletByName retrieves a wallet by its unique name.
	FindWalletByName(ctx context.Context, name string) (*domain.Wallet, error)

	// ListWallets retrieves a page of wallets ordered by name.
	ListWallets(ctx context.Context, limit int, offset int) ([]domain.Wallet, error)
}

// WalletWriter defines write operations for wallet data
type WalletWriter interface {
	// SaveWallet persists a wallet as a whole, inserting it on first save
	// and replacing its balances otherwise. Returns the wallet's identity.
	SaveWallet(ctx context.Context, wallet *domain.Wallet) (int64, error)
}

// WalletRepositoryFacade combines all wallet-related repository interfaces
// This is a facade for clients that need access to all operations
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
}
