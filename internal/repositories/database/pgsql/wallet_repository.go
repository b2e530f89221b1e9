package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/walletledger/wallet_ledger_app/internal/apperrors"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
	portsrepo "github.com/walletledger/wallet_ledger_app/internal/core/ports/repositories"
)

// PgxWalletRepository implements the wallet repository using pgxpool.
// Balances are stored as a jsonb document on the wallet row: the wallet is
// the unit of consistency, so it is always written and read as a whole.
type PgxWalletRepository struct {
	BaseRepository
}

// NewPgxWalletRepository creates a new repository for wallet data.
func NewPgxWalletRepository(pool *pgxpool.Pool) portsrepo.WalletRepositoryFacade {
	return &PgxWalletRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.WalletRepositoryFacade = (*PgxWalletRepository)(nil)

// SaveWallet inserts a wallet or, when the name is already present, replaces
// its balances. Returns the assigned identity and records it on the wallet.
func (r *PgxWalletRepository) SaveWallet(ctx context.Context, wallet *domain.Wallet) (int64, error) {
	balancesJSON, err := json.Marshal(wallet.Balances)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal balances for wallet %q: %w", wallet.Name, err)
	}

	query := `
		INSERT INTO wallets (name, balances)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			balances = EXCLUDED.balances
		RETURNING wallet_id;
	`

	var walletID int64
	if err := r.Pool.QueryRow(ctx, query, wallet.Name, balancesJSON).Scan(&walletID); err != nil {
		return 0, fmt.Errorf("failed to save wallet %q: %w", wallet.Name, err)
	}

	wallet.WalletID = walletID
	return walletID, nil
}

// FindWalletByID retrieves a wallet by its identity.
func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, balances
		FROM wallets
		WHERE wallet_id = $1;
	`
	return r.queryWallet(ctx, query, walletID)
}

// FindWalletByName retrieves a wallet by its unique name.
func (r *PgxWalletRepository) FindWalletByName(ctx context.Context, name string) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, balances
		FROM wallets
		WHERE name = $1;
	`
	return r.queryWallet(ctx, query, name)
}

// ListWallets retrieves a page of wallets ordered by name.
func (r *PgxWalletRepository) ListWallets(ctx context.Context, limit int, offset int) ([]domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, balances
		FROM wallets
		ORDER BY name ASC
		OFFSET $1 LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	wallets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Wallet, error) {
		wallet, err := scanWallet(row)
		if err != nil {
			return domain.Wallet{}, err
		}
		return *wallet, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallets: %w", err)
	}

	return wallets, nil
}

func (r *PgxWalletRepository) queryWallet(ctx context.Context, query string, arg any) (*domain.Wallet, error) {
	wallet, err := scanWallet(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}
	return wallet, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		walletID     int64
		name         string
		balancesJSON []byte
	)
	if err := row.Scan(&walletID, &name, &balancesJSON); err != nil {
		return nil, err
	}

	var balances []*domain.Balance
	if err := json.Unmarshal(balancesJSON, &balances); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balances for wallet %d: %w", walletID, err)
	}
	if balances == nil {
		balances = []*domain.Balance{}
	}

	return domain.RecoverWallet(walletID, name, balances), nil
}
