package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/walletledger/wallet_ledger_app/internal/apperrors"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
	portsrepo "github.com/walletledger/wallet_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/walletledger/wallet_ledger_app/internal/core/ports/services"
)

// walletServiceImpl implements the WalletSvcFacade interface. Every mutating
// operation is one load-mutate-save cycle: the wallet is loaded whole,
// mutated in memory by the aggregate, and persisted only when the operation
// succeeded. Concurrent requests against the same wallet are not serialized;
// the storage layer applies last-write-wins.
type walletServiceImpl struct {
	BaseService
	walletRepo portsrepo.WalletRepositoryFacade
	rateRepo   portsrepo.ExchangeRateReader
}

// NewWalletService creates a new wallet service backed by the given
// wallet repository and exchange rate reader.
func NewWalletService(walletRepo portsrepo.WalletRepositoryFacade, rateRepo portsrepo.ExchangeRateReader) portssvc.WalletSvcFacade {
	return &walletServiceImpl{
		walletRepo: walletRepo,
		rateRepo:   rateRepo,
	}
}

// Ensure walletServiceImpl implements the WalletSvcFacade interface
var _ portssvc.WalletSvcFacade = (*walletServiceImpl)(nil)

func (s *walletServiceImpl) CreateWallet(ctx context.Context, name string) (int64, domain.OperationResult, error) {
	_, err := s.walletRepo.FindWalletByName(ctx, name)
	if err == nil {
		s.LogDebug(ctx, "Wallet name already taken", slog.String("name", name))
		return 0, domain.Fail(domain.NewOperationError(domain.ErrCodeWalletAlreadyExist, "")), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up wallet by name", slog.String("name", name))
		return 0, domain.OperationResult{}, fmt.Errorf("failed to look up wallet %q: %w", name, err)
	}

	wallet := domain.NewWallet(name)
	walletID, err := s.walletRepo.SaveWallet(ctx, wallet)
	if err != nil {
		s.LogError(ctx, err, "Failed to save new wallet", slog.String("name", name))
		return 0, domain.OperationResult{}, fmt.Errorf("failed to save wallet %q: %w", name, err)
	}

	s.LogInfo(ctx, "Wallet created successfully",
		slog.Int64("wallet_id", walletID),
		slog.String("name", name))
	return walletID, domain.Success(), nil
}

func (s *walletServiceImpl) Deposit(ctx context.Context, walletID int64, currencyCode string, amount decimal.Decimal) (domain.OperationResult, error) {
	return s.mutate(ctx, walletID, "deposit", func(wallet *domain.Wallet) (domain.OperationResult, error) {
		return wallet.Deposit(ctx, currencyCode, amount, s.rateRepo)
	})
}

func (s *walletServiceImpl) Withdraw(ctx context.Context, walletID int64, currencyCode string, amount decimal.Decimal) (domain.OperationResult, error) {
	return s.mutate(ctx, walletID, "withdrawal", func(wallet *domain.Wallet) (domain.OperationResult, error) {
		return wallet.Withdraw(ctx, currencyCode, amount, s.rateRepo)
	})
}

func (s *walletServiceImpl) Convert(ctx context.Context, walletID int64, fromCurrencyCode, toCurrencyCode string, amount decimal.Decimal) (domain.OperationResult, error) {
	return s.mutate(ctx, walletID, "conversion", func(wallet *domain.Wallet) (domain.OperationResult, error) {
		return wallet.Convert(ctx, fromCurrencyCode, toCurrencyCode, amount, s.rateRepo)
	})
}

func (s *walletServiceImpl) ListWallets(ctx context.Context, pageNumber int, pageSize int) ([]domain.Wallet, error) {
	// Page parameters are validated at the API layer; here they only get
	// translated into the repository's offset/limit form.
	offset := pageSize * (pageNumber - 1)
	wallets, err := s.walletRepo.ListWallets(ctx, pageSize, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list wallets",
			slog.Int("limit", pageSize),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	if wallets == nil {
		return []domain.Wallet{}, nil
	}
	return wallets, nil
}

// mutate runs one load-mutate-save cycle against a wallet. The wallet is
// persisted only when op reports success; a missing wallet short-circuits
// before the aggregate is touched.
func (s *walletServiceImpl) mutate(ctx context.Context, walletID int64, opName string, op func(*domain.Wallet) (domain.OperationResult, error)) (domain.OperationResult, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Fail(domain.NewOperationError(domain.ErrCodeWalletDoesNotExist, "")), nil
		}
		s.LogError(ctx, err, "Failed to load wallet", slog.Int64("wallet_id", walletID))
		return domain.OperationResult{}, fmt.Errorf("failed to load wallet %d: %w", walletID, err)
	}

	result, err := op(wallet)
	if err != nil {
		if !errors.Is(err, apperrors.ErrRatesUnavailable) {
			s.LogError(ctx, err, "Wallet operation failed",
				slog.Int64("wallet_id", walletID),
				slog.String("operation", opName))
		}
		return domain.OperationResult{}, err
	}

	if result.IsSuccess() {
		if _, err := s.walletRepo.SaveWallet(ctx, wallet); err != nil {
			s.LogError(ctx, err, "Failed to save wallet after operation",
				slog.Int64("wallet_id", walletID),
				slog.String("operation", opName))
			return domain.OperationResult{}, fmt.Errorf("failed to save wallet %d: %w", walletID, err)
		}
	}

	s.LogDebug(ctx, "Wallet operation completed",
		slog.Int64("wallet_id", walletID),
		slog.String("operation", opName),
		slog.Bool("success", result.IsSuccess()))
	return result, nil
}
