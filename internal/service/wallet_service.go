package service

import (
	"context"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	ledgerRepo ports.LedgerRepository
	log        zerolog.Logger
}

// NewWalletService creates the wallet query service.
func NewWalletService(
	walletRepo ports.WalletRepository,
	ledgerRepo ports.LedgerRepository,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		log:        log,
	}
}

// Balance returns the vendor's wallet. A vendor who has never moved money
// gets a zero-balance wallet rather than a not-found error.
func (s *WalletServiceImpl) Balance(ctx context.Context, vendorID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByVendorID(ctx, vendorID)
	if err != nil {
		if apperror.Is(err, apperror.CodeNotFound) {
			return &domain.Wallet{VendorID: vendorID, Currency: domain.WalletCurrency}, nil
		}
		return nil, err
	}
	if wallet == nil {
		return &domain.Wallet{VendorID: vendorID, Currency: domain.WalletCurrency}, nil
	}
	return wallet, nil
}

// Ledger returns the vendor's wallet movement history, newest first.
func (s *WalletServiceImpl) Ledger(ctx context.Context, vendorID uuid.UUID, entryType *domain.LedgerEntryType, page, pageSize int) ([]domain.LedgerEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.ledgerRepo.ListByVendor(ctx, vendorID, entryType, page, pageSize)
}
