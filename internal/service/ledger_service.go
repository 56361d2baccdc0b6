package service

import (
	"context"
	"fmt"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// WalletLedgerImpl implements ports.WalletLedger. Every movement locks the
// wallet row, updates the balance, and appends a ledger entry inside the
// caller's transaction, so the ledger and the balance can never diverge.
type WalletLedgerImpl struct {
	walletRepo ports.WalletRepository
	ledgerRepo ports.LedgerRepository
	log        zerolog.Logger
}

// NewWalletLedger creates the wallet ledger service.
func NewWalletLedger(
	walletRepo ports.WalletRepository,
	ledgerRepo ports.LedgerRepository,
	log zerolog.Logger,
) *WalletLedgerImpl {
	return &WalletLedgerImpl{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		log:        log,
	}
}

// Debit removes amount from the vendor's wallet. Fails with
// PAY_001 when the locked balance cannot cover the amount.
func (s *WalletLedgerImpl) Debit(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, amount decimal.Decimal, referenceID, description string) (*domain.LedgerMutation, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}

	wallet, err := s.walletRepo.LockWallet(ctx, tx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("locking wallet: %w", err)
	}

	if !wallet.CanDebit(amount) {
		s.log.Warn().
			Str("vendor_id", vendorID.String()).
			Str("reference_id", referenceID).
			Str("balance", wallet.Balance.String()).
			Str("amount", amount.String()).
			Msg("insufficient wallet balance")
		return nil, apperror.ErrInsufficientBalance()
	}

	return s.apply(ctx, tx, wallet, domain.LedgerEntryDeduction, amount.Neg(), amount, referenceID, nil, description)
}

// Credit adds amount to the vendor's wallet. topupRequestID, when set,
// links the entry back to the approved topup request.
func (s *WalletLedgerImpl) Credit(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, amount decimal.Decimal, referenceID string, topupRequestID *uuid.UUID, description string) (*domain.LedgerMutation, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}

	wallet, err := s.walletRepo.LockWallet(ctx, tx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("locking wallet: %w", err)
	}

	return s.apply(ctx, tx, wallet, domain.LedgerEntryTopup, amount, amount, referenceID, topupRequestID, description)
}

// Refund credits back a prior deduction for referenceID. Idempotent: if a
// refund entry already exists for (vendorID, referenceID) the wallet is
// untouched and the original entry is reported back. A refund without a
// matching deduction is refused outright.
func (s *WalletLedgerImpl) Refund(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, amount decimal.Decimal, referenceID, description string) (*domain.RefundResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}

	// Lock first so concurrent refund attempts for the same reference
	// serialize on the wallet row.
	wallet, err := s.walletRepo.LockWallet(ctx, tx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("locking wallet: %w", err)
	}

	existing, err := s.ledgerRepo.FindRefund(ctx, tx, vendorID, referenceID)
	if err != nil {
		return nil, fmt.Errorf("checking existing refund: %w", err)
	}
	if existing != nil {
		s.log.Info().
			Str("vendor_id", vendorID.String()).
			Str("reference_id", referenceID).
			Msg("refund already processed, skipping")
		return &domain.RefundResult{
			LedgerMutation: domain.LedgerMutation{
				EntryID:       existing.ID,
				BalanceBefore: existing.BalanceBefore,
				BalanceAfter:  existing.BalanceAfter,
			},
			AlreadyProcessed: true,
		}, nil
	}

	debited, err := s.ledgerRepo.HasDeduction(ctx, tx, vendorID, referenceID)
	if err != nil {
		return nil, fmt.Errorf("checking deduction: %w", err)
	}
	if !debited {
		return nil, apperror.ErrRefundMissingDeduction(referenceID)
	}

	mut, err := s.apply(ctx, tx, wallet, domain.LedgerEntryRefund, amount, amount, referenceID, nil, description)
	if err != nil {
		return nil, err
	}
	return &domain.RefundResult{LedgerMutation: *mut}, nil
}

// apply moves the balance by delta and appends the matching ledger entry.
func (s *WalletLedgerImpl) apply(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet, entryType domain.LedgerEntryType, delta, amount decimal.Decimal, referenceID string, topupRequestID *uuid.UUID, description string) (*domain.LedgerMutation, error) {
	newBalance := wallet.Balance.Add(delta)

	if err := s.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance); err != nil {
		return nil, fmt.Errorf("updating balance: %w", err)
	}

	entry := &domain.LedgerEntry{
		ID:             uuid.New(),
		VendorID:       wallet.VendorID,
		WalletID:       wallet.ID,
		Type:           entryType,
		Amount:         amount,
		BalanceBefore:  wallet.Balance,
		BalanceAfter:   newBalance,
		ReferenceID:    referenceID,
		TopupRequestID: topupRequestID,
		Description:    description,
	}
	if err := s.ledgerRepo.Append(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("appending ledger entry: %w", err)
	}

	s.log.Info().
		Str("vendor_id", wallet.VendorID.String()).
		Str("type", string(entryType)).
		Str("reference_id", referenceID).
		Str("balance_after", newBalance.String()).
		Msg("wallet movement applied")

	return &domain.LedgerMutation{
		EntryID:       entry.ID,
		BalanceBefore: wallet.Balance,
		BalanceAfter:  newBalance,
	}, nil
}
