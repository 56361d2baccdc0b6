package postgres

import (
	"context"
	"errors"
	"fmt"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetByVendorID fetches a wallet by vendor ID (non-locking read).
func (r *WalletRepo) GetByVendorID(ctx context.Context, vendorID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, vendor_id, balance, currency, created_at, updated_at
		FROM vendor_wallets WHERE vendor_id = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, vendorID).Scan(&w.ID, &w.VendorID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound("wallet")
		}
		return nil, fmt.Errorf("get wallet by vendor: %w", err)
	}
	return w, nil
}

// LockWallet returns the vendor's wallet locked FOR UPDATE, creating it at
// zero balance if this is the vendor's first money movement. MUST be
// called within a transaction.
func (r *WalletRepo) LockWallet(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID) (*domain.Wallet, error) {
	insert := `INSERT INTO vendor_wallets (id, vendor_id, balance, currency, created_at, updated_at)
		VALUES ($1, $2, 0, $3, NOW(), NOW())
		ON CONFLICT (vendor_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insert, uuid.New(), vendorID, domain.WalletCurrency); err != nil {
		return nil, fmt.Errorf("ensure wallet: %w", err)
	}

	query := `SELECT id, vendor_id, balance, currency, created_at, updated_at
		FROM vendor_wallets WHERE vendor_id = $1 FOR UPDATE`

	w := &domain.Wallet{}
	err := tx.QueryRow(ctx, query, vendorID).Scan(&w.ID, &w.VendorID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}
	return w, nil
}

// UpdateBalance writes a wallet's new balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE vendor_wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}
