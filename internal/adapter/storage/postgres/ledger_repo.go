package postgres

import (
	"context"
	"errors"
	"fmt"

	"vendor-payout-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `id, vendor_id, wallet_id, entry_type, amount, balance_before, balance_after, reference_id, topup_request_id, description, created_at`

// LedgerRepo implements ports.LedgerRepository. Ledger rows are append
// only; there is no update or delete path.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Append inserts a ledger entry within a transaction.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO wallet_transactions (id, vendor_id, wallet_id, entry_type, amount, balance_before, balance_after, reference_id, topup_request_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())`

	_, err := tx.Exec(ctx, query,
		e.ID, e.VendorID, e.WalletID, e.Type, e.Amount,
		e.BalanceBefore, e.BalanceAfter, e.ReferenceID, e.TopupRequestID, e.Description,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// FindRefund returns the refund entry for (vendorID, referenceID), or nil
// if none exists. Called with the wallet row already locked, so the answer
// cannot change under the caller.
func (r *LedgerRepo) FindRefund(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, referenceID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM wallet_transactions
		WHERE vendor_id = $1 AND reference_id = $2 AND entry_type = $3`

	e := &domain.LedgerEntry{}
	err := tx.QueryRow(ctx, query, vendorID, referenceID, domain.LedgerEntryRefund).Scan(
		&e.ID, &e.VendorID, &e.WalletID, &e.Type, &e.Amount,
		&e.BalanceBefore, &e.BalanceAfter, &e.ReferenceID, &e.TopupRequestID, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find refund entry: %w", err)
	}
	return e, nil
}

// HasDeduction reports whether a deduction was recorded for
// (vendorID, referenceID).
func (r *LedgerRepo) HasDeduction(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, referenceID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM wallet_transactions
		WHERE vendor_id = $1 AND reference_id = $2 AND entry_type = $3)`

	var exists bool
	if err := tx.QueryRow(ctx, query, vendorID, referenceID, domain.LedgerEntryDeduction).Scan(&exists); err != nil {
		return false, fmt.Errorf("check deduction entry: %w", err)
	}
	return exists, nil
}

// ListByVendor returns the vendor's ledger, newest first, optionally
// filtered by entry type.
func (r *LedgerRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, entryType *domain.LedgerEntryType, page, pageSize int) ([]domain.LedgerEntry, int64, error) {
	where := ` WHERE vendor_id = $1`
	args := []any{vendorID}
	if entryType != nil {
		where += ` AND entry_type = $2`
		args = append(args, *entryType)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM wallet_transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+ledgerColumns+` FROM wallet_transactions`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.VendorID, &e.WalletID, &e.Type, &e.Amount,
			&e.BalanceBefore, &e.BalanceAfter, &e.ReferenceID, &e.TopupRequestID, &e.Description, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
