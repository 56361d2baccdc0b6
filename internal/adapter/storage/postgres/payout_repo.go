package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const payoutColumns = `id, vendor_id, merchant_reference_id, gateway_transaction_id, utr,
	amount, mode, status, ben_name, ben_phone, ben_vpa, ben_account_number, ben_ifsc,
	ben_bank_name, narration, failure_reason, last_gateway_response, created_at, updated_at, completed_at`

// PayoutRepo implements ports.PayoutRepository.
type PayoutRepo struct {
	pool Pool
}

// NewPayoutRepo creates a new PayoutRepo.
func NewPayoutRepo(pool Pool) *PayoutRepo {
	return &PayoutRepo{pool: pool}
}

// Create inserts a payout within the submission transaction, alongside the
// wallet debit.
func (r *PayoutRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.PayoutTransaction) error {
	query := `INSERT INTO transactions (id, vendor_id, merchant_reference_id, amount, mode, status,
		ben_name, ben_phone, ben_vpa, ben_account_number, ben_ifsc, ben_bank_name, narration,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())`

	_, err := tx.Exec(ctx, query,
		p.ID, p.VendorID, p.MerchantReferenceID, p.Amount, p.Mode, p.Status,
		p.BeneficiaryName, p.BeneficiaryPhone, p.BeneficiaryVPA, p.BeneficiaryAccount,
		p.BeneficiaryIFSC, p.BeneficiaryBank, p.Narration,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.ErrDuplicateReference(p.MerchantReferenceID)
		}
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

// GetByReference fetches a payout by merchant reference (non-locking).
// Returns nil, nil when no payout exists.
func (r *PayoutRepo) GetByReference(ctx context.Context, referenceID string) (*domain.PayoutTransaction, error) {
	query := `SELECT ` + payoutColumns + ` FROM transactions WHERE merchant_reference_id = $1`
	return scanPayout(r.pool.QueryRow(ctx, query, referenceID))
}

// GetByReferenceForUpdate fetches a payout locked FOR UPDATE so competing
// status reports serialize on the row. MUST be called within a transaction.
func (r *PayoutRepo) GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, referenceID string) (*domain.PayoutTransaction, error) {
	query := `SELECT ` + payoutColumns + ` FROM transactions WHERE merchant_reference_id = $1 FOR UPDATE`
	return scanPayout(tx.QueryRow(ctx, query, referenceID))
}

// UpdateStatus records a lifecycle change. Gateway identifiers are only
// ever filled in, never cleared: a report without a UTR must not erase one
// learned earlier.
func (r *PayoutRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, referenceID string, status domain.PayoutStatus, gatewayTxID, utr, failureReason, rawResponse *string) error {
	query := `UPDATE transactions SET
		status = $1,
		gateway_transaction_id = COALESCE($2, gateway_transaction_id),
		utr = COALESCE($3, utr),
		failure_reason = COALESCE($4, failure_reason),
		last_gateway_response = COALESCE($5, last_gateway_response),
		completed_at = CASE WHEN $1 IN ('SUCCESS', 'FAILED') AND completed_at IS NULL THEN NOW() ELSE completed_at END,
		updated_at = NOW()
		WHERE merchant_reference_id = $6`

	tag, err := tx.Exec(ctx, query, status, gatewayTxID, utr, failureReason, rawResponse, referenceID)
	if err != nil {
		return fmt.Errorf("update payout status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("transaction")
	}
	return nil
}

// List returns payouts matching params, newest first.
func (r *PayoutRepo) List(ctx context.Context, params ports.PayoutListParams) ([]domain.PayoutTransaction, int64, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if params.VendorID != nil {
		add("vendor_id = $%d", *params.VendorID)
	}
	if params.Status != nil {
		add("status = $%d", *params.Status)
	}
	if params.Mode != nil {
		add("mode = $%d", *params.Mode)
	}
	if params.From != nil {
		add("created_at >= $%d", *params.From)
	}
	if params.To != nil {
		add("created_at <= $%d", *params.To)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payouts: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+payoutColumns+` FROM transactions`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []domain.PayoutTransaction
	for rows.Next() {
		p, err := scanPayoutRow(rows)
		if err != nil {
			return nil, 0, err
		}
		payouts = append(payouts, *p)
	}
	return payouts, total, rows.Err()
}

// GetStats aggregates payout figures, optionally scoped to a vendor and a
// start time.
func (r *PayoutRepo) GetStats(ctx context.Context, vendorID *uuid.UUID, from *time.Time) (*ports.PayoutStats, error) {
	var conds []string
	var args []any
	if vendorID != nil {
		args = append(args, *vendorID)
		conds = append(conds, fmt.Sprintf("vendor_id = $%d", len(args)))
	}
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'PENDING'),
		COUNT(*) FILTER (WHERE status = 'PROCESSING'),
		COUNT(*) FILTER (WHERE status = 'SUCCESS'),
		COUNT(*) FILTER (WHERE status = 'FAILED'),
		COALESCE(SUM(amount) FILTER (WHERE status = 'SUCCESS'), 0)
		FROM transactions` + where

	stats := &ports.PayoutStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Total, &stats.Pending, &stats.Processing,
		&stats.Successful, &stats.Failed, &stats.SuccessAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("payout stats: %w", err)
	}

	refundWhere := " WHERE entry_type = 'refund'"
	for _, c := range conds {
		refundWhere += " AND " + c
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM wallet_transactions`+refundWhere, args...).Scan(&stats.RefundedCount); err != nil {
		return nil, fmt.Errorf("refund stats: %w", err)
	}
	return stats, nil
}

func scanPayout(row pgx.Row) (*domain.PayoutTransaction, error) {
	p, err := scanPayoutRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func scanPayoutRow(row pgx.Row) (*domain.PayoutTransaction, error) {
	p := &domain.PayoutTransaction{}
	err := row.Scan(
		&p.ID, &p.VendorID, &p.MerchantReferenceID, &p.GatewayTransactionID, &p.UTR,
		&p.Amount, &p.Mode, &p.Status, &p.BeneficiaryName, &p.BeneficiaryPhone,
		&p.BeneficiaryVPA, &p.BeneficiaryAccount, &p.BeneficiaryIFSC, &p.BeneficiaryBank,
		&p.Narration, &p.FailureReason, &p.LastGatewayResponse, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan payout: %w", err)
	}
	return p, nil
}
