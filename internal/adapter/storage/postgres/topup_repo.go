package postgres

import (
	"context"
	"errors"
	"fmt"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const topupColumns = `id, vendor_id, reference_id, amount, status, remarks, reviewed_by, review_note, created_at, reviewed_at`

// TopupRepo implements ports.TopupRepository.
type TopupRepo struct {
	pool Pool
}

// NewTopupRepo creates a new TopupRepo.
func NewTopupRepo(pool Pool) *TopupRepo {
	return &TopupRepo{pool: pool}
}

// Create inserts a pending topup request.
func (r *TopupRepo) Create(ctx context.Context, t *domain.TopupRequest) error {
	query := `INSERT INTO topup_requests (id, vendor_id, reference_id, amount, status, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	if _, err := r.pool.Exec(ctx, query, t.ID, t.VendorID, t.ReferenceID, t.Amount, t.Status, t.Remarks); err != nil {
		return fmt.Errorf("insert topup request: %w", err)
	}
	return nil
}

// GetByID fetches a topup request. Returns nil, nil when absent.
func (r *TopupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TopupRequest, error) {
	query := `SELECT ` + topupColumns + ` FROM topup_requests WHERE id = $1`
	return scanTopup(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a topup request locked FOR UPDATE so concurrent
// reviews serialize. MUST be called within a transaction.
func (r *TopupRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TopupRequest, error) {
	query := `SELECT ` + topupColumns + ` FROM topup_requests WHERE id = $1 FOR UPDATE`
	return scanTopup(tx.QueryRow(ctx, query, id))
}

// UpdateStatus records a review decision within a transaction.
func (r *TopupRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TopupStatus, reviewedBy uuid.UUID, note *string) error {
	query := `UPDATE topup_requests SET status = $1, reviewed_by = $2, review_note = $3, reviewed_at = NOW()
		WHERE id = $4`

	tag, err := tx.Exec(ctx, query, status, reviewedBy, note, id)
	if err != nil {
		return fmt.Errorf("update topup status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("topup request")
	}
	return nil
}

// List returns topup requests, newest first, optionally filtered by vendor
// and status.
func (r *TopupRepo) List(ctx context.Context, vendorID *uuid.UUID, status *domain.TopupStatus, page, pageSize int) ([]domain.TopupRequest, int64, error) {
	where := ""
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if vendorID != nil {
		add("vendor_id = $%d", *vendorID)
	}
	if status != nil {
		add("status = $%d", *status)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM topup_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count topup requests: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+topupColumns+` FROM topup_requests`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list topup requests: %w", err)
	}
	defer rows.Close()

	var topups []domain.TopupRequest
	for rows.Next() {
		var t domain.TopupRequest
		if err := rows.Scan(
			&t.ID, &t.VendorID, &t.ReferenceID, &t.Amount, &t.Status,
			&t.Remarks, &t.ReviewedBy, &t.ReviewNote, &t.CreatedAt, &t.ReviewedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan topup request: %w", err)
		}
		topups = append(topups, t)
	}
	return topups, total, rows.Err()
}

// GetStats aggregates topup volume for the admin dashboard.
func (r *TopupRepo) GetStats(ctx context.Context) (*domain.TopupStats, error) {
	query := `SELECT
		COUNT(*) FILTER (WHERE status = 'PENDING'),
		COUNT(*) FILTER (WHERE status = 'APPROVED'),
		COUNT(*) FILTER (WHERE status = 'REJECTED'),
		COALESCE(SUM(amount) FILTER (WHERE status = 'APPROVED'), 0)
		FROM topup_requests`

	stats := &domain.TopupStats{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.PendingCount, &stats.ApprovedCount, &stats.RejectedCount, &stats.ApprovedAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("topup stats: %w", err)
	}
	return stats, nil
}

func scanTopup(row pgx.Row) (*domain.TopupRequest, error) {
	t := &domain.TopupRequest{}
	err := row.Scan(
		&t.ID, &t.VendorID, &t.ReferenceID, &t.Amount, &t.Status,
		&t.Remarks, &t.ReviewedBy, &t.ReviewNote, &t.CreatedAt, &t.ReviewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get topup request: %w", err)
	}
	return t, nil
}
