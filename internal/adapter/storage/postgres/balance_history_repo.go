package postgres

import (
	"context"
	"fmt"

	"vendor-payout-gateway/internal/core/domain"
)

// BalanceHistoryRepo implements ports.BalanceHistoryRepository.
type BalanceHistoryRepo struct {
	pool Pool
}

// NewBalanceHistoryRepo creates a new BalanceHistoryRepo.
func NewBalanceHistoryRepo(pool Pool) *BalanceHistoryRepo {
	return &BalanceHistoryRepo{pool: pool}
}

// Create records a gateway balance snapshot.
func (r *BalanceHistoryRepo) Create(ctx context.Context, s *domain.BalanceSnapshot) error {
	query := `INSERT INTO balance_history (id, balance, fetched_by, created_at)
		VALUES ($1, $2, $3, NOW())`

	if _, err := r.pool.Exec(ctx, query, s.ID, s.Balance, s.FetchedBy); err != nil {
		return fmt.Errorf("insert balance snapshot: %w", err)
	}
	return nil
}

// List returns balance snapshots, newest first.
func (r *BalanceHistoryRepo) List(ctx context.Context, page, pageSize int) ([]domain.BalanceSnapshot, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM balance_history`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count balance snapshots: %w", err)
	}

	query := `SELECT id, balance, fetched_by, created_at FROM balance_history
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list balance snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.BalanceSnapshot
	for rows.Next() {
		var s domain.BalanceSnapshot
		if err := rows.Scan(&s.ID, &s.Balance, &s.FetchedBy, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan balance snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, total, rows.Err()
}
