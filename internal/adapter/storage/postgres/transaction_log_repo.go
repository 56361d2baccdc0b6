package postgres

import (
	"context"
	"fmt"

	"vendor-payout-gateway/internal/core/domain"
)

// TransactionLogRepo implements ports.TransactionLogRepository.
type TransactionLogRepo struct {
	pool Pool
}

// NewTransactionLogRepo creates a new TransactionLogRepo.
func NewTransactionLogRepo(pool Pool) *TransactionLogRepo {
	return &TransactionLogRepo{pool: pool}
}

// Create inserts a gateway exchange record.
func (r *TransactionLogRepo) Create(ctx context.Context, l *domain.TransactionLog) error {
	query := `INSERT INTO transaction_logs (id, reference_id, log_type, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())`

	if _, err := r.pool.Exec(ctx, query, l.ID, l.ReferenceID, l.Type, l.Payload); err != nil {
		return fmt.Errorf("insert transaction log: %w", err)
	}
	return nil
}

// ListByReference returns a payout's gateway exchanges, oldest first, so
// the conversation reads top to bottom.
func (r *TransactionLogRepo) ListByReference(ctx context.Context, referenceID string) ([]domain.TransactionLog, error) {
	query := `SELECT id, reference_id, log_type, payload, created_at
		FROM transaction_logs WHERE reference_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list transaction logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.TransactionLog
	for rows.Next() {
		var l domain.TransactionLog
		if err := rows.Scan(&l.ID, &l.ReferenceID, &l.Type, &l.Payload, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
