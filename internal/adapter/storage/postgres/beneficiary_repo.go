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

const beneficiaryColumns = `id, vendor_id, name, phone, vpa, account_number, ifsc, bank_name, created_at, updated_at`

// BeneficiaryRepo implements ports.BeneficiaryRepository. Every query is
// scoped by vendor_id so one vendor can never touch another's recipients.
type BeneficiaryRepo struct {
	pool Pool
}

// NewBeneficiaryRepo creates a new BeneficiaryRepo.
func NewBeneficiaryRepo(pool Pool) *BeneficiaryRepo {
	return &BeneficiaryRepo{pool: pool}
}

// Create inserts a saved recipient.
func (r *BeneficiaryRepo) Create(ctx context.Context, b *domain.Beneficiary) error {
	query := `INSERT INTO beneficiaries (id, vendor_id, name, phone, vpa, account_number, ifsc, bank_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.VendorID, b.Name, b.Phone, b.VPA, b.AccountNumber, b.IFSC, b.BankName,
	)
	if err != nil {
		return fmt.Errorf("insert beneficiary: %w", err)
	}
	return nil
}

// GetByID fetches one of the vendor's beneficiaries. Returns nil, nil when
// absent or owned by another vendor.
func (r *BeneficiaryRepo) GetByID(ctx context.Context, vendorID, id uuid.UUID) (*domain.Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE vendor_id = $1 AND id = $2`

	b := &domain.Beneficiary{}
	err := r.pool.QueryRow(ctx, query, vendorID, id).Scan(
		&b.ID, &b.VendorID, &b.Name, &b.Phone, &b.VPA,
		&b.AccountNumber, &b.IFSC, &b.BankName, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get beneficiary: %w", err)
	}
	return b, nil
}

// Update replaces a beneficiary's details.
func (r *BeneficiaryRepo) Update(ctx context.Context, b *domain.Beneficiary) error {
	query := `UPDATE beneficiaries SET name = $1, phone = $2, vpa = $3, account_number = $4,
		ifsc = $5, bank_name = $6, updated_at = NOW()
		WHERE vendor_id = $7 AND id = $8`

	tag, err := r.pool.Exec(ctx, query,
		b.Name, b.Phone, b.VPA, b.AccountNumber, b.IFSC, b.BankName, b.VendorID, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update beneficiary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("beneficiary")
	}
	return nil
}

// Delete removes a vendor's beneficiary.
func (r *BeneficiaryRepo) Delete(ctx context.Context, vendorID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM beneficiaries WHERE vendor_id = $1 AND id = $2`, vendorID, id)
	if err != nil {
		return fmt.Errorf("delete beneficiary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound("beneficiary")
	}
	return nil
}

// ListByVendor returns the vendor's saved beneficiaries, newest first.
func (r *BeneficiaryRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, page, pageSize int) ([]domain.Beneficiary, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM beneficiaries WHERE vendor_id = $1`, vendorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count beneficiaries: %w", err)
	}

	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE vendor_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, vendorID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list beneficiaries: %w", err)
	}
	defer rows.Close()

	var list []domain.Beneficiary
	for rows.Next() {
		var b domain.Beneficiary
		if err := rows.Scan(
			&b.ID, &b.VendorID, &b.Name, &b.Phone, &b.VPA,
			&b.AccountNumber, &b.IFSC, &b.BankName, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan beneficiary: %w", err)
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}
