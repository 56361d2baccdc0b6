package ports

import (
	"context"
	"time"

	"vendor-payout-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UserRepository defines persistence operations for vendor and admin accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error
	List(ctx context.Context, role *domain.UserRole, page, pageSize int) ([]domain.User, int64, error)
}

// WalletRepository defines persistence operations for vendor wallets.
// Methods accepting pgx.Tx run inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	GetByVendorID(ctx context.Context, vendorID uuid.UUID) (*domain.Wallet, error)
	// LockWallet creates the vendor's wallet if absent and returns it
	// locked FOR UPDATE within tx.
	LockWallet(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
}

// LedgerRepository defines persistence for immutable wallet movements.
type LedgerRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	// FindRefund returns the refund entry for (vendorID, referenceID), or
	// nil if none exists.
	FindRefund(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, referenceID string) (*domain.LedgerEntry, error)
	// HasDeduction reports whether a deduction was recorded for
	// (vendorID, referenceID).
	HasDeduction(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, referenceID string) (bool, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, entryType *domain.LedgerEntryType, page, pageSize int) ([]domain.LedgerEntry, int64, error)
}

// PayoutRepository defines persistence operations for payout transactions.
type PayoutRepository interface {
	Create(ctx context.Context, tx pgx.Tx, payout *domain.PayoutTransaction) error
	GetByReference(ctx context.Context, referenceID string) (*domain.PayoutTransaction, error)
	GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, referenceID string) (*domain.PayoutTransaction, error)
	// UpdateStatus records a lifecycle change along with any gateway
	// identifiers learned from the report.
	UpdateStatus(ctx context.Context, tx pgx.Tx, referenceID string, status domain.PayoutStatus, gatewayTxID, utr, failureReason, rawResponse *string) error
	List(ctx context.Context, params PayoutListParams) ([]domain.PayoutTransaction, int64, error)
	GetStats(ctx context.Context, vendorID *uuid.UUID, from *time.Time) (*PayoutStats, error)
}

// PayoutListParams holds filter + pagination for listing payouts.
// VendorID nil means all vendors (admin listing).
type PayoutListParams struct {
	VendorID *uuid.UUID
	Status   *domain.PayoutStatus
	Mode     *domain.PayoutMode
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// PayoutStats holds aggregated payout figures for dashboards.
type PayoutStats struct {
	Total         int64
	Pending       int64
	Processing    int64
	Successful    int64
	Failed        int64
	SuccessAmount decimal.Decimal
	RefundedCount int64
}

// TransactionLogRepository persists gateway exchange records.
type TransactionLogRepository interface {
	Create(ctx context.Context, log *domain.TransactionLog) error
	ListByReference(ctx context.Context, referenceID string) ([]domain.TransactionLog, error)
}

// TopupRepository defines persistence operations for topup requests.
type TopupRepository interface {
	Create(ctx context.Context, topup *domain.TopupRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TopupRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TopupRequest, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TopupStatus, reviewedBy uuid.UUID, note *string) error
	List(ctx context.Context, vendorID *uuid.UUID, status *domain.TopupStatus, page, pageSize int) ([]domain.TopupRequest, int64, error)
	GetStats(ctx context.Context) (*domain.TopupStats, error)
}

// BeneficiaryRepository defines persistence operations for saved recipients.
type BeneficiaryRepository interface {
	Create(ctx context.Context, b *domain.Beneficiary) error
	GetByID(ctx context.Context, vendorID, id uuid.UUID) (*domain.Beneficiary, error)
	Update(ctx context.Context, b *domain.Beneficiary) error
	Delete(ctx context.Context, vendorID, id uuid.UUID) error
	ListByVendor(ctx context.Context, vendorID uuid.UUID, page, pageSize int) ([]domain.Beneficiary, int64, error)
}

// BalanceHistoryRepository persists gateway balance snapshots.
type BalanceHistoryRepository interface {
	Create(ctx context.Context, snapshot *domain.BalanceSnapshot) error
	List(ctx context.Context, page, pageSize int) ([]domain.BalanceSnapshot, int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
