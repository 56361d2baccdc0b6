package ports

import (
	"context"
	"time"

	"vendor-payout-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SignatureService computes the gateway payload signature over the
// ordered field sequence defined by the gateway contract.
type SignatureService interface {
	Sign(payload *domain.PayoutPayload) string
	// SignFields signs an explicit ordered field list; used by the
	// self-test and for non-payout payloads.
	SignFields(fields []string) string
}

// CryptoService handles the AES-256-CBC envelope encryption used on the
// gateway wire.
type CryptoService interface {
	Encrypt(plaintext []byte) (*domain.Envelope, error)
	Decrypt(env *domain.Envelope) ([]byte, error)
	// SelfTest round-trips a probe value and fails if the configured key
	// cannot reproduce it. Called at startup so a bad key is caught
	// before it reaches the gateway.
	SelfTest() error
}

// GatewayClient talks to the external payout gateway. Every method
// returns a populated GatewayResult even when the gateway rejects the
// request, so callers can persist the gateway's verdict.
type GatewayClient interface {
	GetBalance(ctx context.Context) (*domain.GatewayResult, error)
	SubmitPayout(ctx context.Context, payload *domain.PayoutPayload) (*domain.GatewayResult, error)
	CheckStatus(ctx context.Context, referenceID string) (*domain.GatewayResult, error)
}

// WalletLedger performs atomic wallet movements. Each method locks the
// wallet, moves the balance, and appends a ledger entry inside tx.
type WalletLedger interface {
	Debit(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, amount decimal.Decimal, referenceID, description string) (*domain.LedgerMutation, error)
	// Credit adds funds. topupRequestID links the entry to the approved
	// topup request; nil for credits from other sources.
	Credit(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, amount decimal.Decimal, referenceID string, topupRequestID *uuid.UUID, description string) (*domain.LedgerMutation, error)
	// Refund credits back a prior deduction. It is idempotent per
	// (vendorID, referenceID) and refuses to refund a reference that was
	// never debited.
	Refund(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, amount decimal.Decimal, referenceID, description string) (*domain.RefundResult, error)
}

// PayoutService drives the payout lifecycle: submission, status polling,
// webhook ingestion, and reconciliation refunds.
type PayoutService interface {
	Submit(ctx context.Context, req SubmitPayoutRequest) (*domain.PayoutTransaction, error)
	CheckStatus(ctx context.Context, vendorID uuid.UUID, referenceID string) (*domain.PayoutTransaction, error)
	// HandleWebhook decodes an encrypted gateway callback and applies it.
	// It returns an error only for undecodable payloads; business
	// anomalies are absorbed and logged because the gateway expects 200.
	HandleWebhook(ctx context.Context, env *domain.Envelope) error
	Get(ctx context.Context, vendorID *uuid.UUID, referenceID string) (*domain.PayoutTransaction, error)
	List(ctx context.Context, params PayoutListParams) ([]domain.PayoutTransaction, int64, error)
	Logs(ctx context.Context, vendorID *uuid.UUID, referenceID string) ([]domain.TransactionLog, error)
	GatewayBalance(ctx context.Context, requestedBy uuid.UUID) (*domain.GatewayBalance, error)
}

// SubmitPayoutRequest holds validated input for a payout submission.
// Either BeneficiaryID or the inline beneficiary fields must be set.
type SubmitPayoutRequest struct {
	VendorID      uuid.UUID
	Amount        decimal.Decimal
	Mode          domain.PayoutMode
	BeneficiaryID *uuid.UUID
	Name          string
	Phone         string
	VPA           string
	AccountNumber string
	IFSC          string
	BankName      string
	Narration     string
}

// TopupService manages the wallet topup request lifecycle.
type TopupService interface {
	Request(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal, remarks string) (*domain.TopupRequest, error)
	Approve(ctx context.Context, topupID, adminID uuid.UUID, note string) (*domain.TopupRequest, error)
	Reject(ctx context.Context, topupID, adminID uuid.UUID, note string) (*domain.TopupRequest, error)
	List(ctx context.Context, vendorID *uuid.UUID, status *domain.TopupStatus, page, pageSize int) ([]domain.TopupRequest, int64, error)
	Stats(ctx context.Context) (*domain.TopupStats, error)
}

// WalletService exposes wallet balance and ledger history queries.
type WalletService interface {
	Balance(ctx context.Context, vendorID uuid.UUID) (*domain.Wallet, error)
	Ledger(ctx context.Context, vendorID uuid.UUID, entryType *domain.LedgerEntryType, page, pageSize int) ([]domain.LedgerEntry, int64, error)
}

// BeneficiaryService manages saved payout recipients.
type BeneficiaryService interface {
	Create(ctx context.Context, vendorID uuid.UUID, b *domain.Beneficiary) (*domain.Beneficiary, error)
	Get(ctx context.Context, vendorID, id uuid.UUID) (*domain.Beneficiary, error)
	Update(ctx context.Context, vendorID, id uuid.UUID, b *domain.Beneficiary) (*domain.Beneficiary, error)
	Delete(ctx context.Context, vendorID, id uuid.UUID) error
	List(ctx context.Context, vendorID uuid.UUID, page, pageSize int) ([]domain.Beneficiary, int64, error)
}

// AdminService exposes the operator dashboard: vendor management,
// payout aggregates, and gateway balance history.
type AdminService interface {
	ListVendors(ctx context.Context, page, pageSize int) ([]domain.User, int64, error)
	UpdateVendorStatus(ctx context.Context, vendorID uuid.UUID, status domain.UserStatus) (*domain.User, error)
	PayoutStats(ctx context.Context, vendorID *uuid.UUID, from *time.Time) (*PayoutStats, error)
	BalanceHistory(ctx context.Context, page, pageSize int) ([]domain.BalanceSnapshot, int64, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.UserRole) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, *domain.User, error)
}

// RegisterRequest holds input for vendor registration.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// BalanceCache caches the gateway balance lookup.
type BalanceCache interface {
	Get(ctx context.Context) (string, error) // empty string on miss
	Set(ctx context.Context, balance string, ttl time.Duration) error
}

// RateLimitStore tracks request counts per client for rate limiting.
type RateLimitStore interface {
	// Increment bumps the counter for key within a window of ttl and
	// returns the new count.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
