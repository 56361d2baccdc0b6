package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryType represents the kind of wallet movement.
type LedgerEntryType string

const (
	LedgerEntryTopup     LedgerEntryType = "topup"
	LedgerEntryDeduction LedgerEntryType = "deduction"
	LedgerEntryRefund    LedgerEntryType = "refund"
)

// LedgerEntry is an immutable record of a single wallet movement. Entries
// carry the balance before and after the movement so the history is
// auditable without replaying it.
type LedgerEntry struct {
	ID            uuid.UUID       `json:"id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	Type          LedgerEntryType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceID   string          `json:"reference_id"`
	// TopupRequestID links a topup credit back to the approved request.
	// Nil for deductions and refunds.
	TopupRequestID *uuid.UUID `json:"topup_request_id,omitempty"`
	Description    string     `json:"description,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// LedgerMutation reports the outcome of a wallet movement to callers.
type LedgerMutation struct {
	EntryID       uuid.UUID       `json:"entry_id"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// RefundResult reports a refund attempt. AlreadyProcessed is true when a
// refund for the same (vendor, reference) pair was recorded earlier; the
// wallet is untouched in that case and the original entry is returned.
type RefundResult struct {
	LedgerMutation
	AlreadyProcessed bool `json:"already_processed"`
}
