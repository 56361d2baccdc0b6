package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a vendor's custodial balance. The balance column is the
// single source of truth for spendable funds; every change to it must be
// paired with a LedgerEntry in the same database transaction.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	VendorID  uuid.UUID       `json:"vendor_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletCurrency is the only currency wallets hold; the gateway settles
// in INR exclusively.
const WalletCurrency = "INR"

// CanDebit returns true if the wallet holds at least amount.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
