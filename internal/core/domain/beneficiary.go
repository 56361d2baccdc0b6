package domain

import (
	"time"

	"github.com/google/uuid"
)

// Beneficiary is a saved payout recipient. VPA fields apply to UPI,
// account/IFSC/bank fields to IMPS and NEFT. Bank names are stored
// lowercase and IFSC codes uppercase, matching how they are signed on
// the wire.
type Beneficiary struct {
	ID            uuid.UUID `json:"id"`
	VendorID      uuid.UUID `json:"vendor_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	VPA           *string   `json:"vpa,omitempty"`
	AccountNumber *string   `json:"account_number,omitempty"`
	IFSC          *string   `json:"ifsc,omitempty"`
	BankName      *string   `json:"bank_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SupportsMode returns true if the stored details can service the given
// transfer mode.
func (b *Beneficiary) SupportsMode(mode PayoutMode) bool {
	switch mode {
	case ModeUPI:
		return b.VPA != nil && *b.VPA != ""
	case ModeIMPS, ModeNEFT:
		return b.AccountNumber != nil && *b.AccountNumber != "" &&
			b.IFSC != nil && *b.IFSC != ""
	}
	return false
}
