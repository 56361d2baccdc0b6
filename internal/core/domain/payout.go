package domain

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutMode is the transfer rail used for a payout.
type PayoutMode string

const (
	ModeUPI  PayoutMode = "UPI"
	ModeIMPS PayoutMode = "IMPS"
	ModeNEFT PayoutMode = "NEFT"
)

// Valid returns true for a supported transfer mode.
func (m PayoutMode) Valid() bool {
	switch m {
	case ModeUPI, ModeIMPS, ModeNEFT:
		return true
	}
	return false
}

// PayoutStatus is the lifecycle state of a payout transaction.
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusSuccess    PayoutStatus = "SUCCESS"
	PayoutStatusFailed     PayoutStatus = "FAILED"
)

// IsTerminal returns true for final states. Terminal states are never
// overwritten by later status reports.
func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutStatusSuccess || s == PayoutStatusFailed
}

// StatusFromGateway normalizes a gateway status string to an internal
// status. Unrecognized values map to PENDING so an odd report never
// flips a payout into a terminal state by accident. A gateway "reversed"
// means the money came back, which we treat as a failure for refund
// purposes.
func StatusFromGateway(s string) PayoutStatus {
	switch s {
	case "pending":
		return PayoutStatusPending
	case "processing":
		return PayoutStatusProcessing
	case "success":
		return PayoutStatusSuccess
	case "failed", "reversed":
		return PayoutStatusFailed
	default:
		return PayoutStatusPending
	}
}

// PayoutTransaction represents one beneficiary payout through the gateway.
// MerchantReferenceID is our identifier on the gateway side and the
// idempotency key for the whole lifecycle.
type PayoutTransaction struct {
	ID                   uuid.UUID       `json:"id"`
	VendorID             uuid.UUID       `json:"vendor_id"`
	MerchantReferenceID  string          `json:"merchant_reference_id"`
	GatewayTransactionID *string         `json:"gateway_transaction_id,omitempty"`
	UTR                  *string         `json:"utr,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Mode                 PayoutMode      `json:"mode"`
	Status               PayoutStatus    `json:"status"`
	BeneficiaryName      string          `json:"beneficiary_name"`
	BeneficiaryPhone     string          `json:"beneficiary_phone"`
	BeneficiaryVPA       *string         `json:"beneficiary_vpa,omitempty"`
	BeneficiaryAccount   *string         `json:"beneficiary_account,omitempty"`
	BeneficiaryIFSC      *string         `json:"beneficiary_ifsc,omitempty"`
	BeneficiaryBank      *string         `json:"beneficiary_bank,omitempty"`
	Narration            string          `json:"narration"`
	FailureReason        *string         `json:"failure_reason,omitempty"`
	LastGatewayResponse  *string         `json:"last_gateway_response,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
}

// StatusReport is a normalized status observation about a payout, produced
// either by polling the gateway or by decoding a webhook. Both paths feed
// the same reconciliation logic.
type StatusReport struct {
	MerchantReferenceID  string
	Status               PayoutStatus
	GatewayTransactionID string
	UTR                  string
	Message              string
	// Raw is the channel's verbatim body, persisted on the payout so the
	// latest gateway verdict is inspectable without walking the logs.
	Raw    string
	Source ReportSource
}

// ReportSource identifies which channel produced a StatusReport.
type ReportSource string

const (
	ReportSourcePoll    ReportSource = "poll"
	ReportSourceWebhook ReportSource = "webhook"
	ReportSourceSubmit  ReportSource = "submit"
)

// NewPayoutReference generates a unique merchant reference of the form
// PAYOUT_<unix>_<8 hex chars>.
func NewPayoutReference() string {
	return newReference("PAYOUT")
}

// NewTopupReference generates a unique topup reference of the form
// TOPUP_<unix>_<8 hex chars>.
func NewTopupReference() string {
	return newReference("TOPUP")
}

func newReference(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// References only need uniqueness, not secrecy; fall back to the
		// clock rather than abort a payout when entropy is unavailable.
		binary.BigEndian.PutUint32(b, uint32(time.Now().UnixNano()))
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().Unix(), hex.EncodeToString(b))
}
