package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopupStatus is the lifecycle state of a wallet topup request.
type TopupStatus string

const (
	TopupStatusPending  TopupStatus = "PENDING"
	TopupStatusApproved TopupStatus = "APPROVED"
	TopupStatusRejected TopupStatus = "REJECTED"
)

// TopupRequest is a vendor's request to load funds into their wallet,
// settled out of band and approved by an admin. Approval credits the
// wallet exactly once.
type TopupRequest struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	ReferenceID string          `json:"reference_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      TopupStatus     `json:"status"`
	Remarks     string          `json:"remarks,omitempty"`
	ReviewedBy  *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewNote  *string         `json:"review_note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
}

// TopupStats summarizes topup volume for the admin dashboard.
type TopupStats struct {
	PendingCount   int64           `json:"pending_count"`
	ApprovedCount  int64           `json:"approved_count"`
	RejectedCount  int64           `json:"rejected_count"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
}
