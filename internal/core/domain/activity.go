package domain

import (
	"time"

	"github.com/google/uuid"
)

// LogType categorizes transaction log records.
type LogType string

const (
	LogTypeRequest     LogType = "REQUEST"
	LogTypeResponse    LogType = "RESPONSE"
	LogTypeError       LogType = "ERROR"
	LogTypeStatusCheck LogType = "STATUS_CHECK"
	LogTypeWebhook     LogType = "WEBHOOK"
)

// TransactionLog records one exchange with the gateway for a payout. The
// payload holds the decrypted request or response body so support staff
// can reconstruct any conversation without gateway access.
type TransactionLog struct {
	ID          uuid.UUID `json:"id"`
	ReferenceID string    `json:"reference_id"`
	Type        LogType   `json:"type"`
	Payload     string    `json:"payload"`
	CreatedAt   time.Time `json:"created_at"`
}

// BalanceSnapshot is a point-in-time record of the gateway account balance,
// captured on every uncached balance fetch.
type BalanceSnapshot struct {
	ID        uuid.UUID `json:"id"`
	Balance   string    `json:"balance"`
	FetchedBy uuid.UUID `json:"fetched_by"`
	CreatedAt time.Time `json:"created_at"`
}
