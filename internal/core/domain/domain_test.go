package domain

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUser_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status UserStatus
		want   bool
	}{
		{"active", UserStatusActive, true},
		{"suspended", UserStatusSuspended, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Status: tt.status}
			assert.Equal(t, tt.want, u.IsActive())
		})
	}
}

func TestPayoutStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status PayoutStatus
		want   bool
	}{
		{"pending", PayoutStatusPending, false},
		{"processing", PayoutStatusProcessing, false},
		{"success", PayoutStatusSuccess, true},
		{"failed", PayoutStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestStatusFromGateway(t *testing.T) {
	tests := []struct {
		name    string
		gateway string
		want    PayoutStatus
	}{
		{"pending", "pending", PayoutStatusPending},
		{"processing", "processing", PayoutStatusProcessing},
		{"success", "success", PayoutStatusSuccess},
		{"failed", "failed", PayoutStatusFailed},
		{"reversed maps to failed", "reversed", PayoutStatusFailed},
		{"unknown maps to pending", "initiated", PayoutStatusPending},
		{"empty maps to pending", "", PayoutStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromGateway(tt.gateway))
		})
	}
}

func TestPayoutMode_Valid(t *testing.T) {
	assert.True(t, ModeUPI.Valid())
	assert.True(t, ModeIMPS.Valid())
	assert.True(t, ModeNEFT.Valid())
	assert.False(t, PayoutMode("RTGS").Valid())
	assert.False(t, PayoutMode("").Valid())
}

func TestWallet_CanDebit(t *testing.T) {
	w := &Wallet{Balance: decimal.NewFromInt(100)}

	assert.True(t, w.CanDebit(decimal.NewFromInt(100)))
	assert.True(t, w.CanDebit(decimal.NewFromInt(50)))
	assert.False(t, w.CanDebit(decimal.NewFromInt(101)))
}

func TestBeneficiary_SupportsMode(t *testing.T) {
	vpa := "x@upi"
	acct := "1234567890"
	ifsc := "HDFC0000123"

	upiOnly := &Beneficiary{VPA: &vpa}
	bankOnly := &Beneficiary{AccountNumber: &acct, IFSC: &ifsc}

	assert.True(t, upiOnly.SupportsMode(ModeUPI))
	assert.False(t, upiOnly.SupportsMode(ModeIMPS))
	assert.True(t, bankOnly.SupportsMode(ModeIMPS))
	assert.True(t, bankOnly.SupportsMode(ModeNEFT))
	assert.False(t, bankOnly.SupportsMode(ModeUPI))
}

func TestNewPayoutReference(t *testing.T) {
	ref := NewPayoutReference()
	assert.True(t, strings.HasPrefix(ref, "PAYOUT_"))

	parts := strings.Split(ref, "_")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[2], 8)

	// The suffix is hex whether it came from the entropy pool or the
	// clock fallback.
	_, err := hex.DecodeString(parts[2])
	assert.NoError(t, err)

	// References must be unique across calls.
	assert.NotEqual(t, ref, NewPayoutReference())
}

func TestNewTopupReference(t *testing.T) {
	ref := NewTopupReference()
	assert.True(t, strings.HasPrefix(ref, "TOPUP_"))
}
