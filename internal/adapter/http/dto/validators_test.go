package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type ifscProbe struct {
	IFSC string `binding:"ifsc"`
}

type phoneProbe struct {
	Phone string `binding:"in_phone"`
}

func TestValidateIFSC(t *testing.T) {
	tests := []struct {
		name  string
		ifsc  string
		valid bool
	}{
		{"standard code", "HDFC0001234", true},
		{"lowercase accepted", "hdfc0001234", true},
		{"alphanumeric branch", "SBIN0A1B2C3", true},
		{"missing zero", "HDFC1001234", false},
		{"too short", "HDFC000123", false},
		{"too long", "HDFC00012345", false},
		{"digits in bank code", "HD4C0001234", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&ifscProbe{IFSC: tt.ifsc})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateIndianPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"starts with 9", "9876543210", true},
		{"starts with 6", "6000000000", true},
		{"starts with 5", "5876543210", false},
		{"too short", "987654321", false},
		{"too long", "98765432100", false},
		{"with country code", "+919876543210", false},
		{"letters", "98765bcdef", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&phoneProbe{Phone: tt.phone})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSanitizeStruct(t *testing.T) {
	vpa := "  a@upi "
	req := SubmitPayoutRequest{
		Amount: " 100 ",
		Name:   "  Anita ",
		VPA:    vpa,
	}
	SanitizeStruct(&req)
	assert.Equal(t, "100", req.Amount)
	assert.Equal(t, "Anita", req.Name)
	assert.Equal(t, "a@upi", req.VPA)

	note := " trimmed "
	ben := BeneficiaryRequest{Name: "X", Phone: "9876543210", VPA: &note}
	SanitizeStruct(&ben)
	assert.Equal(t, "trimmed", *ben.VPA)
}
