package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"vendor-payout-gateway/internal/core/domain"
)

// signatureDelimiter joins the ordered signature fields. The gateway
// verifies the digest byte-for-byte, so both the delimiter and the field
// order below are a hard external contract.
const signatureDelimiter = "-"

// upiSignatureFields is the canonical field order for UPI payouts.
var upiSignatureFields = []string{
	"ben_name",
	"ben_phone",
	"ben_vpa",
	"amount",
	"merchant_reference_id",
	"transfer_type",
	"apicode",
	"narration",
}

// bankSignatureFields is the canonical field order for IMPS and NEFT
// payouts. Account number and IFSC form a single fused token: the gateway
// concatenates them without a delimiter, and reproducing that quirk is
// required for acceptance.
var bankSignatureFields = []string{
	"ben_name",
	"ben_phone",
	"ben_account_number+ben_ifsc",
	"ben_bank_name",
	"amount",
	"merchant_reference_id",
	"transfer_type",
	"apicode",
	"narration",
}

// SHA256SignatureService implements ports.SignatureService. The signature
// is sha256(field1-field2-...-fieldN + secret), lowercase hex.
type SHA256SignatureService struct {
	secret string
}

// NewSHA256SignatureService creates a signature service bound to the
// shared gateway secret.
func NewSHA256SignatureService(secret string) *SHA256SignatureService {
	return &SHA256SignatureService{secret: secret}
}

// Sign computes the payload signature using the canonical field order for
// the payload's transfer type.
func (s *SHA256SignatureService) Sign(payload *domain.PayoutPayload) string {
	return s.SignFields(s.orderedValues(payload))
}

// SignFields joins fields with the contract delimiter, appends the secret
// with no delimiter, and returns the lowercase hex sha256 digest.
func (s *SHA256SignatureService) SignFields(fields []string) string {
	base := strings.Join(fields, signatureDelimiter) + s.secret
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

func (s *SHA256SignatureService) orderedValues(p *domain.PayoutPayload) []string {
	if p.TransferType == string(domain.ModeUPI) {
		return []string{
			p.BeneficiaryName,
			p.BeneficiaryPhone,
			p.BeneficiaryVPA,
			p.Amount,
			p.ReferenceID,
			p.TransferType,
			p.APICode,
			p.Narration,
		}
	}
	return []string{
		p.BeneficiaryName,
		p.BeneficiaryPhone,
		p.BeneficiaryAccount + p.BeneficiaryIFSC, // fused, no delimiter
		p.BeneficiaryBank,
		p.Amount,
		p.ReferenceID,
		p.TransferType,
		p.APICode,
		p.Narration,
	}
}
