package service

import (
	"context"
	"strings"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BeneficiaryServiceImpl implements ports.BeneficiaryService.
type BeneficiaryServiceImpl struct {
	benRepo ports.BeneficiaryRepository
	log     zerolog.Logger
}

// NewBeneficiaryService creates the beneficiary management service.
func NewBeneficiaryService(benRepo ports.BeneficiaryRepository, log zerolog.Logger) *BeneficiaryServiceImpl {
	return &BeneficiaryServiceImpl{benRepo: benRepo, log: log}
}

// Create saves a new payout recipient for the vendor.
func (s *BeneficiaryServiceImpl) Create(ctx context.Context, vendorID uuid.UUID, b *domain.Beneficiary) (*domain.Beneficiary, error) {
	if err := validateBeneficiary(b); err != nil {
		return nil, err
	}
	normalizeBeneficiary(b)

	b.ID = uuid.New()
	b.VendorID = vendorID
	if err := s.benRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns one of the vendor's beneficiaries.
func (s *BeneficiaryServiceImpl) Get(ctx context.Context, vendorID, id uuid.UUID) (*domain.Beneficiary, error) {
	b, err := s.benRepo.GetByID(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperror.ErrNotFound("beneficiary")
	}
	return b, nil
}

// Update replaces a beneficiary's details.
func (s *BeneficiaryServiceImpl) Update(ctx context.Context, vendorID, id uuid.UUID, b *domain.Beneficiary) (*domain.Beneficiary, error) {
	existing, err := s.Get(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if err := validateBeneficiary(b); err != nil {
		return nil, err
	}
	normalizeBeneficiary(b)

	b.ID = existing.ID
	b.VendorID = vendorID
	b.CreatedAt = existing.CreatedAt
	if err := s.benRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a beneficiary.
func (s *BeneficiaryServiceImpl) Delete(ctx context.Context, vendorID, id uuid.UUID) error {
	if _, err := s.Get(ctx, vendorID, id); err != nil {
		return err
	}
	return s.benRepo.Delete(ctx, vendorID, id)
}

// List returns the vendor's saved beneficiaries.
func (s *BeneficiaryServiceImpl) List(ctx context.Context, vendorID uuid.UUID, page, pageSize int) ([]domain.Beneficiary, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.benRepo.ListByVendor(ctx, vendorID, page, pageSize)
}

func validateBeneficiary(b *domain.Beneficiary) error {
	if strings.TrimSpace(b.Name) == "" || strings.TrimSpace(b.Phone) == "" {
		return apperror.Validation("beneficiary name and phone are required")
	}
	hasVPA := b.VPA != nil && strings.TrimSpace(*b.VPA) != ""
	hasBank := b.AccountNumber != nil && strings.TrimSpace(*b.AccountNumber) != "" &&
		b.IFSC != nil && strings.TrimSpace(*b.IFSC) != ""
	if !hasVPA && !hasBank {
		return apperror.Validation("beneficiary needs a VPA or account number and IFSC")
	}
	return nil
}

// normalizeBeneficiary stores fields in the casing the signature contract
// expects: bank names lowercase, IFSC uppercase.
func normalizeBeneficiary(b *domain.Beneficiary) {
	b.Name = strings.TrimSpace(b.Name)
	b.Phone = strings.TrimSpace(b.Phone)
	if b.IFSC != nil {
		v := strings.ToUpper(strings.TrimSpace(*b.IFSC))
		b.IFSC = &v
	}
	if b.BankName != nil {
		v := strings.ToLower(strings.TrimSpace(*b.BankName))
		b.BankName = &v
	}
	if b.VPA != nil {
		v := strings.TrimSpace(*b.VPA)
		b.VPA = &v
	}
}
