package service

import (
	"context"
	"time"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminServiceImpl implements ports.AdminService.
type AdminServiceImpl struct {
	userRepo    ports.UserRepository
	payoutRepo  ports.PayoutRepository
	balanceRepo ports.BalanceHistoryRepository
	log         zerolog.Logger
}

// NewAdminService creates the operator dashboard service.
func NewAdminService(
	userRepo ports.UserRepository,
	payoutRepo ports.PayoutRepository,
	balanceRepo ports.BalanceHistoryRepository,
	log zerolog.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		userRepo:    userRepo,
		payoutRepo:  payoutRepo,
		balanceRepo: balanceRepo,
		log:         log,
	}
}

// ListVendors returns vendor accounts, newest first.
func (s *AdminServiceImpl) ListVendors(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	role := domain.RoleVendor
	return s.userRepo.List(ctx, &role, page, pageSize)
}

// UpdateVendorStatus activates or suspends a vendor account. Suspension
// blocks new payouts and topups but leaves in-flight transactions to
// complete through reconciliation.
func (s *AdminServiceImpl) UpdateVendorStatus(ctx context.Context, vendorID uuid.UUID, status domain.UserStatus) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleVendor {
		return nil, apperror.ErrForbidden()
	}

	if err := s.userRepo.UpdateStatus(ctx, vendorID, status); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("vendor_id", vendorID.String()).
		Str("status", string(status)).
		Msg("vendor status updated")

	user.Status = status
	return user, nil
}

// PayoutStats returns aggregated payout figures, optionally scoped to one
// vendor and a starting timestamp.
func (s *AdminServiceImpl) PayoutStats(ctx context.Context, vendorID *uuid.UUID, from *time.Time) (*ports.PayoutStats, error) {
	return s.payoutRepo.GetStats(ctx, vendorID, from)
}

// BalanceHistory returns recorded gateway balance snapshots, newest first.
func (s *AdminServiceImpl) BalanceHistory(ctx context.Context, page, pageSize int) ([]domain.BalanceSnapshot, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.balanceRepo.List(ctx, page, pageSize)
}
