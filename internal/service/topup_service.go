package service

import (
	"context"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TopupServiceImpl implements ports.TopupService. Topups settle out of
// band; an admin approval is the only path that credits a wallet.
type TopupServiceImpl struct {
	topupRepo  ports.TopupRepository
	userRepo   ports.UserRepository
	ledger     ports.WalletLedger
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewTopupService creates the topup workflow service.
func NewTopupService(
	topupRepo ports.TopupRepository,
	userRepo ports.UserRepository,
	ledger ports.WalletLedger,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TopupServiceImpl {
	return &TopupServiceImpl{
		topupRepo:  topupRepo,
		userRepo:   userRepo,
		ledger:     ledger,
		transactor: transactor,
		log:        log,
	}
}

// Request records a pending topup for admin review.
func (s *TopupServiceImpl) Request(ctx context.Context, vendorID uuid.UUID, amount decimal.Decimal, remarks string) (*domain.TopupRequest, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}

	vendor, err := s.userRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsActive() {
		return nil, apperror.ErrAccountSuspended()
	}

	topup := &domain.TopupRequest{
		ID:          uuid.New(),
		VendorID:    vendorID,
		ReferenceID: domain.NewTopupReference(),
		Amount:      amount,
		Status:      domain.TopupStatusPending,
		Remarks:     remarks,
	}
	if err := s.topupRepo.Create(ctx, topup); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("topup_id", topup.ID.String()).
		Str("vendor_id", vendorID.String()).
		Str("amount", amount.String()).
		Msg("topup requested")
	return topup, nil
}

// Approve credits the vendor's wallet and marks the request approved, all
// in one transaction. The row lock on the request makes a concurrent
// double-approval impossible: the loser of the race sees a non-pending
// status and gets AlreadyProcessed. If the credit fails the transaction
// rolls back and the request stays pending for a retry.
func (s *TopupServiceImpl) Approve(ctx context.Context, topupID, adminID uuid.UUID, note string) (*domain.TopupRequest, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	defer tx.Rollback(ctx)

	topup, err := s.topupRepo.GetByIDForUpdate(ctx, tx, topupID)
	if err != nil {
		return nil, err
	}
	if topup == nil {
		return nil, apperror.ErrNotFound("topup request")
	}
	if topup.Status != domain.TopupStatusPending {
		return nil, apperror.ErrAlreadyProcessed("topup request")
	}

	vendor, err := s.userRepo.GetByID(ctx, topup.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsActive() {
		return nil, apperror.ErrAccountSuspended()
	}

	if _, err := s.ledger.Credit(ctx, tx, topup.VendorID, topup.Amount, topup.ReferenceID, &topup.ID, "topup approved"); err != nil {
		return nil, err
	}
	if err := s.topupRepo.UpdateStatus(ctx, tx, topupID, domain.TopupStatusApproved, adminID, optional(note)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().
		Str("topup_id", topupID.String()).
		Str("admin_id", adminID.String()).
		Str("amount", topup.Amount.String()).
		Msg("topup approved")

	return s.topupRepo.GetByID(ctx, topupID)
}

// Reject marks a pending request rejected. No money moves.
func (s *TopupServiceImpl) Reject(ctx context.Context, topupID, adminID uuid.UUID, note string) (*domain.TopupRequest, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	defer tx.Rollback(ctx)

	topup, err := s.topupRepo.GetByIDForUpdate(ctx, tx, topupID)
	if err != nil {
		return nil, err
	}
	if topup == nil {
		return nil, apperror.ErrNotFound("topup request")
	}
	if topup.Status != domain.TopupStatusPending {
		return nil, apperror.ErrAlreadyProcessed("topup request")
	}

	if err := s.topupRepo.UpdateStatus(ctx, tx, topupID, domain.TopupStatusRejected, adminID, optional(note)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().Str("topup_id", topupID.String()).Str("admin_id", adminID.String()).Msg("topup rejected")
	return s.topupRepo.GetByID(ctx, topupID)
}

// List returns topup requests, optionally filtered by vendor and status.
func (s *TopupServiceImpl) List(ctx context.Context, vendorID *uuid.UUID, status *domain.TopupStatus, page, pageSize int) ([]domain.TopupRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.topupRepo.List(ctx, vendorID, status, page, pageSize)
}

// Stats returns topup volume aggregates for the admin dashboard.
func (s *TopupServiceImpl) Stats(ctx context.Context) (*domain.TopupStats, error) {
	return s.topupRepo.GetStats(ctx)
}
