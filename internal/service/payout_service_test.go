package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/internal/core/ports/mocks"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type payoutTestDeps struct {
	svc         *PayoutServiceImpl
	payoutRepo  *mocks.MockPayoutRepository
	logRepo     *mocks.MockTransactionLogRepository
	userRepo    *mocks.MockUserRepository
	benRepo     *mocks.MockBeneficiaryRepository
	balanceRepo *mocks.MockBalanceHistoryRepository
	ledger      *mocks.MockWalletLedger
	gateway     *mocks.MockGatewayClient
	signer      *mocks.MockSignatureService
	crypto      *mocks.MockCryptoService
	transactor  *mocks.MockDBTransactor
	cache       *mocks.MockBalanceCache
	ctrl        *gomock.Controller
}

func setupPayoutService(t *testing.T) *payoutTestDeps {
	ctrl := gomock.NewController(t)
	d := &payoutTestDeps{
		payoutRepo:  mocks.NewMockPayoutRepository(ctrl),
		logRepo:     mocks.NewMockTransactionLogRepository(ctrl),
		userRepo:    mocks.NewMockUserRepository(ctrl),
		benRepo:     mocks.NewMockBeneficiaryRepository(ctrl),
		balanceRepo: mocks.NewMockBalanceHistoryRepository(ctrl),
		ledger:      mocks.NewMockWalletLedger(ctrl),
		gateway:     mocks.NewMockGatewayClient(ctrl),
		signer:      mocks.NewMockSignatureService(ctrl),
		crypto:      mocks.NewMockCryptoService(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		cache:       mocks.NewMockBalanceCache(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewPayoutService(
		d.payoutRepo, d.logRepo, d.userRepo, d.benRepo, d.balanceRepo,
		d.ledger, d.gateway, d.signer, d.crypto, d.transactor, d.cache,
		30*time.Second, "101", "Fund Transfer", zerolog.Nop(),
	)
	return d
}

func activeVendor(id uuid.UUID) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleVendor, Status: domain.UserStatusActive}
}

func upiSubmitRequest(vendorID uuid.UUID) ports.SubmitPayoutRequest {
	return ports.SubmitPayoutRequest{
		VendorID: vendorID,
		Amount:   decimal.NewFromInt(100),
		Mode:     domain.ModeUPI,
		Name:     "Asha",
		Phone:    "9876543210",
		VPA:      "asha@upi",
	}
}

func TestPayoutService_Submit_Success(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	d.userRepo.EXPECT().GetByID(ctx, vendorID).Return(activeVendor(vendorID), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Debit(ctx, tx, vendorID, decimalEq(100), gomock.Any(), "payout to Asha").
		Return(&domain.LedgerMutation{BalanceAfter: decimal.NewFromInt(400)}, nil)

	var createdRef string
	d.payoutRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, p *domain.PayoutTransaction) error {
			createdRef = p.MerchantReferenceID
			assert.Equal(t, domain.PayoutStatusPending, p.Status)
			assert.Equal(t, domain.ModeUPI, p.Mode)
			require.NotNil(t, p.BeneficiaryVPA)
			assert.Equal(t, "asha@upi", *p.BeneficiaryVPA)
			return nil
		})

	d.signer.EXPECT().Sign(gomock.Any()).Return("sig")
	d.logRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2) // REQUEST + RESPONSE

	d.gateway.EXPECT().SubmitPayout(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.PayoutPayload) (*domain.GatewayResult, error) {
			assert.Equal(t, "sig", p.Signature)
			assert.Equal(t, "101", p.APICode)
			return &domain.GatewayResult{
				HTTPStatus:    200,
				Status:        "processing",
				TransactionID: "GW123",
				Raw:           `{"status":"processing"}`,
			}, nil
		})

	// Reconciliation of the submit response.
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetByReferenceForUpdate(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, ref string) (*domain.PayoutTransaction, error) {
			return &domain.PayoutTransaction{
				VendorID:            vendorID,
				MerchantReferenceID: ref,
				Amount:              decimal.NewFromInt(100),
				Status:              domain.PayoutStatusPending,
			}, nil
		})
	d.payoutRepo.EXPECT().UpdateStatus(ctx, tx, gomock.Any(), domain.PayoutStatusProcessing, gomock.Any(), gomock.Any(), nil, gomock.Not(gomock.Nil())).Return(nil)

	d.payoutRepo.EXPECT().GetByReference(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, ref string) (*domain.PayoutTransaction, error) {
			assert.Equal(t, createdRef, ref)
			return &domain.PayoutTransaction{
				VendorID:            vendorID,
				MerchantReferenceID: ref,
				Status:              domain.PayoutStatusProcessing,
			}, nil
		})

	payout, err := d.svc.Submit(ctx, upiSubmitRequest(vendorID))
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusProcessing, payout.Status)
}

func TestPayoutService_Submit_InsufficientBalance(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	d.userRepo.EXPECT().GetByID(ctx, vendorID).Return(activeVendor(vendorID), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Debit(ctx, tx, vendorID, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientBalance())
	// No transaction record, no gateway call.

	payout, err := d.svc.Submit(ctx, upiSubmitRequest(vendorID))
	require.Error(t, err)
	assert.Nil(t, payout)
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientBalance))
}

func TestPayoutService_Submit_SuspendedVendor(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()

	d.userRepo.EXPECT().GetByID(ctx, vendorID).Return(
		&domain.User{ID: vendorID, Status: domain.UserStatusSuspended}, nil)

	_, err := d.svc.Submit(ctx, upiSubmitRequest(vendorID))
	assert.True(t, apperror.Is(err, apperror.CodeAccountSuspended))
}

func TestPayoutService_Submit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ports.SubmitPayoutRequest)
	}{
		{"bad mode", func(r *ports.SubmitPayoutRequest) { r.Mode = "RTGS" }},
		{"zero amount", func(r *ports.SubmitPayoutRequest) { r.Amount = decimal.Zero }},
		{"missing vpa", func(r *ports.SubmitPayoutRequest) { r.VPA = "" }},
		{"missing phone", func(r *ports.SubmitPayoutRequest) { r.Phone = "" }},
		{"imps without account", func(r *ports.SubmitPayoutRequest) {
			r.Mode = domain.ModeIMPS
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupPayoutService(t)
			defer d.ctrl.Finish()

			ctx := context.Background()
			vendorID := uuid.New()
			d.userRepo.EXPECT().GetByID(ctx, vendorID).Return(activeVendor(vendorID), nil)

			req := upiSubmitRequest(vendorID)
			tt.mutate(&req)

			_, err := d.svc.Submit(ctx, req)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeValidation))
		})
	}
}

func TestPayoutService_Submit_SyncRejectionRefunds(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	d.userRepo.EXPECT().GetByID(ctx, vendorID).Return(activeVendor(vendorID), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Debit(ctx, tx, vendorID, decimalEq(100), gomock.Any(), gomock.Any()).
		Return(&domain.LedgerMutation{}, nil)
	d.payoutRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.signer.EXPECT().Sign(gomock.Any()).Return("sig")
	d.logRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2) // REQUEST + ERROR

	d.gateway.EXPECT().SubmitPayout(ctx, gomock.Any()).
		Return(nil, apperror.ErrGatewayRejected(400, "invalid vpa"))

	// The rejection rides the same FAILED transition and refund path as
	// an asynchronous failure.
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetByReferenceForUpdate(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, ref string) (*domain.PayoutTransaction, error) {
			return &domain.PayoutTransaction{
				VendorID:            vendorID,
				MerchantReferenceID: ref,
				Amount:              decimal.NewFromInt(100),
				Status:              domain.PayoutStatusPending,
			}, nil
		})
	d.payoutRepo.EXPECT().UpdateStatus(ctx, tx, gomock.Any(), domain.PayoutStatusFailed, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.ledger.EXPECT().Refund(ctx, tx, vendorID, decimalEq(100), gomock.Any(), "payout failed").
		Return(&domain.RefundResult{}, nil)

	d.payoutRepo.EXPECT().GetByReference(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, ref string) (*domain.PayoutTransaction, error) {
			return &domain.PayoutTransaction{
				MerchantReferenceID: ref,
				Status:              domain.PayoutStatusFailed,
			}, nil
		})

	payout, err := d.svc.Submit(ctx, upiSubmitRequest(vendorID))
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusFailed, payout.Status)
}

func TestPayoutService_Submit_TransportErrorStaysPending(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	d.userRepo.EXPECT().GetByID(ctx, vendorID).Return(activeVendor(vendorID), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Debit(ctx, tx, vendorID, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.LedgerMutation{}, nil)
	d.payoutRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.signer.EXPECT().Sign(gomock.Any()).Return("sig")
	d.logRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2) // REQUEST + ERROR

	d.gateway.EXPECT().SubmitPayout(ctx, gomock.Any()).
		Return(nil, apperror.ErrGatewayTransport(context.DeadlineExceeded))

	// Outcome unknown: no reconciliation, no refund, payout stays PENDING.
	d.payoutRepo.EXPECT().GetByReference(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, ref string) (*domain.PayoutTransaction, error) {
			return &domain.PayoutTransaction{
				MerchantReferenceID: ref,
				Status:              domain.PayoutStatusPending,
			}, nil
		})

	payout, err := d.svc.Submit(ctx, upiSubmitRequest(vendorID))
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusPending, payout.Status)
}

func TestPayoutService_Submit_ResolvesSavedBeneficiary(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	benID := uuid.New()
	tx := &mockTx{}
	vpa := "saved@upi"

	d.userRepo.EXPECT().GetByID(ctx, vendorID).Return(activeVendor(vendorID), nil)
	d.benRepo.EXPECT().GetByID(ctx, vendorID, benID).Return(&domain.Beneficiary{
		ID: benID, VendorID: vendorID, Name: "Saved Payee", Phone: "9123456780", VPA: &vpa,
	}, nil)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.ledger.EXPECT().Debit(ctx, tx, vendorID, gomock.Any(), gomock.Any(), "payout to Saved Payee").
		Return(&domain.LedgerMutation{}, nil)
	d.payoutRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, p *domain.PayoutTransaction) error {
			assert.Equal(t, "Saved Payee", p.BeneficiaryName)
			require.NotNil(t, p.BeneficiaryVPA)
			assert.Equal(t, "saved@upi", *p.BeneficiaryVPA)
			return nil
		})
	d.signer.EXPECT().Sign(gomock.Any()).Return("sig")
	d.logRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)
	d.gateway.EXPECT().SubmitPayout(ctx, gomock.Any()).
		Return(&domain.GatewayResult{HTTPStatus: 200, Status: "pending"}, nil)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetByReferenceForUpdate(ctx, tx, gomock.Any()).Return(
		&domain.PayoutTransaction{VendorID: vendorID, Status: domain.PayoutStatusPending, Amount: decimal.NewFromInt(100)}, nil)
	d.payoutRepo.EXPECT().UpdateStatus(ctx, tx, gomock.Any(), domain.PayoutStatusPending, gomock.Any(), gomock.Any(), nil, gomock.Any()).Return(nil)
	d.payoutRepo.EXPECT().GetByReference(ctx, gomock.Any()).Return(&domain.PayoutTransaction{}, nil)

	req := ports.SubmitPayoutRequest{
		VendorID:      vendorID,
		Amount:        decimal.NewFromInt(100),
		Mode:          domain.ModeUPI,
		BeneficiaryID: &benID,
	}
	_, err := d.svc.Submit(ctx, req)
	require.NoError(t, err)
}

func TestPayoutService_CheckStatus_TerminalSkipsGateway(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()

	d.payoutRepo.EXPECT().GetByReference(ctx, "REF").Return(&domain.PayoutTransaction{
		VendorID:            vendorID,
		MerchantReferenceID: "REF",
		Status:              domain.PayoutStatusSuccess,
	}, nil)
	// No gateway call expected.

	payout, err := d.svc.CheckStatus(ctx, vendorID, "REF")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusSuccess, payout.Status)
}

func TestPayoutService_CheckStatus_AppliesGatewayReport(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	d.payoutRepo.EXPECT().GetByReference(ctx, "REF").Return(&domain.PayoutTransaction{
		VendorID:            vendorID,
		MerchantReferenceID: "REF",
		Amount:              decimal.NewFromInt(50),
		Status:              domain.PayoutStatusProcessing,
	}, nil)

	d.gateway.EXPECT().CheckStatus(ctx, "REF").Return(&domain.GatewayResult{
		HTTPStatus: 200,
		Status:     "success",
		UTR:        "UTR001",
		Raw:        `{"data":{"status":"success","utr":"UTR001"}}`,
	}, nil)
	d.logRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetByReferenceForUpdate(ctx, tx, "REF").Return(&domain.PayoutTransaction{
		VendorID:            vendorID,
		MerchantReferenceID: "REF",
		Amount:              decimal.NewFromInt(50),
		Status:              domain.PayoutStatusProcessing,
	}, nil)
	d.payoutRepo.EXPECT().UpdateStatus(ctx, tx, "REF", domain.PayoutStatusSuccess, nil, gomock.Not(gomock.Nil()), nil, gomock.Any()).Return(nil)

	d.payoutRepo.EXPECT().GetByReference(ctx, "REF").Return(&domain.PayoutTransaction{
		MerchantReferenceID: "REF",
		Status:              domain.PayoutStatusSuccess,
	}, nil)

	payout, err := d.svc.CheckStatus(ctx, vendorID, "REF")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusSuccess, payout.Status)
}

func TestPayoutService_CheckStatus_OtherVendorHidden(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.payoutRepo.EXPECT().GetByReference(ctx, "REF").Return(&domain.PayoutTransaction{
		VendorID: uuid.New(), // someone else
		Status:   domain.PayoutStatusPending,
	}, nil)

	_, err := d.svc.CheckStatus(ctx, uuid.New(), "REF")
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func webhookEnvelope(t *testing.T, d *payoutTestDeps, payload webhookPayload) *domain.Envelope {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	env := &domain.Envelope{EncData: "enc", IV: "0123456789abcdef"}
	d.crypto.EXPECT().Decrypt(env).Return(body, nil)
	return env
}

func TestPayoutService_HandleWebhook_FailedTriggersRefund(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	env := webhookEnvelope(t, d, webhookPayload{
		MerchantReferenceID: "REF",
		Status:              "failed",
		UTR:                 "UTR9",
	})

	d.logRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetByReferenceForUpdate(ctx, tx, "REF").Return(&domain.PayoutTransaction{
		VendorID:            vendorID,
		MerchantReferenceID: "REF",
		Amount:              decimal.NewFromInt(80),
		Status:              domain.PayoutStatusProcessing,
	}, nil)
	d.payoutRepo.EXPECT().UpdateStatus(ctx, tx, "REF", domain.PayoutStatusFailed, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.ledger.EXPECT().Refund(ctx, tx, vendorID, decimalEq(80), "REF", "payout failed").
		Return(&domain.RefundResult{}, nil)

	require.NoError(t, d.svc.HandleWebhook(ctx, env))
}

func TestPayoutService_HandleWebhook_DuplicateRefundIsBenign(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	vendorID := uuid.New()
	tx := &mockTx{}

	env := webhookEnvelope(t, d, webhookPayload{MerchantReferenceID: "REF", Status: "failed"})

	d.logRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetByReferenceForUpdate(ctx, tx, "REF").Return(&domain.PayoutTransaction{
		VendorID: vendorID,
		Amount:   decimal.NewFromInt(80),
		Status:   domain.PayoutStatusProcessing,
	}, nil)
	d.payoutRepo.EXPECT().UpdateStatus(ctx, tx, "REF", domain.PayoutStatusFailed, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.ledger.EXPECT().Refund(ctx, tx, vendorID, gomock.Any(), "REF", gomock.Any()).
		Return(&domain.RefundResult{AlreadyProcessed: true}, nil)

	// Races between poll and webhook resolve through the idempotent refund.
	require.NoError(t, d.svc.HandleWebhook(ctx, env))
}

func TestPayoutService_HandleWebhook_StaleReportNeverRegressesTerminal(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	env := webhookEnvelope(t, d, webhookPayload{MerchantReferenceID: "REF", Status: "pending"})

	d.logRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetByReferenceForUpdate(ctx, tx, "REF").Return(&domain.PayoutTransaction{
		MerchantReferenceID: "REF",
		Status:              domain.PayoutStatusFailed,
	}, nil)
	// No status write, no refund: FAILED is terminal.

	require.NoError(t, d.svc.HandleWebhook(ctx, env))
}

func TestPayoutService_HandleWebhook_UndecodableEnvelope(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	env := &domain.Envelope{EncData: "junk", IV: "0123456789abcdef"}
	d.crypto.EXPECT().Decrypt(env).Return(nil, apperror.ErrEncryptionFailure(assert.AnError))

	err := d.svc.HandleWebhook(context.Background(), env)
	require.Error(t, err)
}

func TestPayoutService_GatewayBalance_CacheHit(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.cache.EXPECT().Get(ctx).Return("12500.00", nil)

	bal, err := d.svc.GatewayBalance(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "12500.00", bal.Balance)
	assert.True(t, bal.Cached)
}

func TestPayoutService_GatewayBalance_CacheMissFetchesAndSnapshots(t *testing.T) {
	d := setupPayoutService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()

	d.cache.EXPECT().Get(ctx).Return("", nil)
	d.gateway.EXPECT().GetBalance(ctx).Return(&domain.GatewayResult{HTTPStatus: 200, Balance: "900.50"}, nil)
	d.balanceRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, s *domain.BalanceSnapshot) error {
			assert.Equal(t, "900.50", s.Balance)
			assert.Equal(t, adminID, s.FetchedBy)
			return nil
		})
	d.cache.EXPECT().Set(ctx, "900.50", 30*time.Second).Return(nil)

	bal, err := d.svc.GatewayBalance(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, "900.50", bal.Balance)
	assert.False(t, bal.Cached)
}
