package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vendor-payout-gateway/internal/adapter/http/middleware"
	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/internal/core/ports/mocks"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJSONContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func authenticate(c *gin.Context, userID uuid.UUID, role domain.UserRole) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, role)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Name:     "Acme Traders",
		Email:    "ravi@acme.in",
		Password: "password123",
	}).Return(&domain.User{
		ID:     userID,
		Name:   "Acme Traders",
		Email:  "ravi@acme.in",
		Role:   domain.RoleVendor,
		Status: domain.UserStatusActive,
	}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Acme Traders",
		"email":    "ravi@acme.in",
		"password": "password123",
	})
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, userID.String(), data["id"])
	assert.Equal(t, "vendor", data["role"])
}

func TestRegister_ShortPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Acme Traders",
		"email":    "ravi@acme.in",
		"password": "short",
	})
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeValidation)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiresAt := time.Now().Add(time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "ravi@acme.in", "password123").
		Return("jwt-token", expiresAt, &domain.User{ID: uuid.New(), Email: "ravi@acme.in", Role: domain.RoleVendor}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "ravi@acme.in",
		"password": "password123",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "jwt-token", data["token"])
	assert.Equal(t, float64(expiresAt.Unix()), data["expires_at"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "ravi@acme.in", "wrong-password").
		Return("", time.Time{}, nil, apperror.ErrInvalidCredentials())

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "ravi@acme.in",
		"password": "wrong-password",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeInvalidCredentials)
}

// --- Payout Handler Tests ---

func TestSubmitPayout_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout, zerolog.Nop())

	vendorID := uuid.New()
	mockPayout.EXPECT().Submit(gomock.Any(), gomock.AssignableToTypeOf(ports.SubmitPayoutRequest{})).
		DoAndReturn(func(_ interface{}, req ports.SubmitPayoutRequest) (*domain.PayoutTransaction, error) {
			assert.Equal(t, vendorID, req.VendorID)
			assert.True(t, req.Amount.Equal(decimal.RequireFromString("150.50")))
			assert.Equal(t, domain.ModeUPI, req.Mode)
			assert.Equal(t, "ramesh@upi", req.VPA)
			return &domain.PayoutTransaction{
				ID:                  uuid.New(),
				VendorID:            vendorID,
				MerchantReferenceID: "PAYOUT_1700000000_abcd1234",
				Amount:              decimal.RequireFromString("150.50"),
				Mode:                domain.ModeUPI,
				Status:              domain.PayoutStatusPending,
				BeneficiaryName:     "Ramesh Kumar",
				CreatedAt:           time.Now(),
			}, nil
		})

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/payouts", gin.H{
		"amount":    "150.50",
		"mode":      "UPI",
		"ben_name":  "Ramesh Kumar",
		"ben_phone": "9876543210",
		"ben_vpa":   "ramesh@upi",
	})
	authenticate(c, vendorID, domain.RoleVendor)
	h.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "PAYOUT_1700000000_abcd1234", data["merchant_reference_id"])
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "150.5", data["amount"])
}

func TestSubmitPayout_MalformedAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPayoutHandler(mocks.NewMockPayoutService(ctrl), zerolog.Nop())

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/payouts", gin.H{
		"amount":    "150,50",
		"mode":      "UPI",
		"ben_name":  "Ramesh Kumar",
		"ben_phone": "9876543210",
		"ben_vpa":   "ramesh@upi",
	})
	authenticate(c, uuid.New(), domain.RoleVendor)
	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeValidation)
}

func TestSubmitPayout_InvalidMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPayoutHandler(mocks.NewMockPayoutService(ctrl), zerolog.Nop())

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/payouts", gin.H{
		"amount":    "150.50",
		"mode":      "RTGS",
		"ben_name":  "Ramesh Kumar",
		"ben_phone": "9876543210",
		"ben_vpa":   "ramesh@upi",
	})
	authenticate(c, uuid.New(), domain.RoleVendor)
	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitPayout_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout, zerolog.Nop())

	mockPayout.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientBalance())

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/payouts", gin.H{
		"amount":    "99999",
		"mode":      "UPI",
		"ben_name":  "Ramesh Kumar",
		"ben_phone": "9876543210",
		"ben_vpa":   "ramesh@upi",
	})
	authenticate(c, uuid.New(), domain.RoleVendor)
	h.Submit(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeInsufficientBalance)
}

func TestCheckStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout, zerolog.Nop())

	vendorID := uuid.New()
	utr := "UTR123456"
	mockPayout.EXPECT().CheckStatus(gomock.Any(), vendorID, "PAYOUT_1_ref").
		Return(&domain.PayoutTransaction{
			MerchantReferenceID: "PAYOUT_1_ref",
			Status:              domain.PayoutStatusSuccess,
			UTR:                 &utr,
			Amount:              decimal.NewFromInt(100),
			CreatedAt:           time.Now(),
		}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/payouts/PAYOUT_1_ref/status", nil)
	c.Params = gin.Params{{Key: "reference_id", Value: "PAYOUT_1_ref"}}
	authenticate(c, vendorID, domain.RoleVendor)
	h.CheckStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "SUCCESS", data["status"])
	assert.Equal(t, "UTR123456", data["utr"])
}

func TestGetPayout_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout, zerolog.Nop())

	vendorID := uuid.New()
	mockPayout.EXPECT().Get(gomock.Any(), &vendorID, "PAYOUT_missing").
		Return(nil, apperror.ErrNotFound("transaction"))

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/payouts/PAYOUT_missing", nil)
	c.Params = gin.Params{{Key: "reference_id", Value: "PAYOUT_missing"}}
	authenticate(c, vendorID, domain.RoleVendor)
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhook_AlwaysReturns200(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout, zerolog.Nop())

	mockPayout.EXPECT().HandleWebhook(gomock.Any(), gomock.Any()).
		Return(apperror.ErrGatewayProtocol(errors.New("undecodable payload")))

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/webhook/payout", gin.H{
		"encdata": "not-real-ciphertext",
		"iv":      "abcdefgh12345678",
	})
	h.Webhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhook_MalformedBodyStill200(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPayoutHandler(mocks.NewMockPayoutService(ctrl), zerolog.Nop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/webhook/payout", bytes.NewReader([]byte("not json")))
	h.Webhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Wallet Handler Tests ---

func TestWalletBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	vendorID := uuid.New()
	mockWallet.EXPECT().Balance(gomock.Any(), vendorID).Return(&domain.Wallet{
		VendorID: vendorID,
		Balance:  decimal.RequireFromString("1234.56"),
		Currency: domain.WalletCurrency,
	}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/wallet/balance", nil)
	authenticate(c, vendorID, domain.RoleVendor)
	h.Balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "1234.56", data["balance"])
	assert.Equal(t, domain.WalletCurrency, data["currency"])
}

func TestWalletLedger_TypeFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	vendorID := uuid.New()
	refund := domain.LedgerEntryRefund
	mockWallet.EXPECT().Ledger(gomock.Any(), vendorID, &refund, 1, 20).
		Return([]domain.LedgerEntry{{
			ID:          uuid.New(),
			Type:        domain.LedgerEntryRefund,
			Amount:      decimal.NewFromInt(100),
			ReferenceID: "PAYOUT_1_ref",
			CreatedAt:   time.Now(),
		}}, int64(1), nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/wallet/ledger?type=refund", nil)
	authenticate(c, vendorID, domain.RoleVendor)
	h.Ledger(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(1), data["total"])
}

// --- Topup Handler Tests ---

func TestTopupRequest_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTopup := mocks.NewMockTopupService(ctrl)
	h := NewTopupHandler(mockTopup)

	vendorID := uuid.New()
	mockTopup.EXPECT().Request(gomock.Any(), vendorID, decimal.NewFromInt(5000), "bank transfer done").
		Return(&domain.TopupRequest{
			ID:          uuid.New(),
			VendorID:    vendorID,
			ReferenceID: "TOPUP_1_abcd1234",
			Amount:      decimal.NewFromInt(5000),
			Status:      domain.TopupStatusPending,
			CreatedAt:   time.Now(),
		}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/topups", gin.H{
		"amount":  "5000",
		"remarks": "bank transfer done",
	})
	authenticate(c, vendorID, domain.RoleVendor)
	h.Request(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "PENDING", data["status"])
}

func TestTopupApprove_EmptyBodyAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTopup := mocks.NewMockTopupService(ctrl)
	h := NewTopupHandler(mockTopup)

	adminID := uuid.New()
	topupID := uuid.New()
	mockTopup.EXPECT().Approve(gomock.Any(), topupID, adminID, "").
		Return(&domain.TopupRequest{
			ID:        topupID,
			VendorID:  uuid.New(),
			Status:    domain.TopupStatusApproved,
			Amount:    decimal.NewFromInt(5000),
			CreatedAt: time.Now(),
		}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/admin/topups/"+topupID.String()+"/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: topupID.String()}}
	authenticate(c, adminID, domain.RoleAdmin)
	h.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "APPROVED", data["status"])
}

func TestTopupReject_AlreadyProcessed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTopup := mocks.NewMockTopupService(ctrl)
	h := NewTopupHandler(mockTopup)

	adminID := uuid.New()
	topupID := uuid.New()
	mockTopup.EXPECT().Reject(gomock.Any(), topupID, adminID, "duplicate").
		Return(nil, apperror.ErrAlreadyProcessed("topup"))

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/admin/topups/"+topupID.String()+"/reject", gin.H{
		"note": "duplicate",
	})
	c.Params = gin.Params{{Key: "id", Value: topupID.String()}}
	authenticate(c, adminID, domain.RoleAdmin)
	h.Reject(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeAlreadyProcessed)
}

// --- Admin Handler Tests ---

func TestUpdateVendorStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	h := NewAdminHandler(mockAdmin)

	vendorID := uuid.New()
	mockAdmin.EXPECT().UpdateVendorStatus(gomock.Any(), vendorID, domain.UserStatusSuspended).
		Return(&domain.User{ID: vendorID, Role: domain.RoleVendor, Status: domain.UserStatusSuspended}, nil)

	c, w := newJSONContext(t, http.MethodPatch, "/api/v1/admin/vendors/"+vendorID.String()+"/status", gin.H{
		"status": "SUSPENDED",
	})
	c.Params = gin.Params{{Key: "id", Value: vendorID.String()}}
	authenticate(c, uuid.New(), domain.RoleAdmin)
	h.UpdateVendorStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "SUSPENDED", data["status"])
}

func TestUpdateVendorStatus_RejectsUnknownStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAdminHandler(mocks.NewMockAdminService(ctrl))

	vendorID := uuid.New()
	c, w := newJSONContext(t, http.MethodPatch, "/api/v1/admin/vendors/"+vendorID.String()+"/status", gin.H{
		"status": "BANNED",
	})
	c.Params = gin.Params{{Key: "id", Value: vendorID.String()}}
	h.UpdateVendorStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGatewayBalance_Cached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPayout := mocks.NewMockPayoutService(ctrl)
	h := NewPayoutHandler(mockPayout, zerolog.Nop())

	adminID := uuid.New()
	mockPayout.EXPECT().GatewayBalance(gomock.Any(), adminID).
		Return(&domain.GatewayBalance{Balance: "98765.43", Cached: true}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/admin/gateway/balance", nil)
	authenticate(c, adminID, domain.RoleAdmin)
	h.GatewayBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "98765.43", data["balance"])
	assert.Equal(t, true, data["cached"])
}

// --- Beneficiary Handler Tests ---

func TestCreateBeneficiary_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBen := mocks.NewMockBeneficiaryService(ctrl)
	h := NewBeneficiaryHandler(mockBen)

	vendorID := uuid.New()
	mockBen.EXPECT().Create(gomock.Any(), vendorID, gomock.AssignableToTypeOf(&domain.Beneficiary{})).
		DoAndReturn(func(_ interface{}, _ uuid.UUID, b *domain.Beneficiary) (*domain.Beneficiary, error) {
			assert.Equal(t, "Ramesh Kumar", b.Name)
			require.NotNil(t, b.VPA)
			assert.Equal(t, "ramesh@upi", *b.VPA)
			b.ID = uuid.New()
			b.VendorID = vendorID
			return b, nil
		})

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/beneficiaries", gin.H{
		"name":  "Ramesh Kumar",
		"phone": "9876543210",
		"vpa":   "ramesh@upi",
	})
	authenticate(c, vendorID, domain.RoleVendor)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateBeneficiary_BadIFSC(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewBeneficiaryHandler(mocks.NewMockBeneficiaryService(ctrl))

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/beneficiaries", gin.H{
		"name":           "Ramesh Kumar",
		"phone":          "9876543210",
		"account_number": "12345678901",
		"ifsc":           "BADCODE",
	})
	authenticate(c, uuid.New(), domain.RoleVendor)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteBeneficiary_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewBeneficiaryHandler(mocks.NewMockBeneficiaryService(ctrl))

	c, w := newJSONContext(t, http.MethodDelete, "/api/v1/beneficiaries/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	authenticate(c, uuid.New(), domain.RoleVendor)
	h.Delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
