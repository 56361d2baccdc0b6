package postgres

import (
	"context"
	"testing"
	"time"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayout(vendorID uuid.UUID) *domain.PayoutTransaction {
	vpa := "a@upi"
	return &domain.PayoutTransaction{
		ID:                  uuid.New(),
		VendorID:            vendorID,
		MerchantReferenceID: "PAYOUT_1_abcd1234",
		Amount:              decimal.NewFromInt(100),
		Mode:                domain.ModeUPI,
		Status:              domain.PayoutStatusPending,
		BeneficiaryName:     "A",
		BeneficiaryPhone:    "9000000000",
		BeneficiaryVPA:      &vpa,
		Narration:           "Fund Transfer",
		CreatedAt:           time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:           time.Now().UTC().Truncate(time.Microsecond),
	}
}

func payoutColumnNames() []string {
	return []string{"id", "vendor_id", "merchant_reference_id", "gateway_transaction_id", "utr",
		"amount", "mode", "status", "ben_name", "ben_phone", "ben_vpa", "ben_account_number",
		"ben_ifsc", "ben_bank_name", "narration", "failure_reason", "last_gateway_response", "created_at", "updated_at",
		"completed_at"}
}

func payoutRow(p *domain.PayoutTransaction) *pgxmock.Rows {
	return pgxmock.NewRows(payoutColumnNames()).AddRow(
		p.ID, p.VendorID, p.MerchantReferenceID, p.GatewayTransactionID, p.UTR,
		p.Amount, p.Mode, p.Status, p.BeneficiaryName, p.BeneficiaryPhone,
		p.BeneficiaryVPA, p.BeneficiaryAccount, p.BeneficiaryIFSC, p.BeneficiaryBank,
		p.Narration, p.FailureReason, p.LastGatewayResponse, p.CreatedAt, p.UpdatedAt, p.CompletedAt,
	)
}

func TestPayoutRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	p := newTestPayout(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(p.ID, p.VendorID, p.MerchantReferenceID, p.Amount, p.Mode, p.Status,
			p.BeneficiaryName, p.BeneficiaryPhone, p.BeneficiaryVPA, p.BeneficiaryAccount,
			p.BeneficiaryIFSC, p.BeneficiaryBank, p.Narration).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_Create_DuplicateReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	p := newTestPayout(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(p.ID, p.VendorID, p.MerchantReferenceID, p.Amount, p.Mode, p.Status,
			p.BeneficiaryName, p.BeneficiaryPhone, p.BeneficiaryVPA, p.BeneficiaryAccount,
			p.BeneficiaryIFSC, p.BeneficiaryBank, p.Narration).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, p)
	assert.True(t, apperror.Is(err, apperror.CodeDuplicateReference))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_GetByReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	p := newTestPayout(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE merchant_reference_id").
		WithArgs(p.MerchantReferenceID).
		WillReturnRows(payoutRow(p))

	result, err := repo.GetByReference(context.Background(), p.MerchantReferenceID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.True(t, result.Amount.Equal(p.Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_GetByReference_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE merchant_reference_id").
		WithArgs("PAYOUT_1_none").
		WillReturnRows(pgxmock.NewRows(payoutColumnNames()))

	result, err := repo.GetByReference(context.Background(), "PAYOUT_1_none")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	utr := "UTR123456"
	txnID := "TXN-1"
	raw := `{"status":"success"}`

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET").
		WithArgs(domain.PayoutStatusSuccess, &txnID, &utr, (*string)(nil), &raw, "PAYOUT_1_abcd1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, "PAYOUT_1_abcd1234", domain.PayoutStatusSuccess, &txnID, &utr, nil, &raw)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayoutRepo_List_VendorScoped(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayoutRepo(mock)
	p := newTestPayout(uuid.New())
	status := domain.PayoutStatusPending

	mock.ExpectQuery("SELECT COUNT.+ FROM transactions").
		WithArgs(p.VendorID, status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(p.VendorID, status, 20, 0).
		WillReturnRows(payoutRow(p))

	payouts, total, err := repo.List(context.Background(), ports.PayoutListParams{
		VendorID: &p.VendorID,
		Status:   &status,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, payouts, 1)
	assert.Equal(t, p.MerchantReferenceID, payouts[0].MerchantReferenceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
