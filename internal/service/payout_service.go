package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PayoutServiceImpl implements ports.PayoutService. It owns the payout
// state machine: submission debits the wallet before the gateway call,
// and every status observation — submit response, poll, or webhook —
// flows through the single applyStatusReport path, which also triggers
// the refund when a payout turns FAILED.
type PayoutServiceImpl struct {
	payoutRepo  ports.PayoutRepository
	logRepo     ports.TransactionLogRepository
	userRepo    ports.UserRepository
	benRepo     ports.BeneficiaryRepository
	balanceRepo ports.BalanceHistoryRepository
	ledger      ports.WalletLedger
	gateway     ports.GatewayClient
	signer      ports.SignatureService
	crypto      ports.CryptoService
	transactor  ports.DBTransactor
	cache       ports.BalanceCache
	cacheTTL    time.Duration
	narration   string
	apicode     string
	log         zerolog.Logger
}

// NewPayoutService creates the payout orchestrator.
func NewPayoutService(
	payoutRepo ports.PayoutRepository,
	logRepo ports.TransactionLogRepository,
	userRepo ports.UserRepository,
	benRepo ports.BeneficiaryRepository,
	balanceRepo ports.BalanceHistoryRepository,
	ledger ports.WalletLedger,
	gateway ports.GatewayClient,
	signer ports.SignatureService,
	crypto ports.CryptoService,
	transactor ports.DBTransactor,
	cache ports.BalanceCache,
	cacheTTL time.Duration,
	apicode, narration string,
	log zerolog.Logger,
) *PayoutServiceImpl {
	return &PayoutServiceImpl{
		payoutRepo:  payoutRepo,
		logRepo:     logRepo,
		userRepo:    userRepo,
		benRepo:     benRepo,
		balanceRepo: balanceRepo,
		ledger:      ledger,
		gateway:     gateway,
		signer:      signer,
		crypto:      crypto,
		transactor:  transactor,
		cache:       cache,
		cacheTTL:    cacheTTL,
		narration:   narration,
		apicode:     apicode,
		log:         log,
	}
}

// Submit runs the payout submission path: validate, debit the wallet,
// persist the transaction, then call the gateway. The debit happens
// before the gateway call so the custodial balance can never go negative
// through a gateway race; a synchronous rejection is reconciled through
// the same refund path as an asynchronous failure.
func (s *PayoutServiceImpl) Submit(ctx context.Context, req ports.SubmitPayoutRequest) (*domain.PayoutTransaction, error) {
	vendor, err := s.userRepo.GetByID(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsActive() {
		return nil, apperror.ErrAccountSuspended()
	}

	if err := s.resolveBeneficiary(ctx, &req); err != nil {
		return nil, err
	}
	if err := validateSubmit(&req); err != nil {
		return nil, err
	}
	normalizeSubmit(&req)

	referenceID := domain.NewPayoutReference()
	narration := req.Narration
	if narration == "" {
		narration = s.narration
	}

	payout := &domain.PayoutTransaction{
		ID:                  uuid.New(),
		VendorID:            req.VendorID,
		MerchantReferenceID: referenceID,
		Amount:              req.Amount,
		Mode:                req.Mode,
		Status:              domain.PayoutStatusPending,
		BeneficiaryName:     req.Name,
		BeneficiaryPhone:    req.Phone,
		Narration:           narration,
	}
	if req.Mode == domain.ModeUPI {
		payout.BeneficiaryVPA = &req.VPA
	} else {
		payout.BeneficiaryAccount = &req.AccountNumber
		payout.BeneficiaryIFSC = &req.IFSC
		payout.BeneficiaryBank = &req.BankName
	}

	// Debit and transaction record commit together, before any network
	// call. An insufficient balance leaves no trace.
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.ledger.Debit(ctx, tx, req.VendorID, req.Amount, referenceID, "payout to "+req.Name); err != nil {
		return nil, err
	}
	if err := s.payoutRepo.Create(ctx, tx, payout); err != nil {
		return nil, apperror.InternalError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(err)
	}

	payload := s.buildPayload(payout)
	payload.Signature = s.signer.Sign(payload)
	s.recordLog(ctx, referenceID, domain.LogTypeRequest, payload)

	result, err := s.gateway.SubmitPayout(ctx, payload)
	switch {
	case err == nil:
		s.recordLog(ctx, referenceID, domain.LogTypeResponse, result.Raw)
		s.applyReport(ctx, &domain.StatusReport{
			MerchantReferenceID:  referenceID,
			Status:               domain.StatusFromGateway(strings.ToLower(result.Status)),
			GatewayTransactionID: result.TransactionID,
			UTR:                  result.UTR,
			Message:              result.Message,
			Raw:                  result.Raw,
			Source:               domain.ReportSourceSubmit,
		})

	case apperror.Is(err, apperror.CodeGatewayRejected):
		// Synchronous rejection. The wallet was already debited, so this
		// goes through the same FAILED transition and refund as an
		// asynchronous failure report.
		s.recordLog(ctx, referenceID, domain.LogTypeError, err.Error())
		s.applyReport(ctx, &domain.StatusReport{
			MerchantReferenceID: referenceID,
			Status:              domain.PayoutStatusFailed,
			Message:             err.Error(),
			Raw:                 err.Error(),
			Source:              domain.ReportSourceSubmit,
		})

	default:
		// Transport or protocol failure: the submission outcome is
		// unknown. The payout stays PENDING with funds held until a
		// status check learns the truth — re-submitting here could pay
		// the beneficiary twice.
		s.log.Warn().Err(err).
			Str("reference_id", referenceID).
			Msg("gateway submission outcome unknown, awaiting reconciliation")
		s.recordLog(ctx, referenceID, domain.LogTypeError, err.Error())
	}

	return s.payoutRepo.GetByReference(ctx, referenceID)
}

// CheckStatus polls the gateway for a payout and reconciles the local
// record with the reported status.
func (s *PayoutServiceImpl) CheckStatus(ctx context.Context, vendorID uuid.UUID, referenceID string) (*domain.PayoutTransaction, error) {
	payout, err := s.ownedPayout(ctx, &vendorID, referenceID)
	if err != nil {
		return nil, err
	}

	// Terminal states never change; skip the gateway round-trip.
	if payout.Status.IsTerminal() {
		return payout, nil
	}

	result, err := s.gateway.CheckStatus(ctx, referenceID)
	if err != nil {
		s.recordLog(ctx, referenceID, domain.LogTypeError, err.Error())
		return nil, err
	}
	s.recordLog(ctx, referenceID, domain.LogTypeStatusCheck, result.Raw)

	s.applyReport(ctx, &domain.StatusReport{
		MerchantReferenceID:  referenceID,
		Status:               domain.StatusFromGateway(strings.ToLower(result.Status)),
		GatewayTransactionID: result.TransactionID,
		UTR:                  result.UTR,
		Message:              result.Message,
		Raw:                  result.Raw,
		Source:               domain.ReportSourcePoll,
	})

	return s.payoutRepo.GetByReference(ctx, referenceID)
}

// webhookPayload is the decrypted webhook body.
type webhookPayload struct {
	MerchantReferenceID string `json:"merchant_reference_id"`
	Status              string `json:"status"`
	Amount              string `json:"amount,omitempty"`
	UTR                 string `json:"utr,omitempty"`
	TransactionID       string `json:"transaction_id,omitempty"`
	Message             string `json:"message,omitempty"`
}

// HandleWebhook decrypts and applies a gateway callback. Only an
// undecodable envelope is returned as an error; reconciliation anomalies
// are logged and absorbed because the sender retries on anything but 200.
func (s *PayoutServiceImpl) HandleWebhook(ctx context.Context, env *domain.Envelope) error {
	// Webhooks arrive through the same codec as outbound requests.
	plaintext, err := s.crypto.Decrypt(env)
	if err != nil {
		s.log.Error().Err(err).Msg("webhook envelope decryption failed")
		return err
	}

	var payload webhookPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		s.log.Error().Err(err).Msg("webhook payload unmarshal failed")
		return apperror.Validation("malformed webhook payload")
	}
	if payload.MerchantReferenceID == "" {
		return apperror.Validation("webhook missing merchant_reference_id")
	}

	s.recordLog(ctx, payload.MerchantReferenceID, domain.LogTypeWebhook, string(plaintext))

	s.applyReport(ctx, &domain.StatusReport{
		MerchantReferenceID:  payload.MerchantReferenceID,
		Status:               domain.StatusFromGateway(strings.ToLower(payload.Status)),
		GatewayTransactionID: payload.TransactionID,
		UTR:                  payload.UTR,
		Message:              payload.Message,
		Raw:                  string(plaintext),
		Source:               domain.ReportSourceWebhook,
	})
	return nil
}

// Get returns one payout. A non-nil vendorID restricts visibility to that
// vendor's own transactions.
func (s *PayoutServiceImpl) Get(ctx context.Context, vendorID *uuid.UUID, referenceID string) (*domain.PayoutTransaction, error) {
	return s.ownedPayout(ctx, vendorID, referenceID)
}

// List returns payouts matching params.
func (s *PayoutServiceImpl) List(ctx context.Context, params ports.PayoutListParams) ([]domain.PayoutTransaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.payoutRepo.List(ctx, params)
}

// Logs returns the gateway exchange history for a payout.
func (s *PayoutServiceImpl) Logs(ctx context.Context, vendorID *uuid.UUID, referenceID string) ([]domain.TransactionLog, error) {
	if _, err := s.ownedPayout(ctx, vendorID, referenceID); err != nil {
		return nil, err
	}
	return s.logRepo.ListByReference(ctx, referenceID)
}

// GatewayBalance returns the gateway-side account balance, served from
// cache when fresh. Uncached fetches are snapshotted to balance history.
func (s *PayoutServiceImpl) GatewayBalance(ctx context.Context, requestedBy uuid.UUID) (*domain.GatewayBalance, error) {
	if cached, err := s.cache.Get(ctx); err != nil {
		s.log.Warn().Err(err).Msg("balance cache read failed")
	} else if cached != "" {
		return &domain.GatewayBalance{Balance: cached, Cached: true}, nil
	}

	result, err := s.gateway.GetBalance(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.BalanceSnapshot{
		ID:        uuid.New(),
		Balance:   result.Balance,
		FetchedBy: requestedBy,
	}
	if err := s.balanceRepo.Create(ctx, snapshot); err != nil {
		s.log.Warn().Err(err).Msg("recording balance snapshot failed")
	}
	if err := s.cache.Set(ctx, result.Balance, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("balance cache write failed")
	}

	return &domain.GatewayBalance{Balance: result.Balance}, nil
}

// applyReport reconciles one status observation against the stored
// payout. It locks the payout row, refuses to regress a terminal status,
// records any newly learned gateway identifiers, and triggers the refund
// on the not-FAILED-to-FAILED transition. Reconciliation failures are
// logged, never surfaced to the reporting channel.
func (s *PayoutServiceImpl) applyReport(ctx context.Context, rep *domain.StatusReport) {
	if err := s.applyReportTx(ctx, rep); err != nil {
		s.log.Error().Err(err).
			Str("reference_id", rep.MerchantReferenceID).
			Str("source", string(rep.Source)).
			Msg("status report reconciliation failed")
	}
}

func (s *PayoutServiceImpl) applyReportTx(ctx context.Context, rep *domain.StatusReport) error {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning reconciliation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	payout, err := s.payoutRepo.GetByReferenceForUpdate(ctx, tx, rep.MerchantReferenceID)
	if err != nil {
		return err
	}

	prev := payout.Status
	newStatus := rep.Status
	if prev.IsTerminal() {
		// A repeat terminal report or a stale non-terminal one is a
		// benign no-op; only backfill a missing UTR.
		if rep.UTR != "" && payout.UTR == nil {
			if err := s.payoutRepo.UpdateStatus(ctx, tx, rep.MerchantReferenceID, prev, optional(rep.GatewayTransactionID), optional(rep.UTR), nil, optional(rep.Raw)); err != nil {
				return err
			}
			return tx.Commit(ctx)
		}
		s.log.Debug().
			Str("reference_id", rep.MerchantReferenceID).
			Str("status", string(prev)).
			Str("reported", string(newStatus)).
			Msg("ignoring report for terminal payout")
		return nil
	}

	var failureReason *string
	if newStatus == domain.PayoutStatusFailed && rep.Message != "" {
		failureReason = &rep.Message
	}
	if err := s.payoutRepo.UpdateStatus(ctx, tx, rep.MerchantReferenceID, newStatus, optional(rep.GatewayTransactionID), optional(rep.UTR), failureReason, optional(rep.Raw)); err != nil {
		return err
	}

	if prev != domain.PayoutStatusFailed && newStatus == domain.PayoutStatusFailed {
		res, err := s.ledger.Refund(ctx, tx, payout.VendorID, payout.Amount, rep.MerchantReferenceID, "payout failed")
		if err != nil {
			if apperror.Is(err, apperror.CodeRefundMissingDeduction) {
				s.log.Error().
					Str("reference_id", rep.MerchantReferenceID).
					Str("vendor_id", payout.VendorID.String()).
					Msg("refund refused: no deduction entry for failed payout")
			}
			return err
		}
		if res.AlreadyProcessed {
			// Duplicate webhook or poll/webhook race; the idempotency
			// guard makes this safe.
			s.log.Info().
				Str("reference_id", rep.MerchantReferenceID).
				Msg("refund already processed for failed payout")
		} else {
			s.log.Info().
				Str("reference_id", rep.MerchantReferenceID).
				Str("amount", payout.Amount.String()).
				Msg("refunded failed payout")
		}
	}

	return tx.Commit(ctx)
}

func (s *PayoutServiceImpl) ownedPayout(ctx context.Context, vendorID *uuid.UUID, referenceID string) (*domain.PayoutTransaction, error) {
	payout, err := s.payoutRepo.GetByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if vendorID != nil && payout.VendorID != *vendorID {
		// Existence of another vendor's payout is not disclosed.
		return nil, apperror.ErrNotFound("transaction")
	}
	return payout, nil
}

func (s *PayoutServiceImpl) buildPayload(p *domain.PayoutTransaction) *domain.PayoutPayload {
	payload := &domain.PayoutPayload{
		BeneficiaryName:  p.BeneficiaryName,
		BeneficiaryPhone: p.BeneficiaryPhone,
		Amount:           p.Amount.String(),
		ReferenceID:      p.MerchantReferenceID,
		TransferType:     string(p.Mode),
		APICode:          s.apicode,
		Narration:        p.Narration,
	}
	if p.Mode == domain.ModeUPI {
		payload.BeneficiaryVPA = deref(p.BeneficiaryVPA)
	} else {
		payload.BeneficiaryAccount = deref(p.BeneficiaryAccount)
		payload.BeneficiaryIFSC = deref(p.BeneficiaryIFSC)
		payload.BeneficiaryBank = deref(p.BeneficiaryBank)
	}
	return payload
}

// recordLog persists a gateway exchange record. Log writes are
// best-effort: losing one must not fail the payout itself.
func (s *PayoutServiceImpl) recordLog(ctx context.Context, referenceID string, logType domain.LogType, payload any) {
	body := ""
	switch v := payload.(type) {
	case string:
		body = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			s.log.Warn().Err(err).Str("reference_id", referenceID).Msg("marshaling transaction log payload")
			return
		}
		body = string(b)
	}

	if err := s.logRepo.Create(ctx, &domain.TransactionLog{
		ID:          uuid.New(),
		ReferenceID: referenceID,
		Type:        logType,
		Payload:     body,
	}); err != nil {
		s.log.Warn().Err(err).Str("reference_id", referenceID).Msg("writing transaction log")
	}
}

func (s *PayoutServiceImpl) resolveBeneficiary(ctx context.Context, req *ports.SubmitPayoutRequest) error {
	if req.BeneficiaryID == nil {
		return nil
	}
	ben, err := s.benRepo.GetByID(ctx, req.VendorID, *req.BeneficiaryID)
	if err != nil {
		return err
	}
	if ben == nil {
		return apperror.ErrNotFound("beneficiary")
	}
	if !ben.SupportsMode(req.Mode) {
		return apperror.Validation(fmt.Sprintf("beneficiary has no %s details", req.Mode))
	}

	req.Name = ben.Name
	req.Phone = ben.Phone
	req.VPA = deref(ben.VPA)
	req.AccountNumber = deref(ben.AccountNumber)
	req.IFSC = deref(ben.IFSC)
	req.BankName = deref(ben.BankName)
	return nil
}

func validateSubmit(req *ports.SubmitPayoutRequest) error {
	if !req.Mode.Valid() {
		return apperror.Validation("unsupported transfer mode")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return apperror.ErrInvalidAmount()
	}
	if req.Name == "" || req.Phone == "" {
		return apperror.Validation("beneficiary name and phone are required")
	}
	switch req.Mode {
	case domain.ModeUPI:
		if req.VPA == "" {
			return apperror.Validation("ben_vpa is required for UPI transfers")
		}
	case domain.ModeIMPS, domain.ModeNEFT:
		if req.AccountNumber == "" || req.IFSC == "" || req.BankName == "" {
			return apperror.Validation("account number, IFSC and bank name are required for bank transfers")
		}
	}
	return nil
}

// normalizeSubmit canonicalizes fields that participate in the signature:
// bank names are lowercased and IFSC codes uppercased before signing, so
// the stored record matches what was signed.
func normalizeSubmit(req *ports.SubmitPayoutRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.BankName = strings.ToLower(strings.TrimSpace(req.BankName))
	req.IFSC = strings.ToUpper(strings.TrimSpace(req.IFSC))
	req.VPA = strings.TrimSpace(req.VPA)
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
