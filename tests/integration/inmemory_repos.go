package integration

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/internal/core/ports"
	"vendor-payout-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// The in-memory repos reproduce the nil/error conventions of the postgres
// implementations: user and wallet lookups return a not-found error, while
// payout, topup and beneficiary lookups return (nil, nil) for a miss.

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperror.ErrEmailExists()
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.ErrNotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.ErrNotFound("user")
}

func (r *inMemoryUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperror.ErrNotFound("user")
	}
	u.Status = status
	return nil
}

func (r *inMemoryUserRepo) List(ctx context.Context, role *domain.UserRole, page, pageSize int) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.User
	for _, u := range r.users {
		if role != nil && u.Role != *role {
			continue
		}
		result = append(result, *u)
	}
	return paginate(result, page, pageSize)
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet // keyed by vendor ID
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) GetByVendorID(ctx context.Context, vendorID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[vendorID]
	if !ok {
		return nil, apperror.ErrNotFound("wallet")
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) LockWallet(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[vendorID]
	if !ok {
		w = &domain.Wallet{ID: uuid.New(), VendorID: vendorID, Currency: domain.WalletCurrency}
		r.wallets[vendorID] = w
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wallets {
		if w.ID == walletID {
			w.Balance = balance
			return nil
		}
	}
	return apperror.ErrNotFound("wallet")
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{}
}

func (r *inMemoryLedgerRepo) Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, cp)
	return nil
}

func (r *inMemoryLedgerRepo) FindRefund(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, referenceID string) (*domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.entries {
		e := r.entries[i]
		if e.VendorID == vendorID && e.ReferenceID == referenceID && e.Type == domain.LedgerEntryRefund {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *inMemoryLedgerRepo) HasDeduction(ctx context.Context, tx pgx.Tx, vendorID uuid.UUID, referenceID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.entries {
		e := r.entries[i]
		if e.VendorID == vendorID && e.ReferenceID == referenceID && e.Type == domain.LedgerEntryDeduction {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryLedgerRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, entryType *domain.LedgerEntryType, page, pageSize int) ([]domain.LedgerEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.LedgerEntry
	for i := range r.entries {
		e := r.entries[i]
		if e.VendorID != vendorID {
			continue
		}
		if entryType != nil && e.Type != *entryType {
			continue
		}
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return paginate(result, page, pageSize)
}

// entriesFor returns every ledger entry for a vendor, for invariant checks.
func (r *inMemoryLedgerRepo) entriesFor(vendorID uuid.UUID) []domain.LedgerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.LedgerEntry
	for i := range r.entries {
		if r.entries[i].VendorID == vendorID {
			result = append(result, r.entries[i])
		}
	}
	return result
}

// --- In-Memory Payout Repo ---

type inMemoryPayoutRepo struct {
	mu      sync.RWMutex
	payouts map[string]*domain.PayoutTransaction // keyed by merchant reference
}

func newInMemoryPayoutRepo() *inMemoryPayoutRepo {
	return &inMemoryPayoutRepo{payouts: make(map[string]*domain.PayoutTransaction)}
}

func (r *inMemoryPayoutRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.PayoutTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.payouts[p.MerchantReferenceID]; exists {
		return apperror.ErrDuplicateReference(p.MerchantReferenceID)
	}
	cp := *p
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.payouts[p.MerchantReferenceID] = &cp
	return nil
}

func (r *inMemoryPayoutRepo) GetByReference(ctx context.Context, referenceID string) (*domain.PayoutTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payouts[referenceID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *inMemoryPayoutRepo) GetByReferenceForUpdate(ctx context.Context, tx pgx.Tx, referenceID string) (*domain.PayoutTransaction, error) {
	return r.GetByReference(ctx, referenceID)
}

func (r *inMemoryPayoutRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, referenceID string, status domain.PayoutStatus, gatewayTxID, utr, failureReason, rawResponse *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payouts[referenceID]
	if !ok {
		return apperror.ErrNotFound("transaction")
	}
	p.Status = status
	// Gateway identifiers are only ever filled in, never cleared.
	if gatewayTxID != nil && p.GatewayTransactionID == nil {
		p.GatewayTransactionID = gatewayTxID
	}
	if utr != nil && p.UTR == nil {
		p.UTR = utr
	}
	if failureReason != nil && p.FailureReason == nil {
		p.FailureReason = failureReason
	}
	if rawResponse != nil {
		p.LastGatewayResponse = rawResponse
	}
	if status.IsTerminal() && p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryPayoutRepo) List(ctx context.Context, params ports.PayoutListParams) ([]domain.PayoutTransaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.PayoutTransaction
	for _, p := range r.payouts {
		if params.VendorID != nil && p.VendorID != *params.VendorID {
			continue
		}
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		if params.Mode != nil && p.Mode != *params.Mode {
			continue
		}
		if params.From != nil && p.CreatedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && p.CreatedAt.After(*params.To) {
			continue
		}
		result = append(result, *p)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return paginate(result, params.Page, params.PageSize)
}

func (r *inMemoryPayoutRepo) GetStats(ctx context.Context, vendorID *uuid.UUID, from *time.Time) (*ports.PayoutStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.PayoutStats{}
	for _, p := range r.payouts {
		if vendorID != nil && p.VendorID != *vendorID {
			continue
		}
		if from != nil && p.CreatedAt.Before(*from) {
			continue
		}
		stats.Total++
		switch p.Status {
		case domain.PayoutStatusPending:
			stats.Pending++
		case domain.PayoutStatusProcessing:
			stats.Processing++
		case domain.PayoutStatusSuccess:
			stats.Successful++
			stats.SuccessAmount = stats.SuccessAmount.Add(p.Amount)
		case domain.PayoutStatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

// --- In-Memory Transaction Log Repo ---

type inMemoryLogRepo struct {
	mu   sync.RWMutex
	logs []domain.TransactionLog
}

func newInMemoryLogRepo() *inMemoryLogRepo {
	return &inMemoryLogRepo{}
}

func (r *inMemoryLogRepo) Create(ctx context.Context, log *domain.TransactionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *log
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, cp)
	return nil
}

func (r *inMemoryLogRepo) ListByReference(ctx context.Context, referenceID string) ([]domain.TransactionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.TransactionLog
	for i := range r.logs {
		if r.logs[i].ReferenceID == referenceID {
			result = append(result, r.logs[i])
		}
	}
	return result, nil
}

// --- In-Memory Topup Repo ---

type inMemoryTopupRepo struct {
	mu     sync.RWMutex
	topups map[uuid.UUID]*domain.TopupRequest
}

func newInMemoryTopupRepo() *inMemoryTopupRepo {
	return &inMemoryTopupRepo{topups: make(map[uuid.UUID]*domain.TopupRequest)}
}

func (r *inMemoryTopupRepo) Create(ctx context.Context, t *domain.TopupRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.topups[t.ID] = &cp
	return nil
}

func (r *inMemoryTopupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TopupRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.topups[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTopupRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TopupRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTopupRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TopupStatus, reviewedBy uuid.UUID, note *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.topups[id]
	if !ok {
		return apperror.ErrNotFound("topup")
	}
	now := time.Now()
	t.Status = status
	t.ReviewedBy = &reviewedBy
	t.ReviewNote = note
	t.ReviewedAt = &now
	return nil
}

func (r *inMemoryTopupRepo) List(ctx context.Context, vendorID *uuid.UUID, status *domain.TopupStatus, page, pageSize int) ([]domain.TopupRequest, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.TopupRequest
	for _, t := range r.topups {
		if vendorID != nil && t.VendorID != *vendorID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		result = append(result, *t)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return paginate(result, page, pageSize)
}

func (r *inMemoryTopupRepo) GetStats(ctx context.Context) (*domain.TopupStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &domain.TopupStats{}
	for _, t := range r.topups {
		switch t.Status {
		case domain.TopupStatusPending:
			stats.PendingCount++
		case domain.TopupStatusApproved:
			stats.ApprovedCount++
			stats.ApprovedAmount = stats.ApprovedAmount.Add(t.Amount)
		case domain.TopupStatusRejected:
			stats.RejectedCount++
		}
	}
	return stats, nil
}

// --- In-Memory Beneficiary Repo ---

type inMemoryBeneficiaryRepo struct {
	mu            sync.RWMutex
	beneficiaries map[uuid.UUID]*domain.Beneficiary
}

func newInMemoryBeneficiaryRepo() *inMemoryBeneficiaryRepo {
	return &inMemoryBeneficiaryRepo{beneficiaries: make(map[uuid.UUID]*domain.Beneficiary)}
}

func (r *inMemoryBeneficiaryRepo) Create(ctx context.Context, b *domain.Beneficiary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.beneficiaries[b.ID] = &cp
	return nil
}

func (r *inMemoryBeneficiaryRepo) GetByID(ctx context.Context, vendorID, id uuid.UUID) (*domain.Beneficiary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.beneficiaries[id]
	if !ok || b.VendorID != vendorID {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *inMemoryBeneficiaryRepo) Update(ctx context.Context, b *domain.Beneficiary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.beneficiaries[b.ID]
	if !ok || existing.VendorID != b.VendorID {
		return apperror.ErrNotFound("beneficiary")
	}
	cp := *b
	cp.UpdatedAt = time.Now()
	r.beneficiaries[b.ID] = &cp
	return nil
}

func (r *inMemoryBeneficiaryRepo) Delete(ctx context.Context, vendorID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.beneficiaries[id]
	if !ok || b.VendorID != vendorID {
		return apperror.ErrNotFound("beneficiary")
	}
	delete(r.beneficiaries, id)
	return nil
}

func (r *inMemoryBeneficiaryRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, page, pageSize int) ([]domain.Beneficiary, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Beneficiary
	for _, b := range r.beneficiaries {
		if b.VendorID == vendorID {
			result = append(result, *b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.Compare(result[i].ID.String(), result[j].ID.String()) < 0
	})
	return paginate(result, page, pageSize)
}

// --- In-Memory Balance History Repo ---

type inMemoryBalanceHistoryRepo struct {
	mu        sync.RWMutex
	snapshots []domain.BalanceSnapshot
}

func newInMemoryBalanceHistoryRepo() *inMemoryBalanceHistoryRepo {
	return &inMemoryBalanceHistoryRepo{}
}

func (r *inMemoryBalanceHistoryRepo) Create(ctx context.Context, s *domain.BalanceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.snapshots = append(r.snapshots, cp)
	return nil
}

func (r *inMemoryBalanceHistoryRepo) List(ctx context.Context, page, pageSize int) ([]domain.BalanceSnapshot, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.BalanceSnapshot, len(r.snapshots))
	copy(result, r.snapshots)
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return paginate(result, page, pageSize)
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transactions behind a single mutex, the
// in-memory equivalent of the row locks the postgres layer takes with
// SELECT ... FOR UPDATE.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{unlock: &sync.Once{}, mu: &t.mu}, nil
}

// memTx is a no-op pgx.Tx that releases the transactor lock exactly once,
// on whichever of Commit/Rollback runs first.
type memTx struct {
	unlock *sync.Once
	mu     *sync.Mutex
}

func (t *memTx) release() {
	t.unlock.Do(t.mu.Unlock)
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.release(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.release(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }

// paginate slices result by page/pageSize, returning the page plus total.
func paginate[T any](result []T, page, pageSize int) ([]T, int64, error) {
	total := int64(len(result))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(result) {
		return []T{}, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}
