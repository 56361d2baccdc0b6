package dto

// RegisterRequest is the request body for vendor registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for vendor and admin login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"` // Unix timestamp
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// SubmitPayoutRequest is the request body for initiating a payout.
// Amount travels as a string to avoid float rounding on the wire. Either
// beneficiary_id or the inline beneficiary fields must be supplied.
type SubmitPayoutRequest struct {
	Amount        string  `json:"amount" binding:"required"`
	Mode          string  `json:"mode" binding:"required,oneof=UPI IMPS NEFT"`
	BeneficiaryID *string `json:"beneficiary_id,omitempty" binding:"omitempty,uuid"`
	Name          string  `json:"ben_name,omitempty" binding:"omitempty,max=100"`
	Phone         string  `json:"ben_phone,omitempty" binding:"omitempty,in_phone"`
	VPA           string  `json:"ben_vpa,omitempty" binding:"omitempty,max=255"`
	AccountNumber string  `json:"ben_account_number,omitempty" binding:"omitempty,max=34"`
	IFSC          string  `json:"ben_ifsc,omitempty" binding:"omitempty,ifsc"`
	BankName      string  `json:"ben_bank_name,omitempty" binding:"omitempty,max=100"`
	Narration     string  `json:"narration,omitempty" binding:"omitempty,max=100"`
}

// PayoutResponse is the API view of a payout transaction.
type PayoutResponse struct {
	ID                   string  `json:"id"`
	MerchantReferenceID  string  `json:"merchant_reference_id"`
	GatewayTransactionID *string `json:"gateway_transaction_id,omitempty"`
	UTR                  *string `json:"utr,omitempty"`
	Amount               string  `json:"amount"`
	Mode                 string  `json:"mode"`
	Status               string  `json:"status"`
	BeneficiaryName      string  `json:"beneficiary_name"`
	FailureReason        *string `json:"failure_reason,omitempty"`
	CreatedAt            string  `json:"created_at"`
	CompletedAt          *string `json:"completed_at,omitempty"`
}

// WalletBalanceResponse is the response for a wallet balance query.
type WalletBalanceResponse struct {
	VendorID string `json:"vendor_id"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// LedgerEntryResponse is the API view of one wallet movement.
type LedgerEntryResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	BalanceBefore string `json:"balance_before"`
	BalanceAfter  string `json:"balance_after"`
	ReferenceID   string `json:"reference_id"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// TopupCreateRequest is the request body for a vendor topup request.
type TopupCreateRequest struct {
	Amount  string `json:"amount" binding:"required"`
	Remarks string `json:"remarks,omitempty" binding:"omitempty,max=500"`
}

// TopupReviewRequest is the request body for an admin approve/reject.
type TopupReviewRequest struct {
	Note string `json:"note,omitempty" binding:"omitempty,max=500"`
}

// TopupResponse is the API view of a topup request.
type TopupResponse struct {
	ID          string  `json:"id"`
	VendorID    string  `json:"vendor_id"`
	ReferenceID string  `json:"reference_id"`
	Amount      string  `json:"amount"`
	Status      string  `json:"status"`
	Remarks     string  `json:"remarks,omitempty"`
	ReviewNote  *string `json:"review_note,omitempty"`
	CreatedAt   string  `json:"created_at"`
	ReviewedAt  *string `json:"reviewed_at,omitempty"`
}

// BeneficiaryRequest is the request body for creating or updating a saved
// recipient.
type BeneficiaryRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=100"`
	Phone         string  `json:"phone" binding:"required,in_phone"`
	VPA           *string `json:"vpa,omitempty" binding:"omitempty,max=255"`
	AccountNumber *string `json:"account_number,omitempty" binding:"omitempty,max=34"`
	IFSC          *string `json:"ifsc,omitempty" binding:"omitempty,ifsc"`
	BankName      *string `json:"bank_name,omitempty" binding:"omitempty,max=100"`
}

// VendorStatusRequest is the admin request to activate or suspend a vendor.
type VendorStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE SUSPENDED"`
}

// GatewayBalanceResponse is the response for the gateway balance query.
type GatewayBalanceResponse struct {
	Balance string `json:"balance"`
	Cached  bool   `json:"cached"`
}

// ListResponse wraps any paginated collection.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewListResponse assembles the pagination envelope.
func NewListResponse(items interface{}, total int64, page, pageSize int) ListResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return ListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
