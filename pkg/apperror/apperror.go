package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
// Callers distinguish error kinds by Code, never by message text.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Is reports whether err carries the given app error code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Error codes grouped by concern.
const (
	CodeInsufficientBalance    = "PAY_001"
	CodeValidation             = "PAY_002"
	CodeDuplicateReference     = "PAY_003"
	CodeNotFound               = "PAY_004"
	CodeAlreadyProcessed       = "PAY_005"
	CodeRefundMissingDeduction = "PAY_006"

	CodeGatewayTransport = "GW_001"
	CodeGatewayRejected  = "GW_002"
	CodeGatewayProtocol  = "GW_003"

	CodeInvalidCredentials = "AUTH_001"
	CodeEmailExists        = "AUTH_002"
	CodeInvalidToken       = "AUTH_003"
	CodeAccountSuspended   = "AUTH_004"
	CodeForbidden          = "AUTH_005"

	CodeRateLimited = "RATE_001"

	CodeInternal          = "SYS_001"
	CodeEncryptionFailure = "SYS_002"
)

// ---- Payout & Wallet (PAY) ----

func ErrInsufficientBalance() *AppError {
	return New(CodeInsufficientBalance, "Insufficient wallet balance", http.StatusPaymentRequired)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New(CodeValidation, "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrDuplicateReference(referenceID string) *AppError {
	return New(CodeDuplicateReference, fmt.Sprintf("A payout with reference %s already exists", referenceID), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAlreadyProcessed(entity string) *AppError {
	return New(CodeAlreadyProcessed, fmt.Sprintf("%s has already been processed", entity), http.StatusConflict)
}

// ErrRefundMissingDeduction signals a refund attempt for a reference that
// was never debited. This is an invariant violation, not a user error.
func ErrRefundMissingDeduction(referenceID string) *AppError {
	return New(CodeRefundMissingDeduction, fmt.Sprintf("no deduction recorded for reference %s", referenceID), http.StatusConflict)
}

// ---- Gateway (GW) ----

// ErrGatewayTransport covers timeouts, DNS and TLS failures reaching the
// gateway. The submission outcome is unknown; callers must reconcile via
// a later status check rather than resubmit.
func ErrGatewayTransport(err error) *AppError {
	return Wrap(CodeGatewayTransport, "Payment gateway unreachable", http.StatusBadGateway, err)
}

// ErrGatewayRejected covers non-2xx responses from the gateway.
func ErrGatewayRejected(httpStatus int, gatewayMessage string) *AppError {
	if gatewayMessage == "" {
		gatewayMessage = "request rejected"
	}
	return New(CodeGatewayRejected, fmt.Sprintf("Gateway rejected request (HTTP %d): %s", httpStatus, gatewayMessage), http.StatusBadGateway)
}

// ErrGatewayProtocol covers 2xx responses whose body cannot be parsed.
func ErrGatewayProtocol(err error) *AppError {
	return Wrap(CodeGatewayProtocol, "Unparseable response from payment gateway", http.StatusBadGateway, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New(CodeEmailExists, "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAccountSuspended() *AppError {
	return New(CodeAccountSuspended, "Account is not active", http.StatusForbidden)
}

func ErrForbidden() *AppError {
	return New(CodeForbidden, "Insufficient permissions", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap(CodeEncryptionFailure, "Payload encryption failure", http.StatusInternalServerError, err)
}
