package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
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

// Codes used by callers that branch on error kind.
const (
	CodeConfiguration      = "CFG_001"
	CodeValidation         = "VAL_001"
	CodeInvalidAmount      = "VAL_002"
	CodeMissingBeneficiary = "VAL_003"
	CodeIncompleteContact  = "VAL_004"
	CodeUnverifiedAccount  = "VAL_005"
	CodeTriggerNotReady    = "PAY_001"
	CodePayoutInProgress   = "PAY_002"
	CodeNotFound           = "PAY_003"
	CodeBeneficiaryLookup  = "BEN_001"
	CodeBeneficiaryCreate  = "BEN_002"
	CodeTransferCreation   = "TRF_001"
	CodeUnknownTransfer    = "REC_001"
)

// HasCode reports whether err is an *AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ---- Configuration (CFG) ----

func ErrConfiguration(message string) *AppError {
	return New(CodeConfiguration, message, http.StatusInternalServerError)
}

// ---- Validation (VAL) ----

// Validation returns a generic validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Amount must be greater than zero with at most two decimal places", http.StatusBadRequest)
}

func ErrMissingBeneficiarySource() *AppError {
	return New(CodeMissingBeneficiary, "Party name, account number and IFSC are required", http.StatusBadRequest)
}

func ErrIncompleteContact() *AppError {
	return New(CodeIncompleteContact, "Beneficiary contact email and phone are required", http.StatusBadRequest)
}

func ErrUnverifiedAccount() *AppError {
	return New(CodeUnverifiedAccount, "Bank account is not approved and verified", http.StatusUnprocessableEntity)
}

// ---- Payout (PAY) ----

func ErrTriggerNotReady(state string) *AppError {
	return New(CodeTriggerNotReady, fmt.Sprintf("Workflow state %q does not trigger a payout", state), http.StatusUnprocessableEntity)
}

func ErrPayoutInProgress() *AppError {
	return New(CodePayoutInProgress, "A payout for this request is already in progress", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Remote payout API (BEN, TRF) ----

func ErrBeneficiaryLookup(err error) *AppError {
	return Wrap(CodeBeneficiaryLookup, "Beneficiary lookup failed", http.StatusBadGateway, err)
}

func ErrBeneficiaryCreation(err error) *AppError {
	return Wrap(CodeBeneficiaryCreate, "Beneficiary creation failed", http.StatusBadGateway, err)
}

func ErrTransferCreation(err error) *AppError {
	return Wrap(CodeTransferCreation, "Transfer creation failed", http.StatusBadGateway, err)
}

// ---- Reconciliation (REC) ----

func ErrUnknownTransfer(ref string) *AppError {
	return New(CodeUnknownTransfer, fmt.Sprintf("No payout matches transfer %q", ref), http.StatusNotFound)
}

// ---- Security & Authentication (SEC, AUTH) ----

func ErrInvalidSignature() *AppError {
	return New("SEC_001", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_002", "Request timestamp expired", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}
