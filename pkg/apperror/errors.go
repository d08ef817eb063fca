package apperror

import (
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

// ---- Validation (VAL) ----

// Validation returns a generic 400 validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidRecipient(detail string) *AppError {
	return New("VAL_002", fmt.Sprintf("Invalid recipient: %s", detail), http.StatusBadRequest)
}

func ErrMissingPaymentFields() *AppError {
	return New("VAL_003", "Missing required payment fields", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_004", "Invalid amount", http.StatusBadRequest)
}

// ---- Security (SEC) ----

func ErrInvalidSignature() *AppError {
	return New("SEC_001", "Invalid payment signature", http.StatusUnauthorized)
}

func ErrInvalidCallbackSignature() *AppError {
	return New("SEC_002", "Invalid callback signature", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("SEC_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Receipt sequencing & records (SEQ / REC) ----

func ErrStoreUnavailable(err error) *AppError {
	return Wrap("SEQ_001", "Receipt store unavailable", http.StatusServiceUnavailable, err)
}

func ErrRecordNotFound() *AppError {
	return New("REC_001", "Record not found", http.StatusNotFound)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New("REC_002", fmt.Sprintf("Invalid status transition %s -> %s", from, to), http.StatusConflict)
}

func ErrDuplicateReceipt() *AppError {
	return New("REC_003", "Receipt already recorded for this payment", http.StatusConflict)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimited() *AppError {
	return New("RATE_001", "Outbound message rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Downstream gateways (GW) ----
// Gateway failures are usually carried as per-channel outcomes, not HTTP errors.
// These constructors cover the few paths that surface them directly.

func ErrGateway(channel string, err error) *AppError {
	return Wrap("GW_001", fmt.Sprintf("%s gateway error", channel), http.StatusBadGateway, err)
}

func ErrRenderFailed(err error) *AppError {
	return Wrap("GW_002", "Certificate rendering failed", http.StatusBadGateway, err)
}

// ---- System (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
