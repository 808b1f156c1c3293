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

// ---- Trade Engine (TRD) ----

// ErrInsufficientInventory rejects a trade wanting more than the remaining
// allocation. The request is terminal; no state changes.
func ErrInsufficientInventory() *AppError {
	return New("TRD_001", "Not enough inventory for the requested tickets", http.StatusConflict)
}

// ErrInsufficientPayment rejects a trade whose payment is below the
// surcharge-inclusive price.
func ErrInsufficientPayment(required, given int64) *AppError {
	return New("TRD_002",
		fmt.Sprintf("Required payment is %d, but %d was given", required, given),
		http.StatusPaymentRequired)
}

// ErrUnknownItemClass signals a request that passed shape validation yet
// names a ticket class absent from the price table. This is a contract
// violation, not a business rejection.
func ErrUnknownItemClass(class string) *AppError {
	return New("TRD_003",
		fmt.Sprintf("Item class %q is not in the inventory", class),
		http.StatusInternalServerError)
}

// ErrInsufficientBalance rejects a credit draw-down at or above the stored
// balance.
func ErrInsufficientBalance() *AppError {
	return New("TRD_004", "Draw amount is not below the credit balance", http.StatusPaymentRequired)
}

// ErrCurrencyMismatch rejects a payment denominated in a currency other
// than the price table's.
func ErrCurrencyMismatch(want, got string) *AppError {
	return New("TRD_005",
		fmt.Sprintf("Payment currency must be %s, got %s", want, got),
		http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("TRD_006", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrBuyerSuspended() *AppError {
	return New("AUTH_004", "Buyer account is suspended", http.StatusForbidden)
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

// Validation returns a 400 validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
