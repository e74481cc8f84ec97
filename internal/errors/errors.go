// Package errors provides custom error types for the Aidat API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Site errors.
var (
	ErrSiteNotFound = &AppError{Code: "SITE_NOT_FOUND", Message: "Site not found", StatusCode: http.StatusNotFound}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrAccountInactive = &AppError{Code: "ACCOUNT_INACTIVE", Message: "Account is deactivated and cannot receive new transactions", StatusCode: http.StatusBadRequest}
)

// Fiscal period errors.
var (
	ErrPeriodNotFound    = &AppError{Code: "PERIOD_NOT_FOUND", Message: "Fiscal period not found", StatusCode: http.StatusNotFound}
	ErrInvalidPeriodSpan = &AppError{Code: "INVALID_PERIOD_SPAN", Message: "Fiscal period end date must be after start date", StatusCode: http.StatusBadRequest}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrSameAccountTransfer    = &AppError{Code: "SAME_ACCOUNT_TRANSFER", Message: "Cannot transfer to the same account", StatusCode: http.StatusBadRequest}
	ErrTransferLegNotEditable = &AppError{Code: "TRANSFER_LEG_NOT_EDITABLE", Message: "Transfer legs must be deleted and re-created as a pair", StatusCode: http.StatusBadRequest}
	ErrMissingTransferRate    = &AppError{Code: "MISSING_TRANSFER_RATE", Message: "A conversion rate is required when account currencies differ", StatusCode: http.StatusBadRequest}
)

// Unit errors.
var (
	ErrUnitNotFound            = &AppError{Code: "UNIT_NOT_FOUND", Message: "Unit not found", StatusCode: http.StatusNotFound}
	ErrDueNotFound             = &AppError{Code: "DUE_NOT_FOUND", Message: "Due item not found", StatusCode: http.StatusNotFound}
	ErrPaymentNotFound         = &AppError{Code: "PAYMENT_NOT_FOUND", Message: "Payment not found", StatusCode: http.StatusNotFound}
	ErrPaymentCurrencyMismatch = &AppError{Code: "PAYMENT_CURRENCY_MISMATCH", Message: "Payment currency must match the receiving account's currency", StatusCode: http.StatusBadRequest}
)
