// Package errors provides custom error types for the Trove API.
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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Card & deal errors.
var (
	ErrCardNotFound         = &AppError{Code: "CARD_NOT_FOUND", Message: "Card not found", StatusCode: http.StatusNotFound}
	ErrInvalidPAN           = &AppError{Code: "INVALID_PAN", Message: "Please enter a valid card number for verification", StatusCode: http.StatusBadRequest}
	ErrCardUnverified       = &AppError{Code: "CARD_UNVERIFIED", Message: "Card could not be verified", StatusCode: http.StatusUnprocessableEntity}
	ErrVerifierUnconfigured = &AppError{Code: "VERIFIER_UNCONFIGURED", Message: "Card verification is not configured", StatusCode: http.StatusServiceUnavailable}
)

// Goal errors.
var (
	ErrGoalNotFound = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
)

// Ingestion errors.
var (
	ErrExportNotFound = &AppError{Code: "EXPORT_NOT_FOUND", Message: "Transaction export file not found", StatusCode: http.StatusBadRequest}
	ErrSyncFailed     = &AppError{Code: "SYNC_FAILED", Message: "Transaction sync failed", StatusCode: http.StatusInternalServerError}
)

// Assistant errors.
var (
	ErrAnalysisUnavailable = &AppError{Code: "ANALYSIS_UNAVAILABLE", Message: "Spending analysis is currently unavailable", StatusCode: http.StatusServiceUnavailable}
	ErrEmptyMessage        = &AppError{Code: "EMPTY_MESSAGE", Message: "No message provided", StatusCode: http.StatusBadRequest}
)
