package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application-level error with HTTP status code
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeNoWalletFound      = "no_wallet_found"
	ErrCodeInvalidPassword    = "invalid_password"
	ErrCodeWeakPassword       = "weak_password"
	ErrCodeExportUnavailable  = "export_unavailable"
	ErrCodeChainNotConfigured = "chain_not_configured"
	ErrCodeNoSecretUnlocked   = "no_secret_unlocked"
	ErrCodeInvalidToken       = "invalid_token"
	ErrCodeInvalidMnemonic    = "invalid_mnemonic"
	ErrCodeBalanceFetchFailed = "balance_fetch_failed"
	ErrCodePriceUnavailable   = "price_unavailable"
	ErrCodeUnlockAborted      = "unlock_aborted"
	ErrCodeBadRequest         = "bad_request"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeInternalError      = "internal_error"
)

// Predefined errors
var (
	ErrNoWalletFound = &AppError{
		Code:       ErrCodeNoWalletFound,
		Message:    "No wallet secret is stored",
		StatusCode: http.StatusNotFound,
	}

	ErrInvalidPassword = &AppError{
		Code:       ErrCodeInvalidPassword,
		Message:    "Decryption failed with the supplied password",
		StatusCode: http.StatusUnauthorized,
	}

	ErrWeakPassword = &AppError{
		Code:       ErrCodeWeakPassword,
		Message:    "Password must be at least 6 characters",
		StatusCode: http.StatusBadRequest,
	}

	ErrExportUnavailable = &AppError{
		Code:       ErrCodeExportUnavailable,
		Message:    "Secret is encrypted and no password is known",
		StatusCode: http.StatusConflict,
	}

	ErrNoSecretUnlocked = &AppError{
		Code:       ErrCodeNoSecretUnlocked,
		Message:    "Wallet is locked",
		StatusCode: http.StatusConflict,
	}

	ErrUnlockAborted = &AppError{
		Code:       ErrCodeUnlockAborted,
		Message:    "Unlock was cancelled",
		StatusCode: http.StatusConflict,
	}

	ErrInvalidMnemonic = &AppError{
		Code:       ErrCodeInvalidMnemonic,
		Message:    "Mnemonic phrase is not valid",
		StatusCode: http.StatusBadRequest,
	}

	ErrBadRequest = &AppError{
		Code:       ErrCodeBadRequest,
		Message:    "Invalid request parameters",
		StatusCode: http.StatusBadRequest,
	}

	ErrInternalError = &AppError{
		Code:       ErrCodeInternalError,
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewWithDetail creates a new AppError with additional detail
func NewWithDetail(code, message, detail string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Detail:     detail,
		StatusCode: statusCode,
	}
}

// WithDetail returns a copy of the error carrying additional detail. The
// predefined errors stay immutable.
func (e *AppError) WithDetail(detail string) *AppError {
	out := *e
	out.Detail = detail
	return &out
}

// ChainNotConfigured creates a chain not configured error
func ChainNotConfigured(chainID string) *AppError {
	return &AppError{
		Code:       ErrCodeChainNotConfigured,
		Message:    "Chain is not configured",
		Detail:     fmt.Sprintf("chain: %s", chainID),
		StatusCode: http.StatusNotFound,
	}
}

// InvalidToken creates an invalid token descriptor error
func InvalidToken(reason string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidToken,
		Message:    "Invalid token descriptor",
		Detail:     reason,
		StatusCode: http.StatusBadRequest,
	}
}

// BalanceFetchFailed creates a per-row balance fetch error.
// Non-fatal at report level: the aggregator records it and keeps going.
func BalanceFetchFailed(symbol string, err error) *AppError {
	return &AppError{
		Code:       ErrCodeBalanceFetchFailed,
		Message:    "Balance fetch failed",
		Detail:     fmt.Sprintf("asset: %s: %v", symbol, err),
		StatusCode: http.StatusBadGateway,
	}
}

// PriceUnavailable creates a price oracle unavailability error.
// Non-fatal: all USD values degrade to zero.
func PriceUnavailable(err error) *AppError {
	return &AppError{
		Code:       ErrCodePriceUnavailable,
		Message:    "Price oracle unavailable",
		Detail:     err.Error(),
		StatusCode: http.StatusBadGateway,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Code == code
}
