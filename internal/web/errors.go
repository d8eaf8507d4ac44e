package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kiwimenu123/TACAC/internal/account"
	"github.com/kiwimenu123/TACAC/internal/storage"
)

// Standard error codes for API responses.
const (
	// ErrCodeInvalidRequest indicates a malformed request body.
	ErrCodeInvalidRequest = "invalid_request"

	// ErrCodePasswordMismatch indicates password and confirmation differ.
	ErrCodePasswordMismatch = "password_mismatch"

	// ErrCodePasswordTooShort indicates a password under the minimum length.
	ErrCodePasswordTooShort = "password_too_short"

	// ErrCodeUsernameTaken indicates the username is already registered.
	ErrCodeUsernameTaken = "username_taken"

	// ErrCodeInvalidLicense indicates an unknown license key.
	ErrCodeInvalidLicense = "invalid_license"

	// ErrCodeLicenseRedeemed indicates an already-used license key.
	ErrCodeLicenseRedeemed = "license_already_redeemed"

	// ErrCodeInvalidCredentials indicates a failed login.
	ErrCodeInvalidCredentials = "invalid_credentials"

	// ErrCodeUnauthorized indicates a missing or expired session/token.
	ErrCodeUnauthorized = "unauthorized"

	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"

	// ErrCodeIndexOutOfRange indicates a positional removal past the end.
	ErrCodeIndexOutOfRange = "index_out_of_range"

	// ErrCodeInternalError indicates a server error.
	ErrCodeInternalError = "internal_error"
)

// APIError is the standard error response format for JSON APIs.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response with the given status code, error code, and message.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := APIError{
		Error:   code,
		Message: message,
	}
	// Encoding errors are not critical since headers are already sent
	encErr := json.NewEncoder(w).Encode(resp)
	if encErr != nil {
		_ = encErr
	}
}

// writeServiceError maps service and storage errors to HTTP responses.
// The user-facing messages for registration and login mirror the dashboard's
// original wording.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrPasswordMismatch):
		WriteError(w, http.StatusBadRequest, ErrCodePasswordMismatch, "Passwords do not match!")
	case errors.Is(err, account.ErrPasswordTooShort):
		WriteError(w, http.StatusBadRequest, ErrCodePasswordTooShort, "Password must be at least 6 characters!")
	case errors.Is(err, account.ErrUsernameTaken):
		WriteError(w, http.StatusConflict, ErrCodeUsernameTaken, "Username already exists!")
	case errors.Is(err, account.ErrInvalidLicense):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidLicense, "Invalid license key!")
	case errors.Is(err, account.ErrLicenseAlreadyRedeemed):
		WriteError(w, http.StatusConflict, ErrCodeLicenseRedeemed, "This license key has already been redeemed!")
	case errors.Is(err, account.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid username or password!")
	case errors.Is(err, account.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid server token")
	case errors.Is(err, storage.ErrIndexOutOfRange):
		WriteError(w, http.StatusBadRequest, ErrCodeIndexOutOfRange, "Index out of range")
	case errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found")
	default:
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
	}
}
