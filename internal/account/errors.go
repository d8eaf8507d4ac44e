package account

import "errors"

// Registration failures, in the order the checks run.
var (
	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrPasswordTooShort indicates a password under 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidLicense indicates the license key doesn't exist.
	ErrInvalidLicense = errors.New("invalid license key")

	// ErrLicenseAlreadyRedeemed indicates the license key was already used.
	ErrLicenseAlreadyRedeemed = errors.New("license key has already been redeemed")
)

// ErrInvalidCredentials is returned on login failure. Unknown username and
// wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned when a server token fails verification.
var ErrInvalidToken = errors.New("invalid server token")
