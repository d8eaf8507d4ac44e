package storage

import "errors"

var (
	// ErrInvalidKey is returned when an encryption key is not 32 bytes.
	ErrInvalidKey = errors.New("encryption key must be 32 bytes")

	// ErrDecryption is returned when decryption fails due to wrong key or corrupted data.
	ErrDecryption = errors.New("decryption failed: wrong key or corrupted data")

	// ErrDuplicate is returned when attempting to create a resource that already exists.
	ErrDuplicate = errors.New("resource already exists")

	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrLicenseUsed is returned when a license key has already been redeemed.
	ErrLicenseUsed = errors.New("license key already redeemed")

	// ErrIndexOutOfRange is returned when a positional removal addresses an
	// index at or beyond the collection length.
	ErrIndexOutOfRange = errors.New("index out of range")
)
