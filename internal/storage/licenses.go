package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateLicenseKey inserts a new unused license key.
// Returns ErrDuplicate if the key already exists.
func (s *SQLiteStorage) CreateLicenseKey(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO license_keys (key, used, used_by) VALUES (?, 0, NULL)", key)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create license key: %w", err)
	}
	return nil
}

// GetLicenseKey retrieves a license key record.
// Returns ErrNotFound if the key doesn't exist.
func (s *SQLiteStorage) GetLicenseKey(ctx context.Context, key string) (*LicenseKey, error) {
	var (
		lk     LicenseKey
		usedBy sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT key, used, used_by FROM license_keys WHERE key = ?", key).
		Scan(&lk.Key, &lk.Used, &usedBy)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get license key: %w", err)
	}

	lk.UsedBy = usedBy.String
	return &lk, nil
}

// ListLicenseKeys returns all license keys in creation order.
func (s *SQLiteStorage) ListLicenseKeys(ctx context.Context) ([]*LicenseKey, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, used, used_by FROM license_keys ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query license keys: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	keys := make([]*LicenseKey, 0)
	for rows.Next() {
		var (
			lk     LicenseKey
			usedBy sql.NullString
		)
		if err := rows.Scan(&lk.Key, &lk.Used, &usedBy); err != nil {
			return nil, fmt.Errorf("failed to scan license key row: %w", err)
		}
		lk.UsedBy = usedBy.String
		keys = append(keys, &lk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating license keys: %w", err)
	}

	return keys, nil
}
