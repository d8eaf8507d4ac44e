package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetServerTokenByLookup retrieves a server token row by SHA-256 lookup hash.
// The caller still has to verify the bcrypt hash against the presented token.
// Returns ErrNotFound if the hash doesn't exist.
func (s *SQLiteStorage) GetServerTokenByLookup(ctx context.Context, lookupHash string) (*ServerToken, error) {
	var t ServerToken
	err := s.db.QueryRowContext(ctx,
		"SELECT username, lookup_hash, token_hash, created_at FROM server_tokens WHERE lookup_hash = ?",
		lookupHash).
		Scan(&t.Username, &t.LookupHash, &t.TokenHash, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get server token: %w", err)
	}
	return &t, nil
}

// RotateServerToken replaces the profile's server token hashes.
// Returns ErrNotFound if the profile has no token row.
func (s *SQLiteStorage) RotateServerToken(ctx context.Context, tok *ServerToken) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE server_tokens SET lookup_hash = ?, token_hash = ?, created_at = ? WHERE username = ?",
		tok.LookupHash, tok.TokenHash, tok.CreatedAt, tok.Username)
	if err != nil {
		return fmt.Errorf("failed to rotate server token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check token rotation: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
