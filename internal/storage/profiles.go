package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateProfile registers a new profile, redeems its license key and stores
// the hashed server token, all in one transaction. Nothing is written unless
// every check passes.
//
// Returns ErrDuplicate if the username is taken, ErrNotFound if the license
// key doesn't exist and ErrLicenseUsed if it was already redeemed.
func (s *SQLiteStorage) CreateProfile(ctx context.Context, p *Profile, tok *ServerToken) error {
	encrypted, err := EncryptSecret(p.Password, s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Username check first, then license key, matching the validation order
	// surfaced to the user.
	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?", p.Username).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists > 0 {
		return ErrDuplicate
	}

	var used bool
	err = tx.QueryRowContext(ctx,
		"SELECT used FROM license_keys WHERE key = ?", p.LicenseKey).Scan(&used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check license key: %w", err)
	}
	if used {
		return ErrLicenseUsed
	}

	st := p.Settings
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (
			username, email, password_encrypted, server_name, license_key, created_at,
			godmode, speedhack, noclip, weapons, vehicles, explosions, injection, teleport,
			punishment_action, ban_duration, discord_enabled, discord_webhook
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Username, p.Email, encrypted, p.ServerName, p.LicenseKey, p.CreatedAt,
		st.Godmode, st.Speedhack, st.Noclip, st.Weapons, st.Vehicles, st.Explosions,
		st.Injection, st.Teleport,
		st.PunishmentAction, st.BanDuration, st.DiscordEnabled, st.DiscordWebhook)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE license_keys SET used = 1, used_by = ? WHERE key = ? AND used = 0",
		p.Username, p.LicenseKey)
	if err != nil {
		return fmt.Errorf("failed to redeem license key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check license redemption: %w", err)
	}
	if n != 1 {
		return ErrLicenseUsed
	}

	if tok != nil {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO server_tokens (username, lookup_hash, token_hash, created_at) VALUES (?, ?, ?, ?)",
			tok.Username, tok.LookupHash, tok.TokenHash, tok.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to store server token: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

// GetProfile loads a profile with its settings and all sub-collections.
// Returns ErrNotFound if the username doesn't exist.
func (s *SQLiteStorage) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var (
		p         Profile
		encrypted []byte
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT username, email, password_encrypted, server_name, license_key, created_at,
			godmode, speedhack, noclip, weapons, vehicles, explosions, injection, teleport,
			punishment_action, ban_duration, discord_enabled, discord_webhook
		FROM users WHERE username = ?`, username).
		Scan(&p.Username, &p.Email, &encrypted, &p.ServerName, &p.LicenseKey, &p.CreatedAt,
			&p.Settings.Godmode, &p.Settings.Speedhack, &p.Settings.Noclip,
			&p.Settings.Weapons, &p.Settings.Vehicles, &p.Settings.Explosions,
			&p.Settings.Injection, &p.Settings.Teleport,
			&p.Settings.PunishmentAction, &p.Settings.BanDuration,
			&p.Settings.DiscordEnabled, &p.Settings.DiscordWebhook)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Password, err = DecryptSecret(encrypted, s.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt password: %w", err)
	}

	if p.Bans, err = s.ListBans(ctx, username); err != nil {
		return nil, err
	}
	if p.Kicks, err = s.ListKicks(ctx, username); err != nil {
		return nil, err
	}
	if p.Admins, err = s.ListAdmins(ctx, username); err != nil {
		return nil, err
	}
	if p.Whitelist, err = s.ListWhitelist(ctx, username); err != nil {
		return nil, err
	}
	if p.Players, err = s.ListPlayers(ctx, username); err != nil {
		return nil, err
	}
	if p.Detections, err = s.ListDetections(ctx, username); err != nil {
		return nil, err
	}
	if p.Activity, err = s.ListActivity(ctx, username, 0); err != nil {
		return nil, err
	}

	return &p, nil
}

// ProfileExists reports whether a username is registered.
func (s *SQLiteStorage) ProfileExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return n > 0, nil
}

// UpdateSettings replaces a profile's settings.
// Returns ErrNotFound if the username doesn't exist.
func (s *SQLiteStorage) UpdateSettings(ctx context.Context, username string, st Settings) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET
			godmode = ?, speedhack = ?, noclip = ?, weapons = ?,
			vehicles = ?, explosions = ?, injection = ?, teleport = ?,
			punishment_action = ?, ban_duration = ?, discord_enabled = ?, discord_webhook = ?
		WHERE username = ?`,
		st.Godmode, st.Speedhack, st.Noclip, st.Weapons,
		st.Vehicles, st.Explosions, st.Injection, st.Teleport,
		st.PunishmentAction, st.BanDuration, st.DiscordEnabled, st.DiscordWebhook,
		username)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check settings update: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
