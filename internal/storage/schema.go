// Package storage handles all database operations for the TAC panel.
package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables and indexes.
// This is idempotent - safe to call multiple times.
func InitSchema(db *sql.DB) error {
	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	ddlStatements := []string{
		// license_keys table: single-use registration keys
		`CREATE TABLE IF NOT EXISTS license_keys (
			key TEXT PRIMARY KEY,
			used INTEGER NOT NULL DEFAULT 0,
			used_by TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// users table: one row per registered profile, settings inlined
		`CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			password_encrypted BLOB NOT NULL,
			server_name TEXT NOT NULL,
			license_key TEXT NOT NULL REFERENCES license_keys(key),
			created_at TIMESTAMP NOT NULL,
			godmode INTEGER NOT NULL DEFAULT 1,
			speedhack INTEGER NOT NULL DEFAULT 1,
			noclip INTEGER NOT NULL DEFAULT 1,
			weapons INTEGER NOT NULL DEFAULT 1,
			vehicles INTEGER NOT NULL DEFAULT 1,
			explosions INTEGER NOT NULL DEFAULT 1,
			injection INTEGER NOT NULL DEFAULT 1,
			teleport INTEGER NOT NULL DEFAULT 1,
			punishment_action TEXT NOT NULL DEFAULT 'kick',
			ban_duration INTEGER NOT NULL DEFAULT 7,
			discord_enabled INTEGER NOT NULL DEFAULT 0,
			discord_webhook TEXT NOT NULL DEFAULT ''
		)`,

		// bans table: seq preserves insertion order, id is the stable handle
		`CREATE TABLE IF NOT EXISTS bans (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			player_name TEXT NOT NULL,
			identifier TEXT NOT NULL,
			reason TEXT NOT NULL,
			expiry INTEGER NOT NULL DEFAULT 0,
			banned_by TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bans_username ON bans(username)`,

		`CREATE TABLE IF NOT EXISTS kicks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			player_name TEXT NOT NULL,
			reason TEXT NOT NULL,
			kicked_by TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_kicks_username ON kicks(username)`,

		`CREATE TABLE IF NOT EXISTS admins (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			name TEXT NOT NULL,
			identifier TEXT NOT NULL,
			role TEXT NOT NULL,
			added_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_admins_username ON admins(username)`,

		`CREATE TABLE IF NOT EXISTS whitelist (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			name TEXT NOT NULL,
			identifier TEXT NOT NULL,
			bypass TEXT NOT NULL,
			added_by TEXT NOT NULL,
			added_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_whitelist_username ON whitelist(username)`,

		`CREATE TABLE IF NOT EXISTS players (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			name TEXT NOT NULL,
			identifier TEXT NOT NULL,
			first_seen TIMESTAMP NOT NULL,
			last_seen TIMESTAMP NOT NULL,
			banned INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_username ON players(username)`,
		`CREATE INDEX IF NOT EXISTS idx_players_identifier ON players(username, identifier)`,

		`CREATE TABLE IF NOT EXISTS detections (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			player_name TEXT NOT NULL,
			type TEXT NOT NULL,
			details TEXT NOT NULL,
			action TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_username ON detections(username)`,

		// activity_log table: newest-first reads order by seq DESC
		`CREATE TABLE IF NOT EXISTS activity_log (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			type TEXT NOT NULL,
			message TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_username ON activity_log(username)`,

		// server_tokens table: ingest API credentials for the game-server runtime
		`CREATE TABLE IF NOT EXISTS server_tokens (
			username TEXT PRIMARY KEY REFERENCES users(username) ON DELETE CASCADE,
			lookup_hash TEXT NOT NULL UNIQUE,
			token_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_server_tokens_lookup ON server_tokens(lookup_hash)`,
	}

	for _, stmt := range ddlStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}

// defaultLicenseKey is the key the store is seeded with on first start.
const defaultLicenseKey = "123"

// SeedDefaults inserts the default unused license key if the table is empty.
func SeedDefaults(db *sql.DB) error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM license_keys").Scan(&n); err != nil {
		return fmt.Errorf("failed to count license keys: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.Exec("INSERT INTO license_keys (key, used, used_by) VALUES (?, 0, NULL)", defaultLicenseKey); err != nil {
		return fmt.Errorf("failed to seed license key: %w", err)
	}
	return nil
}
