// Package storage provides types and interfaces for SQLite persistence operations.
package storage

import (
	"context"
	"time"
)

// Storage defines the interface for SQLite persistence operations.
type Storage interface {
	// License key operations
	CreateLicenseKey(ctx context.Context, key string) error
	GetLicenseKey(ctx context.Context, key string) (*LicenseKey, error)
	ListLicenseKeys(ctx context.Context) ([]*LicenseKey, error)

	// Profile operations
	CreateProfile(ctx context.Context, p *Profile, tok *ServerToken) error
	GetProfile(ctx context.Context, username string) (*Profile, error)
	ProfileExists(ctx context.Context, username string) (bool, error)
	UpdateSettings(ctx context.Context, username string, st Settings) error

	// Ban operations
	AddBan(ctx context.Context, username string, b *Ban) error
	ListBans(ctx context.Context, username string) ([]*Ban, error)
	GetBan(ctx context.Context, username, id string) (*Ban, error)
	RemoveBan(ctx context.Context, username, id string) (*Ban, error)
	RemoveBanAt(ctx context.Context, username string, index int) (*Ban, error)

	// Kick operations
	AddKick(ctx context.Context, username string, k *Kick) error
	ListKicks(ctx context.Context, username string) ([]*Kick, error)
	RemoveKick(ctx context.Context, username, id string) (*Kick, error)
	RemoveKickAt(ctx context.Context, username string, index int) (*Kick, error)

	// Admin operations
	AddAdmin(ctx context.Context, username string, a *Admin) error
	ListAdmins(ctx context.Context, username string) ([]*Admin, error)
	RemoveAdmin(ctx context.Context, username, id string) (*Admin, error)
	RemoveAdminAt(ctx context.Context, username string, index int) (*Admin, error)

	// Whitelist operations
	AddWhitelist(ctx context.Context, username string, w *WhitelistEntry) error
	ListWhitelist(ctx context.Context, username string) ([]*WhitelistEntry, error)
	RemoveWhitelist(ctx context.Context, username, id string) (*WhitelistEntry, error)
	RemoveWhitelistAt(ctx context.Context, username string, index int) (*WhitelistEntry, error)

	// Player operations
	UpsertPlayer(ctx context.Context, username string, p *Player) error
	ListPlayers(ctx context.Context, username string) ([]*Player, error)
	MarkPlayerBanned(ctx context.Context, username, identifier string, banned bool) error
	RemovePlayer(ctx context.Context, username, id string) (*Player, error)
	RemovePlayerAt(ctx context.Context, username string, index int) (*Player, error)

	// Detection operations
	AddDetection(ctx context.Context, username string, d *Detection) error
	ListDetections(ctx context.Context, username string) ([]*Detection, error)

	// Activity log operations
	AppendActivity(ctx context.Context, username string, e *ActivityEntry) error
	ListActivity(ctx context.Context, username string, limit int) ([]*ActivityEntry, error)
	ClearActivity(ctx context.Context, username string) error

	// Server token operations
	GetServerTokenByLookup(ctx context.Context, lookupHash string) (*ServerToken, error)
	RotateServerToken(ctx context.Context, tok *ServerToken) error

	// Stats
	GetStats(ctx context.Context, username string, now time.Time) (*Stats, error)

	// SeedDemoData populates a fresh profile with sample data (dev only).
	SeedDemoData(ctx context.Context, username string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

var _ Storage = (*SQLiteStorage)(nil)
