package storage

import "time"

// Settings holds the per-profile anti-cheat configuration toggles.
type Settings struct {
	Godmode          bool
	Speedhack        bool
	Noclip           bool
	Weapons          bool
	Vehicles         bool
	Explosions       bool
	Injection        bool
	Teleport         bool
	PunishmentAction string // "kick", "ban" or "warn"
	BanDuration      int    // days, 0 = permanent
	DiscordEnabled   bool
	DiscordWebhook   string
}

// DefaultSettings returns the settings a freshly registered profile starts with.
func DefaultSettings() Settings {
	return Settings{
		Godmode:          true,
		Speedhack:        true,
		Noclip:           true,
		Weapons:          true,
		Vehicles:         true,
		Explosions:       true,
		Injection:        true,
		Teleport:         true,
		PunishmentAction: "kick",
		BanDuration:      7,
		DiscordEnabled:   false,
		DiscordWebhook:   "",
	}
}

// Profile is the complete persisted record for one registered account.
// Password is the decrypted plaintext; it is stored AES-256-GCM encrypted.
type Profile struct {
	Username   string
	Email      string
	Password   string
	ServerName string
	LicenseKey string
	CreatedAt  time.Time
	Settings   Settings

	Bans       []*Ban
	Kicks      []*Kick
	Admins     []*Admin
	Whitelist  []*WhitelistEntry
	Players    []*Player
	Detections []*Detection
	Activity   []*ActivityEntry
}

// LicenseKey is a single-use token gating registration.
type LicenseKey struct {
	Key    string
	Used   bool
	UsedBy string // empty until redeemed
}

// Ban records a banned player. ID is a stable opaque identifier assigned at
// creation time so callers never address entries by position.
type Ban struct {
	ID         string
	PlayerName string
	Identifier string
	Reason     string
	Expiry     int // days, 0 = permanent
	BannedBy   string
	Timestamp  time.Time
}

// Kick records a kicked player.
type Kick struct {
	ID         string
	PlayerName string
	Reason     string
	KickedBy   string
	Timestamp  time.Time
}

// Admin is an admin identifier entry rendered into the config artifact.
type Admin struct {
	ID         string
	Name       string
	Identifier string
	Role       string // "moderator", "admin" or "superadmin"
	AddedAt    time.Time
}

// WhitelistEntry grants a player a detection bypass capability.
type WhitelistEntry struct {
	ID         string
	Name       string
	Identifier string
	Bypass     string
	AddedBy    string
	AddedAt    time.Time
}

// Player is a tracked player on the protected server.
type Player struct {
	ID         string
	Name       string
	Identifier string
	FirstSeen  time.Time
	LastSeen   time.Time
	Banned     bool
}

// Detection is a logged suspected rule violation.
type Detection struct {
	ID         string
	PlayerName string
	Type       string // godmode, speedhack, noclip, weapon, vehicle, explosion, injection, teleport
	Details    string
	Action     string // "ban", "kick" or "warn"
	Timestamp  time.Time
}

// ActivityEntry is one line of the recency-ordered account audit trail.
type ActivityEntry struct {
	ID        string
	Type      string
	Message   string
	Timestamp time.Time
}

// ServerToken authenticates the game-server runtime against the ingest API.
// The plain token is shown once at registration; only hashes are stored.
type ServerToken struct {
	Username   string
	LookupHash string // SHA-256, used to find the row
	TokenHash  string // bcrypt, used to verify
	CreatedAt  time.Time
}

// Stats aggregates the dashboard overview counters.
type Stats struct {
	Players          int
	Bans             int
	Kicks            int
	Admins           int
	DetectionsToday  int
	DetectionsByType map[string]int
}
