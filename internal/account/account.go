// Package account implements the profile store service: registration with
// single-use license redemption, authentication, settings and the moderation
// collections with their audit trail.
package account

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiwimenu123/TACAC/internal/storage"
)

// minPasswordLen is the minimum accepted password length.
const minPasswordLen = 6

// Event is a moderation event forwarded to the profile's Discord webhook.
type Event struct {
	Title       string
	Description string
	Color       int
}

// Notifier delivers moderation events to an external channel.
type Notifier interface {
	Send(ctx context.Context, webhookURL string, ev Event) error
}

// Service is the profile store service. All dashboard and ingest operations
// go through it; nothing mutates profiles behind its back.
type Service struct {
	store    storage.Storage
	sessions *SessionStore
	notifier Notifier
	logger   *slog.Logger
	demoSeed bool
}

// NewService creates the account service. notifier may be nil to disable
// outbound notifications.
func NewService(store storage.Storage, sessions *SessionStore, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		sessions: sessions,
		notifier: notifier,
		logger:   logger,
	}
}

// EnableDemoSeed makes Register populate new profiles with sample
// players and detections. For development setups only.
func (s *Service) EnableDemoSeed() {
	s.demoSeed = true
}

// Sessions exposes the session store for the HTTP layer's middleware.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	ServerName      string
	LicenseKey      string
}

// Register validates the request, creates the profile and redeems the
// license key atomically. The checks run in a fixed order and the first
// failure wins; no state is touched unless all of them pass.
//
// Returns the created profile and the plaintext server token for the ingest
// API. The token is shown once and only its hashes are stored.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*storage.Profile, string, error) {
	if req.Password != req.ConfirmPassword {
		return nil, "", ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLen {
		return nil, "", ErrPasswordTooShort
	}

	token, err := generateServerToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate server token: %w", err)
	}
	tokenHash, err := storage.HashToken(token)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash server token: %w", err)
	}

	now := time.Now().UTC()
	profile := &storage.Profile{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		ServerName: req.ServerName,
		LicenseKey: req.LicenseKey,
		CreatedAt:  now,
		Settings:   storage.DefaultSettings(),
	}
	tok := &storage.ServerToken{
		Username:   req.Username,
		LookupHash: storage.LookupHash(token),
		TokenHash:  tokenHash,
		CreatedAt:  now,
	}

	if err := s.store.CreateProfile(ctx, profile, tok); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			return nil, "", ErrUsernameTaken
		case errors.Is(err, storage.ErrNotFound):
			return nil, "", ErrInvalidLicense
		case errors.Is(err, storage.ErrLicenseUsed):
			return nil, "", ErrLicenseAlreadyRedeemed
		default:
			return nil, "", err
		}
	}

	if s.demoSeed {
		if err := s.store.SeedDemoData(ctx, req.Username); err != nil {
			s.logger.Warn("failed to seed demo data", "username", req.Username, "error", err)
		}
	}

	s.logger.Info("profile registered", "username", req.Username, "server", req.ServerName)
	return profile, token, nil
}

// Authenticate checks the credentials, records the login in the activity log
// and opens a session. Fails with ErrInvalidCredentials for both unknown
// usernames and wrong passwords.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	profile, err := s.store.GetProfile(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(profile.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	// Record the login before opening the session so a failed audit write
	// never leaves a live session behind.
	if err := s.appendActivity(ctx, username, "login", "User logged in"); err != nil {
		return nil, err
	}

	session, err := s.sessions.CreateSession(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("login successful", "username", username)
	return session, nil
}

// Logout invalidates a session. Unknown session IDs are a no-op.
func (s *Service) Logout(ctx context.Context, sessionID string) {
	s.sessions.DeleteSession(ctx, sessionID)
}

// Profile loads the full profile record.
func (s *Service) Profile(ctx context.Context, username string) (*storage.Profile, error) {
	return s.store.GetProfile(ctx, username)
}

// Stats aggregates the dashboard overview counters.
func (s *Service) Stats(ctx context.Context, username string) (*storage.Stats, error) {
	return s.store.GetStats(ctx, username, time.Now().UTC())
}

// UpdateSettings replaces the profile's settings and records the change.
func (s *Service) UpdateSettings(ctx context.Context, username string, st storage.Settings) error {
	if err := s.store.UpdateSettings(ctx, username, st); err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "settings", "Settings updated")
}

// AddBan records a ban, marks any tracked player with the same identifier as
// banned, writes the audit entry and notifies Discord when enabled.
func (s *Service) AddBan(ctx context.Context, username string, b *storage.Ban) error {
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now().UTC()
	}
	if b.BannedBy == "" {
		b.BannedBy = username
	}

	if err := s.store.AddBan(ctx, username, b); err != nil {
		return err
	}
	if err := s.store.MarkPlayerBanned(ctx, username, b.Identifier, true); err != nil {
		return err
	}
	if err := s.appendActivity(ctx, username, "ban",
		fmt.Sprintf("Banned: %s - %s", b.PlayerName, b.Reason)); err != nil {
		return err
	}

	s.notify(ctx, username, Event{
		Title:       "Player Banned",
		Description: fmt.Sprintf("%s was banned: %s", b.PlayerName, b.Reason),
		Color:       0xE74C3C,
	})
	return nil
}

// Unban removes a ban by its stable ID and clears the tracked player's
// banned flag.
func (s *Service) Unban(ctx context.Context, username, id string) error {
	b, err := s.store.RemoveBan(ctx, username, id)
	if err != nil {
		return err
	}
	return s.finishUnban(ctx, username, b)
}

// UnbanAt removes the ban at the given position in insertion order.
func (s *Service) UnbanAt(ctx context.Context, username string, index int) error {
	b, err := s.store.RemoveBanAt(ctx, username, index)
	if err != nil {
		return err
	}
	return s.finishUnban(ctx, username, b)
}

func (s *Service) finishUnban(ctx context.Context, username string, b *storage.Ban) error {
	if err := s.store.MarkPlayerBanned(ctx, username, b.Identifier, false); err != nil {
		return err
	}
	if err := s.appendActivity(ctx, username, "unban",
		fmt.Sprintf("Unbanned: %s", b.PlayerName)); err != nil {
		return err
	}
	s.notify(ctx, username, Event{
		Title:       "Player Unbanned",
		Description: fmt.Sprintf("%s was unbanned", b.PlayerName),
		Color:       0x2ECC71,
	})
	return nil
}

// AddAdmin appends an admin entry and records the change.
func (s *Service) AddAdmin(ctx context.Context, username string, a *storage.Admin) error {
	if a.AddedAt.IsZero() {
		a.AddedAt = time.Now().UTC()
	}
	if err := s.store.AddAdmin(ctx, username, a); err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "admin_add",
		fmt.Sprintf("Added admin: %s (%s)", a.Name, a.Role))
}

// RemoveAdmin removes an admin entry by its stable ID.
func (s *Service) RemoveAdmin(ctx context.Context, username, id string) error {
	a, err := s.store.RemoveAdmin(ctx, username, id)
	if err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "admin_remove",
		fmt.Sprintf("Removed admin: %s", a.Name))
}

// RemoveAdminAt removes the admin at the given position in insertion order.
func (s *Service) RemoveAdminAt(ctx context.Context, username string, index int) error {
	a, err := s.store.RemoveAdminAt(ctx, username, index)
	if err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "admin_remove",
		fmt.Sprintf("Removed admin: %s", a.Name))
}

// AddWhitelist appends a whitelist entry and records the change.
func (s *Service) AddWhitelist(ctx context.Context, username string, w *storage.WhitelistEntry) error {
	if w.AddedAt.IsZero() {
		w.AddedAt = time.Now().UTC()
	}
	if w.AddedBy == "" {
		w.AddedBy = username
	}
	if err := s.store.AddWhitelist(ctx, username, w); err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "whitelist_add",
		fmt.Sprintf("Whitelisted: %s (%s)", w.Name, w.Bypass))
}

// RemoveWhitelist removes a whitelist entry by its stable ID.
func (s *Service) RemoveWhitelist(ctx context.Context, username, id string) error {
	w, err := s.store.RemoveWhitelist(ctx, username, id)
	if err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "whitelist_remove",
		fmt.Sprintf("Removed from whitelist: %s", w.Name))
}

// RemoveWhitelistAt removes the whitelist entry at the given position.
func (s *Service) RemoveWhitelistAt(ctx context.Context, username string, index int) error {
	w, err := s.store.RemoveWhitelistAt(ctx, username, index)
	if err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "whitelist_remove",
		fmt.Sprintf("Removed from whitelist: %s", w.Name))
}

// RemovePlayer drops a tracked player by its stable ID.
func (s *Service) RemovePlayer(ctx context.Context, username, id string) error {
	p, err := s.store.RemovePlayer(ctx, username, id)
	if err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "player_remove",
		fmt.Sprintf("Removed player: %s", p.Name))
}

// RemovePlayerAt drops the tracked player at the given position.
func (s *Service) RemovePlayerAt(ctx context.Context, username string, index int) error {
	p, err := s.store.RemovePlayerAt(ctx, username, index)
	if err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "player_remove",
		fmt.Sprintf("Removed player: %s", p.Name))
}

// TrackPlayer records a player sighting reported by the game server.
func (s *Service) TrackPlayer(ctx context.Context, username string, p *storage.Player) error {
	now := time.Now().UTC()
	if p.FirstSeen.IsZero() {
		p.FirstSeen = now
	}
	if p.LastSeen.IsZero() {
		p.LastSeen = now
	}
	return s.store.UpsertPlayer(ctx, username, p)
}

// RecordKick stores a kick reported by the game server.
func (s *Service) RecordKick(ctx context.Context, username string, k *storage.Kick) error {
	if k.Timestamp.IsZero() {
		k.Timestamp = time.Now().UTC()
	}
	if k.KickedBy == "" {
		k.KickedBy = "TAC"
	}
	if err := s.store.AddKick(ctx, username, k); err != nil {
		return err
	}
	if err := s.appendActivity(ctx, username, "kick",
		fmt.Sprintf("Kicked: %s - %s", k.PlayerName, k.Reason)); err != nil {
		return err
	}
	s.notify(ctx, username, Event{
		Title:       "Player Kicked",
		Description: fmt.Sprintf("%s was kicked: %s", k.PlayerName, k.Reason),
		Color:       0xE67E22,
	})
	return nil
}

// RemoveKick deletes a kick record by its stable ID.
func (s *Service) RemoveKick(ctx context.Context, username, id string) error {
	k, err := s.store.RemoveKick(ctx, username, id)
	if err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "kick_remove",
		fmt.Sprintf("Removed kick: %s", k.PlayerName))
}

// RemoveKickAt deletes the kick record at the given position in insertion order.
func (s *Service) RemoveKickAt(ctx context.Context, username string, index int) error {
	k, err := s.store.RemoveKickAt(ctx, username, index)
	if err != nil {
		return err
	}
	return s.appendActivity(ctx, username, "kick_remove",
		fmt.Sprintf("Removed kick: %s", k.PlayerName))
}

// RecordDetection stores a detection reported by the game server.
func (s *Service) RecordDetection(ctx context.Context, username string, d *storage.Detection) error {
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}
	if err := s.store.AddDetection(ctx, username, d); err != nil {
		return err
	}
	if err := s.appendActivity(ctx, username, "detection",
		fmt.Sprintf("Detection: %s - %s", d.Type, d.PlayerName)); err != nil {
		return err
	}
	s.notify(ctx, username, Event{
		Title:       "Cheat Detected",
		Description: fmt.Sprintf("%s: %s (%s)", d.PlayerName, d.Type, d.Details),
		Color:       0x9B59B6,
	})
	return nil
}

// Activity returns the newest audit entries first.
func (s *Service) Activity(ctx context.Context, username string, limit int) ([]*storage.ActivityEntry, error) {
	return s.store.ListActivity(ctx, username, limit)
}

// ClearActivity wipes the profile's audit trail.
func (s *Service) ClearActivity(ctx context.Context, username string) error {
	return s.store.ClearActivity(ctx, username)
}

// VerifyServerToken authenticates a game-server ingest token and returns the
// owning username. Lookup is by SHA-256, verification by bcrypt.
func (s *Service) VerifyServerToken(ctx context.Context, token string) (string, error) {
	tok, err := s.store.GetServerTokenByLookup(ctx, storage.LookupHash(token))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if err := storage.VerifyToken(token, tok.TokenHash); err != nil {
		return "", ErrInvalidToken
	}
	return tok.Username, nil
}

// RotateServerToken issues a fresh ingest token for the profile, invalidating
// the previous one. Returns the new plaintext token.
func (s *Service) RotateServerToken(ctx context.Context, username string) (string, error) {
	token, err := generateServerToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate server token: %w", err)
	}
	tokenHash, err := storage.HashToken(token)
	if err != nil {
		return "", fmt.Errorf("failed to hash server token: %w", err)
	}
	err = s.store.RotateServerToken(ctx, &storage.ServerToken{
		Username:   username,
		LookupHash: storage.LookupHash(token),
		TokenHash:  tokenHash,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("server token rotated", "username", username)
	return token, nil
}

func (s *Service) appendActivity(ctx context.Context, username, typ, message string) error {
	return s.store.AppendActivity(ctx, username, &storage.ActivityEntry{
		Type:      typ,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// notify forwards an event to the profile's webhook when Discord integration
// is enabled. Delivery failures are logged, never propagated.
func (s *Service) notify(ctx context.Context, username string, ev Event) {
	if s.notifier == nil {
		return
	}
	profile, err := s.store.GetProfile(ctx, username)
	if err != nil {
		s.logger.Warn("notify: failed to load profile", "username", username, "error", err)
		return
	}
	if !profile.Settings.DiscordEnabled || profile.Settings.DiscordWebhook == "" {
		return
	}
	if err := s.notifier.Send(ctx, profile.Settings.DiscordWebhook, ev); err != nil {
		s.logger.Warn("notify: webhook delivery failed", "username", username, "error", err)
	}
}

// generateServerToken returns a random 48-hex-char token with a fixed prefix
// so leaked tokens are recognizable in logs and scanners.
func generateServerToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "tac_" + hex.EncodeToString(b), nil
}
