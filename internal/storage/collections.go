package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Collection entries are appended in insertion order (seq ASC) and addressed
// by a stable UUID assigned at creation. Positional removal resolves the
// index against the current insertion order and then deletes by UUID, so a
// stale index can never silently delete the wrong entry across processes
// holding the same ID.

// AddBan appends a ban to the profile's ban list.
// Assigns the entry a UUID if none is set.
func (s *SQLiteStorage) AddBan(ctx context.Context, username string, b *Ban) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bans (id, username, player_name, identifier, reason, expiry, banned_by, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, username, b.PlayerName, b.Identifier, b.Reason, b.Expiry, b.BannedBy, b.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to add ban: %w", err)
	}
	return nil
}

// ListBans returns a profile's bans in insertion order.
func (s *SQLiteStorage) ListBans(ctx context.Context, username string) ([]*Ban, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_name, identifier, reason, expiry, banned_by, timestamp
		FROM bans WHERE username = ? ORDER BY seq`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query bans: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	bans := make([]*Ban, 0)
	for rows.Next() {
		var b Ban
		if err := rows.Scan(&b.ID, &b.PlayerName, &b.Identifier, &b.Reason,
			&b.Expiry, &b.BannedBy, &b.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan ban row: %w", err)
		}
		bans = append(bans, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bans: %w", err)
	}
	return bans, nil
}

// GetBan retrieves a ban by its stable ID.
// Returns ErrNotFound if no such entry exists for the profile.
func (s *SQLiteStorage) GetBan(ctx context.Context, username, id string) (*Ban, error) {
	var b Ban
	err := s.db.QueryRowContext(ctx,
		`SELECT id, player_name, identifier, reason, expiry, banned_by, timestamp
		FROM bans WHERE username = ? AND id = ?`, username, id).
		Scan(&b.ID, &b.PlayerName, &b.Identifier, &b.Reason, &b.Expiry, &b.BannedBy, &b.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ban: %w", err)
	}
	return &b, nil
}

// RemoveBan deletes a ban by its stable ID and returns the removed entry.
func (s *SQLiteStorage) RemoveBan(ctx context.Context, username, id string) (*Ban, error) {
	b, err := s.GetBan(ctx, username, id)
	if err != nil {
		return nil, err
	}
	if err := s.deleteByID(ctx, "bans", username, id); err != nil {
		return nil, err
	}
	return b, nil
}

// RemoveBanAt deletes the ban at the given position in insertion order.
// Returns ErrIndexOutOfRange if index >= current length; the list is left
// unchanged in that case.
func (s *SQLiteStorage) RemoveBanAt(ctx context.Context, username string, index int) (*Ban, error) {
	id, err := s.idAtIndex(ctx, "bans", username, index)
	if err != nil {
		return nil, err
	}
	return s.RemoveBan(ctx, username, id)
}

// AddKick appends a kick record to the profile's kick history.
func (s *SQLiteStorage) AddKick(ctx context.Context, username string, k *Kick) error {
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kicks (id, username, player_name, reason, kicked_by, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		k.ID, username, k.PlayerName, k.Reason, k.KickedBy, k.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to add kick: %w", err)
	}
	return nil
}

// ListKicks returns a profile's kicks in insertion order.
func (s *SQLiteStorage) ListKicks(ctx context.Context, username string) ([]*Kick, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_name, reason, kicked_by, timestamp
		FROM kicks WHERE username = ? ORDER BY seq`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query kicks: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	kicks := make([]*Kick, 0)
	for rows.Next() {
		var k Kick
		if err := rows.Scan(&k.ID, &k.PlayerName, &k.Reason, &k.KickedBy, &k.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan kick row: %w", err)
		}
		kicks = append(kicks, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kicks: %w", err)
	}
	return kicks, nil
}

// RemoveKick deletes a kick record by its stable ID and returns the removed
// entry. Returns ErrNotFound if no such entry exists for the profile.
func (s *SQLiteStorage) RemoveKick(ctx context.Context, username, id string) (*Kick, error) {
	var k Kick
	err := s.db.QueryRowContext(ctx,
		`SELECT id, player_name, reason, kicked_by, timestamp
		FROM kicks WHERE username = ? AND id = ?`, username, id).
		Scan(&k.ID, &k.PlayerName, &k.Reason, &k.KickedBy, &k.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get kick: %w", err)
	}
	if err := s.deleteByID(ctx, "kicks", username, id); err != nil {
		return nil, err
	}
	return &k, nil
}

// RemoveKickAt deletes the kick at the given position in insertion order.
func (s *SQLiteStorage) RemoveKickAt(ctx context.Context, username string, index int) (*Kick, error) {
	id, err := s.idAtIndex(ctx, "kicks", username, index)
	if err != nil {
		return nil, err
	}
	return s.RemoveKick(ctx, username, id)
}

// AddAdmin appends an admin entry.
func (s *SQLiteStorage) AddAdmin(ctx context.Context, username string, a *Admin) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (id, username, name, identifier, role, added_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, username, a.Name, a.Identifier, a.Role, a.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}
	return nil
}

// ListAdmins returns a profile's admins in insertion order.
func (s *SQLiteStorage) ListAdmins(ctx context.Context, username string) ([]*Admin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, identifier, role, added_at
		FROM admins WHERE username = ? ORDER BY seq`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	admins := make([]*Admin, 0)
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.Name, &a.Identifier, &a.Role, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin row: %w", err)
		}
		admins = append(admins, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}
	return admins, nil
}

// RemoveAdmin deletes an admin entry by its stable ID and returns it.
func (s *SQLiteStorage) RemoveAdmin(ctx context.Context, username, id string) (*Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, identifier, role, added_at
		FROM admins WHERE username = ? AND id = ?`, username, id).
		Scan(&a.ID, &a.Name, &a.Identifier, &a.Role, &a.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if err := s.deleteByID(ctx, "admins", username, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// RemoveAdminAt deletes the admin at the given position in insertion order.
func (s *SQLiteStorage) RemoveAdminAt(ctx context.Context, username string, index int) (*Admin, error) {
	id, err := s.idAtIndex(ctx, "admins", username, index)
	if err != nil {
		return nil, err
	}
	return s.RemoveAdmin(ctx, username, id)
}

// AddWhitelist appends a whitelist entry.
func (s *SQLiteStorage) AddWhitelist(ctx context.Context, username string, w *WhitelistEntry) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO whitelist (id, username, name, identifier, bypass, added_by, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, username, w.Name, w.Identifier, w.Bypass, w.AddedBy, w.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add whitelist entry: %w", err)
	}
	return nil
}

// ListWhitelist returns a profile's whitelist in insertion order.
func (s *SQLiteStorage) ListWhitelist(ctx context.Context, username string) ([]*WhitelistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, identifier, bypass, added_by, added_at
		FROM whitelist WHERE username = ? ORDER BY seq`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query whitelist: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	entries := make([]*WhitelistEntry, 0)
	for rows.Next() {
		var w WhitelistEntry
		if err := rows.Scan(&w.ID, &w.Name, &w.Identifier, &w.Bypass, &w.AddedBy, &w.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan whitelist row: %w", err)
		}
		entries = append(entries, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating whitelist: %w", err)
	}
	return entries, nil
}

// RemoveWhitelist deletes a whitelist entry by its stable ID and returns it.
func (s *SQLiteStorage) RemoveWhitelist(ctx context.Context, username, id string) (*WhitelistEntry, error) {
	var w WhitelistEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, identifier, bypass, added_by, added_at
		FROM whitelist WHERE username = ? AND id = ?`, username, id).
		Scan(&w.ID, &w.Name, &w.Identifier, &w.Bypass, &w.AddedBy, &w.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get whitelist entry: %w", err)
	}
	if err := s.deleteByID(ctx, "whitelist", username, id); err != nil {
		return nil, err
	}
	return &w, nil
}

// RemoveWhitelistAt deletes the whitelist entry at the given position.
func (s *SQLiteStorage) RemoveWhitelistAt(ctx context.Context, username string, index int) (*WhitelistEntry, error) {
	id, err := s.idAtIndex(ctx, "whitelist", username, index)
	if err != nil {
		return nil, err
	}
	return s.RemoveWhitelist(ctx, username, id)
}

// UpsertPlayer creates or refreshes a tracked player keyed by identifier.
// An existing row keeps its FirstSeen and gets LastSeen updated.
func (s *SQLiteStorage) UpsertPlayer(ctx context.Context, username string, p *Player) error {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM players WHERE username = ? AND identifier = ?",
		username, p.Identifier).Scan(&id)
	if err == nil {
		p.ID = id
		_, err = s.db.ExecContext(ctx,
			"UPDATE players SET name = ?, last_seen = ? WHERE id = ?",
			p.Name, p.LastSeen, id)
		if err != nil {
			return fmt.Errorf("failed to update player: %w", err)
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up player: %w", err)
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (id, username, name, identifier, first_seen, last_seen, banned)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, username, p.Name, p.Identifier, p.FirstSeen, p.LastSeen, p.Banned)
	if err != nil {
		return fmt.Errorf("failed to add player: %w", err)
	}
	return nil
}

// ListPlayers returns a profile's tracked players in insertion order.
func (s *SQLiteStorage) ListPlayers(ctx context.Context, username string) ([]*Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, identifier, first_seen, last_seen, banned
		FROM players WHERE username = ? ORDER BY seq`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	players := make([]*Player, 0)
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Identifier, &p.FirstSeen, &p.LastSeen, &p.Banned); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// MarkPlayerBanned flips the banned flag on every tracked player matching the
// identifier. A ban for an untracked identifier is not an error.
func (s *SQLiteStorage) MarkPlayerBanned(ctx context.Context, username, identifier string, banned bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE players SET banned = ? WHERE username = ? AND identifier = ?",
		banned, username, identifier)
	if err != nil {
		return fmt.Errorf("failed to mark player banned: %w", err)
	}
	return nil
}

// RemovePlayer deletes a tracked player by its stable ID and returns it.
func (s *SQLiteStorage) RemovePlayer(ctx context.Context, username, id string) (*Player, error) {
	var p Player
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, identifier, first_seen, last_seen, banned
		FROM players WHERE username = ? AND id = ?`, username, id).
		Scan(&p.ID, &p.Name, &p.Identifier, &p.FirstSeen, &p.LastSeen, &p.Banned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if err := s.deleteByID(ctx, "players", username, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// RemovePlayerAt deletes the tracked player at the given position.
func (s *SQLiteStorage) RemovePlayerAt(ctx context.Context, username string, index int) (*Player, error) {
	id, err := s.idAtIndex(ctx, "players", username, index)
	if err != nil {
		return nil, err
	}
	return s.RemovePlayer(ctx, username, id)
}

// AddDetection appends a detection record.
func (s *SQLiteStorage) AddDetection(ctx context.Context, username string, d *Detection) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO detections (id, username, player_name, type, details, action, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, username, d.PlayerName, d.Type, d.Details, d.Action, d.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to add detection: %w", err)
	}
	return nil
}

// ListDetections returns a profile's detections in insertion order.
func (s *SQLiteStorage) ListDetections(ctx context.Context, username string) ([]*Detection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_name, type, details, action, timestamp
		FROM detections WHERE username = ? ORDER BY seq`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	detections := make([]*Detection, 0)
	for rows.Next() {
		var d Detection
		if err := rows.Scan(&d.ID, &d.PlayerName, &d.Type, &d.Details, &d.Action, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan detection row: %w", err)
		}
		detections = append(detections, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detections: %w", err)
	}
	return detections, nil
}

// idAtIndex resolves a positional index against the current insertion order.
// Returns ErrIndexOutOfRange when index is negative or >= length.
// Only called with compile-time table names.
func (s *SQLiteStorage) idAtIndex(ctx context.Context, table, username string, index int) (string, error) {
	if index < 0 {
		return "", ErrIndexOutOfRange
	}
	var id string
	query := fmt.Sprintf("SELECT id FROM %s WHERE username = ? ORDER BY seq LIMIT 1 OFFSET ?", table)
	err := s.db.QueryRowContext(ctx, query, username, index).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrIndexOutOfRange
		}
		return "", fmt.Errorf("failed to resolve index in %s: %w", table, err)
	}
	return id, nil
}

// deleteByID removes one entry by stable ID.
// Only called with compile-time table names.
func (s *SQLiteStorage) deleteByID(ctx context.Context, table, username, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE username = ? AND id = ?", table)
	res, err := s.db.ExecContext(ctx, query, username, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
