package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// activityCap bounds the audit trail to the most recent entries.
const activityCap = 100

// AppendActivity records an activity entry for the profile and truncates the
// log to the 100 most recent entries, dropping the oldest.
func (s *SQLiteStorage) AppendActivity(ctx context.Context, username string, e *ActivityEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		"INSERT INTO activity_log (id, username, type, message, timestamp) VALUES (?, ?, ?, ?, ?)",
		e.ID, username, e.Type, e.Message, e.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}

	// Evict everything older than the newest activityCap entries.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM activity_log WHERE username = ? AND seq NOT IN (
			SELECT seq FROM activity_log WHERE username = ? ORDER BY seq DESC LIMIT ?
		)`, username, username, activityCap)
	if err != nil {
		return fmt.Errorf("failed to truncate activity log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activity: %w", err)
	}
	return nil
}

// ListActivity returns the newest entries first. A limit of 0 returns the
// whole (already capped) log.
func (s *SQLiteStorage) ListActivity(ctx context.Context, username string, limit int) ([]*ActivityEntry, error) {
	if limit <= 0 || limit > activityCap {
		limit = activityCap
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, message, timestamp FROM activity_log
		WHERE username = ? ORDER BY seq DESC LIMIT ?`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	entries := make([]*ActivityEntry, 0)
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Message, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity log: %w", err)
	}
	return entries, nil
}

// ClearActivity wipes the profile's entire activity log.
func (s *SQLiteStorage) ClearActivity(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM activity_log WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("failed to clear activity log: %w", err)
	}
	return nil
}
