package storage

import (
	"context"
	"fmt"
	"time"
)

// GetStats aggregates the dashboard overview counters for a profile.
// DetectionsToday counts detections whose timestamp falls on the given day
// (the caller passes its notion of "now", typically time.Now().UTC()).
func (s *SQLiteStorage) GetStats(ctx context.Context, username string, now time.Time) (*Stats, error) {
	st := &Stats{DetectionsByType: make(map[string]int)}

	counts := []struct {
		table string
		dst   *int
	}{
		{"players", &st.Players},
		{"bans", &st.Bans},
		{"kicks", &st.Kicks},
		{"admins", &st.Admins},
	}
	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE username = ?", c.table)
		if err := s.db.QueryRowContext(ctx, query, username).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM detections WHERE username = ? AND timestamp >= ? AND timestamp < ?",
		username, dayStart, dayEnd).Scan(&st.DetectionsToday)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's detections: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT type, COUNT(*) FROM detections WHERE username = ? GROUP BY type", username)
	if err != nil {
		return nil, fmt.Errorf("failed to count detections by type: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("failed to scan detection count: %w", err)
		}
		st.DetectionsByType[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detection counts: %w", err)
	}

	return st, nil
}
