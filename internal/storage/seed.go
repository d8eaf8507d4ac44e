package storage

import (
	"context"
	"time"
)

// SeedDemoData populates a profile with sample players and detections.
// Used by dev setups and tests that want a non-empty dashboard.
func (s *SQLiteStorage) SeedDemoData(ctx context.Context, username string) error {
	now := time.Now().UTC()

	players := []*Player{
		{Name: "Player1", Identifier: "license:abc123def456", FirstSeen: now.Add(-7 * 24 * time.Hour), LastSeen: now, Banned: false},
		{Name: "Cheater_Guy", Identifier: "steam:110000112345678", FirstSeen: now.Add(-3 * 24 * time.Hour), LastSeen: now.Add(-24 * time.Hour), Banned: true},
		{Name: "NewPlayer", Identifier: "license:xyz789ghi012", FirstSeen: now, LastSeen: now, Banned: false},
	}
	for _, p := range players {
		if err := s.UpsertPlayer(ctx, username, p); err != nil {
			return err
		}
	}

	detections := []*Detection{
		{PlayerName: "Cheater_Guy", Type: "godmode", Details: "Health never decreased after 50 damage", Action: "ban", Timestamp: now.Add(-24 * time.Hour)},
		{PlayerName: "SuspiciousPlayer", Type: "speedhack", Details: "Velocity exceeded 45 m/s on foot", Action: "kick", Timestamp: now.Add(-time.Hour)},
	}
	for _, d := range detections {
		if err := s.AddDetection(ctx, username, d); err != nil {
			return err
		}
	}

	return nil
}
