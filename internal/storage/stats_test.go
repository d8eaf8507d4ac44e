package storage

import (
	"context"
	"testing"
	"time"
)

func TestGetStatsEmptyProfile(t *testing.T) {
	s := newTestStore(t)
	createTestProfile(t, s, "alice")

	st, err := s.GetStats(context.Background(), "alice", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if st.Players != 0 || st.Bans != 0 || st.Kicks != 0 || st.Admins != 0 {
		t.Errorf("expected zero counts, got %+v", st)
	}
	if st.DetectionsToday != 0 {
		t.Errorf("expected 0 detections today, got %d", st.DetectionsToday)
	}
	if len(st.DetectionsByType) != 0 {
		t.Errorf("expected empty type map, got %v", st.DetectionsByType)
	}
}

func TestGetStatsCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestProfile(t, s, "alice")

	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	for _, id := range []string{"steam:1", "steam:2"} {
		p := &Player{Name: "P" + id, Identifier: id, FirstSeen: now, LastSeen: now}
		if err := s.UpsertPlayer(ctx, "alice", p); err != nil {
			t.Fatalf("UpsertPlayer failed: %v", err)
		}
	}
	addTestBan(t, s, "alice", "Cheater")
	if err := s.AddKick(ctx, "alice", &Kick{PlayerName: "P1", Reason: "afk", KickedBy: "TAC", Timestamp: now}); err != nil {
		t.Fatalf("AddKick failed: %v", err)
	}
	if err := s.AddAdmin(ctx, "alice", &Admin{Name: "Mod", Identifier: "license:mod", Role: "moderator", AddedAt: now}); err != nil {
		t.Fatalf("AddAdmin failed: %v", err)
	}

	// Two detections today, one yesterday
	detections := []*Detection{
		{PlayerName: "P1", Type: "godmode", Details: "d", Action: "kick", Timestamp: now.Add(-2 * time.Hour)},
		{PlayerName: "P2", Type: "godmode", Details: "d", Action: "ban", Timestamp: now.Add(-time.Hour)},
		{PlayerName: "P1", Type: "speedhack", Details: "d", Action: "kick", Timestamp: now.Add(-26 * time.Hour)},
	}
	for _, d := range detections {
		if err := s.AddDetection(ctx, "alice", d); err != nil {
			t.Fatalf("AddDetection failed: %v", err)
		}
	}

	st, err := s.GetStats(ctx, "alice", now)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if st.Players != 2 {
		t.Errorf("expected 2 players, got %d", st.Players)
	}
	if st.Bans != 1 {
		t.Errorf("expected 1 ban, got %d", st.Bans)
	}
	if st.Kicks != 1 {
		t.Errorf("expected 1 kick, got %d", st.Kicks)
	}
	if st.Admins != 1 {
		t.Errorf("expected 1 admin, got %d", st.Admins)
	}
	if st.DetectionsToday != 2 {
		t.Errorf("expected 2 detections today, got %d", st.DetectionsToday)
	}
	if st.DetectionsByType["godmode"] != 2 || st.DetectionsByType["speedhack"] != 1 {
		t.Errorf("unexpected type counts: %v", st.DetectionsByType)
	}
}
