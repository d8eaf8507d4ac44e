package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestInitRegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Vec metrics only appear in gather output once they have samples
	RecordRequest("GET", "/api/profile", "200")
	RecordRequestDuration("GET", "/api/profile", "200", 0.01)
	RecordAuthFailure("no_session")
	RecordRegistration()
	RecordLogin()
	RecordIngestEvent("detection")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := make(map[string]bool)
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		"tac_panel_requests_total",
		"tac_panel_request_duration_seconds",
		"tac_panel_auth_failures_total",
		"tac_panel_registrations_total",
		"tac_panel_logins_total",
		"tac_panel_ingest_events_total",
	} {
		if !found[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestInitDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := Init(reg); err == nil {
		t.Error("expected error registering twice with the same registry")
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	RecordLogin()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "tac_panel_logins_total 1") {
		t.Errorf("expected login counter in output, got:\n%s", body)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/api/bans/550e8400-e29b-41d4-a716-446655440000", "/api/bans/:id"},
		{"/api/profile", "/api/profile"},
		{"/api/admins/550E8400-E29B-41D4-A716-446655440000", "/api/admins/:id"},
		{"/api/bans/not-a-uuid", "/api/bans/not-a-uuid"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.input); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
