package notify

import "testing"

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		input     string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{
			input:     "https://discord.com/api/webhooks/123456789/abcDEF-token",
			wantID:    "123456789",
			wantToken: "abcDEF-token",
		},
		{
			input:     "https://discordapp.com/api/webhooks/42/tok",
			wantID:    "42",
			wantToken: "tok",
		},
		{
			input:   "https://discord.com/api/webhooks/123456789",
			wantErr: true, // missing token segment
		},
		{
			input:   "https://example.com/something/else",
			wantErr: true,
		},
		{
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		id, token, err := parseWebhookURL(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseWebhookURL(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseWebhookURL(%q) failed: %v", tt.input, err)
			continue
		}
		if id != tt.wantID || token != tt.wantToken {
			t.Errorf("parseWebhookURL(%q) = (%q, %q), want (%q, %q)",
				tt.input, id, token, tt.wantID, tt.wantToken)
		}
	}
}

func TestNewDiscord(t *testing.T) {
	d, err := NewDiscord(nil)
	if err != nil {
		t.Fatalf("NewDiscord failed: %v", err)
	}
	if d.session == nil {
		t.Error("expected a session")
	}
}
