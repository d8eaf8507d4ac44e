// Package logging provides utilities for secure logging with data masking.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the process logger with the given level. The level var is
// returned so the HTTP layer can change it at runtime.
func Setup(level string) (*slog.Logger, *slog.LevelVar) {
	levelVar := new(slog.LevelVar)
	switch level {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelVar})
	return slog.New(handler), levelVar
}

// MaskSecret redacts a secret value for logging, keeping the last 4 chars
// for correlation (e.g. "****ab3f"). Values shorter than 4 chars are fully
// redacted.
func MaskSecret(value string) string {
	if len(value) < 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}

// MaskWebhookURL redacts the token segment of a Discord webhook URL so the
// webhook ID stays loggable without leaking the credential.
//
// https://discord.com/api/webhooks/123/secret -> https://discord.com/api/webhooks/123/[REDACTED]
func MaskWebhookURL(raw string) string {
	idx := strings.Index(raw, "/webhooks/")
	if idx == -1 {
		return raw
	}
	rest := raw[idx+len("/webhooks/"):]
	slash := strings.Index(rest, "/")
	if slash == -1 {
		return raw
	}
	return raw[:idx+len("/webhooks/")] + rest[:slash] + "/[REDACTED]"
}

// MaskField redacts form/JSON field values based on field name.
// Password and token fields are fully redacted; everything else passes
// through unchanged.
func MaskField(name, value string) string {
	lowerName := strings.ToLower(name)
	if strings.Contains(lowerName, "password") ||
		strings.Contains(lowerName, "secret") ||
		strings.Contains(lowerName, "token") {
		return "[REDACTED]"
	}
	return value
}
