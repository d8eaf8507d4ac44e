// Package notify delivers moderation events to Discord webhooks.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kiwimenu123/TACAC/internal/account"
)

// botName is the webhook display name, matching the generated config's
// Config.Discord.BotName.
const botName = "TAC Anticheat"

// Discord posts events to per-profile webhook URLs. Webhook execution needs
// no bot token; the URL itself carries the credentials.
type Discord struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// NewDiscord creates a webhook notifier.
func NewDiscord(logger *slog.Logger) (*Discord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	// Tokenless session: only webhook endpoints are used.
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &Discord{session: session, logger: logger}, nil
}

// Send posts the event as an embed to the webhook URL.
func (d *Discord) Send(ctx context.Context, webhookURL string, ev account.Event) error {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return err
	}

	params := &discordgo.WebhookParams{
		Username: botName,
		Embeds: []*discordgo.MessageEmbed{{
			Title:       ev.Title,
			Description: ev.Description,
			Color:       ev.Color,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	}

	_, err = d.session.WebhookExecute(id, token, false, params, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to execute webhook: %w", err)
	}

	d.logger.Debug("webhook delivered", "title", ev.Title)
	return nil
}

// parseWebhookURL extracts the webhook ID and token from a Discord webhook
// URL of the form https://discord.com/api/webhooks/<id>/<token>.
func parseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid webhook URL: %w", err)
	}

	// Expect a path of the form .../webhooks/<id>/<token>
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "webhooks" && i+2 < len(parts) {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("invalid webhook URL: %q", raw)
}
