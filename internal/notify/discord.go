package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var ErrInvalidWebhook = errors.New("notify: invalid discord webhook url")

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts messages to a channel webhook.
type Discord struct {
	session  webhookExecutor
	id       string
	token    string
	username string
}

// NewDiscord parses a webhook URL of the form
// https://discord.com/api/webhooks/<id>/<token>.
func NewDiscord(webhookURL string) (*Discord, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	return &Discord{session: session, id: id, token: token, username: "tasktimer"}, nil
}

func (d *Discord) Notify(ctx context.Context, msg Message) error {
	content := msg.Text()
	if msg.Level == LevelError {
		content = "**" + content + "**"
	}
	_, err := d.session.WebhookExecute(d.id, d.token, false, &discordgo.WebhookParams{
		Content:  content,
		Username: d.username,
	}, discordgo.WithContext(ctx))
	return err
}

func parseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "https" {
		return "", "", ErrInvalidWebhook
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// api/webhooks/<id>/<token>
	if len(parts) != 4 || parts[0] != "api" || parts[1] != "webhooks" || parts[2] == "" || parts[3] == "" {
		return "", "", ErrInvalidWebhook
	}
	return parts[2], parts[3], nil
}
