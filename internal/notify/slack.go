package notify

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/alnasr-it/helpdesk/internal/config"
)

// SlackSender posts messages to a fixed channel using a bot token.
type SlackSender struct {
	client    *slack.Client
	channelID string
}

// NewSlackSender builds a sender from configuration. Returns nil when the
// bot token or channel is absent; chat notifications are then skipped.
func NewSlackSender(cfg config.SlackConfig) *SlackSender {
	if !cfg.Enabled() {
		return nil
	}
	return &SlackSender{
		client:    slack.New(cfg.BotToken),
		channelID: cfg.ChannelID,
	}
}

// Send posts the message to the configured channel.
func (s *SlackSender) Send(ctx context.Context, message string) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channelID, slack.MsgOptionText(message, false))
	return err
}
