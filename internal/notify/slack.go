package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Event types gating individual notifications.
const (
	EventStart   = "on_start"
	EventSuccess = "on_success"
	EventFailure = "on_failure"
)

// Notifier delivers bootstrap lifecycle messages. Implementations are
// best-effort: a failed notification must never fail the bootstrap.
type Notifier interface {
	Notify(ctx context.Context, event, message string) error
}

// slackAPI is the slice of the slack client we use, split out so tests
// can stub it.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts bootstrap events to a channel.
type SlackNotifier struct {
	api     slackAPI
	channel string
}

// NewSlackNotifier builds a notifier from configuration and environment.
// It returns nil (no notifier) when slack is disabled or the bot token
// is missing, so callers can treat the nil case as "notifications off".
func NewSlackNotifier() *SlackNotifier {
	if !viper.GetBool("notifications.slack.enabled") {
		return nil
	}

	token := os.Getenv("SLACK_BOT_USER_TOKEN")
	if token == "" {
		slog.Warn("SLACK_BOT_USER_TOKEN not set, slack notifications disabled")
		return nil
	}

	return &SlackNotifier{
		api:     slack.New(token),
		channel: viper.GetString("notifications.slack.channel"),
	}
}

// Notify posts the message if the event is enabled in configuration.
func (s *SlackNotifier) Notify(ctx context.Context, event, message string) error {
	if !viper.GetBool("notifications.slack.events." + event) {
		return nil
	}

	_, _, err := s.api.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("slack notification failed: %w", err)
	}
	return nil
}
