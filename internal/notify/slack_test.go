package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSlackAPI struct {
	posts   []string
	postErr error
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	if m.postErr != nil {
		return "", "", m.postErr
	}
	m.posts = append(m.posts, channelID)
	return channelID, "ts", nil
}

func TestSlackNotifier_Notify(t *testing.T) {
	viper.Set("notifications.slack.events.on_failure", true)
	viper.Set("notifications.slack.events.on_start", false)
	defer viper.Reset()

	api := &mockSlackAPI{}
	n := &SlackNotifier{api: api, channel: "#cluster-ops"}

	t.Run("Enabled Event Posts", func(t *testing.T) {
		require.NoError(t, n.Notify(context.Background(), EventFailure, "bootstrap failed on execute-1"))
		assert.Equal(t, []string{"#cluster-ops"}, api.posts)
	})

	t.Run("Disabled Event Is Silent", func(t *testing.T) {
		require.NoError(t, n.Notify(context.Background(), EventStart, "starting"))
		assert.Len(t, api.posts, 1, "no new post for a disabled event")
	})

	t.Run("API Error Is Wrapped", func(t *testing.T) {
		bad := &SlackNotifier{api: &mockSlackAPI{postErr: errors.New("channel_not_found")}, channel: "#x"}
		err := bad.Notify(context.Background(), EventFailure, "msg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "slack notification failed")
	})
}

func TestNewSlackNotifier_Gating(t *testing.T) {
	defer viper.Reset()

	t.Run("Disabled In Config", func(t *testing.T) {
		viper.Set("notifications.slack.enabled", false)
		assert.Nil(t, NewSlackNotifier())
	})

	t.Run("Missing Token", func(t *testing.T) {
		viper.Set("notifications.slack.enabled", true)
		t.Setenv("SLACK_BOT_USER_TOKEN", "")
		assert.Nil(t, NewSlackNotifier())
	})

	t.Run("Enabled With Token", func(t *testing.T) {
		viper.Set("notifications.slack.enabled", true)
		viper.Set("notifications.slack.channel", "#cluster-ops")
		t.Setenv("SLACK_BOT_USER_TOKEN", "xoxb-test")
		n := NewSlackNotifier()
		require.NotNil(t, n)
		assert.Equal(t, "#cluster-ops", n.channel)
	})
}
