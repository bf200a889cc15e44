package slack

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromReader(t *testing.T) {
	t.Setenv(envBotToken, "xoxb-env")

	data := `
bot_token: "${SLACK_BOT_TOKEN}"
channel_id: "C0123456789"
timeout: "10s"
`
	cfg, err := LoadConfigFromReader(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "xoxb-env", cfg.BotToken)
	require.Equal(t, "C0123456789", cfg.ChannelID)
	require.Equal(t, defaultBaseURL, cfg.BaseURL)
	require.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envChannelID, "")

	_, err := LoadConfigFromReader(strings.NewReader("channel_id: C1\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bot_token")

	_, err = LoadConfigFromReader(strings.NewReader("bot_token: xoxb-1\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "channel_id")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv(envBotToken, "xoxb-override")
	t.Setenv(envChannelID, "C-override")
	t.Setenv(envBaseURL, "https://slack.example.com/api")

	cfg, err := LoadConfigFromReader(strings.NewReader("bot_token: file\nchannel_id: file\n"))
	require.NoError(t, err)
	require.Equal(t, "xoxb-override", cfg.BotToken)
	require.Equal(t, "C-override", cfg.ChannelID)
	require.Equal(t, "https://slack.example.com/api", cfg.BaseURL)
}
