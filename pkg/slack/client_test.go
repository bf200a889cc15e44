package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testSlackConfig(baseURL string) *Config {
	return &Config{
		BaseURL:   baseURL,
		BotToken:  "xoxb-test",
		ChannelID: "C0123456789",
		Timeout:   5 * time.Second,
	}
}

func TestPostMessage(t *testing.T) {
	var (
		auth     string
		path     string
		captured map[string]any
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C0123456789","ts":"1755907200.000100"}`))
	}))
	defer server.Close()

	client, err := NewClient(testSlackConfig(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	err = client.PostMessage(context.Background(), "hello channel")
	require.NoError(t, err)

	require.Equal(t, "Bearer xoxb-test", auth)
	require.Equal(t, "/chat.postMessage", path)
	require.Equal(t, "C0123456789", captured["channel"])
	require.Equal(t, "hello channel", captured["text"])
	unfurl, present := captured["unfurl_links"]
	require.True(t, present, "unfurl_links must be sent explicitly")
	require.Equal(t, false, unfurl)
}

func TestPostMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer server.Close()

	client, err := NewClient(testSlackConfig(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	err = client.PostMessage(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "channel_not_found")
}

func TestPostMessageHTTPError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(testSlackConfig(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	err = client.PostMessage(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "http 502")
	// Posting is single-shot: no retry on failure.
	require.Equal(t, 1, calls)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(nil)
	require.Error(t, err)

	cfg := testSlackConfig("https://slack.com/api")
	cfg.BotToken = ""
	_, err = NewClient(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bot_token")

	cfg = testSlackConfig("https://slack.com/api")
	cfg.ChannelID = " "
	_, err = NewClient(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "channel_id")
}
