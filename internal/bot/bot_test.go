package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"devbrief/pkg/llm"
	"devbrief/pkg/research"
	"devbrief/pkg/slack"
)

type postedMessage struct {
	Channel     string `json:"channel"`
	Text        string `json:"text"`
	UnfurlLinks bool   `json:"unfurl_links"`
}

// postRecorder collects chat.postMessage bodies; the handler runs on the
// server goroutine, so access is guarded.
type postRecorder struct {
	mu    sync.Mutex
	posts []postedMessage
}

func (r *postRecorder) add(msg postedMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, msg)
}

func (r *postRecorder) all() []postedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]postedMessage(nil), r.posts...)
}

// newProviderServer serves one recorded responses-endpoint payload from
// testdata for every request.
func newProviderServer(t *testing.T, fixture string) *httptest.Server {
	t.Helper()
	payload, err := os.ReadFile(filepath.Join("testdata", fixture))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/responses", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

// newSlackServer records every chat.postMessage body it receives.
func newSlackServer(t *testing.T, rec *postRecorder) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat.postMessage", r.URL.Path)
		require.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))

		var msg postedMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		rec.add(msg)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestBot(t *testing.T, provider, slackSrv *httptest.Server) *Bot {
	t.Helper()

	llmClient, err := llm.NewClient(&llm.Config{
		BaseURL:  provider.URL,
		APIKey:   "test-key",
		Model:    "gpt-4o",
		Timeout:  5 * time.Second,
		LogLevel: "error",
	}, llm.WithHTTPClient(provider.Client()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = llmClient.Close() })

	rc := &research.Config{
		City:         "Lexington",
		LookbackDays: 14,
		MaxItems:     8,
		API:          research.APIResponses,
	}
	executor, err := research.NewExecutor(rc, llmClient)
	require.NoError(t, err)

	poster, err := slack.NewClient(&slack.Config{
		BaseURL:   slackSrv.URL,
		BotToken:  "xoxb-test",
		ChannelID: "C0123456789",
		Timeout:   5 * time.Second,
	}, slack.WithHTTPClient(slackSrv.Client()), slack.WithLogger(llm.NewLogger("error")))
	require.NoError(t, err)

	return NewFromParts(rc, executor, poster)
}

func TestRunPostsTwoRecordDigest(t *testing.T) {
	rec := &postRecorder{}
	provider := newProviderServer(t, "provider_two_records.json")
	slackSrv := newSlackServer(t, rec)

	b := newTestBot(t, provider, slackSrv)
	require.NoError(t, b.Run(context.Background()))

	expected := ":construction: *Lexington Development Updates*\n\n" +
		"• *Midland Ave mixed-use project approved* — The planning commission approved a six-story mixed-use development on Midland Avenue.  <https://example.com/midland|Read more>\n" +
		"• *Town Branch trail extension funded* — City council allocated $4.2M to extend the Town Branch Commons trail.\n"

	posts := rec.all()
	require.Len(t, posts, 1)
	require.Equal(t, "C0123456789", posts[0].Channel)
	require.Equal(t, expected, posts[0].Text)
	require.False(t, posts[0].UnfurlLinks)
}

func TestRunPostsNoUpdatesMessage(t *testing.T) {
	rec := &postRecorder{}
	provider := newProviderServer(t, "provider_empty.json")
	slackSrv := newSlackServer(t, rec)

	b := newTestBot(t, provider, slackSrv)
	require.NoError(t, b.Run(context.Background()))

	posts := rec.all()
	require.Len(t, posts, 1)
	require.Equal(t,
		":no_entry_sign: No significant new development updates in Lexington in the past 14 days.",
		posts[0].Text)
}

func TestRunProviderFailureDoesNotPost(t *testing.T) {
	rec := &postRecorder{}
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(provider.Close)
	slackSrv := newSlackServer(t, rec)

	b := newTestBot(t, provider, slackSrv)
	err := b.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "fetch development updates")
	require.Empty(t, rec.all())
}

func TestRunPostingFailureSurfaces(t *testing.T) {
	provider := newProviderServer(t, "provider_empty.json")
	slackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	t.Cleanup(slackSrv.Close)

	llmClient, err := llm.NewClient(&llm.Config{
		BaseURL:  provider.URL,
		APIKey:   "test-key",
		Model:    "gpt-4o",
		Timeout:  5 * time.Second,
		LogLevel: "error",
	}, llm.WithHTTPClient(provider.Client()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = llmClient.Close() })

	rc := &research.Config{City: "Lexington", LookbackDays: 14, MaxItems: 8, API: research.APIResponses}
	executor, err := research.NewExecutor(rc, llmClient)
	require.NoError(t, err)

	poster, err := slack.NewClient(&slack.Config{
		BaseURL:   slackSrv.URL,
		BotToken:  "xoxb-test",
		ChannelID: "C0123456789",
		Timeout:   5 * time.Second,
	}, slack.WithHTTPClient(slackSrv.Client()), slack.WithLogger(llm.NewLogger("error")))
	require.NoError(t, err)

	b := NewFromParts(rc, executor, poster)
	err = b.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "post digest")
	require.Contains(t, err.Error(), "channel_not_found")
}

func TestRunEveryStopsOnCancel(t *testing.T) {
	rec := &postRecorder{}
	provider := newProviderServer(t, "provider_empty.json")
	slackSrv := newSlackServer(t, rec)

	b := newTestBot(t, provider, slackSrv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.RunEvery(ctx, 50*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return len(rec.all()) >= 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunEvery did not stop after cancellation")
	}
}

func TestRunEveryRejectsNonPositiveInterval(t *testing.T) {
	provider := newProviderServer(t, "provider_empty.json")
	slackSrv := newSlackServer(t, &postRecorder{})

	b := newTestBot(t, provider, slackSrv)
	err := b.RunEvery(context.Background(), 0)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "interval"))
}
