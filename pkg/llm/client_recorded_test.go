package llm

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
)

// This test uses go-vcr to record/replay a real responses call with the web
// search tool. It skips by default if the cassette is absent and
// RECORD_CASSETTES != 1.
func TestRespond_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "responses_web_search.yaml")
	if _, err := os.Stat(cassette); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		err := os.MkdirAll(filepath.Dir(cassette), 0o755)
		assert.NoError(t, err, "mkdir cassettes dir should succeed")
	}

	r, err := recorder.New(cassette)
	assert.NoError(t, err, "recorder.New should not error")
	assert.NotNil(t, r, "recorder should not be nil")
	defer func() { _ = r.Stop() }()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = "recorded-key"
	}
	cfg := &Config{
		BaseURL:  "https://api.openai.com/v1",
		APIKey:   apiKey,
		Model:    "gpt-4o",
		Timeout:  60 * time.Second,
		LogLevel: "error",
	}

	client, err := NewClient(cfg, WithHTTPClient(&http.Client{Transport: r}))
	assert.NoError(t, err, "NewClient should not error")

	result, err := client.Respond(context.Background(), &ResponseRequest{
		Input: "List one recent real estate development headline as a JSON array.",
		Tools: []ResponseTool{WebSearchTool()},
	})
	assert.NoError(t, err, "Respond should not error")
	assert.NotNil(t, result, "result should not be nil")
	assert.NotEmpty(t, result.Text, "response text should not be empty")
}
