package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"devbrief/pkg/llm"
)

// Client posts messages to one Slack channel via chat.postMessage. Each post
// is attempted exactly once; a failed post fails the run.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	logger     llm.Logger
}

// ClientOption configures optional client behaviour.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger injects a custom logger implementation.
func WithLogger(logger llm.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs a posting client for the configured channel.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("slack: config cannot be nil")
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if c.logger == nil {
		c.logger = llm.NewLogger("info")
	}
	return c, nil
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	// Link previews are noise in a digest channel.
	UnfurlLinks bool `json:"unfurl_links"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage sends text to the configured channel.
func (c *Client) PostMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(postMessageRequest{
		Channel:     c.cfg.ChannelID,
		Text:        text,
		UnfurlLinks: false,
	})
	if err != nil {
		return fmt.Errorf("slack: encode message: %w", err)
	}

	url := c.cfg.BaseURL + "/chat.postMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("slack: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BotToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("slack: read response: %w", err)
	}
	var ack apiResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("slack: decode response: %w", err)
	}
	if !ack.OK {
		if ack.Error == "" {
			ack.Error = "unknown error"
		}
		return fmt.Errorf("slack: api error: %s", ack.Error)
	}

	c.logger.Info(ctx, "slack message posted", llm.Fields{
		"channel": c.cfg.ChannelID,
		"bytes":   len(text),
	})
	return nil
}
