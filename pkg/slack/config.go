package slack

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "https://slack.com/api"
	defaultTimeout = 30 * time.Second

	envBotToken  = "SLACK_BOT_TOKEN"
	envChannelID = "SLACK_CHANNEL_ID"
	envBaseURL   = "SLACK_BASE_URL"
)

// Config holds the destination channel settings.
type Config struct {
	BaseURL   string `yaml:"base_url"`
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
	// Timeout bounds the posting call.
	Timeout time.Duration `yaml:"-"`

	timeoutRaw string
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open slack config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		BaseURL   string `yaml:"base_url"`
		BotToken  string `yaml:"bot_token"`
		ChannelID string `yaml:"channel_id"`
		Timeout   string `yaml:"timeout"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read slack config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal slack config: %w", err)
	}

	cfg := &Config{
		BaseURL:    raw.BaseURL,
		BotToken:   raw.BotToken,
		ChannelID:  raw.ChannelID,
		timeoutRaw: raw.Timeout,
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.parseTimeout(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required credentials are present. Both the bot token
// and the channel are fatal-at-startup requirements.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return errors.New("slack config: bot_token is required")
	}
	if strings.TrimSpace(c.ChannelID) == "" {
		return errors.New("slack config: channel_id is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("slack config: base_url is required")
	}
	if c.Timeout <= 0 {
		return errors.New("slack config: timeout must be positive")
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = defaultBaseURL
	}
}

func (c *Config) applyEnvOverrides() {
	c.BaseURL = expandAndOverride(c.BaseURL, envBaseURL)
	c.BotToken = expandAndOverride(c.BotToken, envBotToken)
	c.ChannelID = expandAndOverride(c.ChannelID, envChannelID)
	c.timeoutRaw = os.ExpandEnv(c.timeoutRaw)
}

func (c *Config) parseTimeout() error {
	if strings.TrimSpace(c.timeoutRaw) == "" {
		c.Timeout = defaultTimeout
		return nil
	}

	d, err := time.ParseDuration(c.timeoutRaw)
	if err != nil {
		return fmt.Errorf("slack config: invalid timeout %q: %w", c.timeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("slack config: timeout must be positive, got %s", d)
	}
	c.Timeout = d
	return nil
}

func expandAndOverride(current, envKey string) string {
	current = os.ExpandEnv(current)
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal
	}
	return current
}
