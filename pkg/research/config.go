package research

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// API selects which provider endpoint the executor calls.
type API string

const (
	// APIResponses uses the responses endpoint with the hosted web search
	// tool. This is the default.
	APIResponses API = "responses"
	// APIChat uses a plain chat completion; the model answers from its own
	// knowledge unless structured output is requested.
	APIChat API = "chat"
)

const (
	defaultLookbackDays = 14
	defaultMaxItems     = 8

	envCity = "DEVBRIEF_CITY"
)

// Config controls what the executor researches and how.
type Config struct {
	// City is the display name used in prompts and in the posted digest,
	// e.g. "Lexington, Kentucky".
	City string `yaml:"city"`
	// LookbackDays is the size of the date window the provider is asked to
	// search.
	LookbackDays int `yaml:"lookback_days"`
	// MaxItems caps how many findings the provider is asked for. The cap is
	// instructed, not enforced.
	MaxItems int `yaml:"max_items"`
	API      API `yaml:"api"`
	// Structured requests schema-constrained output. Only valid with the
	// chat API; the responses path relies on the extractor instead.
	Structured bool `yaml:"structured"`
	// PromptTemplate optionally overrides the built-in prompt. Relative
	// paths resolve against the config file's directory.
	PromptTemplate string `yaml:"prompt_template"`
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open research config: %w", err)
	}
	defer file.Close()

	cfg, err := LoadConfigFromReader(file)
	if err != nil {
		return nil, err
	}
	if cfg.PromptTemplate != "" && !filepath.IsAbs(cfg.PromptTemplate) {
		cfg.PromptTemplate = filepath.Join(filepath.Dir(path), cfg.PromptTemplate)
	}
	return cfg, nil
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read research config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal research config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.City) == "" {
		return errors.New("research config: city is required")
	}
	if c.LookbackDays <= 0 {
		return errors.New("research config: lookback_days must be positive")
	}
	if c.MaxItems <= 0 {
		return errors.New("research config: max_items must be positive")
	}
	switch c.API {
	case APIResponses, APIChat:
	default:
		return fmt.Errorf("research config: unknown api %q", c.API)
	}
	if c.Structured && c.API != APIChat {
		return errors.New("research config: structured output requires the chat api")
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
	if c.LookbackDays == 0 {
		c.LookbackDays = defaultLookbackDays
	}
	if c.MaxItems == 0 {
		c.MaxItems = defaultMaxItems
	}
	if c.API == "" {
		c.API = APIResponses
	}
}

func (c *Config) applyEnvOverrides() {
	c.City = os.ExpandEnv(c.City)
	if city := os.Getenv(envCity); city != "" {
		c.City = city
	}
}
