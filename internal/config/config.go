package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"

	"devbrief/pkg/confkit"
	llmpkg "devbrief/pkg/llm"
	researchpkg "devbrief/pkg/research"
	slackpkg "devbrief/pkg/slack"
)

// Config is the top-level app configuration. Each component keeps its own
// config file; the app config just points at them. All credential checks run
// here, before any network activity.
type Config struct {
	// Env indicates the running environment: test | dev | prod.
	Env string `json:",default=prod"`

	LLM      confkit.Section[llmpkg.Config]      `json:",optional"`
	Research confkit.Section[researchpkg.Config] `json:",optional"`
	Slack    confkit.Section[slackpkg.Config]    `json:",optional"`

	mainPath string
	baseDir  string
}

// IsTestEnv reports whether the app runs in the test environment.
func (c *Config) IsTestEnv() bool {
	return c.Env == "test"
}

// MustLoad loads the configuration or panics.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads, hydrates and validates the app configuration.
func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the top-level settings and that every component section is
// wired. Section-level validation (credentials included) runs during
// hydration in each component's own loader.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "test", "dev", "prod":
	case "":
		c.Env = "prod"
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}

	if strings.TrimSpace(c.LLM.File) == "" {
		return errors.New("config: llm section is required")
	}
	if strings.TrimSpace(c.Research.File) == "" {
		return errors.New("config: research section is required")
	}
	if strings.TrimSpace(c.Slack.File) == "" {
		return errors.New("config: slack section is required")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	base := c.baseDir

	if err := c.LLM.Hydrate(base, llmpkg.LoadConfig); err != nil {
		return fmt.Errorf("load llm config: %w", err)
	}
	if err := c.Research.Hydrate(base, researchpkg.LoadConfig); err != nil {
		return fmt.Errorf("load research config: %w", err)
	}
	if err := c.Slack.Hydrate(base, slackpkg.LoadConfig); err != nil {
		return fmt.Errorf("load slack config: %w", err)
	}
	return nil
}

// MainPath returns the absolute path of the loaded app config file.
func (c *Config) MainPath() string {
	return c.mainPath
}

// BaseDir returns the directory containing the app config file.
func (c *Config) BaseDir() string {
	return c.baseDir
}
