package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"devbrief/internal/config"
	"devbrief/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		sectionLine("LLM config", cfg.LLM),
		sectionLine("Research config", cfg.Research),
		sectionLine("Slack config", cfg.Slack),
	}

	if cfg.Research.Value != nil {
		lines = append(lines,
			fmt.Sprintf("City: %s", cfg.Research.Value.City),
			fmt.Sprintf("Lookback: %d days", cfg.Research.Value.LookbackDays),
			fmt.Sprintf("Provider API: %s", cfg.Research.Value.API),
		)
	}
	if cfg.Slack.Value != nil {
		lines = append(lines, fmt.Sprintf("Slack channel: %s", cfg.Slack.Value.ChannelID))
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
