// Package bot wires the research executor to the Slack poster and drives a
// run: fetch updates, format the digest, post it.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"devbrief/internal/config"
	"devbrief/pkg/llm"
	"devbrief/pkg/research"
	"devbrief/pkg/slack"
)

// Fetcher produces the update list for one run.
type Fetcher interface {
	Fetch(ctx context.Context) ([]research.Update, error)
}

// Poster delivers the formatted digest.
type Poster interface {
	PostMessage(ctx context.Context, text string) error
}

// Bot runs the digest pipeline. Construct with New from an app config, or
// with NewFromParts when the pieces are built elsewhere (tests, mostly).
type Bot struct {
	city         string
	lookbackDays int
	fetcher      Fetcher
	poster       Poster

	llmClient *llm.Client
}

// New builds a fully wired bot from the hydrated app configuration.
func New(cfg *config.Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot: config cannot be nil")
	}
	if cfg.LLM.Value == nil || cfg.Research.Value == nil || cfg.Slack.Value == nil {
		return nil, errors.New("bot: llm, research and slack sections must all be configured")
	}

	llmClient, err := llm.NewClient(cfg.LLM.Value)
	if err != nil {
		return nil, fmt.Errorf("bot: initialise llm client: %w", err)
	}

	executor, err := research.NewExecutor(cfg.Research.Value, llmClient)
	if err != nil {
		_ = llmClient.Close()
		return nil, fmt.Errorf("bot: initialise research executor: %w", err)
	}

	poster, err := slack.NewClient(cfg.Slack.Value)
	if err != nil {
		_ = llmClient.Close()
		return nil, fmt.Errorf("bot: initialise slack client: %w", err)
	}

	b := NewFromParts(cfg.Research.Value, executor, poster)
	b.llmClient = llmClient
	return b, nil
}

// NewFromParts assembles a bot from pre-built components.
func NewFromParts(rc *research.Config, fetcher Fetcher, poster Poster) *Bot {
	return &Bot{
		city:         rc.City,
		lookbackDays: rc.LookbackDays,
		fetcher:      fetcher,
		poster:       poster,
	}
}

// Run executes one fetch-format-post cycle. A provider failure aborts before
// anything is posted; an unparseable answer still posts the no-updates
// message.
func (b *Bot) Run(ctx context.Context) error {
	logx.Infof("searching for %s development news (past %d days)", b.city, b.lookbackDays)

	updates, err := b.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch development updates: %w", err)
	}
	logx.Infof("found %d development updates", len(updates))

	message := slack.FormatUpdates(b.city, b.lookbackDays, updates)
	if err := b.poster.PostMessage(ctx, message); err != nil {
		return fmt.Errorf("post digest: %w", err)
	}

	logx.Info("digest posted")
	return nil
}

// RunEvery runs immediately, then on every tick until the context is
// cancelled. Individual run failures are logged and do not stop the schedule.
func (b *Bot) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("bot: interval must be positive")
	}

	if err := b.Run(ctx); err != nil {
		logx.Errorf("run failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logx.Info("stopping scheduled runs")
			return nil
		case <-ticker.C:
			if err := b.Run(ctx); err != nil {
				logx.Errorf("run failed: %v", err)
			}
		}
	}
}

// Close releases resources owned by the bot.
func (b *Bot) Close() error {
	if b.llmClient != nil {
		return b.llmClient.Close()
	}
	return nil
}
