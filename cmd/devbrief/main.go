package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"

	"devbrief/internal/bot"
	"devbrief/internal/cli"
	"devbrief/internal/config"
)

var (
	configFile = flag.String("f", "etc/devbrief.yaml", "path to the app config file")
	cityFlag   = flag.String("city", "", "override the configured city")
	every      = flag.Duration("every", 0, "re-run interval; 0 runs once and exits")
)

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

func main() {
	flag.Parse()
	logx.MustSetup(logx.LogConf{})
	logx.DisableStat()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fatalf("load config: %v", err)
	}
	if city := strings.TrimSpace(*cityFlag); city != "" {
		cfg.Research.Value.City = city
	}
	cli.LogConfigSummary(cfg)

	b, err := bot.New(cfg)
	if err != nil {
		fatalf("initialise bot: %v", err)
	}
	defer func() {
		_ = b.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *every > 0 {
		logx.Infof("running on a %s schedule", *every)
		if err := b.RunEvery(ctx, *every); err != nil {
			fatalf("scheduled runs failed: %v", err)
		}
		return
	}

	if err := b.Run(ctx); err != nil {
		fatalf("run failed: %v", err)
	}
}
