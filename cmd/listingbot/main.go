package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvartirka/listingbot/bot"
	"github.com/kvartirka/listingbot/core/buildinfo"
	coreconfig "github.com/kvartirka/listingbot/core/config"
	"github.com/kvartirka/listingbot/core/logger"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("listingbot: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml (default $CONFIG_PATH)")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := coreconfig.Load(path)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	startedAt := time.Now()
	logger.L.With("component", "app").Info("starting",
		slog.String("event", "start"),
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
		slog.String("config", path),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := bot.NewApp(cfg)
	err = app.Run(ctx)

	logger.L.With("component", "app").Info("stopped",
		slog.String("event", "shutdown"),
		slog.Duration("uptime", logger.RoundMS(time.Since(startedAt))),
	)
	return err
}
