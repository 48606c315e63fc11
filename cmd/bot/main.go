package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/app"
	"github.com/NataKl/weather-API/internal/config"
	"github.com/NataKl/weather-API/internal/logger"
)

// Exit codes: 1 for runtime failures, 2 when the process could not start.
const (
	exitRuntime = 1
	exitSetup   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "weather-bot: config: %v\n", err)
		return exitSetup
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "weather-bot: logger: %v\n", err)
		return exitSetup
	}
	defer func() { _ = log.Sync() }()

	log.Info("configuration loaded",
		zap.String("store_backend", cfg.StoreBackend),
		zap.Duration("notify_interval", cfg.NotifyInterval),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Bool("google_geocoder", cfg.GoogleGeocoderKey != ""),
	)

	bot, err := app.New(cfg, log)
	if err != nil {
		log.Error("bot init failed", zap.Error(err))
		return exitSetup
	}
	if err := bot.Run(context.Background()); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
		return exitRuntime
	}
	log.Info("bot stopped")
	return 0
}
