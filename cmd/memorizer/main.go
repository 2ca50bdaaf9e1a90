package main

import (
	"context"
	"os"
	"time"

	"memorizer/internal/backend"
	"memorizer/internal/cli"
	"memorizer/internal/config"
	apphttp "memorizer/internal/http"
	applog "memorizer/internal/log"
	"memorizer/internal/view"
)

func main() {
	envErr := cli.LoadEnvFile()

	cfg, err := cli.LoadConfig((*config.Config).Validate)
	if err != nil {
		logger := cli.SetupLogger("info", applog.ComponentApp)
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentApp)
	if envErr != nil {
		logger.Warn("Ignoring .env file", applog.FieldError, envErr)
	}
	logger.Info("Starting memorizer",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"layout", cfg.UILayout,
		"ledger_events", cfg.AMQPURL != "")

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentStorage).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		Layout:             view.ParseLayout(cfg.UILayout),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              res.Ready,
		Logger:             logger,
	}, res.Service)
	if err != nil {
		logger.Error("Failed to build HTTP server", applog.FieldError, err)
		os.Exit(1)
	}

	if err := cli.RunServer(ctx, &srv.Server, srv.Shutdown, 10*time.Second, logger); err != nil {
		logger.Error("HTTP server failed", applog.FieldError, err)
		os.Exit(1)
	}
}
