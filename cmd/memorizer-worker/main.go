package main

import (
	"context"
	"errors"
	"os"

	"memorizer/internal/amqp"
	"memorizer/internal/cli"
	"memorizer/internal/config"
	applog "memorizer/internal/log"
	"memorizer/internal/sheets"
	gsheet "memorizer/internal/sheets/google"
	memsheet "memorizer/internal/sheets/memory"
	"memorizer/internal/worker"
)

func main() {
	envErr := cli.LoadEnvFile()

	cfg, err := cli.LoadConfig((*config.Config).ValidateWorker)
	if err != nil {
		logger := cli.SetupLogger("info", applog.ComponentWorker)
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentWorker)
	if envErr != nil {
		logger.Warn("Ignoring .env file", applog.FieldError, envErr)
	}
	logger.Info("Starting memorizer-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	var sheet sheets.LedgerAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		sheet = client
		logger.Info("Google Sheets export enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		sheet = memsheet.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, events are kept in memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(sheet)
	if err := amqpClient.ConsumeLedgerEvents(ctx, syncWorker.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
