// Package cli holds the startup helpers shared by the memorizer binaries.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"memorizer/internal/config"
	applog "memorizer/internal/log"
)

// SetupLogger builds the process logger for component and installs it as the slog default.
// An unknown level falls back to info.
func SetupLogger(level, component string) *applog.Logger {
	lvl, _ := config.ParseLevel(level)
	logger := applog.New(applog.Config{
		Level:     lvl,
		Component: component,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is not an error.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadConfig parses the environment and applies validate (Validate, ValidateWorker, ...).
func LoadConfig(validate func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// RunServer serves until ctx is cancelled or the server fails, then shuts it down within timeout.
func RunServer(ctx context.Context, srv *http.Server, shutdown func(context.Context) error, timeout time.Duration, logger *applog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if shutdown == nil {
		shutdown = srv.Shutdown
	}
	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
