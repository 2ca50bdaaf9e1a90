package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorizer/internal/config"
	applog "memorizer/internal/log"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger("debug", applog.ComponentWorker)
	assert.Equal(t, applog.ComponentWorker, logger.Component())
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.Same(t, logger.Logger, slog.Default())

	fallback := SetupLogger("loud", applog.ComponentApp)
	assert.False(t, fallback.Enabled(context.Background(), slog.LevelDebug))
}

func TestLoadEnvFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	assert.NoError(t, LoadEnvFile(), "missing .env is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=value\n"), 0o600))
	err = LoadEnvFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load .env")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", config.BackendMemory)

	cfg, err := LoadConfig((*config.Config).Validate)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)

	t.Setenv("PORT", "nope")
	_, err = LoadConfig((*config.Config).Validate)
	assert.ErrorContains(t, err, "invalid port")

	cfg, err = LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "nope", cfg.Port)
}

func TestRunServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	logger := applog.New(applog.Config{Level: slog.LevelError})

	var shutdownCalled bool
	done := make(chan error, 1)
	go func() {
		done <- RunServer(ctx, srv, func(ctx context.Context) error {
			shutdownCalled = true
			return srv.Shutdown(ctx)
		}, time.Second, logger)
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, shutdownCalled)
	case <-time.After(5 * time.Second):
		t.Fatal("RunServer did not return")
	}
}

func TestRunServer_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}
	logger := applog.New(applog.Config{Level: slog.LevelError})

	err := RunServer(context.Background(), srv, nil, time.Second, logger)
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
	assert.Contains(t, err.Error(), "listen")
}
