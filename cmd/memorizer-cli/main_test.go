package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorizer/internal/config"
	apphttp "memorizer/internal/http"
	"memorizer/internal/ledger/memory"
	applog "memorizer/internal/log"
	"memorizer/internal/services"
	"memorizer/internal/view"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	srv, err := apphttp.NewServer(apphttp.Config{
		Logger: applog.New(applog.Config{Output: io.Discard}),
	}, services.NewLedgerService(memory.New(), nil))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return &config.Config{
		APIBaseURL:    ts.URL,
		UILayout:      config.LayoutMerged,
		ClientTimeout: 5 * time.Second,
	}
}

func runCLI(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, cfg, strings.NewReader(stdin), &out)
	return out.String(), err
}

// flat collapses tabwriter padding.
func flat(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestRun_ShiftAndSongLifecycle(t *testing.T) {
	cfg := newTestConfig(t)

	out, err := runCLI(t, cfg, "", "add-shift", "-date", "2024-02-02")
	require.NoError(t, err)
	assert.Contains(t, out, "Смена добавлена: #1 2024-02-02 4000 ₽")
	assert.Contains(t, out, "(Пт)")

	out, err = runCLI(t, cfg, "", "add-song", "-date", "2024-02-02", "-by", "Оля")
	require.NoError(t, err)
	assert.Contains(t, out, "Песня добавлена: #2 Песня (2024-02-02) 1000 ₽")

	out, err = runCLI(t, cfg, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Всего заработано: 5000 ₽")
	assert.Contains(t, out, "Текущий баланс: 5000 ₽")

	out, err = runCLI(t, cfg, "нет\n", "delete-song", "2")
	require.NoError(t, err)
	assert.Contains(t, out, view.ConfirmDeleteSong)
	assert.Contains(t, out, "Отменено")

	out, err = runCLI(t, cfg, "y\n", "delete-song", "2")
	require.NoError(t, err)
	assert.Contains(t, flat(out), "Текущий баланс: 4000 ₽")

	out, err = runCLI(t, cfg, "", "-yes", "payout")
	require.NoError(t, err)
	assert.Contains(t, out, view.PayoutMessage)
	assert.Contains(t, flat(out), "Текущий баланс: 0 ₽")
	assert.Contains(t, out, "✓")

	out, err = runCLI(t, cfg, "", "-layout", "split", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Смены")
	assert.Contains(t, out, "Песни")
}

func TestRun_Errors(t *testing.T) {
	cfg := newTestConfig(t)

	_, err := runCLI(t, cfg, "")
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, cfg, "", "dance")
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, cfg, "", "delete-shift")
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, cfg, "", "-yes", "delete-shift", "abc")
	assert.ErrorContains(t, err, "invalid id")

	_, err = runCLI(t, cfg, "", "-yes", "delete-shift", "42")
	assert.ErrorContains(t, err, "entry not found")

	_, err = runCLI(t, cfg, "", "add-shift", "-date", "02.02.2024")
	assert.ErrorContains(t, err, "date")

	_, err = runCLI(t, cfg, "", "-api", "ftp://example.com", "list")
	assert.ErrorContains(t, err, "invalid API base URL")
}

func TestReportEnvError(t *testing.T) {
	var buf bytes.Buffer
	reportEnvError(&buf, nil)
	assert.Empty(t, buf.String())

	reportEnvError(&buf, errors.New("load .env: unexpected character"))
	assert.Equal(t, "warning: ignoring .env: load .env: unexpected character\n", buf.String())
}

func TestRun_EmptyList(t *testing.T) {
	out, err := runCLI(t, newTestConfig(t), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Записей нет")
	assert.Contains(t, out, "Всего заработано:")
}
