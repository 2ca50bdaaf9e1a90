package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorizer/internal/core"
	"memorizer/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "memorizer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestShiftRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateShift(ctx, core.Shift{
		WorkerName: "Я",
		Date:       core.NewDate(2024, 1, 1),
		StartTime:  core.MustClock("09:00"),
		EndTime:    core.MustClock("17:00"),
		Cost:       3000,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	list, err := repo.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Я", got.WorkerName)
	assert.Equal(t, "2024-01-01", got.Date.String())
	assert.Equal(t, "09:00", got.StartTime.String())
	assert.Equal(t, "17:00", got.EndTime.String())
	assert.Equal(t, core.Rubles(3000), got.Cost)
	assert.False(t, got.Paid)
}

func TestEmptyListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	shifts, err := repo.ListShifts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, shifts)
	assert.Empty(t, shifts)

	songs, err := repo.ListSongs(ctx)
	require.NoError(t, err)
	assert.NotNil(t, songs)
}

func TestDeleteSong(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	s, err := repo.CreateSong(ctx, core.Song{Title: "t", Artist: "a", AddedBy: "b", Cost: 1000})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSong(ctx, s.ID))
	assert.ErrorIs(t, repo.DeleteSong(ctx, s.ID), ledger.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteShift(ctx, 999), ledger.ErrNotFound)

	songs, err := repo.ListSongs(ctx)
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestCreateRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateShift(context.Background(), core.Shift{Date: core.NewDate(2024, 1, 1)})
	assert.ErrorIs(t, err, core.ErrEmptyWorkerName)
}

func TestEarningsAndPayout(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.CreateShift(ctx, core.Shift{
		WorkerName: "Я", Date: core.NewDate(2024, 3, 1),
		StartTime: core.MustClock("00:00"), EndTime: core.MustClock("23:59"), Cost: 4000,
	})
	require.NoError(t, err)
	_, err = repo.CreateSong(ctx, core.Song{Title: "t", Artist: "a", AddedBy: "b", Cost: 1000})
	require.NoError(t, err)

	stats, err := repo.Earnings(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.EarningsStats{LifetimeEarnings: 5000, CurrentBalance: 5000}, stats)

	res, err := repo.Payout(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.PayoutResult{Shifts: 1, Songs: 1, Amount: 5000}, res)

	stats, err = repo.Earnings(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.EarningsStats{LifetimeEarnings: 5000, CurrentBalance: 0}, stats)

	_, err = repo.CreateSong(ctx, core.Song{Title: "t2", Artist: "a", AddedBy: "b", Cost: 1000})
	require.NoError(t, err)
	stats, err = repo.Earnings(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.EarningsStats{LifetimeEarnings: 6000, CurrentBalance: 1000}, stats)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memorizer.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	require.NoError(t, RunMigrations(path))
}
