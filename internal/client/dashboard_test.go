package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorizer/internal/core"
	"memorizer/internal/view"
)

func TestDashboard_ShiftScenario(t *testing.T) {
	ctx := context.Background()
	d := NewDashboard(newAPI(t, view.LayoutMerged), view.LayoutMerged)

	page, err := d.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, page.Empty())
	assert.Equal(t, "0 ₽", page.Stats.Balance)

	created, page, err := d.AddShift(ctx, NewShift{
		WorkerName: core.DefaultWorkerName,
		Date:       core.NewDate(2024, 1, 1),
		StartTime:  core.MustClock("09:00"),
		EndTime:    core.MustClock("17:00"),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	item := page.Items[0]
	assert.Equal(t, created.ID, item.ID)
	assert.Equal(t, view.ShiftTitle, item.Title)
	assert.Equal(t, "2024-01-01 (Пн)", item.Subtitle)
	assert.Equal(t, "3000 ₽", item.Badge)
	assert.Equal(t, "3000 ₽", page.Stats.Lifetime)
	assert.Equal(t, "3000 ₽", page.Stats.Balance)
}

func TestDashboard_DeleteAndPayout(t *testing.T) {
	ctx := context.Background()
	d := NewDashboard(newAPI(t, view.LayoutSplit), view.LayoutSplit)

	_, _, err := d.AddShift(ctx, NewShift{
		WorkerName: "Я",
		Date:       core.NewDate(2024, 3, 2),
		StartTime:  core.MustClock("00:00"),
		EndTime:    core.MustClock("23:59"),
	})
	require.NoError(t, err)
	song, page, err := d.AddSong(ctx, NewSong{Title: "t", Artist: "a", AddedBy: "b"})
	require.NoError(t, err)
	require.Len(t, page.Shifts, 1)
	require.Len(t, page.Songs, 1)
	assert.Equal(t, "5000 ₽", page.Stats.Balance)

	page, err = d.Payout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5000 ₽", page.Stats.Lifetime)
	assert.Equal(t, "0 ₽", page.Stats.Balance)
	assert.True(t, page.Songs[0].Paid)

	page, err = d.Delete(ctx, core.KindSong, song.ID)
	require.NoError(t, err)
	assert.Empty(t, page.Songs)
	assert.Len(t, page.Shifts, 1)

	_, err = d.Delete(ctx, core.KindSong, song.ID)
	assert.True(t, IsNotFound(err))

	_, err = d.Delete(ctx, core.EntryKind("expense"), 1)
	assert.Error(t, err)

	stats, err := d.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5000 ₽", stats.Lifetime)
}

type fakeAPI struct {
	LedgerAPI
	shifts, songs, earnings atomic.Int32
	listErr                 error
	createErr               error
}

func (f *fakeAPI) ListShifts(context.Context) ([]core.Shift, error) {
	f.shifts.Add(1)
	return nil, f.listErr
}

func (f *fakeAPI) ListSongs(context.Context) ([]core.Song, error) {
	f.songs.Add(1)
	return nil, nil
}

func (f *fakeAPI) Earnings(context.Context) (core.EarningsStats, error) {
	f.earnings.Add(1)
	return core.EarningsStats{}, nil
}

func (f *fakeAPI) CreateSong(context.Context, NewSong) (core.Song, error) {
	return core.Song{}, f.createErr
}

func TestDashboard_RefreshLoadsEverything(t *testing.T) {
	f := &fakeAPI{}
	_, err := NewDashboard(f, view.LayoutMerged).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.shifts.Load())
	assert.Equal(t, int32(1), f.songs.Load())
	assert.Equal(t, int32(1), f.earnings.Load())
}

func TestDashboard_RefreshStopsOnListError(t *testing.T) {
	f := &fakeAPI{listErr: errors.New("boom")}
	_, err := NewDashboard(f, view.LayoutMerged).Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load entries")
	assert.Equal(t, int32(0), f.earnings.Load())
}

func TestDashboard_FailedMutationSkipsRefresh(t *testing.T) {
	f := &fakeAPI{createErr: errors.New("boom")}
	_, _, err := NewDashboard(f, view.LayoutMerged).AddSong(context.Background(), NewSong{})
	require.Error(t, err)
	assert.Equal(t, int32(0), f.shifts.Load())
	assert.Equal(t, int32(0), f.earnings.Load())
}
